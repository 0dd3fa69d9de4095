// Package history keeps a linear undo/redo log of map edits.
package history

// Op says what last happened to the log.
type Op int

const (
	OpNone Op = iota
	OpAdd
	OpUndo
	OpRedo
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpUndo:
		return "undo"
	case OpRedo:
		return "redo"
	default:
		return "none"
	}
}

// Entry is the most recent operation on the log and the record it touched.
type Entry struct {
	Op     Op
	Record Record
}

// Manager is a two-stack history. Past holds applied records oldest first;
// future holds undone records with the next one to redo first.
type Manager struct {
	past   []Record
	future []Record
	last   Entry
	limit  int
}

// New returns an empty history. A positive limit caps the number of records
// kept in past; the oldest are dropped first.
func New(limit int) *Manager {
	if limit < 0 {
		limit = 0
	}
	return &Manager{limit: limit}
}

// Add records a freshly applied edit and discards the redo branch.
func (m *Manager) Add(r Record) {
	if r == nil {
		return
	}
	m.past = append(m.past, r)
	if m.limit > 0 && len(m.past) > m.limit {
		m.past = m.past[len(m.past)-m.limit:]
	}
	m.future = nil
	m.last = Entry{Op: OpAdd, Record: r}
}

// Undo pops the latest record and moves it onto future. It returns false
// when there is nothing to undo.
func (m *Manager) Undo() (Record, bool) {
	n := len(m.past)
	if n == 0 {
		return nil, false
	}
	r := m.past[n-1]
	m.past = m.past[:n-1]
	m.future = append([]Record{r}, m.future...)
	m.last = Entry{Op: OpUndo, Record: r}
	return r, true
}

// Redo takes the next undone record back onto past. It returns false when
// there is nothing to redo.
func (m *Manager) Redo() (Record, bool) {
	if len(m.future) == 0 {
		return nil, false
	}
	r := m.future[0]
	m.future = m.future[1:]
	m.past = append(m.past, r)
	m.last = Entry{Op: OpRedo, Record: r}
	return r, true
}

// RollbackTo undoes every record after past[index]. The returned records are
// in undo order (most recent first) and are already on future.
func (m *Manager) RollbackTo(index int) []Record {
	if index < 0 || index >= len(m.past) {
		return nil
	}
	undone := make([]Record, 0, len(m.past)-index-1)
	for i := len(m.past) - 1; i > index; i-- {
		undone = append(undone, m.past[i])
	}
	if len(undone) == 0 {
		return nil
	}
	// Same stack shape as repeated Undo calls: oldest undone record redoes first.
	future := make([]Record, 0, len(m.past)-index-1+len(m.future))
	future = append(future, m.past[index+1:]...)
	m.future = append(future, m.future...)
	m.past = m.past[:index+1]
	m.last = Entry{Op: OpUndo, Record: undone[0]}
	return undone
}

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.past = nil
	m.future = nil
	m.last = Entry{}
}

func (m *Manager) CanUndo() bool { return len(m.past) > 0 }
func (m *Manager) CanRedo() bool { return len(m.future) > 0 }

// Len returns the number of records in past and future.
func (m *Manager) Len() (past, future int) {
	return len(m.past), len(m.future)
}

// Past returns a copy of the applied records, oldest first.
func (m *Manager) Past() []Record {
	return append([]Record(nil), m.past...)
}

// Future returns a copy of the undone records, next redo first.
func (m *Manager) Future() []Record {
	return append([]Record(nil), m.future...)
}

// Last returns the most recent operation.
func (m *Manager) Last() Entry {
	return m.last
}
