package editor

import "github.com/milk9111/isomapper/history"

// stroke remembers the last cell a drag touched so the tool runs once per
// cell entered.
type stroke struct {
	down     bool
	hasLast  bool
	col, row int
}

// PointerDown starts a stroke and applies the tool at (col,row). Cells
// outside the map are ignored.
func (e *Engine) PointerDown(col, row int) (history.Record, error) {
	e.mu.Lock()
	e.stroke = stroke{down: true}
	r, err := e.strokeTo(col, row)
	e.commit(r)
	e.unlockAndDispatch()
	return r, err
}

// PointerMove applies the tool when the pointer enters a new cell during a
// stroke.
func (e *Engine) PointerMove(col, row int) (history.Record, error) {
	e.mu.Lock()
	if !e.stroke.down {
		e.unlockAndDispatch()
		return nil, nil
	}
	r, err := e.strokeTo(col, row)
	e.commit(r)
	e.unlockAndDispatch()
	return r, err
}

// PointerUp ends the stroke.
func (e *Engine) PointerUp() {
	e.mu.Lock()
	e.stroke = stroke{}
	e.mu.Unlock()
}

// Stroking reports whether a pointer stroke is in progress.
func (e *Engine) Stroking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stroke.down
}

func (e *Engine) strokeTo(col, row int) (history.Record, error) {
	if !e.store.InBounds(col, row) {
		e.stroke.hasLast = false
		return nil, nil
	}
	if e.stroke.hasLast && e.stroke.col == col && e.stroke.row == row {
		return nil, nil
	}
	e.stroke.hasLast = true
	e.stroke.col, e.stroke.row = col, row
	return e.applyTool(col, row)
}
