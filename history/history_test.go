package history

import (
	"reflect"
	"testing"
)

func tile(col int, newFrame string) TileEdit {
	return TileEdit{Col: col, Old: "empty", New: newFrame, NewAlpha: 1}
}

func TestUndoRedoOrder(t *testing.T) {
	m := New(0)
	a, b, c := tile(0, "a"), tile(1, "b"), tile(2, "c")
	m.Add(a)
	m.Add(b)
	m.Add(c)

	steps := []struct {
		name   string
		do     func() (Record, bool)
		want   Record
		past   int
		future int
	}{
		{"undo_c", m.Undo, c, 2, 1},
		{"undo_b", m.Undo, b, 1, 2},
		{"redo_b", m.Redo, b, 2, 1},
		{"redo_c", m.Redo, c, 3, 0},
	}
	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			got, ok := s.do()
			if !ok || !reflect.DeepEqual(got, s.want) {
				t.Fatalf("got %+v ok=%v, want %+v", got, ok, s.want)
			}
			p, f := m.Len()
			if p != s.past || f != s.future {
				t.Fatalf("stacks = (%d,%d), want (%d,%d)", p, f, s.past, s.future)
			}
		})
	}
}

func TestEmptyHistoryIsNothingToDo(t *testing.T) {
	m := New(0)
	if r, ok := m.Undo(); ok || r != nil {
		t.Fatalf("undo on empty history returned %v,%v", r, ok)
	}
	if r, ok := m.Redo(); ok || r != nil {
		t.Fatalf("redo on empty history returned %v,%v", r, ok)
	}
	if m.CanUndo() || m.CanRedo() {
		t.Fatalf("empty history should not allow undo or redo")
	}
	if m.Last().Op != OpNone {
		t.Fatalf("expected no last op, got %v", m.Last().Op)
	}
}

func TestAddDiscardsRedoBranch(t *testing.T) {
	m := New(0)
	m.Add(tile(0, "a"))
	m.Add(tile(1, "b"))
	m.Undo()
	if !m.CanRedo() {
		t.Fatalf("expected redo to be available")
	}
	m.Add(tile(2, "c"))
	if m.CanRedo() {
		t.Fatalf("new edit must clear future")
	}
	if _, ok := m.Redo(); ok {
		t.Fatalf("redo after branch discard must be a no-op")
	}
}

func TestLimitDropsOldest(t *testing.T) {
	m := New(2)
	m.Add(tile(0, "a"))
	m.Add(tile(1, "b"))
	m.Add(tile(2, "c"))
	past := m.Past()
	if len(past) != 2 {
		t.Fatalf("expected 2 records, got %d", len(past))
	}
	if past[0].(TileEdit).New != "b" || past[1].(TileEdit).New != "c" {
		t.Fatalf("unexpected past after limit: %+v", past)
	}
}

func TestRollbackTo(t *testing.T) {
	m := New(0)
	a, b, c, d := tile(0, "a"), tile(1, "b"), tile(2, "c"), tile(3, "d")
	for _, r := range []Record{a, b, c} {
		m.Add(r)
	}
	m.Add(d)
	m.Undo() // d on future

	undone := m.RollbackTo(0)
	if !reflect.DeepEqual(undone, []Record{c, b}) {
		t.Fatalf("expected [c b], got %+v", undone)
	}
	if !reflect.DeepEqual(m.Past(), []Record{a}) {
		t.Fatalf("expected past [a], got %+v", m.Past())
	}
	if !reflect.DeepEqual(m.Future(), []Record{b, c, d}) {
		t.Fatalf("expected future [b c d], got %+v", m.Future())
	}
	if last := m.Last(); last.Op != OpUndo || !reflect.DeepEqual(last.Record, c) {
		t.Fatalf("unexpected last entry %+v", last)
	}

	if got := m.RollbackTo(0); got != nil {
		t.Fatalf("rolling back to the current head should be a no-op, got %+v", got)
	}
	if got := m.RollbackTo(5); got != nil {
		t.Fatalf("out of range rollback should be a no-op, got %+v", got)
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		name string
		rec  Record
		want string
	}{
		{"nil", nil, "No actions yet"},
		{"place", TileEdit{Col: 1, Row: 2, Old: "empty", New: "200", NewAlpha: 1}, `Placed tile "200" at (1, 2)`},
		{"erase", TileEdit{Col: 1, Row: 2, Old: "200", New: "", OldAlpha: 1}, `Erased tile "200" at (1, 2)`},
		{"change", TileEdit{Col: 0, Row: 0, Old: "200", New: "300", OldAlpha: 1, NewAlpha: 1}, `Changed tile from "200" to "300" at (0, 0)`},
		{"alpha_only", TileEdit{Old: "200", New: "200", OldAlpha: 0.5, NewAlpha: 1}, "Placed tile at (0, 0)"},
		{"object", ObjectEdit{Col: 3, Row: 4, New: "101"}, `Placed object "101" at (3, 4)`},
		{"object_removed", ObjectEdit{Col: 3, Row: 4, Old: "101"}, `Removed object "101" at (3, 4)`},
		{"fill", FillEdit{Changes: make([]TileEdit, 3)}, "Used fill tool (3 tiles affected)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Describe(c.rec); got != c.want {
				t.Fatalf("got %q, want %q", got, c.want)
			}
		})
	}

	e := Entry{Op: OpUndo, Record: FillEdit{Changes: make([]TileEdit, 2)}}
	if got := e.String(); got != "Undid: Used fill tool (2 tiles affected)" {
		t.Fatalf("unexpected entry string %q", got)
	}
}
