package editor

import (
	"fmt"

	"github.com/milk9111/isomapper/grid"
	"github.com/milk9111/isomapper/history"
	"github.com/milk9111/isomapper/mapfile"
	log "github.com/sirupsen/logrus"
)

type direction int

const (
	backward direction = iota // undo: restore old values
	forward                   // redo: restore new values
)

// Undo reverts the most recent edit. It returns false when there is nothing
// to undo.
func (e *Engine) Undo() (history.Record, bool) {
	e.mu.Lock()
	r, ok := e.history.Undo()
	if ok {
		e.apply(r, backward)
		e.emitHistory()
	}
	e.unlockAndDispatch()
	return r, ok
}

// Redo reapplies the most recently undone edit.
func (e *Engine) Redo() (history.Record, bool) {
	e.mu.Lock()
	r, ok := e.history.Redo()
	if ok {
		e.apply(r, forward)
		e.emitHistory()
	}
	e.unlockAndDispatch()
	return r, ok
}

// RollbackTo undoes every edit newer than the one at index in the past
// stack. The undone edits stay redoable.
func (e *Engine) RollbackTo(index int) []history.Record {
	e.mu.Lock()
	undone := e.history.RollbackTo(index)
	for _, r := range undone {
		e.apply(r, backward)
	}
	if len(undone) > 0 {
		e.emitHistory()
	}
	e.unlockAndDispatch()
	return undone
}

// BatchUndo reverts records, given most recent first, without touching the
// history stacks. Every record is checked against the map first; if any
// falls outside it nothing is applied.
func (e *Engine) BatchUndo(records []history.Record) error {
	e.mu.Lock()
	for _, r := range records {
		if err := e.validate(r); err != nil {
			e.unlockAndDispatch()
			return err
		}
	}
	for _, r := range records {
		e.apply(r, backward)
	}
	e.unlockAndDispatch()
	return nil
}

// validate checks that every cell a record touches is on the map.
func (e *Engine) validate(r history.Record) error {
	check := func(col, row int) error {
		if !e.store.InBounds(col, row) {
			return fmt.Errorf("%w: record cell (%d,%d), size %d", grid.ErrOutOfBounds, col, row, e.store.Size())
		}
		return nil
	}
	switch r := r.(type) {
	case history.TileEdit:
		return check(r.Col, r.Row)
	case history.ObjectEdit:
		return check(r.Col, r.Row)
	case history.FillEdit:
		for _, c := range r.Changes {
			if err := check(c.Col, c.Row); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return fmt.Errorf("editor: nil record")
	default:
		return fmt.Errorf("editor: unknown record %T", r)
	}
}

// Document returns the map in its export form.
func (e *Engine) Document() *mapfile.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return mapfile.Serialize(e.store)
}

func (e *Engine) apply(r history.Record, dir direction) {
	switch r := r.(type) {
	case history.TileEdit:
		e.applyTile(r, dir)
	case history.FillEdit:
		for _, c := range r.Changes {
			e.applyTile(c, dir)
		}
	case history.ObjectEdit:
		frame := r.Old
		if dir == forward {
			frame = r.New
		}
		var err error
		if frame == "" {
			err = e.store.Clear(grid.Objects, r.Col, r.Row)
		} else {
			err = e.store.Set(grid.Objects, r.Col, r.Row, grid.CellState{Frame: frame, Visible: true, Alpha: 1})
		}
		if err != nil {
			log.WithField("record", r).Warnf("apply: %v", err)
			return
		}
		e.emitCell(grid.Objects, r.Col, r.Row)
	}
}

func (e *Engine) applyTile(r history.TileEdit, dir direction) {
	frame, alpha := r.Old, r.OldAlpha
	if dir == forward {
		frame, alpha = r.New, r.NewAlpha
	}
	var state grid.CellState
	if frame == "" {
		state = grid.Placeholder()
	} else {
		state = grid.CellState{Frame: frame, Visible: alpha > 0, Alpha: alpha}
	}
	if err := e.store.Set(grid.Ground, r.Col, r.Row, state); err != nil {
		log.WithField("record", r).Warnf("apply: %v", err)
		return
	}
	e.syncAnimation(r.Col, r.Row, state)
	e.emitCell(grid.Ground, r.Col, r.Row)
}
