package editor

import (
	"github.com/milk9111/isomapper/grid"
	"github.com/milk9111/isomapper/history"
)

// CellEvent reports the new state of one cell after an edit, undo or load.
type CellEvent struct {
	Layer grid.Layer
	Col   int
	Row   int
	// Present is false when an object was removed. Ground cells are always
	// present.
	Present bool
	State   grid.CellState
	// Placement is set for objects whose frame size is known.
	Placement *Placement
}

// HistoryEvent is sent whenever the undo stacks change.
type HistoryEvent struct {
	Last    history.Entry
	CanUndo bool
	CanRedo bool
	Past    int
	Future  int
}

// OnCell registers fn to receive cell changes. Handlers run after the engine
// has released its lock, so they may call back into the engine.
func (e *Engine) OnCell(fn func(CellEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cellSubs = append(e.cellSubs, fn)
}

// OnHistory registers fn to receive history changes.
func (e *Engine) OnHistory(fn func(HistoryEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.historySubs = append(e.historySubs, fn)
}

func (e *Engine) emitCell(layer grid.Layer, col, row int) {
	if len(e.cellSubs) == 0 {
		return
	}
	state, ok, _ := e.store.Get(layer, col, row)
	ev := CellEvent{Layer: layer, Col: col, Row: row, Present: ok, State: state}
	if layer == grid.Objects && ok && e.frames != nil {
		if w, h, found := e.frames.FrameSize(grid.Objects, state.Frame); found {
			p := ObjectPlacement(e.proj, col, row, w, h)
			ev.Placement = &p
		}
	}
	e.pending = append(e.pending, ev)
}

func (e *Engine) emitHistory() {
	if len(e.historySubs) == 0 {
		return
	}
	past, future := e.history.Len()
	e.pending = append(e.pending, HistoryEvent{
		Last:    e.history.Last(),
		CanUndo: past > 0,
		CanRedo: future > 0,
		Past:    past,
		Future:  future,
	})
}

// unlockAndDispatch releases the engine lock and then delivers the events
// queued by the operation in order.
func (e *Engine) unlockAndDispatch() {
	pending := e.pending
	e.pending = nil
	cellSubs := e.cellSubs
	historySubs := e.historySubs
	e.mu.Unlock()

	for _, ev := range pending {
		switch ev := ev.(type) {
		case CellEvent:
			for _, fn := range cellSubs {
				fn(ev)
			}
		case HistoryEvent:
			for _, fn := range historySubs {
				fn(ev)
			}
		}
	}
}
