// Package editor applies brush, eraser and bucket edits to a grid store and
// records them in an undo history.
package editor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/milk9111/isomapper/anim"
	"github.com/milk9111/isomapper/grid"
	"github.com/milk9111/isomapper/history"
	"github.com/milk9111/isomapper/iso"
	"github.com/milk9111/isomapper/tool"
	log "github.com/sirupsen/logrus"
)

// ErrInvalidToolForLayer is produced internally when a tool has no meaning on
// the active layer (bucket on objects). It is logged, never returned.
var ErrInvalidToolForLayer = errors.New("editor: tool not valid for layer")

// FrameSource reports the pixel size of a frame in the texture atlas.
type FrameSource interface {
	FrameSize(layer grid.Layer, frame string) (w, h int, ok bool)
}

// Animator plays looping ground tile animations.
type Animator interface {
	Play(col, row int, base string)
	Stop(col, row int)
}

type noAnimator struct{}

func (noAnimator) Play(int, int, string) {}
func (noAnimator) Stop(int, int)         {}

// Engine owns a grid store, its history and the current tool selection.
type Engine struct {
	mu sync.Mutex

	store    *grid.Store
	history  *history.Manager
	sel      *tool.State
	frames   FrameSource
	animator Animator
	proj     iso.Projector

	stroke stroke

	cellSubs    []func(CellEvent)
	historySubs []func(HistoryEvent)
	pending     []any
}

type Option func(*Engine)

func WithFrames(f FrameSource) Option {
	return func(e *Engine) { e.frames = f }
}

func WithAnimator(a Animator) Option {
	return func(e *Engine) {
		if a != nil {
			e.animator = a
		}
	}
}

func WithProjector(p iso.Projector) Option {
	return func(e *Engine) { e.proj = p }
}

// WithHistory replaces the default unbounded history.
func WithHistory(h *history.Manager) Option {
	return func(e *Engine) {
		if h != nil {
			e.history = h
		}
	}
}

// WithSelection shares a selection state with the caller (usually the UI).
func WithSelection(s *tool.State) Option {
	return func(e *Engine) {
		if s != nil {
			e.sel = s
		}
	}
}

// New creates an engine editing store.
func New(store *grid.Store, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		history:  history.New(0),
		sel:      tool.NewState(),
		animator: noAnimator{},
		proj:     iso.Default,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Selection returns the tool and brush state the engine reads on each edit.
func (e *Engine) Selection() *tool.State {
	return e.sel
}

func (e *Engine) Projector() iso.Projector {
	return e.proj
}

// Size returns the map dimension.
func (e *Engine) Size() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Size()
}

// Store returns a copy of the current map.
func (e *Engine) Store() *grid.Store {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Clone()
}

// Cell returns the state of a single cell.
func (e *Engine) Cell(layer grid.Layer, col, row int) (grid.CellState, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Get(layer, col, row)
}

func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// History returns the applied records (oldest first) and the undone records
// (next redo first).
func (e *Engine) History() (past, future []history.Record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Past(), e.history.Future()
}

// LastAction returns the most recent add, undo or redo.
func (e *Engine) LastAction() history.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Last()
}

// Load replaces the map and clears the history.
func (e *Engine) Load(store *grid.Store) error {
	if store == nil {
		return fmt.Errorf("%w: nil store", grid.ErrInvalidSize)
	}
	e.mu.Lock()
	prev := e.store
	prev.Each(grid.Ground, func(col, row int, _ grid.CellState) {
		e.animator.Stop(col, row)
	})
	e.store = store.Clone()
	e.history.Clear()
	e.stroke = stroke{}
	e.store.Each(grid.Ground, func(col, row int, state grid.CellState) {
		e.syncAnimation(col, row, state)
		e.emitCell(grid.Ground, col, row)
	})
	e.store.Each(grid.Objects, func(col, row int, _ grid.CellState) {
		e.emitCell(grid.Objects, col, row)
	})
	e.emitHistory()
	e.unlockAndDispatch()
	return nil
}

// Resync re-derives the animation of every ground cell, for use after the
// frame source has changed underneath the engine.
func (e *Engine) Resync() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Each(grid.Ground, func(col, row int, state grid.CellState) {
		e.syncAnimation(col, row, state)
	})
}

// PaintTile paints the selected tile at (col,row) on the ground layer.
func (e *Engine) PaintTile(col, row int) (history.Record, error) {
	e.mu.Lock()
	r, err := e.paintTile(col, row)
	e.commit(r)
	e.unlockAndDispatch()
	return r, err
}

// PaintObject places the selected object at (col,row).
func (e *Engine) PaintObject(col, row int) (history.Record, error) {
	e.mu.Lock()
	r, err := e.paintObject(col, row)
	e.commit(r)
	e.unlockAndDispatch()
	return r, err
}

// Erase clears (col,row) on the layer of the active tab.
func (e *Engine) Erase(col, row int) (history.Record, error) {
	e.mu.Lock()
	r, err := e.erase(col, row)
	e.commit(r)
	e.unlockAndDispatch()
	return r, err
}

// FloodFill fills the region connected to (col,row) with the selected tile.
func (e *Engine) FloodFill(col, row int) (history.Record, error) {
	e.mu.Lock()
	r, err := e.floodFill(col, row)
	e.commit(r)
	e.unlockAndDispatch()
	return r, err
}

// ApplyTool runs the current tool at (col,row).
func (e *Engine) ApplyTool(col, row int) (history.Record, error) {
	e.mu.Lock()
	r, err := e.applyTool(col, row)
	e.commit(r)
	e.unlockAndDispatch()
	return r, err
}

func (e *Engine) applyTool(col, row int) (history.Record, error) {
	sel := e.sel.Snapshot()
	switch sel.Tool {
	case tool.Brush:
		if sel.Tab == tool.Objects {
			return e.paintObject(col, row)
		}
		return e.paintTile(col, row)
	case tool.Eraser:
		return e.erase(col, row)
	case tool.Bucket:
		if sel.Tab == tool.Objects {
			log.WithFields(log.Fields{"tool": sel.Tool, "tab": sel.Tab, "col": col, "row": row}).Debug(ErrInvalidToolForLayer)
			return nil, nil
		}
		return e.floodFill(col, row)
	}
	return nil, nil
}

func (e *Engine) commit(r history.Record) {
	if r == nil {
		return
	}
	e.history.Add(r)
	e.emitHistory()
}

func (e *Engine) paintTile(col, row int) (history.Record, error) {
	if e.sel.Tab() != tool.Tiles || e.sel.Tile() == "" {
		return nil, nil
	}
	edit, changed, err := e.setTile(col, row, e.sel.Tile())
	if err != nil || !changed {
		return nil, err
	}
	return edit, nil
}

// setTile paints one ground cell and returns its diff. changed is false when
// the cell already shows the frame at full alpha.
func (e *Engine) setTile(col, row int, frame string) (history.TileEdit, bool, error) {
	cur, _, err := e.store.Get(grid.Ground, col, row)
	if err != nil {
		return history.TileEdit{}, false, err
	}
	if cur.Base() == grid.BaseFrame(frame) && cur.Alpha == 1 {
		return history.TileEdit{}, false, nil
	}
	edit := history.TileEdit{
		Col: col, Row: row,
		Old: cur.Frame, New: frame,
		OldAlpha: cur.Alpha, NewAlpha: 1,
	}
	state := grid.CellState{Frame: frame, Visible: true, Alpha: 1}
	if err := e.store.Set(grid.Ground, col, row, state); err != nil {
		return history.TileEdit{}, false, err
	}
	e.syncAnimation(col, row, state)
	e.emitCell(grid.Ground, col, row)
	return edit, true, nil
}

func (e *Engine) paintObject(col, row int) (history.Record, error) {
	if e.sel.Tab() != tool.Objects || e.sel.Object() == "" {
		return nil, nil
	}
	frame := e.sel.Object()
	cur, ok, err := e.store.Get(grid.Objects, col, row)
	if err != nil {
		return nil, err
	}
	old := ""
	if ok {
		if cur.Base() == grid.BaseFrame(frame) {
			return nil, nil
		}
		old = cur.Frame
	}
	if err := e.store.Set(grid.Objects, col, row, grid.CellState{Frame: frame, Visible: true, Alpha: 1}); err != nil {
		return nil, err
	}
	e.emitCell(grid.Objects, col, row)
	return history.ObjectEdit{Col: col, Row: row, Old: old, New: frame}, nil
}

func (e *Engine) erase(col, row int) (history.Record, error) {
	if e.sel.Tab() == tool.Objects {
		cur, ok, err := e.store.Get(grid.Objects, col, row)
		if err != nil || !ok {
			return nil, err
		}
		if err := e.store.Clear(grid.Objects, col, row); err != nil {
			return nil, err
		}
		e.emitCell(grid.Objects, col, row)
		return history.ObjectEdit{Col: col, Row: row, Old: cur.Frame}, nil
	}

	cur, _, err := e.store.Get(grid.Ground, col, row)
	if err != nil || !cur.Shown() {
		return nil, err
	}
	if err := e.store.Clear(grid.Ground, col, row); err != nil {
		return nil, err
	}
	e.animator.Stop(col, row)
	e.emitCell(grid.Ground, col, row)
	return history.TileEdit{Col: col, Row: row, Old: cur.Frame, OldAlpha: cur.Alpha}, nil
}

func (e *Engine) floodFill(col, row int) (history.Record, error) {
	if e.sel.Tab() != tool.Tiles || e.sel.Tile() == "" {
		return nil, nil
	}
	frame := e.sel.Tile()
	start, _, err := e.store.Get(grid.Ground, col, row)
	if err != nil {
		return nil, err
	}
	target := start.Base()
	if target == grid.BaseFrame(frame) {
		return nil, nil
	}

	size := e.store.Size()
	visited := make([]bool, size*size)
	stack := [][2]int{{col, row}}
	var changes []history.TileEdit
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := c[0], c[1]
		if !e.store.InBounds(x, y) || visited[y*size+x] {
			continue
		}
		visited[y*size+x] = true
		cur, _, _ := e.store.Get(grid.Ground, x, y)
		if cur.Base() != target {
			continue
		}
		edit, changed, err := e.setTile(x, y, frame)
		if err != nil {
			return nil, err
		}
		if changed {
			changes = append(changes, edit)
		}
		stack = append(stack, [2]int{x + 1, y}, [2]int{x - 1, y}, [2]int{x, y + 1}, [2]int{x, y - 1})
	}
	if len(changes) == 0 {
		return nil, nil
	}
	return history.FillEdit{Changes: changes}, nil
}

// syncAnimation starts or stops the animation of a ground cell depending on
// whether its frame is a horizontal strip.
func (e *Engine) syncAnimation(col, row int, state grid.CellState) {
	if !state.Shown() || e.frames == nil {
		e.animator.Stop(col, row)
		return
	}
	base := state.Base()
	w, _, ok := e.frames.FrameSize(grid.Ground, base)
	if ok && anim.IsAnimated(w, e.proj.TileWidth) {
		e.animator.Play(col, row, base)
		return
	}
	e.animator.Stop(col, row)
}
