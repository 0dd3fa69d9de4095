// Package grid holds the two fixed layers of an isometric map.
package grid

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOutOfBounds  = errors.New("grid: cell out of bounds")
	ErrUnknownLayer = errors.New("grid: unknown layer")
	ErrInvalidSize  = errors.New("grid: invalid size")
)

// MaxSize bounds the map dimension so a bad size fails instead of exhausting
// memory.
const MaxSize = 1024

// EmptyFrame is the frame held by ground cells that have nothing painted.
const EmptyFrame = "empty"

// Layer identifies one of the two map layers.
type Layer int

const (
	Ground Layer = iota
	Objects
)

func (l Layer) String() string {
	switch l {
	case Ground:
		return "ground"
	case Objects:
		return "objects"
	default:
		return "unknown"
	}
}

// CellState is the visual identity of a single cell.
type CellState struct {
	Frame   string
	Visible bool
	Alpha   float64
}

// Placeholder returns the state of an unpainted ground cell.
func Placeholder() CellState {
	return CellState{Frame: EmptyFrame}
}

// Base returns the base frame of the cell.
func (c CellState) Base() string {
	return BaseFrame(c.Frame)
}

// Shown reports whether the cell is drawn at all.
func (c CellState) Shown() bool {
	return c.Visible && c.Alpha > 0
}

// BaseFrame strips an animation sub-frame suffix ("<id>_<n>") from a frame name.
func BaseFrame(frame string) string {
	idx := strings.LastIndexByte(frame, '_')
	if idx <= 0 || idx == len(frame)-1 {
		return frame
	}
	for _, r := range frame[idx+1:] {
		if r < '0' || r > '9' {
			return frame
		}
	}
	return frame[:idx]
}

// Store is an N×N map with a dense ground layer and a sparse object layer.
type Store struct {
	size    int
	ground  [][]CellState
	objects [][]*CellState
}

// New creates a store whose ground is filled with placeholders and whose
// object layer is empty.
func New(size int) (*Store, error) {
	if size <= 0 || size > MaxSize {
		return nil, fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidSize, size, MaxSize)
	}
	s := &Store{
		size:    size,
		ground:  make([][]CellState, size),
		objects: make([][]*CellState, size),
	}
	for row := 0; row < size; row++ {
		s.ground[row] = make([]CellState, size)
		for col := range s.ground[row] {
			s.ground[row][col] = Placeholder()
		}
		s.objects[row] = make([]*CellState, size)
	}
	return s, nil
}

// MustNew is New for sizes known to be valid.
func MustNew(size int) *Store {
	s, err := New(size)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Store) Size() int {
	return s.size
}

// InBounds reports whether (col,row) is inside the map.
func (s *Store) InBounds(col, row int) bool {
	return col >= 0 && col < s.size && row >= 0 && row < s.size
}

func (s *Store) check(layer Layer, col, row int) error {
	if layer != Ground && layer != Objects {
		return fmt.Errorf("%w: %d", ErrUnknownLayer, int(layer))
	}
	if !s.InBounds(col, row) {
		return fmt.Errorf("%w: (%d,%d) on %s, size %d", ErrOutOfBounds, col, row, layer, s.size)
	}
	return nil
}

// Get returns the state at (col,row). The bool is false when the objects
// layer holds nothing there; ground cells are always present.
func (s *Store) Get(layer Layer, col, row int) (CellState, bool, error) {
	if err := s.check(layer, col, row); err != nil {
		return CellState{}, false, err
	}
	if layer == Ground {
		return s.ground[row][col], true, nil
	}
	obj := s.objects[row][col]
	if obj == nil {
		return CellState{}, false, nil
	}
	return *obj, true, nil
}

// Set overwrites the state at (col,row). Frames are not validated.
func (s *Store) Set(layer Layer, col, row int, state CellState) error {
	if err := s.check(layer, col, row); err != nil {
		return err
	}
	if layer == Ground {
		s.ground[row][col] = state
		return nil
	}
	st := state
	s.objects[row][col] = &st
	return nil
}

// Clear resets a ground cell to the placeholder or removes an object.
func (s *Store) Clear(layer Layer, col, row int) error {
	if err := s.check(layer, col, row); err != nil {
		return err
	}
	if layer == Ground {
		s.ground[row][col] = Placeholder()
		return nil
	}
	s.objects[row][col] = nil
	return nil
}

// Each calls fn for every present cell of layer in row-major order.
func (s *Store) Each(layer Layer, fn func(col, row int, state CellState)) {
	for row := 0; row < s.size; row++ {
		for col := 0; col < s.size; col++ {
			switch layer {
			case Ground:
				fn(col, row, s.ground[row][col])
			case Objects:
				if obj := s.objects[row][col]; obj != nil {
					fn(col, row, *obj)
				}
			}
		}
	}
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	c := MustNew(s.size)
	for row := 0; row < s.size; row++ {
		copy(c.ground[row], s.ground[row])
		for col, obj := range s.objects[row] {
			if obj != nil {
				st := *obj
				c.objects[row][col] = &st
			}
		}
	}
	return c
}

// Equal reports whether two stores hold identical cells.
func (s *Store) Equal(o *Store) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.size != o.size {
		return false
	}
	for row := 0; row < s.size; row++ {
		for col := 0; col < s.size; col++ {
			if s.ground[row][col] != o.ground[row][col] {
				return false
			}
			a, b := s.objects[row][col], o.objects[row][col]
			if (a == nil) != (b == nil) {
				return false
			}
			if a != nil && *a != *b {
				return false
			}
		}
	}
	return true
}
