package grid

import (
	"errors"
	"testing"
)

func TestNewStore(t *testing.T) {
	for _, size := range []int{0, -1, MaxSize + 1} {
		if _, err := New(size); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("New(%d): expected ErrInvalidSize, got %v", size, err)
		}
	}

	s := MustNew(3)
	if s.Size() != 3 {
		t.Fatalf("expected size 3, got %d", s.Size())
	}
	s.Each(Ground, func(col, row int, st CellState) {
		if st != Placeholder() {
			t.Fatalf("ground (%d,%d) not a placeholder: %+v", col, row, st)
		}
	})
	count := 0
	s.Each(Objects, func(int, int, CellState) { count++ })
	if count != 0 {
		t.Fatalf("expected empty object layer, got %d objects", count)
	}
}

func TestStoreBounds(t *testing.T) {
	s := MustNew(4)
	cases := []struct {
		name     string
		col, row int
	}{
		{"negative_col", -1, 0},
		{"negative_row", 0, -1},
		{"col_too_big", 4, 0},
		{"row_too_big", 0, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, _, err := s.Get(Ground, c.col, c.row); !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("Get: expected ErrOutOfBounds, got %v", err)
			}
			if err := s.Set(Objects, c.col, c.row, CellState{Frame: "7"}); !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("Set: expected ErrOutOfBounds, got %v", err)
			}
			if err := s.Clear(Ground, c.col, c.row); !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("Clear: expected ErrOutOfBounds, got %v", err)
			}
		})
	}

	if _, _, err := s.Get(Layer(9), 0, 0); !errors.Is(err, ErrUnknownLayer) {
		t.Fatalf("expected ErrUnknownLayer, got %v", err)
	}
}

func TestStoreSetGetClear(t *testing.T) {
	s := MustNew(2)

	tile := CellState{Frame: "200", Visible: true, Alpha: 1}
	if err := s.Set(Ground, 1, 0, tile); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Get(Ground, 1, 0)
	if err != nil || !ok || got != tile {
		t.Fatalf("expected %+v, got %+v ok=%v err=%v", tile, got, ok, err)
	}

	if _, ok, _ := s.Get(Objects, 0, 1); ok {
		t.Fatalf("expected no object")
	}
	obj := CellState{Frame: "101", Visible: true, Alpha: 1}
	if err := s.Set(Objects, 0, 1, obj); err != nil {
		t.Fatal(err)
	}
	got, ok, _ = s.Get(Objects, 0, 1)
	if !ok || got != obj {
		t.Fatalf("expected object %+v, got %+v ok=%v", obj, got, ok)
	}

	if err := s.Clear(Ground, 1, 0); err != nil {
		t.Fatal(err)
	}
	if got, _, _ := s.Get(Ground, 1, 0); got != Placeholder() {
		t.Fatalf("expected placeholder after clear, got %+v", got)
	}
	if err := s.Clear(Objects, 0, 1); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Get(Objects, 0, 1); ok {
		t.Fatalf("expected object removed")
	}
}

func TestBaseFrame(t *testing.T) {
	cases := map[string]string{
		"200":       "200",
		"200_0":     "200",
		"200_3":     "200",
		"water_12":  "water",
		"rock_top":  "rock_top",
		"_1":        "_1",
		"trailing_": "trailing_",
		"":          "",
	}
	for in, want := range cases {
		if got := BaseFrame(in); got != want {
			t.Errorf("BaseFrame(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCloneAndEqual(t *testing.T) {
	s := MustNew(3)
	_ = s.Set(Ground, 0, 0, CellState{Frame: "200", Visible: true, Alpha: 1})
	_ = s.Set(Objects, 2, 2, CellState{Frame: "101", Visible: true, Alpha: 1})

	c := s.Clone()
	if !s.Equal(c) {
		t.Fatalf("clone should equal original")
	}

	_ = c.Set(Objects, 2, 2, CellState{Frame: "102", Visible: true, Alpha: 1})
	if s.Equal(c) {
		t.Fatalf("mutating the clone must not affect the original")
	}
	if got, _, _ := s.Get(Objects, 2, 2); got.Frame != "101" {
		t.Fatalf("original object changed to %q", got.Frame)
	}

	if s.Equal(MustNew(4)) {
		t.Fatalf("stores of different size should differ")
	}
}
