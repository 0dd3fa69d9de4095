package mapgen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/milk9111/isomapper/grid"
)

func TestRunPaintsLayers(t *testing.T) {
	src := []byte(`
n := gen.size()
for i := 0; i < n; i++ {
	gen.tile(i, i, "200")
}
gen.tile(0, 1, "300", 0.5)
gen.object(2, 0, "101")
gen.erase("ground", 1, 1)
if gen.frame("ground", 0, 0) != "200" || gen.frame("objects", 1, 0) != "" {
	gen.tile(99, 99, "boom")
}
`)
	s, err := Run(context.Background(), src, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	check := func(layer grid.Layer, col, row int, want grid.CellState, present bool) {
		t.Helper()
		got, ok, err := s.Get(layer, col, row)
		if err != nil || ok != present || got != want {
			t.Fatalf("%s (%d,%d) = %+v ok=%v err=%v, want %+v", layer, col, row, got, ok, err, want)
		}
	}
	check(grid.Ground, 0, 0, grid.CellState{Frame: "200", Visible: true, Alpha: 1}, true)
	check(grid.Ground, 1, 1, grid.Placeholder(), true)
	check(grid.Ground, 2, 2, grid.CellState{Frame: "200", Visible: true, Alpha: 1}, true)
	check(grid.Ground, 0, 1, grid.CellState{Frame: "300", Visible: true, Alpha: 0.5}, true)
	check(grid.Objects, 2, 0, grid.CellState{Frame: "101", Visible: true, Alpha: 1}, true)
	check(grid.Objects, 0, 0, grid.CellState{}, false)
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	a, err := RunFile(context.Background(), "island", 12, 42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunFile(context.Background(), "scripts/island.tengo", 12, 42)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatalf("same seed should generate the same map")
	}
	centre, _, _ := a.Get(grid.Ground, 6, 6)
	corner, _, _ := a.Get(grid.Ground, 0, 0)
	if centre.Frame != "400" || corner.Frame != "900" {
		t.Fatalf("unexpected island: centre=%q corner=%q", centre.Frame, corner.Frame)
	}
}

func TestRunErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"syntax", `gen.tile(`},
		{"out_of_bounds", `gen.tile(5, 0, "200")`},
		{"bad_layer", `gen.erase("sky", 0, 0)`},
		{"empty_frame", `gen.object(0, 0, "")`},
		{"bad_alpha", `gen.tile(0, 0, "200", 2.0)`},
		{"arg_count", `gen.rand()`},
		{"no_os", `os := import("os")`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Run(context.Background(), []byte(c.src), 2, 0); !errors.Is(err, ErrScript) {
				t.Fatalf("expected ErrScript, got %v", err)
			}
		})
	}
	if _, err := Run(context.Background(), nil, 0, 0); !errors.Is(err, grid.ErrInvalidSize) {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}
	if _, err := RunFile(context.Background(), "missing", 2, 0); err == nil {
		t.Fatalf("expected an error for a missing script")
	}
}

func TestRunHonoursContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := Run(ctx, []byte(`for { }`), 2, 0); !errors.Is(err, ErrScript) {
		t.Fatalf("expected cancelled script to fail, got %v", err)
	}
}
