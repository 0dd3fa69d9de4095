// Package mapgen builds maps from tengo scripts.
//
// A script sees a read-only `gen` module:
//
//	gen.size()                     map dimension
//	gen.seed                       seed passed to Run
//	gen.rand(n)                    seeded int in [0,n)
//	gen.tile(col, row, frame)      paint a ground tile (optional 4th arg alpha)
//	gen.object(col, row, frame)    place an object
//	gen.erase(layer, col, row)     clear "ground" or "objects"
//	gen.frame(layer, col, row)     current frame or "" when empty
package mapgen

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/isomapper/grid"
)

var ErrScript = errors.New("mapgen: script failed")

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// modules scripts may import. os and friends stay out.
var modules = []string{"math", "text", "rand", "fmt", "enum", "json"}

// LoadScript reads a script from disk, falling back to the embedded scripts.
func LoadScript(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	clean := strings.TrimPrefix(name, "scripts/")
	if !strings.HasSuffix(clean, ".tengo") {
		clean += ".tengo"
	}
	data, err := ScriptsFS.ReadFile("scripts/" + clean)
	if err != nil {
		return nil, fmt.Errorf("mapgen: load %s: %w", name, err)
	}
	return data, nil
}

// Run executes src against a fresh size×size map and returns the result.
func Run(ctx context.Context, src []byte, size int, seed int64) (*grid.Store, error) {
	store, err := grid.New(size)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(modules...))
	if err := script.Add("gen", buildModule(store, rng, seed)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: compile: %v", ErrScript, err)
	}
	if err := compiled.RunContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	return store, nil
}

// RunFile loads a script with LoadScript and runs it.
func RunFile(ctx context.Context, name string, size int, seed int64) (*grid.Store, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, err
	}
	return Run(ctx, src, size, seed)
}

func buildModule(store *grid.Store, rng *rand.Rand, seed int64) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["seed"] = &tengo.Int{Value: seed}

	values["size"] = &tengo.UserFunction{Name: "size", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(store.Size())}, nil
	}}

	values["rand"] = &tengo.UserFunction{Name: "rand", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		n, ok := tengo.ToInt64(args[0])
		if !ok || n <= 0 {
			return nil, tengo.ErrInvalidArgumentType{Name: "n", Expected: "positive int", Found: args[0].TypeName()}
		}
		return &tengo.Int{Value: rng.Int63n(n)}, nil
	}}

	values["tile"] = &tengo.UserFunction{Name: "tile", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 && len(args) != 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		col, row, frame, err := cellArgs(args)
		if err != nil {
			return nil, err
		}
		alpha := 1.0
		if len(args) == 4 {
			a, ok := tengo.ToFloat64(args[3])
			if !ok || a < 0 || a > 1 {
				return nil, tengo.ErrInvalidArgumentType{Name: "alpha", Expected: "float in [0,1]", Found: args[3].TypeName()}
			}
			alpha = a
		}
		state := grid.CellState{Frame: frame, Visible: alpha > 0, Alpha: alpha}
		if alpha == 0 {
			state = grid.Placeholder()
		}
		return tengo.UndefinedValue, store.Set(grid.Ground, col, row, state)
	}}

	values["object"] = &tengo.UserFunction{Name: "object", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		col, row, frame, err := cellArgs(args)
		if err != nil {
			return nil, err
		}
		return tengo.UndefinedValue, store.Set(grid.Objects, col, row, grid.CellState{Frame: frame, Visible: true, Alpha: 1})
	}}

	values["erase"] = &tengo.UserFunction{Name: "erase", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		layer, col, row, err := layerArgs(args)
		if err != nil {
			return nil, err
		}
		return tengo.UndefinedValue, store.Clear(layer, col, row)
	}}

	values["frame"] = &tengo.UserFunction{Name: "frame", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		layer, col, row, err := layerArgs(args)
		if err != nil {
			return nil, err
		}
		state, ok, err := store.Get(layer, col, row)
		if err != nil {
			return nil, err
		}
		if !ok || !state.Shown() {
			return &tengo.String{Value: ""}, nil
		}
		return &tengo.String{Value: state.Frame}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func cellArgs(args []tengo.Object) (col, row int, frame string, err error) {
	c, ok := tengo.ToInt(args[0])
	if !ok {
		return 0, 0, "", tengo.ErrInvalidArgumentType{Name: "col", Expected: "int", Found: args[0].TypeName()}
	}
	r, ok := tengo.ToInt(args[1])
	if !ok {
		return 0, 0, "", tengo.ErrInvalidArgumentType{Name: "row", Expected: "int", Found: args[1].TypeName()}
	}
	f, ok := tengo.ToString(args[2])
	if !ok || strings.TrimSpace(f) == "" {
		return 0, 0, "", tengo.ErrInvalidArgumentType{Name: "frame", Expected: "non-empty string", Found: args[2].TypeName()}
	}
	return c, r, strings.TrimSpace(f), nil
}

func layerArgs(args []tengo.Object) (grid.Layer, int, int, error) {
	name, _ := tengo.ToString(args[0])
	var layer grid.Layer
	switch name {
	case grid.Ground.String():
		layer = grid.Ground
	case grid.Objects.String():
		layer = grid.Objects
	default:
		return 0, 0, 0, fmt.Errorf("%w: %q", grid.ErrUnknownLayer, name)
	}
	col, ok := tengo.ToInt(args[1])
	if !ok {
		return 0, 0, 0, tengo.ErrInvalidArgumentType{Name: "col", Expected: "int", Found: args[1].TypeName()}
	}
	row, ok := tengo.ToInt(args[2])
	if !ok {
		return 0, 0, 0, tengo.ErrInvalidArgumentType{Name: "row", Expected: "int", Found: args[2].TypeName()}
	}
	return layer, col, row, nil
}
