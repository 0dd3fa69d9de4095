// Package mapfile converts grid stores to and from the JSON map document.
package mapfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/milk9111/isomapper/grid"
)

var ErrInvalidDocument = errors.New("mapfile: invalid document")

const (
	LayerGround  = "ground"
	LayerObjects = "objects"

	minGroundID = 200
	maxGroundID = 1200
)

// Document is the exported map. Tiles are indexed [row][col]; empty cells
// are null.
type Document struct {
	Size   int     `json:"size"`
	Layers []Layer `json:"layers"`
}

type Layer struct {
	Name  string    `json:"name"`
	Tiles [][]*Tile `json:"tiles"`
}

type Tile struct {
	X     int      `json:"x"`
	Y     int      `json:"y"`
	Frame string   `json:"frame"`
	Alpha *float64 `json:"alpha,omitempty"`
}

// Serialize builds the document for store. Ground cells are written only
// when visible, objects only when present.
func Serialize(store *grid.Store) *Document {
	n := store.Size()
	ground := emptyTiles(n)
	store.Each(grid.Ground, func(col, row int, state grid.CellState) {
		if !state.Shown() {
			return
		}
		alpha := state.Alpha
		ground[row][col] = &Tile{X: col, Y: row, Frame: state.Frame, Alpha: &alpha}
	})
	objects := emptyTiles(n)
	store.Each(grid.Objects, func(col, row int, state grid.CellState) {
		objects[row][col] = &Tile{X: col, Y: row, Frame: state.Frame}
	})
	return &Document{
		Size: n,
		Layers: []Layer{
			{Name: LayerGround, Tiles: ground},
			{Name: LayerObjects, Tiles: objects},
		},
	}
}

func emptyTiles(n int) [][]*Tile {
	tiles := make([][]*Tile, n)
	for row := range tiles {
		tiles[row] = make([]*Tile, n)
	}
	return tiles
}

// Deserialize rebuilds a store from doc. Missing cells become placeholders
// on the ground and nothing on the object layer.
func Deserialize(doc *Document) (*grid.Store, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrInvalidDocument)
	}
	if doc.Size <= 0 || doc.Size > grid.MaxSize {
		return nil, fmt.Errorf("%w: size %d outside 1..%d", ErrInvalidDocument, doc.Size, grid.MaxSize)
	}
	store, err := grid.New(doc.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	seen := map[string]bool{}
	for _, layer := range doc.Layers {
		var target grid.Layer
		switch layer.Name {
		case LayerGround:
			target = grid.Ground
		case LayerObjects:
			target = grid.Objects
		default:
			return nil, fmt.Errorf("%w: unknown layer %q", ErrInvalidDocument, layer.Name)
		}
		if seen[layer.Name] {
			return nil, fmt.Errorf("%w: duplicate layer %q", ErrInvalidDocument, layer.Name)
		}
		seen[layer.Name] = true
		if len(layer.Tiles) > doc.Size {
			return nil, fmt.Errorf("%w: layer %q has %d rows, size is %d", ErrInvalidDocument, layer.Name, len(layer.Tiles), doc.Size)
		}
		for row, cells := range layer.Tiles {
			if len(cells) > doc.Size {
				return nil, fmt.Errorf("%w: layer %q row %d has %d cells", ErrInvalidDocument, layer.Name, row, len(cells))
			}
			for col, t := range cells {
				if t == nil {
					continue
				}
				if err := placeTile(store, target, col, row, t); err != nil {
					return nil, fmt.Errorf("%w: layer %q: %v", ErrInvalidDocument, layer.Name, err)
				}
			}
		}
	}
	return store, nil
}

func placeTile(store *grid.Store, layer grid.Layer, col, row int, t *Tile) error {
	if t.X != col || t.Y != row {
		return fmt.Errorf("tile at [%d][%d] claims (%d, %d)", row, col, t.X, t.Y)
	}
	if t.Frame == "" {
		return fmt.Errorf("tile (%d, %d) has no frame", col, row)
	}
	alpha := 1.0
	if t.Alpha != nil {
		alpha = *t.Alpha
	}
	if alpha < 0 || alpha > 1 {
		return fmt.Errorf("tile (%d, %d) alpha %v out of range", col, row, alpha)
	}
	if layer == grid.Ground && alpha == 0 {
		return nil
	}
	return store.Set(layer, col, row, grid.CellState{Frame: t.Frame, Visible: true, Alpha: alpha})
}

func Marshal(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal map: %w", err)
	}
	return &doc, nil
}

// Generate returns a size×size map with random ground tiles and no objects.
func Generate(size int, rng *rand.Rand) (*grid.Store, error) {
	store, err := grid.New(size)
	if err != nil {
		return nil, err
	}
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			id := rng.Intn(maxGroundID-minGroundID+1) + minGroundID
			state := grid.CellState{Frame: strconv.Itoa(id), Visible: true, Alpha: 1}
			if err := store.Set(grid.Ground, col, row, state); err != nil {
				return nil, err
			}
		}
	}
	return store, nil
}
