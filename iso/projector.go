// Package iso converts between isometric grid cells and world pixels.
package iso

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	TileWidth  = 64
	TileHeight = 32
)

// Projector maps grid cells onto a 2:1 diamond layout. Cell (0,0) sits at the
// world origin; columns run down-right and rows run down-left.
type Projector struct {
	TileWidth  int
	TileHeight int
}

// Default is the projector used by the editor.
var Default = Projector{TileWidth: TileWidth, TileHeight: TileHeight}

func (p Projector) halfW() float64 { return float64(p.TileWidth) / 2 }
func (p Projector) halfH() float64 { return float64(p.TileHeight) / 2 }

// GridToWorld returns the world position of the centre of cell (col,row).
func (p Projector) GridToWorld(col, row int) cp.Vector {
	x := math.Floor(float64(col-row) * float64(p.TileWidth) / 2)
	y := math.Floor(float64(col+row) * float64(p.TileHeight) / 2)
	return cp.Vector{X: x, Y: y}
}

// WorldToGrid returns the cell whose diamond contains pt. The result is not
// clamped: callers must check it against the map size.
func (p Projector) WorldToGrid(pt cp.Vector) (col, row int) {
	u := pt.X / p.halfW()
	v := pt.Y / p.halfH()
	col = int(math.Round((v + u) / 2))
	row = int(math.Round((v - u) / 2))
	return col, row
}

// Bounds returns the world-space box covering every tile of a size×size map,
// including the half-tile overhang of the edge diamonds.
func (p Projector) Bounds(size int) cp.BB {
	if size <= 0 {
		return cp.BB{}
	}
	last := size - 1
	left := p.GridToWorld(0, last)
	right := p.GridToWorld(last, 0)
	top := p.GridToWorld(0, 0)
	bottom := p.GridToWorld(last, last)
	return cp.BB{
		L: left.X - p.halfW(),
		B: top.Y - p.halfH(),
		R: right.X + p.halfW(),
		T: bottom.Y + p.halfH(),
	}
}

// Centre returns the world position the camera should look at to frame a
// size×size map.
func (p Projector) Centre(size int) cp.Vector {
	return p.GridToWorld(size/2, size/2)
}
