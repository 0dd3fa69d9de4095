package editor

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/isomapper/iso"
)

const (
	// ObjectDepthOffset keeps every object above the ground layer.
	ObjectDepthOffset = 32

	objectOffsetX = -2
	objectOffsetY = 12
)

// Placement is where an object sprite is drawn. Pos is the bottom-left corner
// of the sprite in world space; higher Depth draws later.
type Placement struct {
	Pos   cp.Vector
	Size  cp.Vector
	Depth float64
}

// Rect returns the sprite's world-space bounds.
func (p Placement) Rect() cp.BB {
	return cp.BB{L: p.Pos.X, B: p.Pos.Y - p.Size.Y, R: p.Pos.X + p.Size.X, T: p.Pos.Y}
}

// ObjectPlacement anchors a w×h object sprite on cell (col,row).
func ObjectPlacement(proj iso.Projector, col, row, w, h int) Placement {
	world := proj.GridToWorld(col, row)
	x := world.X - math.Floor(float64(w)/2) + objectOffsetX
	y := world.Y + objectOffsetY
	return Placement{
		Pos:   cp.Vector{X: x, Y: y},
		Size:  cp.Vector{X: float64(w), Y: float64(h)},
		Depth: ObjectDepthOffset + y,
	}
}
