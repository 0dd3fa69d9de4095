package iso

import "github.com/jakecoffman/cp"

const (
	MinZoom = 0.25
	MaxZoom = 4.0
)

// Camera maps screen pixels to world pixels with a pan offset and zoom.
type Camera struct {
	PanX float64
	PanY float64
	Zoom float64
}

// NewCamera returns a camera at zoom 1 with no pan.
func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

func (c *Camera) zoom() float64 {
	if c.Zoom == 0 {
		c.Zoom = 1
	}
	return c.Zoom
}

// ScreenToWorld converts screen coordinates into world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) cp.Vector {
	z := c.zoom()
	return cp.Vector{X: (sx - c.PanX) / z, Y: (sy - c.PanY) / z}
}

// WorldToScreen converts world coordinates into screen coordinates.
func (c *Camera) WorldToScreen(w cp.Vector) (float64, float64) {
	z := c.zoom()
	return w.X*z + c.PanX, w.Y*z + c.PanY
}

// Pan moves the camera by a screen-space delta.
func (c *Camera) Pan(dx, dy float64) {
	c.PanX += dx
	c.PanY += dy
}

// ZoomAt scales the zoom by factor while keeping the world point under
// (sx,sy) fixed on screen.
func (c *Camera) ZoomAt(sx, sy, factor float64) {
	old := c.zoom()
	next := old * factor
	if next < MinZoom {
		next = MinZoom
	}
	if next > MaxZoom {
		next = MaxZoom
	}
	if next == old {
		return
	}
	worldX := (sx - c.PanX) / old
	worldY := (sy - c.PanY) / old
	c.Zoom = next
	c.PanX = sx - worldX*next
	c.PanY = sy - worldY*next
}

// CenterOn pans so that world point w sits in the middle of a viewW×viewH view.
func (c *Camera) CenterOn(w cp.Vector, viewW, viewH int) {
	z := c.zoom()
	c.PanX = float64(viewW)/2 - w.X*z
	c.PanY = float64(viewH)/2 - w.Y*z
}
