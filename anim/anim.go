// Package anim drives looping tile animations from a single shared clock so
// every animated tile on the map stays in step.
package anim

import (
	"fmt"
	"math"
)

const (
	// FrameCount is the number of horizontal sub-frames in an animated tile.
	FrameCount = 4
	// FrameRate is the animation speed in frames per second.
	FrameRate = 5
	// TPS is the update rate the clock is ticked at.
	TPS = 60
)

// FrameName returns the name of sub-frame i of base.
func FrameName(base string, i int) string {
	return fmt.Sprintf("%s_%d", base, i)
}

// Frames returns every sub-frame name of base in playback order.
func Frames(base string) []string {
	out := make([]string, FrameCount)
	for i := range out {
		out[i] = FrameName(base, i)
	}
	return out
}

// IsAnimated reports whether a frame of the given pixel width is a strip of
// FrameCount tiles.
func IsAnimated(frameWidth, tileWidth int) bool {
	return tileWidth > 0 && frameWidth >= tileWidth*FrameCount
}

// Clock counts game ticks and converts them into a looping frame index.
type Clock struct {
	tick        int
	ticksPerFrm int
}

// NewClock returns a clock advancing fps frames per second at TPS ticks per
// second. fps <= 0 uses FrameRate.
func NewClock(fps int) *Clock {
	if fps <= 0 {
		fps = FrameRate
	}
	ticks := int(math.Max(1, math.Round(float64(TPS)/float64(fps))))
	return &Clock{ticksPerFrm: ticks}
}

// Tick advances the clock by one update.
func (c *Clock) Tick() {
	c.tick++
	if c.tick >= c.ticksPerFrm*FrameCount {
		c.tick = 0
	}
}

// Frame returns the current sub-frame index.
func (c *Clock) Frame() int {
	return c.tick / c.ticksPerFrm
}

// Progress returns how far through one loop the clock is, in [0,1).
func (c *Clock) Progress() float64 {
	return float64(c.tick) / float64(c.ticksPerFrm*FrameCount)
}
