package anim

import "sort"

type cell struct {
	col, row int
}

// Player tracks which ground cells are animating and which sub-frame each
// should show.
type Player struct {
	clock   *Clock
	playing map[cell]string
}

func NewPlayer(clock *Clock) *Player {
	if clock == nil {
		clock = NewClock(FrameRate)
	}
	return &Player{clock: clock, playing: map[cell]string{}}
}

// Play starts (or restarts with a new base) the animation at a cell.
func (p *Player) Play(col, row int, base string) {
	p.playing[cell{col, row}] = base
}

// Stop ends any animation at a cell.
func (p *Player) Stop(col, row int) {
	delete(p.playing, cell{col, row})
}

// Reset stops every animation.
func (p *Player) Reset() {
	p.playing = map[cell]string{}
}

// Update advances the shared clock by one tick.
func (p *Player) Update() {
	p.clock.Tick()
}

// Frame returns the sub-frame a cell should draw, or false when the cell is
// not animating.
func (p *Player) Frame(col, row int) (string, bool) {
	base, ok := p.playing[cell{col, row}]
	if !ok {
		return "", false
	}
	return FrameName(base, p.clock.Frame()), true
}

// Playing returns the animating cells in row-major order.
func (p *Player) Playing() [][2]int {
	out := make([][2]int, 0, len(p.playing))
	for c := range p.playing {
		out = append(out, [2]int{c.col, c.row})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][1] != out[j][1] {
			return out[i][1] < out[j][1]
		}
		return out[i][0] < out[j][0]
	})
	return out
}
