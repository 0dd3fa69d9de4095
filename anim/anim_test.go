package anim

import (
	"reflect"
	"testing"
)

func TestFrames(t *testing.T) {
	want := []string{"900_0", "900_1", "900_2", "900_3"}
	if got := Frames("900"); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestIsAnimated(t *testing.T) {
	cases := []struct {
		name  string
		width int
		want  bool
	}{
		{"single_tile", 64, false},
		{"three_tiles", 192, false},
		{"strip", 256, true},
		{"wider", 320, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsAnimated(c.width, 64); got != c.want {
				t.Fatalf("IsAnimated(%d) = %v, want %v", c.width, got, c.want)
			}
		})
	}
	if IsAnimated(256, 0) {
		t.Fatalf("zero tile width must never animate")
	}
}

func TestClockLoops(t *testing.T) {
	c := NewClock(5) // 12 ticks per frame
	seen := []int{}
	for i := 0; i < 12*FrameCount; i++ {
		if i%12 == 0 {
			seen = append(seen, c.Frame())
		}
		c.Tick()
	}
	if !reflect.DeepEqual(seen, []int{0, 1, 2, 3}) {
		t.Fatalf("unexpected frame sequence %v", seen)
	}
	if c.Frame() != 0 || c.Progress() != 0 {
		t.Fatalf("clock should wrap to the start, frame=%d progress=%v", c.Frame(), c.Progress())
	}
}

func TestPlayer(t *testing.T) {
	p := NewPlayer(NewClock(60))
	p.Play(2, 1, "900")
	p.Play(0, 0, "950")

	if f, ok := p.Frame(2, 1); !ok || f != "900_0" {
		t.Fatalf("got %q ok=%v", f, ok)
	}
	p.Update()
	if f, _ := p.Frame(2, 1); f != "900_1" {
		t.Fatalf("expected second sub-frame, got %q", f)
	}
	if got := p.Playing(); !reflect.DeepEqual(got, [][2]int{{0, 0}, {2, 1}}) {
		t.Fatalf("unexpected playing cells %v", got)
	}

	p.Stop(2, 1)
	if _, ok := p.Frame(2, 1); ok {
		t.Fatalf("stopped cell should not animate")
	}
	p.Reset()
	if len(p.Playing()) != 0 {
		t.Fatalf("reset should stop everything")
	}
}
