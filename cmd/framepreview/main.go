// Command framepreview plays one atlas frame, looping animated tile strips
// on the shared animation clock.
package main

import (
	"bytes"
	"flag"
	"image"
	"image/color"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/isomapper/anim"
	"github.com/milk9111/isomapper/atlas"
	"github.com/milk9111/isomapper/grid"
	log "github.com/sirupsen/logrus"
)

const viewSize = 512

type previewGame struct {
	frames []*ebiten.Image
	clock  *anim.Clock
	scale  float64
}

func (g *previewGame) Update() error {
	g.clock.Tick()
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x20, 0x20, 0x28, 0xff})
	if len(g.frames) == 0 {
		return
	}
	img := g.frames[g.clock.Frame()%len(g.frames)]
	fw := float64(img.Bounds().Dx()) * g.scale
	fh := float64(img.Bounds().Dy()) * g.scale
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(g.scale, g.scale)
	op.GeoM.Translate((viewSize-fw)/2, (viewSize-fh)/2)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(img, op)
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return viewSize, viewSize
}

// loadFrames cuts a frame out of its sheet, one image per animation
// sub-frame for strips.
func loadFrames(at *atlas.Atlas, layer grid.Layer, name string) ([]*ebiten.Image, error) {
	f, err := at.Frame(layer, name)
	if err != nil {
		return nil, err
	}
	path := at.SheetPath(layer)
	if path == "" {
		log.Warnf("%s frames have no sheet; nothing to preview", layer)
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	sheet := ebiten.NewImageFromImage(img)

	tileW, _ := at.TileSize()
	if !f.Animated(tileW) {
		return []*ebiten.Image{sheet.SubImage(f.Rect).(*ebiten.Image)}, nil
	}
	frames := make([]*ebiten.Image, anim.FrameCount)
	for i := range frames {
		frames[i] = sheet.SubImage(f.SubRect(i, tileW)).(*ebiten.Image)
	}
	return frames, nil
}

func main() {
	manifest := flag.String("atlas", "", "Atlas manifest (default: built-in atlas)")
	frame := flag.String("frame", "900", "Frame to preview")
	objects := flag.Bool("objects", false, "Look the frame up on the objects layer")
	fps := flag.Int("fps", anim.FrameRate, "Animation frames per second")
	scale := flag.Float64("scale", 4, "Zoom factor")
	flag.Parse()

	at, err := atlas.Load(*manifest)
	if err != nil {
		log.Fatal(err)
	}
	layer := grid.Ground
	if *objects {
		layer = grid.Objects
	}
	frames, err := loadFrames(at, layer, *frame)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Previewing %s/%s (%d sub-frames)", layer, *frame, len(frames))

	g := &previewGame{frames: frames, clock: anim.NewClock(*fps), scale: *scale}
	ebiten.SetWindowSize(viewSize, viewSize)
	ebiten.SetWindowTitle("Frame Preview: " + *frame)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
