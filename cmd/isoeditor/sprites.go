package main

import (
	"bytes"
	"hash/fnv"
	"image"
	"image/color"
	_ "image/png"
	"math"
	"os"
	"strconv"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/isomapper/atlas"
	"github.com/milk9111/isomapper/grid"
	log "github.com/sirupsen/logrus"
)

// spriteCache turns frame names into images. Frames without a sheet (or
// missing from the atlas) get a generated placeholder so any map can be
// drawn.
type spriteCache struct {
	atlas  *atlas.Atlas
	tileW  int
	tileH  int
	sheets map[grid.Layer]*ebiten.Image
	cache  *ristretto.Cache[string, *ebiten.Image]
}

func newSpriteCache(a *atlas.Atlas, tileW, tileH int) (*spriteCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *ebiten.Image]{
		NumCounters: 20000,
		MaxCost:     64 * 1024 * 1024,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	c := &spriteCache{atlas: a, tileW: tileW, tileH: tileH, cache: cache}
	c.loadSheets()
	return c, nil
}

func (c *spriteCache) loadSheets() {
	c.sheets = map[grid.Layer]*ebiten.Image{}
	for _, layer := range []grid.Layer{grid.Ground, grid.Objects} {
		path := c.atlas.SheetPath(layer)
		if path == "" {
			continue
		}
		b, err := os.ReadFile(path)
		if err != nil {
			log.Warnf("sprites: read %s: %v", path, err)
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			log.Warnf("sprites: decode %s: %v", path, err)
			continue
		}
		c.sheets[layer] = ebiten.NewImageFromImage(img)
	}
}

// Reset drops every cached image and reloads the sheets.
func (c *spriteCache) Reset() {
	c.cache.Clear()
	c.loadSheets()
}

func (c *spriteCache) Close() {
	c.cache.Close()
}

// Get returns the image for a frame; sub-frame names of animated strips
// resolve to one cell of the strip.
func (c *spriteCache) Get(layer grid.Layer, frame string) *ebiten.Image {
	key := layer.String() + "|" + frame
	if img, ok := c.cache.Get(key); ok {
		return img
	}
	img := c.build(layer, frame)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	c.cache.Set(key, img, int64(w*h*4))
	c.cache.Wait()
	return img
}

func (c *spriteCache) build(layer grid.Layer, frame string) *ebiten.Image {
	base := grid.BaseFrame(frame)
	sub := -1
	if base != frame {
		sub, _ = strconv.Atoi(frame[len(base)+1:])
	}

	f, err := c.atlas.Frame(layer, frame)
	if sheet := c.sheets[layer]; err == nil && sheet != nil {
		rect := f.Rect
		if sub >= 0 && f.Animated(c.tileW) {
			rect = f.SubRect(sub, c.tileW)
		}
		return sheet.SubImage(rect).(*ebiten.Image)
	}

	if layer == grid.Objects {
		w, h := 32, 48
		if err == nil {
			w, h = f.Rect.Dx(), f.Rect.Dy()
		}
		return ebiten.NewImageFromImage(placeholderBox(w, h, frameColour(base, 0)))
	}
	return ebiten.NewImageFromImage(placeholderDiamond(c.tileW, c.tileH, frameColour(base, sub)))
}

// frameColour derives a stable colour from a frame name; animation
// sub-frames pulse in brightness.
func frameColour(base string, sub int) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(base))
	v := h.Sum32()
	scale := 1.0
	if sub >= 0 {
		scale = 0.75 + 0.25*math.Sin(float64(sub)*math.Pi/2)
	}
	ch := func(shift uint) uint8 {
		return uint8(math.Min(255, (60+float64((v>>shift)&0x7f))*scale*1.4))
	}
	return color.RGBA{ch(0), ch(8), ch(16), 255}
}

func placeholderDiamond(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	hw, hh := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Abs(float64(x)+0.5-hw)/hw + math.Abs(float64(y)+0.5-hh)/hh
			switch {
			case d <= 0.92:
				img.SetRGBA(x, y, c)
			case d <= 1:
				img.SetRGBA(x, y, color.RGBA{c.R / 2, c.G / 2, c.B / 2, 255})
			}
		}
	}
	return img
}

func placeholderBox(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	edge := color.RGBA{c.R / 2, c.G / 2, c.B / 2, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				img.SetRGBA(x, y, edge)
			} else {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}
