// Package atlas describes the tile and object sprite sheets: which frames
// exist and where each one sits in its sheet.
package atlas

import (
	"embed"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/milk9111/isomapper/anim"
	"github.com/milk9111/isomapper/grid"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFrame = errors.New("atlas: unknown frame")

//go:embed default.yaml
var defaultFS embed.FS

const DefaultManifest = "default.yaml"

type Manifest struct {
	TileWidth  int                  `yaml:"tile_width"`
	TileHeight int                  `yaml:"tile_height"`
	Layers     map[string]LayerSpec `yaml:"layers"`
}

type LayerSpec struct {
	// Sheet is the image path relative to the manifest. An empty sheet means
	// frames are drawn without a texture.
	Sheet  string               `yaml:"sheet"`
	Frames map[string]FrameSpec `yaml:"frames"`
}

type FrameSpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Frame is a resolved frame.
type Frame struct {
	Name  string
	Layer grid.Layer
	Sheet string
	Rect  image.Rectangle
}

// Animated reports whether the frame is a strip of animation sub-frames.
func (f Frame) Animated(tileWidth int) bool {
	return anim.IsAnimated(f.Rect.Dx(), tileWidth)
}

// SubRect returns the rectangle of sub-frame i of an animated strip.
func (f Frame) SubRect(i, tileWidth int) image.Rectangle {
	x := f.Rect.Min.X + (i%anim.FrameCount)*tileWidth
	return image.Rect(x, f.Rect.Min.Y, x+tileWidth, f.Rect.Max.Y)
}

// Atlas is a loaded manifest. It is safe for concurrent use; Reload swaps
// the contents in place.
type Atlas struct {
	mu       sync.RWMutex
	path     string
	manifest Manifest
}

// LoadSpec reads a manifest from disk, falling back to the embedded copy.
func LoadSpec(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		embedded, embErr := defaultFS.ReadFile(filepath.ToSlash(filepath.Base(path)))
		if embErr != nil {
			return Manifest{}, fmt.Errorf("atlas: load %s: %w", path, err)
		}
		data = embedded
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("atlas: unmarshal %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return Manifest{}, fmt.Errorf("atlas: %s: %w", path, err)
	}
	return m, nil
}

func (m *Manifest) validate() error {
	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return fmt.Errorf("invalid tile size %dx%d", m.TileWidth, m.TileHeight)
	}
	for name, layer := range m.Layers {
		if _, err := parseLayer(name); err != nil {
			return err
		}
		for frame, spec := range layer.Frames {
			if spec.W <= 0 || spec.H <= 0 {
				return fmt.Errorf("frame %s/%s has empty size", name, frame)
			}
		}
	}
	return nil
}

func parseLayer(name string) (grid.Layer, error) {
	switch name {
	case grid.Ground.String():
		return grid.Ground, nil
	case grid.Objects.String():
		return grid.Objects, nil
	}
	return 0, fmt.Errorf("%w: %q", grid.ErrUnknownLayer, name)
}

// Load reads the manifest at path. An empty path loads the embedded default.
func Load(path string) (*Atlas, error) {
	if path == "" {
		path = DefaultManifest
	}
	m, err := LoadSpec(path)
	if err != nil {
		return nil, err
	}
	return &Atlas{path: path, manifest: m}, nil
}

// Reload re-reads the manifest. On error the previous contents are kept.
func (a *Atlas) Reload() error {
	m, err := LoadSpec(a.path)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.manifest = m
	a.mu.Unlock()
	return nil
}

func (a *Atlas) Path() string {
	return a.path
}

func (a *Atlas) TileSize() (w, h int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.manifest.TileWidth, a.manifest.TileHeight
}

// SheetPath returns the on-disk path of a layer's sheet, or "" when the
// layer has none.
func (a *Atlas) SheetPath(layer grid.Layer) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	sheet := a.manifest.Layers[layer.String()].Sheet
	if sheet == "" {
		return ""
	}
	if filepath.IsAbs(sheet) {
		return sheet
	}
	return filepath.Join(filepath.Dir(a.path), sheet)
}

// Frame looks up a frame by name. Animation sub-frame names resolve to their
// base strip.
func (a *Atlas) Frame(layer grid.Layer, name string) (Frame, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	spec := a.manifest.Layers[layer.String()]
	fs, ok := spec.Frames[name]
	if !ok {
		name = grid.BaseFrame(name)
		fs, ok = spec.Frames[name]
	}
	if !ok {
		return Frame{}, fmt.Errorf("%w: %s/%s", ErrUnknownFrame, layer, name)
	}
	return Frame{
		Name:  name,
		Layer: layer,
		Sheet: spec.Sheet,
		Rect:  image.Rect(fs.X, fs.Y, fs.X+fs.W, fs.Y+fs.H),
	}, nil
}

// FrameSize returns the pixel size of a frame.
func (a *Atlas) FrameSize(layer grid.Layer, name string) (w, h int, ok bool) {
	f, err := a.Frame(layer, name)
	if err != nil {
		return 0, 0, false
	}
	return f.Rect.Dx(), f.Rect.Dy(), true
}

func (a *Atlas) TileFrames() []string {
	return a.frames(grid.Ground)
}

func (a *Atlas) ObjectFrames() []string {
	return a.frames(grid.Objects)
}

// frames returns the names on a layer, numeric ids in numeric order first.
func (a *Atlas) frames(layer grid.Layer) []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	frames := a.manifest.Layers[layer.String()].Frames
	names := make([]string, 0, len(frames))
	for name := range frames {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ni, ei := strconv.Atoi(names[i])
		nj, ej := strconv.Atoi(names[j])
		switch {
		case ei == nil && ej == nil:
			return ni < nj
		case ei == nil:
			return true
		case ej == nil:
			return false
		}
		return names[i] < names[j]
	})
	return names
}
