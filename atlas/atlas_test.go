package atlas

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/milk9111/isomapper/grid"
)

const testManifest = `tile_width: 64
tile_height: 32
layers:
  ground:
    sheet: tiles.png
    frames:
      "300": {x: 0, y: 32, w: 64, h: 32}
      "200": {x: 0, y: 0, w: 64, h: 32}
      "water": {x: 0, y: 64, w: 256, h: 32}
      "1000": {x: 64, y: 0, w: 64, h: 32}
  objects:
    frames:
      "101": {x: 0, y: 0, w: 40, h: 60}
`

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "atlas.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	a, err := Load(writeManifest(t, dir, testManifest))
	if err != nil {
		t.Fatal(err)
	}
	if w, h := a.TileSize(); w != 64 || h != 32 {
		t.Fatalf("unexpected tile size %dx%d", w, h)
	}
	if got := a.TileFrames(); !reflect.DeepEqual(got, []string{"200", "300", "1000", "water"}) {
		t.Fatalf("unexpected tile order %v", got)
	}
	if got := a.ObjectFrames(); !reflect.DeepEqual(got, []string{"101"}) {
		t.Fatalf("unexpected objects %v", got)
	}
	if got := a.SheetPath(grid.Ground); got != filepath.Join(dir, "tiles.png") {
		t.Fatalf("unexpected sheet path %q", got)
	}
	if got := a.SheetPath(grid.Objects); got != "" {
		t.Fatalf("objects have no sheet, got %q", got)
	}
}

func TestFrameLookup(t *testing.T) {
	a, err := Load(writeManifest(t, t.TempDir(), testManifest))
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name   string
		layer  grid.Layer
		frame  string
		w, h   int
		ok     bool
		strips bool
	}{
		{"plain", grid.Ground, "200", 64, 32, true, false},
		{"strip", grid.Ground, "water", 256, 32, true, true},
		{"sub_frame", grid.Ground, "water_2", 256, 32, true, true},
		{"object", grid.Objects, "101", 40, 60, true, false},
		{"wrong_layer", grid.Objects, "200", 0, 0, false, false},
		{"missing", grid.Ground, "999", 0, 0, false, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, h, ok := a.FrameSize(c.layer, c.frame)
			if w != c.w || h != c.h || ok != c.ok {
				t.Fatalf("got %dx%d ok=%v", w, h, ok)
			}
			f, err := a.Frame(c.layer, c.frame)
			if !c.ok {
				if !errors.Is(err, ErrUnknownFrame) {
					t.Fatalf("expected ErrUnknownFrame, got %v", err)
				}
				return
			}
			if f.Animated(64) != c.strips {
				t.Fatalf("Animated = %v", f.Animated(64))
			}
		})
	}
}

func TestSubRect(t *testing.T) {
	f := Frame{Rect: image.Rect(0, 64, 256, 96)}
	if got := f.SubRect(2, 64); got != image.Rect(128, 64, 192, 96) {
		t.Fatalf("unexpected sub rect %v", got)
	}
}

func TestLoadRejectsBadManifest(t *testing.T) {
	cases := map[string]string{
		"no_tile_size": "layers: {}\n",
		"bad_layer":    "tile_width: 64\ntile_height: 32\nlayers:\n  sky:\n    frames: {}\n",
		"empty_frame":  "tile_width: 64\ntile_height: 32\nlayers:\n  ground:\n    frames:\n      \"1\": {x: 0, y: 0, w: 0, h: 32}\n",
		"not_yaml":     "tile_width: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeManifest(t, t.TempDir(), body)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing manifest")
	}
}

func TestEmbeddedDefault(t *testing.T) {
	a, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if len(a.TileFrames()) == 0 || len(a.ObjectFrames()) == 0 {
		t.Fatalf("default atlas should list frames")
	}
	if w, _, ok := a.FrameSize(grid.Ground, "900"); !ok || w != 256 {
		t.Fatalf("default atlas should carry an animated strip")
	}
}

func TestReloadKeepsOldOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, testManifest)
	a, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	writeManifest(t, dir, "tile_width: [")
	if err := a.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}
	if _, _, ok := a.FrameSize(grid.Ground, "200"); !ok {
		t.Fatalf("failed reload must keep previous frames")
	}
}

func TestFollowReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, testManifest)
	a, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	reloaded := make(chan error, 4)
	go a.Follow(w, func(err error) {
		select {
		case reloaded <- err:
		default:
		}
	})

	// write then rename so the watcher never sees a half-written manifest
	updated := testManifest + "      \"102\": {x: 0, y: 60, w: 20, h: 20}\n"
	tmp := filepath.Join(dir, "atlas.tmp")
	if err := os.WriteFile(tmp, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-reloaded:
			if err == nil {
				if _, _, ok := a.FrameSize(grid.Objects, "102"); ok {
					return
				}
			}
		case <-deadline:
			t.Fatalf("atlas was not reloaded")
		}
	}
}

func TestWatcherCloseEndsFollow(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}
	a, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	go func() {
		a.Follow(w, nil)
		close(done)
	}()

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Follow did not return after Close")
	}
}
