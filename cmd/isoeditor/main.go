package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/isomapper/anim"
	"github.com/milk9111/isomapper/atlas"
	"github.com/milk9111/isomapper/config"
	"github.com/milk9111/isomapper/editor"
	"github.com/milk9111/isomapper/grid"
	"github.com/milk9111/isomapper/history"
	"github.com/milk9111/isomapper/iso"
	"github.com/milk9111/isomapper/logging"
	"github.com/milk9111/isomapper/mapfile"
	"github.com/milk9111/isomapper/mapgen"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "Config file (default: isomapper.yaml in the working directory)")
	mapName := flag.String("map", "", "Map to open: a JSON file or an embedded sample name")
	size := flag.Int("size", 0, "Size of a new map (overrides map.size)")
	script := flag.String("script", "", "Tengo script that generates the starting map")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *size > 0 {
		cfg.Map.Size = *size
	}
	if *script != "" {
		cfg.Generator.Script = *script
	}

	closer, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	log.Println("Editor starting...")
	at, err := atlas.Load(cfg.Atlas.Path)
	if err != nil {
		log.Fatal(err)
	}
	if w, h := at.TileSize(); w != cfg.Map.TileWidth || h != cfg.Map.TileHeight {
		log.Warnf("atlas tile size %dx%d differs from map tile size %dx%d", w, h, cfg.Map.TileWidth, cfg.Map.TileHeight)
	}

	store, err := openMap(cfg, *mapName)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Opened %dx%d map", store.Size(), store.Size())

	player := anim.NewPlayer(anim.NewClock(anim.FrameRate))
	eng := editor.New(grid.MustNew(store.Size()),
		editor.WithFrames(at),
		editor.WithAnimator(player),
		editor.WithProjector(iso.Projector{TileWidth: cfg.Map.TileWidth, TileHeight: cfg.Map.TileHeight}),
		editor.WithHistory(history.New(cfg.History.Limit)),
	)

	sprites, err := newSpriteCache(at, cfg.Map.TileWidth, cfg.Map.TileHeight)
	if err != nil {
		log.Fatal(err)
	}
	defer sprites.Close()

	game := newGame(cfg, eng, at, player, sprites)
	if err := game.load(store); err != nil {
		log.Fatal(err)
	}

	if cfg.Atlas.Watch && cfg.Atlas.Path != "" {
		w, err := atlas.NewWatcher(filepath.Dir(cfg.Atlas.Path))
		if err != nil {
			log.Warnf("atlas watch disabled: %v", err)
		} else {
			defer w.Close()
			go at.Follow(w, func(err error) {
				if err == nil {
					game.atlasChanged.Store(true)
				}
			})
		}
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Isometric Map Editor")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

// openMap picks the starting map: an explicit file or sample, a generator
// script, or a random map.
func openMap(cfg *config.Config, name string) (*grid.Store, error) {
	if name != "" {
		var doc *mapfile.Document
		var err error
		if _, statErr := os.Stat(name); statErr == nil {
			doc, err = mapfile.ReadFile(name)
		} else {
			doc, err = mapfile.LoadSample(name)
		}
		if err != nil {
			return nil, fmt.Errorf("open map %s: %w", name, err)
		}
		return mapfile.Deserialize(doc)
	}

	seed := cfg.Generator.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.Generator.Script != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return mapgen.RunFile(ctx, cfg.Generator.Script, cfg.Map.Size, seed)
	}
	return mapfile.Generate(cfg.Map.Size, rand.New(rand.NewSource(seed)))
}
