package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Map.Size != 10 || cfg.Map.TileWidth != 64 || cfg.Map.TileHeight != 32 {
		t.Fatalf("unexpected map defaults %+v", cfg.Map)
	}
	if cfg.History.Limit != 100 || cfg.Export.Dir != "exports" || cfg.Export.Name != "map" || !cfg.Atlas.Watch {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "editor.yaml")
	body := "map:\n  size: 24\nexport:\n  name: island\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ISOMAP_EXPORT_DIR", "/tmp/maps")
	t.Setenv("ISOMAP_HISTORY_LIMIT", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Map.Size != 24 || cfg.Export.Name != "island" || cfg.Log.Level != "debug" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Export.Dir != "/tmp/maps" || cfg.History.Limit != 7 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ISOMAP_MAP_SIZE=6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("ISOMAP_MAP_SIZE") })
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Map.Size != 6 {
		t.Fatalf(".env not applied, size=%d", cfg.Map.Size)
	}
}

func TestInvalid(t *testing.T) {
	cases := map[string]string{
		"zero_size":     "map:\n  size: 0\n",
		"huge_size":     "map:\n  size: 5000\n",
		"bad_tile":      "map:\n  tile_width: -1\n",
		"negative_hist": "history:\n  limit: -3\n",
		"not_yaml":      "map: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("an explicit missing file is an error")
	}
}
