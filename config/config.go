// Package config loads editor settings from isomapper.yaml, .env and
// ISOMAP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/milk9111/isomapper/grid"
	"github.com/spf13/viper"
)

const (
	EnvPrefix   = "ISOMAP"
	DefaultName = "isomapper"
)

type Config struct {
	Map       MapConfig       `mapstructure:"map"`
	Atlas     AtlasConfig     `mapstructure:"atlas"`
	Export    ExportConfig    `mapstructure:"export"`
	History   HistoryConfig   `mapstructure:"history"`
	Log       LogConfig       `mapstructure:"log"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Window    WindowConfig    `mapstructure:"window"`
}

type MapConfig struct {
	Size       int `mapstructure:"size"`
	TileWidth  int `mapstructure:"tile_width"`
	TileHeight int `mapstructure:"tile_height"`
}

type AtlasConfig struct {
	// Path to the manifest; empty uses the built-in atlas.
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

type ExportConfig struct {
	Dir       string `mapstructure:"dir"`
	Name      string `mapstructure:"name"`
	Clipboard bool   `mapstructure:"clipboard"`
}

type HistoryConfig struct {
	Limit int `mapstructure:"limit"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type GeneratorConfig struct {
	Script string `mapstructure:"script"`
	Seed   int64  `mapstructure:"seed"`
}

type WindowConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("map.size", 10)
	v.SetDefault("map.tile_width", 64)
	v.SetDefault("map.tile_height", 32)
	v.SetDefault("atlas.path", "")
	v.SetDefault("atlas.watch", true)
	v.SetDefault("export.dir", "exports")
	v.SetDefault("export.name", "map")
	v.SetDefault("export.clipboard", false)
	v.SetDefault("history.limit", 100)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("generator.script", "")
	v.SetDefault("generator.seed", 0)
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 800)
}

// Load reads configuration. With an empty path it looks for isomapper.yaml
// in the working directory and carries on with defaults when none exists.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later in odd places.
func (c *Config) Validate() error {
	if c.Map.Size <= 0 || c.Map.Size > grid.MaxSize {
		return fmt.Errorf("config: map.size must be in 1..%d, got %d", grid.MaxSize, c.Map.Size)
	}
	if c.Map.TileWidth <= 0 || c.Map.TileHeight <= 0 {
		return fmt.Errorf("config: invalid tile size %dx%d", c.Map.TileWidth, c.Map.TileHeight)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("config: history.limit must not be negative")
	}
	return nil
}
