// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/milk9111/isomapper/config"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup sets the level and output of the standard logger. When cfg.File is
// set, lines also go to a rotating file. The returned closer flushes that
// file; it is a no-op otherwise.
func Setup(cfg config.LogConfig) (io.Closer, error) {
	return setup(log.StandardLogger(), cfg, os.Stderr)
}

func setup(logger *log.Logger, cfg config.LogConfig, console io.Writer) (io.Closer, error) {
	level := log.InfoLevel
	if cfg.Level != "" {
		lvl, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = lvl
	}
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})

	if cfg.File == "" {
		logger.SetOutput(console)
		return nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     14,
	}
	logger.SetOutput(io.MultiWriter(console, file))
	return file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
