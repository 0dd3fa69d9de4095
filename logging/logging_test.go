package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/isomapper/config"
	log "github.com/sirupsen/logrus"
)

func TestSetupLevels(t *testing.T) {
	cases := []struct {
		level   string
		want    log.Level
		wantErr bool
	}{
		{"", log.InfoLevel, false},
		{"debug", log.DebugLevel, false},
		{"warn", log.WarnLevel, false},
		{"chatty", 0, true},
	}
	for _, c := range cases {
		t.Run(c.level, func(t *testing.T) {
			logger := log.New()
			_, err := setup(logger, config.LogConfig{Level: c.level}, &bytes.Buffer{})
			if (err != nil) != c.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, c.wantErr)
			}
			if !c.wantErr && logger.GetLevel() != c.want {
				t.Fatalf("level = %v, want %v", logger.GetLevel(), c.want)
			}
		})
	}
}

func TestSetupWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "editor.log")
	var console bytes.Buffer
	logger := log.New()
	closer, err := setup(logger, config.LogConfig{Level: "info", File: path}, &console)
	if err != nil {
		t.Fatal(err)
	}
	logger.Infof("Exported map: %s", "map.json")
	logger.Debug("hidden")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Exported map: map.json") || strings.Contains(string(data), "hidden") {
		t.Fatalf("unexpected file contents %q", data)
	}
	if !strings.Contains(console.String(), "Exported map") {
		t.Fatalf("console should also receive the line")
	}
}
