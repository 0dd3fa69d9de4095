package mapfile

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

//go:embed samples/*.json
var SamplesFS embed.FS

// ReadFile loads a map document from disk.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	return Unmarshal(data)
}

// WriteFile saves doc as indented JSON, creating parent directories.
func WriteFile(path string, doc *Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal map: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Export writes doc to <dir>/<name>.json and reports the result to done,
// which may be nil.
func Export(doc *Document, dir, name string, done func(ok bool)) (string, error) {
	if name == "" {
		name = "map"
	}
	path := filepath.Join(dir, strings.TrimSuffix(name, ".json")+".json")
	err := WriteFile(path, doc)
	if err != nil {
		log.Errorf("export %s: %v", path, err)
	} else {
		log.Infof("Exported map: %s", path)
	}
	if done != nil {
		done(err == nil)
	}
	return path, err
}

// Samples lists the embedded sample maps.
func Samples() []string {
	entries, err := fs.ReadDir(SamplesFS, "samples")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	return names
}

// LoadSample reads an embedded sample map by name, with or without the
// .json extension.
func LoadSample(name string) (*Document, error) {
	data, err := fs.ReadFile(SamplesFS, "samples/"+strings.TrimSuffix(name, ".json")+".json")
	if err != nil {
		return nil, fmt.Errorf("read sample: %w", err)
	}
	return Unmarshal(data)
}
