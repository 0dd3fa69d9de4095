package atlas

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

const debounce = 100 * time.Millisecond

// Watcher reports changes to manifest and sheet files in a set of
// directories.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches dirs (usually the manifest's directory, where the
// sheets live too) and starts delivering changed .yaml/.yml/.png paths on
// Events. Repeated writes to one file within 100ms collapse into one event.
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Events and Errors are closed once the watch
// goroutine exits, which ends any Follow loop reading them. Safe to call
// more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isManifestFile(event.Name) && !isSheetFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// Follow reloads a whenever its manifest changes until the watcher closes.
// changed, if non-nil, is called after every reload attempt.
func (a *Atlas) Follow(w *Watcher, changed func(error)) {
	manifest, _ := filepath.Abs(a.Path())
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			abs, _ := filepath.Abs(name)
			if isManifestFile(name) && abs != manifest {
				continue
			}
			err := a.Reload()
			if err != nil {
				log.Warnf("atlas reload %s: %v", name, err)
			} else {
				log.Infof("Reloaded atlas after change to %s", name)
			}
			if changed != nil {
				changed(err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warnf("atlas watcher: %v", err)
		}
	}
}

func isManifestFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isSheetFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".png"
}
