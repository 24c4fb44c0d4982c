package wiki

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"linko/internal/logging"
)

// Watcher invalidates the wiki's search cache when files under the root
// change. A disabled watcher is a no-op; searches then reload the tree
// on every call.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	wiki      *Wiki
	done      chan struct{}
	stopOnce  sync.Once
	running   bool
	mu        sync.Mutex
}

// NewWatcher creates a watcher for the wiki root.
func NewWatcher(w *Wiki, enabled bool) (*Watcher, error) {
	if !enabled {
		return &Watcher{}, nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsWatcher: fsWatcher,
		wiki:      w,
		done:      make(chan struct{}),
	}, nil
}

// Start watches the root and all subdirectories.
func (w *Watcher) Start() error {
	if w.fsWatcher == nil {
		return nil
	}

	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addDirectories(w.wiki.root); err != nil {
		return err
	}
	go w.processEvents()
	return nil
}

// Stop stops watching.
func (w *Watcher) Stop() error {
	if w.fsWatcher == nil {
		return nil
	}

	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	w.stopOnce.Do(func() { close(w.done) })
	return w.fsWatcher.Close()
}

func (w *Watcher) addDirectories(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if !info.IsDir() {
			return nil
		}
		if name := info.Name(); name == ".git" {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			logging.Debug("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.wiki.cache.invalidate()
			// New directories need their own watch
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addDirectories(event.Name)
				}
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logging.Debug("watcher error", "error", err)
		}
	}
}
