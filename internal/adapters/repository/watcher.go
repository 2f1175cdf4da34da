package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/taskmaster/desk/internal/infrastructure/logger"
)

// Reloader is a store backed by a file it can reread
type Reloader interface {
	Path() string
	Reload() error
}

// Watcher reloads stores when their data file is changed on disk, for
// example by hand-editing contacts.json while the server runs.
type Watcher struct {
	watcher  *fsnotify.Watcher
	stores   map[string]Reloader
	logger   *logger.Logger
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
}

// NewWatcher watches the directories holding the given stores
func NewWatcher(log *logger.Logger, stores ...Reloader) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		stores:   make(map[string]Reloader, len(stores)),
		logger:   log.WithComponent("watcher"),
		debounce: 200 * time.Millisecond,
		pending:  make(map[string]time.Time),
	}

	dirs := map[string]bool{}
	for _, st := range stores {
		path, err := filepath.Abs(st.Path())
		if err != nil {
			_ = fw.Close()
			return nil, err
		}
		w.stores[path] = st

		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	return w, nil
}

// Run processes file events until ctx is cancelled, then closes the watcher
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnw("File watcher error", "error", err)

		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	path, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, ok := w.stores[path]; !ok {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

// flush reloads every store whose file has been quiet for the debounce window
func (w *Watcher) flush() {
	now := time.Now()

	w.mu.Lock()
	var ready []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		if err := w.stores[path].Reload(); err != nil {
			w.logger.Warnw("Keeping in-memory records, reload failed", "path", path, "error", err)
			continue
		}
		w.logger.Debugw("Reloaded data file", "path", path)
	}
}
