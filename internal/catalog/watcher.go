package catalog

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"learnhub/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher rescans the catalog when markdown files change. Rapid bursts of
// filesystem events collapse into a single rescan via debouncing.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	catalog     *Catalog
	debounceDur time.Duration
	pendingAt   time.Time
	pending     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats WatcherStats
}

// WatcherStats tracks watcher activity for debugging.
type WatcherStats struct {
	EventsSeen    int
	Rescans       int
	Errors        int
	LastEventPath string
}

// NewWatcher creates a watcher over the catalog's content directory.
func NewWatcher(catalog *Catalog) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     fsw,
		catalog:     catalog,
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	// fsnotify is non-recursive: every subdirectory needs its own watch.
	w.addRecursive(w.catalog.Dir())
	logging.Get(logging.CategoryCatalog).Info("Watching %s", w.catalog.Dir())

	go w.run(ctx)
	return nil
}

// addRecursive watches root and all non-hidden subdirectories beneath it.
func (w *Watcher) addRecursive(root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // keep watching what we can
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			logging.Get(logging.CategoryCatalog).Warn("Watch failed for %s: %v", path, err)
		}
		return nil
	})
	if err != nil {
		logging.Get(logging.CategoryCatalog).Warn("Watch walk failed for %s: %v", root, err)
	}
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryCatalog).Error("Error closing watcher: %v", err)
	}
}

// Stats returns a copy of the watcher counters.
func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// run is the watcher event loop.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryCatalog).Error("Watcher error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleEvent marks a rescan pending for relevant markdown events.
// A newly created directory is added to the watch set so units inside it
// keep producing events.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if !strings.HasPrefix(filepath.Base(event.Name), ".") {
				w.addRecursive(event.Name)
				w.markPending(event.Name)
			}
			return
		}
	}

	if !strings.HasSuffix(strings.ToLower(event.Name), ".md") {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return // chmod etc.
	}

	w.markPending(event.Name)
}

// markPending schedules a debounced rescan.
func (w *Watcher) markPending(path string) {
	w.mu.Lock()
	w.stats.EventsSeen++
	w.stats.LastEventPath = path
	w.pending = true
	w.pendingAt = time.Now()
	w.mu.Unlock()
}

// flushPending runs the rescan once the debounce window has passed.
func (w *Watcher) flushPending(ctx context.Context) {
	w.mu.Lock()
	if !w.pending || time.Since(w.pendingAt) < w.debounceDur {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.stats.Rescans++
	w.mu.Unlock()

	if err := w.catalog.Refresh(ctx); err != nil {
		logging.Get(logging.CategoryCatalog).Error("Rescan failed: %v", err)
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
	}
}
