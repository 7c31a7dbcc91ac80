// Package watch re-runs verification when source files or snapshots change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"typedrift/internal/logging"
)

// DefaultDebounce batches the burst of events an editor save produces.
const DefaultDebounce = 500 * time.Millisecond

// Options selects what to watch.
type Options struct {
	// Roots are watched recursively; new sub-directories are picked up.
	Roots []string
	// Files are watched individually (e.g. snapshot files outside a root).
	Files []string
	// Suffix filters events under Roots (e.g. ".swift").
	Suffix   string
	Debounce time.Duration
}

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Runs          int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

// Watcher triggers a callback after a quiet period following relevant
// filesystem events.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	opts    Options
	files   map[string]bool
	logger  *zap.Logger
	stats   Stats
}

// New creates a watcher and registers every directory below the roots.
func New(opts Options, logger *zap.Logger) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		opts:    opts,
		files:   make(map[string]bool),
		logger:  logging.For(logger, logging.CategoryWatch),
	}

	for _, root := range opts.Roots {
		if err := w.addTree(root); err != nil {
			fw.Close()
			return nil, err
		}
	}
	for _, f := range opts.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		w.files[abs] = true
		if err := fw.Add(filepath.Dir(abs)); err != nil {
			w.logger.Warn("cannot watch file", zap.String("path", f), zap.Error(err))
		}
	}
	return w, nil
}

// addTree watches dir and every non-hidden directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			w.logger.Warn("cannot watch directory", zap.String("path", path), zap.Error(err))
			return filepath.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("cannot watch directory", zap.String("path", path), zap.Error(err))
		}
		return nil
	})
}

// Stats returns a copy of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run blocks until ctx is cancelled, calling fn once per debounced batch of
// relevant events. Errors from fn are logged and do not stop the loop. The
// underlying watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watch stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.handle(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-fire:
			fire = nil
			w.mu.Lock()
			w.stats.Runs++
			w.mu.Unlock()
			if err := fn(ctx); err != nil {
				w.logger.Warn("re-run failed", zap.Error(err))
			}
		}
	}
}

// handle records an event and reports whether it should trigger a run.
func (w *Watcher) handle(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("cannot watch new directory", zap.String("path", event.Name), zap.Error(err))
			}
			return false
		}
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		abs = event.Name
	}
	if !w.files[abs] && !strings.HasSuffix(event.Name, w.opts.Suffix) {
		return false
	}

	w.logger.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))
	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventPath = event.Name
	w.stats.LastEventTime = time.Now()
	w.mu.Unlock()
	return true
}
