// Package watcher re-runs extraction when files of a dump change.
//
// Events are batched: once no JSON file under the watched directories has
// changed for the debounce delay, OnChange is called once with every path
// that changed since the previous call.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher monitors dump directories and reports changed JSON files.
type Watcher struct {
	root   string
	dirs   []string
	ignore []string

	debounceDelay time.Duration
	logger        *zap.Logger
	onChange      func(ctx context.Context, changed []string)

	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	mu        sync.Mutex
}

// Config holds configuration options for the Watcher.
type Config struct {
	// Root is the dump root. Dirs are watched recursively below it.
	Root string
	Dirs []string
	// Ignore lists absolute paths whose changes are dropped, such as the
	// output directory when it lives inside the dump.
	Ignore        []string
	DebounceDelay time.Duration // Default: 300ms
	Logger        *zap.Logger
	OnChange      func(ctx context.Context, changed []string)
}

// New creates a Watcher. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	if cfg.Root == "" {
		return nil, errors.New("dump root is required")
	}
	if cfg.OnChange == nil {
		return nil, errors.New("change callback is required")
	}
	if len(cfg.Dirs) == 0 {
		cfg.Dirs = []string{"."}
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 300 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ignore := make([]string, 0, len(cfg.Ignore))
	for _, p := range cfg.Ignore {
		if abs, err := filepath.Abs(p); err == nil {
			ignore = append(ignore, abs)
		}
	}

	return &Watcher{
		root:          cfg.Root,
		dirs:          cfg.Dirs,
		ignore:        ignore,
		debounceDelay: debounce,
		logger:        logger.Named("watcher"),
		onChange:      cfg.OnChange,
		pending:       make(map[string]time.Time),
	}, nil
}

// Start watches until ctx is cancelled and returns ctx.Err().
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	watched := 0
	for _, d := range w.dirs {
		dir := filepath.Join(w.root, filepath.FromSlash(d))
		if _, err := os.Stat(dir); err != nil {
			w.logger.Warn("not watching missing directory", zap.String("dir", dir))
			continue
		}
		w.addWatchRecursive(dir)
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("none of the watched directories exist under %s", w.root)
	}

	ticker := time.NewTicker(w.debounceDelay / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-ticker.C:
			if changed := w.takeReady(time.Now()); len(changed) > 0 {
				w.onChange(ctx, changed)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.shouldIgnore(path) {
		return
	}

	if !strings.EqualFold(filepath.Ext(path), ".json") {
		if event.Op&fsnotify.Create != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.addWatchRecursive(path)
			}
		}
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.logger.Debug("change", zap.String("op", event.Op.String()), zap.String("file", path))
	w.schedule(path, time.Now())
}

func (w *Watcher) schedule(path string, at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = at
}

// takeReady returns the pending paths, sorted, once the newest change is
// older than the debounce delay. A burst of writes is reported as one batch.
func (w *Watcher) takeReady(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.pending) == 0 {
		return nil
	}
	for _, at := range w.pending {
		if now.Sub(at) < w.debounceDelay {
			return nil
		}
	}
	out := make([]string, 0, len(w.pending))
	for p := range w.pending {
		out = append(out, p)
	}
	clear(w.pending)
	sort.Strings(out)
	return out
}

func (w *Watcher) addWatchRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			w.logger.Warn("failed to watch", zap.String("dir", path), zap.Error(err))
		}
		return nil
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, ig := range w.ignore {
		if abs == ig || strings.HasPrefix(abs, ig+string(filepath.Separator)) {
			return true
		}
	}
	return strings.HasPrefix(filepath.Base(abs), ".")
}
