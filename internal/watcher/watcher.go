// Package watcher triggers datasource rescans when files change on disk.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mediarr/mediarr/internal/config"
	"github.com/mediarr/mediarr/pkg/mediafile"
)

// Trigger is called, debounced, when a datasource saw relevant changes.
type Trigger func(ds config.DatasourceConfig)

// Watcher monitors datasource roots recursively and coalesces bursts of
// filesystem events into one trigger per datasource.
type Watcher struct {
	datasources []config.DatasourceConfig
	trigger     Trigger
	debounce    time.Duration
	fw          *fsnotify.Watcher
	log         *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer // datasource root -> pending trigger
}

// New creates a watcher over the configured datasources.
func New(datasources []config.DatasourceConfig, cfg config.WatcherConfig, trigger Trigger, log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	debounce := time.Duration(cfg.DebounceMS) * time.Millisecond
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Watcher{
		datasources: datasources,
		trigger:     trigger,
		debounce:    debounce,
		fw:          fw,
		log:         log.With("component", "watcher"),
		timers:      make(map[string]*time.Timer),
	}, nil
}

// Run watches until the context is cancelled. Unreadable roots are logged
// and skipped, not fatal.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fw.Close() }()

	watched := 0
	for _, ds := range w.datasources {
		n, err := w.addRecursive(ds.Root)
		if err != nil {
			w.log.Warn("datasource not watchable", "root", ds.Root, "error", err)
			continue
		}
		watched += n
	}
	w.log.Info("watching datasources", "datasources", len(w.datasources), "directories", watched)

	for {
		select {
		case <-ctx.Done():
			w.cancelTimers()
			return ctx.Err()
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) addRecursive(root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			w.log.Warn("watch add failed", "path", path, "error", err)
			return nil
		}
		count++
		return nil
	})
	return count, err
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp") ||
		strings.HasSuffix(base, ".part") {
		return
	}

	ds, ok := w.datasourceFor(event.Name)
	if !ok {
		return
	}

	// New directories join the watch so nested copies keep reporting.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.fw.Add(event.Name); err == nil {
				w.log.Debug("watching new directory", "path", event.Name)
			}
			w.schedule(ds)
			return
		}
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	// Only media-looking files or directory-level changes matter; a
	// removed name cannot be stat'ed, so the extension decides.
	if ext := filepath.Ext(base); ext != "" {
		kind := mediafile.Classify(event.Name)
		if kind == mediafile.KindUnknown || kind == mediafile.KindGraphic {
			return
		}
	}

	w.schedule(ds)
}

// schedule arms (or re-arms) the datasource's debounce timer.
func (w *Watcher) schedule(ds config.DatasourceConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[ds.Root]; ok {
		timer.Stop()
	}
	w.timers[ds.Root] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, ds.Root)
		w.mu.Unlock()
		w.log.Info("changes settled, triggering rescan", "datasource", ds.Root)
		w.trigger(ds)
	})
}

func (w *Watcher) cancelTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for root, timer := range w.timers {
		timer.Stop()
		delete(w.timers, root)
	}
}

func (w *Watcher) datasourceFor(path string) (config.DatasourceConfig, bool) {
	for _, ds := range w.datasources {
		root := filepath.Clean(ds.Root)
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return ds, true
		}
	}
	return config.DatasourceConfig{}, false
}
