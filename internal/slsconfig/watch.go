package slsconfig

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a Watcher waits after the last change event
// before rereading the file. Editors often save in several steps.
const DefaultDebounce = 250 * time.Millisecond

// AddedFunc receives the AppIDs that appeared in AdditionalApps since the
// previous read. An error is logged and watching continues.
type AddedFunc func(ctx context.Context, added []int64) error

// Watcher reports AppIDs added to AdditionalApps while the file is edited.
type Watcher struct {
	store    *Store
	debounce time.Duration
	logger   *slog.Logger
	known    []int64

	// ready is closed once the baseline is read and the watch is active.
	ready chan struct{}
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the quiet period before a change is processed.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for change and error reports.
func WithLogger(l *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWatcher returns a Watcher for the store's file.
func NewWatcher(store *Store, opts ...WatchOption) *Watcher {
	w := &Watcher{store: store, debounce: DefaultDebounce, logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is done. The apps listed when Run starts are the
// baseline and are not reported. The directory is watched rather than the
// file, so atomic saves that replace the file are seen too.
func (w *Watcher) Run(ctx context.Context, fn AddedFunc) error {
	logger := w.logger

	known, err := w.store.AdditionalApps()
	if err != nil {
		return errors.Wrap(err, "reading AdditionalApps")
	}
	w.known = known

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer fsw.Close()

	dir := filepath.Dir(w.store.Path())
	if err := fsw.Add(dir); err != nil {
		return errors.Wrapf(err, "watching %s", dir)
	}
	logger.Info("watching SLSsteam config", "path", w.store.Path(), "apps", len(known))
	if w.ready != nil {
		close(w.ready)
	}

	name := filepath.Base(w.store.Path())
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				logger.Debug("config changed", "op", event.Op.String())
				timer.Reset(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)

		case <-timer.C:
			added, err := w.poll()
			if err != nil {
				logger.Warn("rereading SLSsteam config failed", "error", err)
				continue
			}
			if len(added) == 0 {
				continue
			}
			logger.Info("apps added", "app_ids", added)
			if err := fn(ctx, added); err != nil {
				logger.Error("handling added apps failed", "error", err)
			}
		}
	}
}

// poll rereads AdditionalApps and returns the IDs not seen before. A file
// that fails to parse leaves the baseline unchanged, so the apps are
// reported once the edit is fixed.
func (w *Watcher) poll() ([]int64, error) {
	current, err := w.store.AdditionalApps()
	if err != nil {
		return nil, err
	}
	added := Added(w.known, current)
	w.known = current
	return added, nil
}

// Added returns the IDs in current that are not in previous, in the order
// they appear in current.
func Added(previous, current []int64) []int64 {
	var added []int64
	for _, id := range current {
		if !slices.Contains(previous, id) && !slices.Contains(added, id) {
			added = append(added, id)
		}
	}
	return added
}
