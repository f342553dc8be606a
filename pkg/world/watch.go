package world

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/lv2lint/pkg/log"
)

// DefaultDebounce is the quiet period after the last file event before a
// [Watcher] triggers.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches search directories and bundles for changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dirs     []string
	debounce time.Duration
	mu       sync.Mutex
}

// NewWatcher creates a new [Watcher] for the given search directories and the
// bundles they contain. Missing directories are skipped.
func NewWatcher(ctx context.Context, dirs ...string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:  watcher,
		debounce: DefaultDebounce,
	}

	bundles, err := Discover(ctx, dirs...)
	if err != nil {
		w.Close() //nolint:errcheck,gosec // Already returning an error.

		return nil, err
	}

	for _, dir := range slices.Concat(dirs, bundles) {
		err := watcher.Add(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			w.Close() //nolint:errcheck,gosec // Already returning an error.

			return nil, fmt.Errorf("add path to watcher: %w", err)
		}

		w.dirs = append(w.dirs, dir)
	}

	log.WithContext(ctx).DebugContext(ctx, "added file watchers", slog.Int("count", len(w.dirs)))

	return w, nil
}

// Dirs returns the watched directories.
func (w *Watcher) Dirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return slices.Clone(w.dirs)
}

// addCreated starts watching path if it is a newly created directory, so
// that bundles installed after startup are picked up.
func (w *Watcher) addCreated(ctx context.Context, path string) {
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return
	}

	logger := log.WithContext(ctx)

	err = w.watcher.Add(path)
	if err != nil {
		logger.ErrorContext(ctx, "add path to watcher", slog.String("path", path), slog.Any("err", err))

		return
	}

	w.mu.Lock()
	w.dirs = append(w.dirs, path)
	w.mu.Unlock()

	logger.DebugContext(ctx, "added file watcher", slog.String("path", path))
}

// Run calls fn after file changes, until ctx is canceled. Events are
// debounced, and calls to fn never overlap.
func (w *Watcher) Run(ctx context.Context, fn func(ctx context.Context)) error {
	logger := log.WithContext(ctx)

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}

			return nil

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) {
				continue
			}

			logger.DebugContext(ctx, "file event", slog.String("event", evt.String()))

			if evt.Has(fsnotify.Create) {
				w.addCreated(ctx, evt.Name)
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}

			trigger = timer.C

		case <-trigger:
			trigger = nil

			fn(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			logger.ErrorContext(ctx, "file watcher", slog.Any("err", err))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close() //nolint:wrapcheck // Return the original error.
}
