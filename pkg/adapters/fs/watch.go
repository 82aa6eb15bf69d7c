package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last filesystem event before
// a change is reported. An atomic save produces a burst of create/rename events.
const DefaultDebounce = 50 * time.Millisecond

// Watch calls onChange after the ledger file is written by any process.
// It watches the parent directory because atomic saves replace the file by rename.
// The watcher runs until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.path), err)
	}

	w := &watchLoop{
		store:    s,
		watcher:  watcher,
		onChange: onChange,
		logger:   s.logger(),
	}
	s.setWatcherActive(true)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		w.logger.Error("ledger watcher failed", "error", err)
	}))
	return nil
}

type watchLoop struct {
	store    *Store
	watcher  *fsnotify.Watcher
	onChange func()
	logger   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

func (w *watchLoop) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.logger.Enabled(ctx, slog.LevelDebug) {
				w.logger.Debug("watcher panic", "stack", string(debug.Stack()))
			}
		}
	}()
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()
	defer w.stopTimer()

	target := filepath.Clean(w.store.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("ledger file event", "op", event.Op.String())
			w.schedule()

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

// schedule restarts the debounce timer.
func (w *watchLoop) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(DefaultDebounce, w.onChange)
}

func (w *watchLoop) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
