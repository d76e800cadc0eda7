package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/miraines/macroforge/internal/logging"
	"github.com/miraines/macroforge/internal/profile"
)

// reloadDebounce absorbs the burst of Write events most editors produce
// for a single save.
const reloadDebounce = 150 * time.Millisecond

// ProfileWatcher watches a profile file's parent directory and
// reloads, revalidates, and hands off a freshly parsed profile.Profile
// on every save. A reload that fails parsing or validation is logged
// and discarded, leaving the caller's last-good profile in place
// in place.
type ProfileWatcher struct {
	path   string
	logger *logging.Logger

	mu       sync.Mutex
	onChange func(profile.Profile)

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
}

// NewProfileWatcher builds a watcher for path. Call Start to begin
// watching.
func NewProfileWatcher(path string, logger *logging.Logger) *ProfileWatcher {
	return &ProfileWatcher{path: path, logger: logger}
}

// OnChange registers the callback invoked with each successfully
// reloaded and validated profile. Only one callback is kept.
func (w *ProfileWatcher) OnChange(fn func(profile.Profile)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start begins watching the profile file's parent directory until ctx
// is cancelled or Stop is called.
func (w *ProfileWatcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return err
	}
	w.watcher = fw

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	go w.loop(ctx)
	return nil
}

// Stop ends the watch loop and releases the underlying fsnotify watcher.
func (w *ProfileWatcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
}

func (w *ProfileWatcher) loop(ctx context.Context) {
	defer w.watcher.Close()

	var debounce *time.Timer
	target := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Error("config", "profile watcher error: %v", err)
			}
		}
	}
}

func (w *ProfileWatcher) reload() {
	p, err := LoadProfile(w.path)
	if err != nil {
		if w.logger != nil {
			w.logger.Error("config", "profile reload failed, keeping last-good profile: %v", err)
		}
		return
	}

	w.mu.Lock()
	cb := w.onChange
	w.mu.Unlock()
	if cb != nil {
		cb(p)
	}
}
