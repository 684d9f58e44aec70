package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tomsquest/foxmark/internal/logging"
)

var watcherLog = logging.ForComponent(logging.CompConfig)

// Watcher watches the config file for external edits and calls onChange
// once the writes settle. Editors save via rename, so the parent directory
// is watched rather than the file itself.
type Watcher struct {
	configPath string
	watcher    *fsnotify.Watcher
	onChange   func()
	debounce   time.Duration
	stopCh     chan struct{}
	stopOnce   sync.Once
	mu         sync.Mutex
	lastEvent  time.Time
}

// NewWatcher creates a watcher for the config file at configPath.
func NewWatcher(configPath string, onChange func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		configPath: configPath,
		watcher:    fsWatcher,
		onChange:   onChange,
		debounce:   200 * time.Millisecond,
		stopCh:     make(chan struct{}),
	}, nil
}

// Start begins watching the config directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
		return err
	}
	go w.watchLoop()
	return nil
}

// Stop stops the watcher. Safe to call multiple times.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
	})
	return err
}

// SetDebounce sets the debounce duration (used by tests).
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

func (w *Watcher) watchLoop() {
	var debounceTimer *time.Timer

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only care about the config file itself
			if filepath.Clean(event.Name) != w.configPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce: wait for write activity to settle
			w.mu.Lock()
			w.lastEvent = time.Now()
			w.mu.Unlock()

			if debounceTimer != nil {
				debounceTimer.Stop()
			}

			debounceTimer = time.AfterFunc(w.debounce, func() {
				w.mu.Lock()
				elapsed := time.Since(w.lastEvent)
				w.mu.Unlock()

				if elapsed >= w.debounce {
					watcherLog.Debug("config_changed", slog.String("path", w.configPath))
					w.onChange()
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			watcherLog.Warn("config_watch_error", slog.String("error", err.Error()))
		}
	}
}
