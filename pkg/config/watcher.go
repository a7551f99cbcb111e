package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"focus-warden/pkg/logger"
)

const reloadDebounce = 150 * time.Millisecond

// Watcher reloads the configuration file when it changes on disk.
type Watcher struct {
	path     string
	log      *logger.Logger
	onChange func(*Config)
	watcher  *fsnotify.Watcher
}

// NewWatcher watches path and calls onChange with every configuration that
// loads and validates. Invalid edits are logged and skipped.
func NewWatcher(path string, log *logger.Logger, onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	// Editors replace the file, so watch the directory.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}
	return &Watcher{path: path, log: log, onChange: onChange, watcher: fw}, nil
}

// Run processes file events until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
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
			w.log.Error("Config watcher error", err, "path", w.path)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := loadConfigFromPath(w.path, w.log)
	if err != nil {
		w.log.Error("Failed to reload config, keeping the previous one", err, "path", w.path)
		return
	}
	w.log.Info("Configuration reloaded", "path", w.path)
	w.onChange(cfg)
}

// Close stops watching. Run returns once it sees the closed channels.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
