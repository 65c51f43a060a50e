package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"focusring/internal/ui/preferences"
	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 150 * time.Millisecond

// SettingsWatcher reloads the settings file when it changes on disk.
type SettingsWatcher struct {
	watcher    *fsnotify.Watcher
	configPath string
	logger     *slog.Logger
}

// NewSettingsWatcher watches the directory holding configPath, since editors
// and SaveSettingsFile replace the file rather than rewrite it.
func NewSettingsWatcher(configPath string, logger *slog.Logger) (*SettingsWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create settings watcher: %w", err)
	}
	if err := watcher.Add(configDir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", configDir, err)
	}

	return &SettingsWatcher{
		watcher:    watcher,
		configPath: filepath.Clean(configPath),
		logger:     logger.With("component", "settings", "path", configPath),
	}, nil
}

// Run delivers freshly loaded settings to onChange until ctx is done.
// Bursts of file events are coalesced into one reload.
func (watcher *SettingsWatcher) Run(ctx context.Context, onChange func(preferences.Settings)) {
	defer watcher.watcher.Close()

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != watcher.configPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			reload = time.After(reloadDebounce)
		case err, ok := <-watcher.watcher.Errors:
			if !ok {
				return
			}
			watcher.logger.Warn("settings watch error", "err", err)
		case <-reload:
			reload = nil
			settings, err := LoadSettingsFile(watcher.configPath)
			if err != nil {
				watcher.logger.Warn("ignoring unreadable settings", "err", err)
				continue
			}
			watcher.logger.Debug("settings reloaded", "session_minutes", settings.SessionMinutes)
			onChange(settings)
		}
	}
}
