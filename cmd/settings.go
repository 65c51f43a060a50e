package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"focusring/internal/core/timekeeper"
	"focusring/internal/storage"
	"focusring/internal/ui/preferences"
)

// settingsSync keeps the session length in the settings file and the timer
// in step. Echoed changes are skipped so a save does not loop back through
// the file watcher.
type settingsSync struct {
	mu       sync.Mutex
	path     string
	settings preferences.Settings
	keeper   *timekeeper.TimeKeeper
	logger   *slog.Logger
}

func newSettingsSync(path string, stored preferences.Settings, keeper *timekeeper.TimeKeeper, logger *slog.Logger) *settingsSync {
	return &settingsSync{
		path:     path,
		settings: stored,
		keeper:   keeper,
		logger:   logger.With("component", "settings"),
	}
}

// applyFile pushes an externally edited session length into the timer. Only
// a change to session_minutes in the file counts, so flag and environment
// overrides survive edits to other keys. Feedback switches are read at start.
func (syncer *settingsSync) applyFile(updated preferences.Settings) {
	syncer.mu.Lock()
	previous := syncer.settings
	syncer.settings = updated
	syncer.mu.Unlock()

	if updated.FeedbackConfig() != previous.FeedbackConfig() {
		syncer.logger.Info("feedback settings change applies after restart")
	}
	if updated.SessionMinutes == previous.SessionMinutes {
		return
	}
	if updated.SessionMinutes == syncer.keeper.Snapshot().SessionMinutes() {
		return
	}
	if err := syncer.keeper.SetDuration(updated.SessionMinutes); err != nil {
		syncer.logger.Warn("settings file change not applied", "session_minutes", updated.SessionMinutes, "err", err)
		return
	}
	syncer.logger.Info("session length changed from settings file", "session_minutes", updated.SessionMinutes)
}

// persist saves the session length after every accepted change.
func (syncer *settingsSync) persist(ctx context.Context, events <-chan timekeeper.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Type != timekeeper.EventDurationChanged {
				continue
			}
			syncer.save(int(event.Duration / time.Minute))
		}
	}
}

func (syncer *settingsSync) save(minutes int) {
	syncer.mu.Lock()
	if syncer.settings.SessionMinutes == minutes {
		syncer.mu.Unlock()
		return
	}
	syncer.settings.SessionMinutes = minutes
	snapshot := syncer.settings
	syncer.mu.Unlock()

	if err := storage.SaveSettingsFile(syncer.path, snapshot); err != nil {
		syncer.logger.Warn("saving settings failed", "err", err)
		return
	}
	syncer.logger.Debug("settings saved", "session_minutes", minutes)
}
