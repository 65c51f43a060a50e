package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"focusring/internal/config"
	"focusring/internal/core/feedback"
	"focusring/internal/core/timekeeper"
	"focusring/internal/platform"
	"focusring/internal/remote"
	"focusring/internal/storage"
	"focusring/internal/ui/console"
	"focusring/internal/ui/focus"
	"focusring/internal/ui/preferences"
	"focusring/internal/ui/tray"
	"focusring/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/joho/godotenv"
)

const (
	appID        = "io.github.focusring"
	eventsBuffer = 16
)

func run(parent context.Context, opts *options, changed func(string) bool) error {
	if parent == nil {
		parent = context.Background()
	}
	envErr := godotenv.Load()

	settingsPath, pathErr := storage.SettingsPath(appName)
	stored := preferences.DefaultSettings()
	var loadErr error
	if pathErr == nil {
		stored, loadErr = storage.LoadSettingsFile(settingsPath)
	}

	cfg, err := config.Load(stored)
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		return err
	}
	if err := applyFlags(cfg, opts, changed); err != nil {
		slog.Error("invalid flags", "err", err)
		return err
	}

	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("reading .env failed", "err", envErr)
	}
	if pathErr != nil {
		logger.Warn("settings disabled", "err", pathErr)
	}
	if loadErr != nil {
		logger.Warn("settings file ignored", "path", settingsPath, "err", loadErr)
	}

	lock, err := platform.AcquireInstanceLock(appName)
	if err != nil {
		logger.Error("another instance is running", "err", err)
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	keeper := timekeeper.New(cfg.Settings.TimerConfig(), nil)
	defer keeper.Close()
	logger.Info("timer ready",
		"session_minutes", keeper.Snapshot().SessionMinutes(),
		"headless", cfg.Headless,
		"listen", cfg.Settings.Listen,
	)

	if pathErr == nil {
		startSettingsSync(ctx, settingsPath, stored, keeper, logger)
	}
	if cfg.Settings.Listen != "" {
		startRemote(ctx, cfg.Settings.Listen, keeper, logger)
	}

	if cfg.Headless {
		return runHeadless(ctx, cfg, keeper, logger)
	}
	return runDesktop(ctx, stop, cfg, keeper, logger)
}

func startSettingsSync(ctx context.Context, path string, stored preferences.Settings, keeper *timekeeper.TimeKeeper, logger *slog.Logger) {
	syncer := newSettingsSync(path, stored, keeper, logger)
	go syncer.persist(ctx, keeper.Subscribe(eventsBuffer))

	watcher, err := storage.NewSettingsWatcher(path, logger)
	if err != nil {
		logger.Warn("settings file not watched", "err", err)
		return
	}
	go watcher.Run(ctx, syncer.applyFile)
}

func startRemote(ctx context.Context, address string, keeper *timekeeper.TimeKeeper, logger *slog.Logger) {
	server, err := remote.Listen(address, remote.NewHandler(keeper, logger).Routes(), logger)
	if err != nil {
		logger.Warn("remote api disabled", "err", err)
		return
	}
	go func() {
		if err := server.Serve(ctx); err != nil {
			logger.Warn("remote api stopped", "err", err)
		}
	}()
}

func runHeadless(ctx context.Context, cfg *config.Config, keeper *timekeeper.TimeKeeper, logger *slog.Logger) error {
	coordinator := feedback.New(cfg.Settings.FeedbackConfig(), nil, platform.NewBrightnessProvider(), logger)
	go coordinator.Run(ctx, keeper.Subscribe(eventsBuffer))
	defer coordinator.Wait()

	err := console.New(keeper, os.Stdout).Run(ctx, os.Stdin, keeper.Subscribe(eventsBuffer))
	if err != nil {
		logger.Error("console stopped", "err", err)
	}
	return err
}

func runDesktop(ctx context.Context, stop context.CancelFunc, cfg *config.Config, keeper *timekeeper.TimeKeeper, logger *slog.Logger) error {
	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.AppIcon))

	window := focus.New(fyneApp, keeper)
	durationWindow := preferences.NewDurationWindow(fyneApp, keeper)
	showDuration := func() {
		durationWindow.Show(keeper.Snapshot().SessionMinutes())
	}
	window.SetOnSetDuration(showDuration)

	coordinator := feedback.New(cfg.Settings.FeedbackConfig(), window.Animator(), platform.NewBrightnessProvider(), logger)
	go coordinator.Run(ctx, keeper.Subscribe(eventsBuffer))
	defer coordinator.Wait()
	go window.Run(ctx, keeper.Subscribe(eventsBuffer))

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		manager := tray.New(desktopApp, tray.Icons{
			Running: resources.MustIcon(resources.RunningIcon),
			Paused:  resources.MustIcon(resources.PausedIcon),
		}, tray.Callbacks{
			OnToggle:        keeper.Toggle,
			OnEndSession:    keeper.EndSession,
			OnResetSessions: keeper.ResetSessions,
			OnSetDuration:   showDuration,
			OnShowWindow:    window.Show,
			OnQuit:          stop,
		})
		manager.Render(keeper.Snapshot())
		go manager.Run(ctx, keeper.Subscribe(eventsBuffer), keeper.Snapshot)
	} else {
		logger.Info("system tray unsupported, closing the window quits")
		window.SetOnClose(stop)
	}

	go func() {
		<-ctx.Done()
		window.Animator().Stop()
		fyne.Do(fyneApp.Quit)
	}()

	window.Show()
	fyneApp.Run()
	stop()
	return nil
}
