package main

import (
	"log/slog"

	"focusring/internal/config"

	"github.com/spf13/cobra"
)

type options struct {
	minutes  int
	listen   string
	headless bool
	debug    bool
	logJSON  bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   appName + " [flags]",
		Short: "Pomodoro focus timer with a progress ring and session dots",
		Long: `focusring counts down focus sessions, pulses and dims the screen when one
completes, and tracks up to eight finished sessions.

Settings are read from the user config directory (focusring/settings.yaml),
then FOCUSRING_* environment variables (a .env file is honoured), then flags.

Examples:
  focusring                          # desktop window and tray icon
  focusring --minutes 50             # fifty minute sessions
  focusring --headless               # terminal status line instead of a window
  focusring --listen 127.0.0.1:7070  # also serve the remote control API
  focusring autostart enable         # launch at login`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.Flags().Changed)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.minutes, "minutes", "m", 0, "focus session length in minutes")
	flags.StringVar(&opts.listen, "listen", "", "loopback address for the remote API, e.g. 127.0.0.1:7070")
	flags.BoolVar(&opts.headless, "headless", false, "run in the terminal without a window")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.logJSON, "log-json", false, "log as JSON")

	cmd.AddCommand(defaultAutostartCommand())
	return cmd
}

// applyFlags overlays explicitly set flags on cfg.
func applyFlags(cfg *config.Config, opts *options, changed func(name string) bool) error {
	if changed("minutes") {
		cfg.Settings.SessionMinutes = opts.minutes
	}
	if changed("listen") {
		cfg.Settings.Listen = opts.listen
	}
	if changed("headless") {
		cfg.Headless = opts.headless
	}
	if changed("debug") && opts.debug {
		cfg.LogLevel = slog.LevelDebug
	}
	if changed("log-json") {
		cfg.LogJSON = opts.logJSON
	}
	return cfg.Validate()
}
