package main

import (
	"io"
	"log/slog"

	"focusring/internal/config"
)

func newLogger(cfg *config.Config, out io.Writer) *slog.Logger {
	handlerOptions := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogJSON {
		return slog.New(slog.NewJSONHandler(out, handlerOptions))
	}
	return slog.New(slog.NewTextHandler(out, handlerOptions))
}
