// Package config merges the environment over the stored user settings.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"

	"focusring/internal/core/model"
	"focusring/internal/ui/preferences"
)

// Environment variables read by Load.
const (
	EnvMinutes  = "FOCUSRING_MINUTES"
	EnvFlash    = "FOCUSRING_FLASH"
	EnvPulse    = "FOCUSRING_PULSE"
	EnvRocket   = "FOCUSRING_ROCKET"
	EnvListen   = "FOCUSRING_LISTEN"
	EnvHeadless = "FOCUSRING_HEADLESS"
	EnvLogLevel = "FOCUSRING_LOG_LEVEL"
	EnvLogJSON  = "FOCUSRING_LOG_JSON"
)

// Config holds the effective runtime configuration.
type Config struct {
	Settings preferences.Settings
	Headless bool
	LogLevel slog.Level
	LogJSON  bool
}

// Load overlays FOCUSRING_* variables on the stored settings.
func Load(stored preferences.Settings) (*Config, error) {
	cfg := &Config{
		Settings: stored,
		Headless: getEnvBool(EnvHeadless, false),
		LogLevel: slog.LevelInfo,
		LogJSON:  getEnvBool(EnvLogJSON, false),
	}

	if raw, ok := lookupEnv(EnvMinutes); ok {
		minutes, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%s must be a whole number of minutes: %q", EnvMinutes, raw)
		}
		cfg.Settings.SessionMinutes = minutes
	}
	cfg.Settings.FlashBrightness = getEnvBool(EnvFlash, cfg.Settings.FlashBrightness)
	cfg.Settings.Pulse = getEnvBool(EnvPulse, cfg.Settings.Pulse)
	cfg.Settings.LaunchRocket = getEnvBool(EnvRocket, cfg.Settings.LaunchRocket)
	cfg.Settings.Listen = getEnv(EnvListen, cfg.Settings.Listen)

	if raw, ok := lookupEnv(EnvLogLevel); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks ranges and the remote API address.
func (c *Config) Validate() error {
	minutes := c.Settings.SessionMinutes
	if minutes < 1 || minutes > model.MaxSessionMinutes {
		return fmt.Errorf("session minutes must be between 1 and %d, got %d", model.MaxSessionMinutes, minutes)
	}
	if c.Settings.Listen != "" {
		if err := validateListen(c.Settings.Listen); err != nil {
			return err
		}
	}
	return nil
}

func validateListen(address string) error {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("listen address %q: %w", address, err)
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return fmt.Errorf("listen address %q: invalid port", address)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("listen address %q must be loopback", address)
	}
	return nil
}

// lookupEnv treats an empty variable as unset.
func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

func getEnv(key, fallback string) string {
	if value, ok := lookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := lookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
