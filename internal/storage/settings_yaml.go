package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"focusring/internal/core/model"
	"focusring/internal/ui/preferences"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

// Missing keys keep their defaults, so the booleans are pointers.
type yamlSettings struct {
	SessionMinutes  int    `yaml:"session_minutes,omitempty"`
	FlashBrightness *bool  `yaml:"flash_brightness,omitempty"`
	Pulse           *bool  `yaml:"pulse,omitempty"`
	LaunchRocket    *bool  `yaml:"launch_rocket,omitempty"`
	Listen          string `yaml:"listen,omitempty"`
}

// SettingsPath returns the settings file location for appName.
func SettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// LoadSettings reads user preferences for appName.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// SaveSettings writes user preferences for appName.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// LoadSettingsFile reads user preferences from YAML.
// If the file does not exist, default settings are returned.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettingsFile writes user preferences to YAML. The file is replaced
// atomically so a watcher never reads a half-written document.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		SessionMinutes:  settings.SessionMinutes,
		FlashBrightness: &settings.FlashBrightness,
		Pulse:           &settings.Pulse,
		LaunchRocket:    &settings.LaunchRocket,
		Listen:          settings.Listen,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	temp, err := os.CreateTemp(filepath.Dir(configPath), "."+settingsFileName+"-*")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	tempPath := temp.Name()
	if _, err := temp.Write(serialized); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.SessionMinutes > 0 && fileData.SessionMinutes <= model.MaxSessionMinutes {
		settings.SessionMinutes = fileData.SessionMinutes
	}
	if fileData.FlashBrightness != nil {
		settings.FlashBrightness = *fileData.FlashBrightness
	}
	if fileData.Pulse != nil {
		settings.Pulse = *fileData.Pulse
	}
	if fileData.LaunchRocket != nil {
		settings.LaunchRocket = *fileData.LaunchRocket
	}
	settings.Listen = fileData.Listen
}
