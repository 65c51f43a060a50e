package preferences

import (
	"focusring/internal/core/feedback"
	"focusring/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	SessionMinutes  int
	FlashBrightness bool
	Pulse           bool
	LaunchRocket    bool

	// Listen is the loopback address of the remote API; empty disables it.
	Listen string
}

// DefaultSettings returns default settings for focusring.
func DefaultSettings() Settings {
	return Settings{
		SessionMinutes:  model.DefaultSessionMinutes,
		FlashBrightness: true,
		Pulse:           true,
		LaunchRocket:    true,
	}
}

// TimerConfig converts settings to the engine configuration.
func (settings Settings) TimerConfig() model.TimerConfig {
	config := model.DefaultTimerConfig()
	config.SessionMinutes = settings.SessionMinutes
	return config
}

// FeedbackConfig converts settings to the feedback configuration.
func (settings Settings) FeedbackConfig() feedback.Config {
	config := feedback.DefaultConfig()
	config.FlashEnabled = settings.FlashBrightness
	config.PulseEnabled = settings.Pulse
	config.LaunchEnabled = settings.LaunchRocket
	return config
}
