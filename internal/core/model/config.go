package model

import "time"

// TotalSessions is the daily cap of completed focus sessions.
const TotalSessions = 8

// DefaultSessionMinutes is the length of a focus session when nothing else is configured.
const DefaultSessionMinutes = 25

// MaxSessionMinutes bounds the configurable session length.
const MaxSessionMinutes = 1_000_000

// TimerConfig contains runtime settings for the TimeKeeper state machine.
type TimerConfig struct {
	SessionMinutes int
	TickInterval   time.Duration
}

// DefaultTimerConfig returns the standard 25 minute session ticking once per second.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		SessionMinutes: DefaultSessionMinutes,
		TickInterval:   time.Second,
	}
}

// SessionDuration returns the configured session length.
func (config TimerConfig) SessionDuration() time.Duration {
	return time.Duration(config.SessionMinutes) * time.Minute
}
