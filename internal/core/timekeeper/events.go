package timekeeper

import (
	"fmt"
	"time"
)

// State represents the current TimeKeeper mode.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	// StateCompleting is never held; it only labels the SessionCompleted event.
	StateCompleting State = "completing"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStarted            EventType = "started"
	EventPaused             EventType = "paused"
	EventTick               EventType = "tick"
	EventSessionCompleted   EventType = "session_completed"
	EventSessionsReset      EventType = "sessions_reset"
	EventDurationChanged    EventType = "duration_changed"
	EventValidationRejected EventType = "validation_rejected"
)

// Essential reports whether observers must not miss the event. Feedback
// hangs off Started and SessionCompleted.
func (eventType EventType) Essential() bool {
	return eventType == EventStarted || eventType == EventSessionCompleted
}

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type      EventType
	State     State
	Remaining time.Duration
	Duration  time.Duration
	Completed int
	Message   string
	At        time.Time
}

// Snapshot is a read-only copy of the timer state.
type Snapshot struct {
	SessionDuration   time.Duration
	Remaining         time.Duration
	Running           bool
	CompletedSessions int
	TotalSessions     int
}

// State reports Idle or Running.
func (snapshot Snapshot) State() State {
	if snapshot.Running {
		return StateRunning
	}
	return StateIdle
}

// RemainingFraction is the share of the session still left, in [0, 1].
func (snapshot Snapshot) RemainingFraction() float64 {
	if snapshot.SessionDuration <= 0 {
		return 0
	}
	fraction := float64(snapshot.Remaining) / float64(snapshot.SessionDuration)
	if fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}

// SessionMinutes returns the configured session length in whole minutes.
func (snapshot Snapshot) SessionMinutes() int {
	return int(snapshot.SessionDuration / time.Minute)
}

// FormatClock renders a duration as MM:SS. Minutes are not wrapped at an hour.
func FormatClock(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value / time.Second)
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// Status is a short human label: Focusing, Paused or Ready.
func (snapshot Snapshot) Status() string {
	switch {
	case snapshot.Running:
		return "Focusing"
	case snapshot.Remaining < snapshot.SessionDuration:
		return "Paused"
	default:
		return "Ready"
	}
}
