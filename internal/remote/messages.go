package remote

import (
	"time"

	"focusring/internal/core/timekeeper"
)

// StateResponse is the JSON view of a timer snapshot.
type StateResponse struct {
	State             string  `json:"state"`
	Status            string  `json:"status"`
	Clock             string  `json:"clock"`
	RemainingSeconds  int     `json:"remaining_seconds"`
	RemainingFraction float64 `json:"remaining_fraction"`
	SessionMinutes    int     `json:"session_minutes"`
	CompletedSessions int     `json:"completed_sessions"`
	TotalSessions     int     `json:"total_sessions"`
}

// EventMessage is one websocket frame on /ws/events.
type EventMessage struct {
	Type              string    `json:"type"`
	State             string    `json:"state"`
	RemainingSeconds  int       `json:"remaining_seconds"`
	DurationSeconds   int       `json:"duration_seconds"`
	CompletedSessions int       `json:"completed_sessions"`
	Message           string    `json:"message,omitempty"`
	At                time.Time `json:"at"`
}

// DurationRequest carries the typed minutes; numbers and strings are accepted.
type DurationRequest struct {
	Minutes any `json:"minutes"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
	Input string `json:"input,omitempty"`
}

// snapshotMessageType opens every event stream with the current state.
const snapshotMessageType = "snapshot"

func newStateResponse(snapshot timekeeper.Snapshot) StateResponse {
	return StateResponse{
		State:             string(snapshot.State()),
		Status:            snapshot.Status(),
		Clock:             timekeeper.FormatClock(snapshot.Remaining),
		RemainingSeconds:  int(snapshot.Remaining / time.Second),
		RemainingFraction: snapshot.RemainingFraction(),
		SessionMinutes:    snapshot.SessionMinutes(),
		CompletedSessions: snapshot.CompletedSessions,
		TotalSessions:     snapshot.TotalSessions,
	}
}

func newEventMessage(event timekeeper.Event) EventMessage {
	return EventMessage{
		Type:              string(event.Type),
		State:             string(event.State),
		RemainingSeconds:  int(event.Remaining / time.Second),
		DurationSeconds:   int(event.Duration / time.Second),
		CompletedSessions: event.Completed,
		Message:           event.Message,
		At:                event.At,
	}
}

func newSnapshotMessage(snapshot timekeeper.Snapshot, at time.Time) EventMessage {
	return EventMessage{
		Type:              snapshotMessageType,
		State:             string(snapshot.State()),
		RemainingSeconds:  int(snapshot.Remaining / time.Second),
		DurationSeconds:   int(snapshot.SessionDuration / time.Second),
		CompletedSessions: snapshot.CompletedSessions,
		At:                at,
	}
}
