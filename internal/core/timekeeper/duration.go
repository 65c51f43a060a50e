package timekeeper

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"focusring/internal/core/model"
)

var (
	// ErrInvalidDuration indicates the requested session length is not a positive whole number of minutes.
	ErrInvalidDuration = errors.New("invalid session duration")
	// ErrSessionRunning indicates the duration cannot change while a session counts down.
	ErrSessionRunning = errors.New("session is running")
)

// ValidationError describes a rejected duration request.
type ValidationError struct {
	Input  string
	Reason string
	Err    error
}

func (validation *ValidationError) Error() string {
	if validation.Input == "" {
		return fmt.Sprintf("%v: %s", validation.Err, validation.Reason)
	}
	return fmt.Sprintf("%v: %q: %s", validation.Err, validation.Input, validation.Reason)
}

func (validation *ValidationError) Unwrap() error {
	return validation.Err
}

// ParseMinutes validates raw user input as a session length in minutes.
func ParseMinutes(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, &ValidationError{Input: raw, Reason: "enter a number of minutes", Err: ErrInvalidDuration}
	}
	minutes, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ValidationError{Input: raw, Reason: "not a whole number", Err: ErrInvalidDuration}
	}
	if err := validateMinutes(minutes); err != nil {
		err.Input = raw
		return 0, err
	}
	return minutes, nil
}

func validateMinutes(minutes int) *ValidationError {
	if minutes <= 0 {
		return &ValidationError{Reason: "must be greater than zero", Err: ErrInvalidDuration}
	}
	if minutes > model.MaxSessionMinutes {
		return &ValidationError{
			Reason: fmt.Sprintf("must be at most %d", model.MaxSessionMinutes),
			Err:    ErrInvalidDuration,
		}
	}
	return nil
}
