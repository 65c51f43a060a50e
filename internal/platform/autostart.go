package platform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAutostartUnsupported indicates login items cannot be managed here.
var ErrAutostartUnsupported = errors.New("autostart unsupported on this system")

// Autostart registers the focusring binary to launch when the user logs in.
type Autostart struct {
	appName string
}

// NewAutostart manages the login entry for appName.
func NewAutostart(appName string) *Autostart {
	return &Autostart{appName: slug(appName)}
}

// Enable writes or replaces the login entry so that execPath runs with args.
func (autostart *Autostart) Enable(execPath string, args ...string) error {
	if autostart.appName == "" {
		return fmt.Errorf("enable autostart: app name is empty")
	}
	if strings.TrimSpace(execPath) == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	if err := autostart.enable(execPath, args); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

// Disable removes the login entry. A missing entry is not an error.
func (autostart *Autostart) Disable() error {
	if autostart.appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}
	if err := autostart.disable(); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

// Enabled reports whether a login entry exists.
func (autostart *Autostart) Enabled() (bool, error) {
	if autostart.appName == "" {
		return false, nil
	}
	return autostart.enabled()
}

func slug(appName string) string {
	name := strings.ToLower(strings.TrimSpace(appName))
	return strings.ReplaceAll(name, " ", "-")
}

// commandLine joins the executable and its arguments, quoting parts that
// contain spaces.
func commandLine(execPath string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, part := range append([]string{execPath}, args...) {
		part = strings.Trim(part, `"`)
		if strings.ContainsAny(part, " \t") {
			part = `"` + part + `"`
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}
