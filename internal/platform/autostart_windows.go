//go:build windows

package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (autostart *Autostart) enable(execPath string, args []string) error {
	return reg("add", registryRunKey, "/v", autostart.appName, "/t", "REG_SZ", "/d", commandLine(execPath, args), "/f")
}

func (autostart *Autostart) disable() error {
	enabled, err := autostart.enabled()
	if err != nil || !enabled {
		return err
	}
	return reg("delete", registryRunKey, "/v", autostart.appName, "/f")
}

func (autostart *Autostart) enabled() (bool, error) {
	err := exec.Command("reg", "query", registryRunKey, "/v", autostart.appName).Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &exitErr):
		return false, nil
	default:
		return false, fmt.Errorf("reg query: %w", err)
	}
}

func reg(args ...string) error {
	output, err := exec.Command("reg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg %s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}
