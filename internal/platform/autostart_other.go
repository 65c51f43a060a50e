//go:build !linux && !darwin && !windows

package platform

func (autostart *Autostart) enable(string, []string) error {
	return ErrAutostartUnsupported
}

func (autostart *Autostart) disable() error {
	return ErrAutostartUnsupported
}

func (autostart *Autostart) enabled() (bool, error) {
	return false, ErrAutostartUnsupported
}
