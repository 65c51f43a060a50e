package platform

import (
	"fmt"

	"focusring/internal/core/feedback"
)

// ErrBrightnessUnsupported indicates brightness control is not available on this system.
var ErrBrightnessUnsupported = fmt.Errorf("brightness control unsupported: %w", feedback.ErrUnavailable)

// BrightnessProvider reads and writes the display brightness in [0, 1].
type BrightnessProvider interface {
	Level() (float64, error)
	SetLevel(level float64) error
}

// NewBrightnessProvider returns a platform-specific brightness provider.
func NewBrightnessProvider() BrightnessProvider {
	return newBrightnessProvider()
}

type unsupportedBrightness struct{}

func (unsupportedBrightness) Level() (float64, error) {
	return 0, ErrBrightnessUnsupported
}

func (unsupportedBrightness) SetLevel(float64) error {
	return ErrBrightnessUnsupported
}

func clampLevel(level float64) float64 {
	if level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}
