//go:build !linux

package platform

func newBrightnessProvider() BrightnessProvider {
	return unsupportedBrightness{}
}
