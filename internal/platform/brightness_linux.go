package platform

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	gnomePowerService   = "org.gnome.SettingsDaemon.Power"
	gnomePowerPath      = "/org/gnome/SettingsDaemon/Power"
	gnomeBrightnessProp = "org.gnome.SettingsDaemon.Power.Screen.Brightness"
	sysfsBacklightRoot  = "/sys/class/backlight"
	sysfsBrightnessFile = "brightness"
	sysfsMaxBrightness  = "max_brightness"
)

func newBrightnessProvider() BrightnessProvider {
	if provider, err := newGnomeBrightness(); err == nil {
		return provider
	}
	if provider, err := newSysfsBrightness(sysfsBacklightRoot); err == nil {
		return provider
	}
	return unsupportedBrightness{}
}

// gnomeBrightness talks to gnome-settings-daemon, which exposes the panel
// brightness as a 0..100 percentage on the session bus.
type gnomeBrightness struct {
	object dbus.BusObject
}

func newGnomeBrightness() (*gnomeBrightness, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	provider := &gnomeBrightness{object: conn.Object(gnomePowerService, dbus.ObjectPath(gnomePowerPath))}
	if _, err := provider.Level(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return provider, nil
}

func (provider *gnomeBrightness) Level() (float64, error) {
	variant, err := provider.object.GetProperty(gnomeBrightnessProp)
	if err != nil {
		return 0, fmt.Errorf("read gnome brightness: %w", err)
	}
	percent, ok := variant.Value().(int32)
	if !ok {
		return 0, fmt.Errorf("read gnome brightness: unexpected type %s", variant.Signature())
	}
	if percent < 0 {
		return 0, ErrBrightnessUnsupported
	}
	return float64(percent) / 100, nil
}

func (provider *gnomeBrightness) SetLevel(level float64) error {
	percent := int32(math.Round(clampLevel(level) * 100))
	if err := provider.object.SetProperty(gnomeBrightnessProp, dbus.MakeVariant(percent)); err != nil {
		return fmt.Errorf("set gnome brightness: %w", err)
	}
	return nil
}

// sysfsBrightness drives a backlight device directly. Writing usually needs
// udev rules or group membership; failures surface as errors.
type sysfsBrightness struct {
	devicePath string
	max        int
}

func newSysfsBrightness(root string) (*sysfsBrightness, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list backlight devices: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		devicePath := filepath.Join(root, name)
		maxValue, err := readSysfsInt(filepath.Join(devicePath, sysfsMaxBrightness))
		if err != nil || maxValue <= 0 {
			continue
		}
		return &sysfsBrightness{devicePath: devicePath, max: maxValue}, nil
	}
	return nil, ErrBrightnessUnsupported
}

func (provider *sysfsBrightness) Level() (float64, error) {
	value, err := readSysfsInt(filepath.Join(provider.devicePath, sysfsBrightnessFile))
	if err != nil {
		return 0, err
	}
	return clampLevel(float64(value) / float64(provider.max)), nil
}

func (provider *sysfsBrightness) SetLevel(level float64) error {
	value := int(math.Round(clampLevel(level) * float64(provider.max)))
	path := filepath.Join(provider.devicePath, sysfsBrightnessFile)
	if err := os.WriteFile(path, []byte(strconv.Itoa(value)), 0o644); err != nil {
		return fmt.Errorf("write backlight %s: %w", path, err)
	}
	return nil
}

func readSysfsInt(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	value, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return value, nil
}
