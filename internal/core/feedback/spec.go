package feedback

import "time"

// PulseSpec describes the scale pulse shown when a session completes.
type PulseSpec struct {
	Scale      float32
	HalfPeriod time.Duration
	Iterations int
}

// FlightSpec describes the rocket flight shown when a session starts.
// Drift is the horizontal travel as a fraction of the surface width,
// Rise the vertical travel in device-independent pixels.
type FlightSpec struct {
	Duration time.Duration
	Drift    float32
	Rise     float32
	FadeOut  bool
}

// Animator starts named animations without waiting for them to finish.
type Animator interface {
	Pulse(spec PulseSpec) error
	Launch(spec FlightSpec) error
}

// Brightness reads and writes the display brightness in [0, 1].
type Brightness interface {
	Level() (float64, error)
	SetLevel(level float64) error
}

// Config contains feedback timing values.
type Config struct {
	Pulse         PulseSpec
	Flight        FlightSpec
	DimLevel      float64
	FlashCycles   int
	FlashHalf     time.Duration
	PulseEnabled  bool
	LaunchEnabled bool
	FlashEnabled  bool
}

// DefaultConfig mirrors the celebration of the mobile timer: four 1.2x pulses,
// four half-second dips to 20% brightness and a two second rocket flight.
func DefaultConfig() Config {
	return Config{
		Pulse: PulseSpec{
			Scale:      1.2,
			HalfPeriod: 500 * time.Millisecond,
			Iterations: 4,
		},
		Flight: FlightSpec{
			Duration: 2 * time.Second,
			Drift:    0.5,
			Rise:     300,
			FadeOut:  true,
		},
		DimLevel:      0.2,
		FlashCycles:   4,
		FlashHalf:     500 * time.Millisecond,
		PulseEnabled:  true,
		LaunchEnabled: true,
		FlashEnabled:  true,
	}
}
