package animation

import (
	"image/color"
	"sync"

	"focusring/internal/core/feedback"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// Engine drives the focus window animations with fyne's animation ticker.
// It satisfies feedback.Animator and may be called from any goroutine.
type Engine struct {
	mu      sync.Mutex
	clock   *canvas.Text
	rocket  *canvas.Text
	surface fyne.CanvasObject

	baseSize   float32
	rocketHome fyne.Position
	rocketTint color.Color

	pulse  *fyne.Animation
	flight *fyne.Animation
}

// New creates an engine animating the clock label and the rocket glyph.
// The rocket drifts relative to the width of surface.
func New(clock, rocket *canvas.Text, surface fyne.CanvasObject) *Engine {
	engine := &Engine{
		clock:   clock,
		rocket:  rocket,
		surface: surface,
	}
	if clock != nil {
		engine.baseSize = clock.TextSize
	}
	if rocket != nil {
		engine.rocketTint = rocket.Color
	}
	return engine
}

// Pulse scales the clock label up and back Iterations times.
func (engine *Engine) Pulse(spec feedback.PulseSpec) error {
	if engine.clock == nil {
		return feedback.ErrUnavailable
	}
	if spec.Iterations <= 0 || spec.HalfPeriod <= 0 {
		return nil
	}

	animation := fyne.NewAnimation(spec.HalfPeriod, func(progress float32) {
		engine.clock.TextSize = pulseSize(engine.baseSize, spec.Scale, progress)
		engine.clock.Refresh()
	})
	animation.AutoReverse = true
	animation.RepeatCount = spec.Iterations - 1
	animation.Curve = fyne.AnimationEaseInOut

	engine.mu.Lock()
	previous := engine.pulse
	engine.pulse = animation
	engine.mu.Unlock()

	fyne.Do(func() {
		if previous != nil {
			previous.Stop()
		}
		animation.Start()
	})
	return nil
}

// Launch flies the rocket up and away, then puts it back on the pad.
func (engine *Engine) Launch(spec feedback.FlightSpec) error {
	if engine.rocket == nil {
		return feedback.ErrUnavailable
	}
	if spec.Duration <= 0 {
		return nil
	}

	engine.mu.Lock()
	previous := engine.flight
	if previous == nil {
		engine.rocketHome = engine.rocket.Position()
	}
	home := engine.rocketHome
	animation := fyne.NewAnimation(spec.Duration, func(progress float32) {
		engine.renderFlight(home, spec, progress)
	})
	animation.Curve = fyne.AnimationEaseIn
	engine.flight = animation
	engine.mu.Unlock()

	fyne.Do(func() {
		if previous != nil {
			previous.Stop()
		}
		animation.Start()
	})
	return nil
}

// Stop halts running animations and restores the resting frame.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	pulse, flight := engine.pulse, engine.flight
	engine.pulse, engine.flight = nil, nil
	home := engine.rocketHome
	engine.mu.Unlock()

	fyne.Do(func() {
		if pulse != nil {
			pulse.Stop()
			engine.clock.TextSize = engine.baseSize
			engine.clock.Refresh()
		}
		if flight != nil {
			flight.Stop()
			engine.renderFlight(home, feedback.FlightSpec{}, 1)
		}
	})
}

func (engine *Engine) renderFlight(home fyne.Position, spec feedback.FlightSpec, progress float32) {
	if progress >= 1 {
		engine.rocket.Move(home)
		engine.rocket.Color = engine.rocketTint
		engine.rocket.Refresh()
		return
	}
	var width float32
	if engine.surface != nil {
		width = engine.surface.Size().Width
	}
	position, alpha := flightFrame(home, spec, width, progress)
	engine.rocket.Move(position)
	engine.rocket.Color = withAlpha(engine.rocketTint, alpha)
	engine.rocket.Refresh()
}

func pulseSize(base, scale, progress float32) float32 {
	return base * (1 + (scale-1)*progress)
}

func flightFrame(home fyne.Position, spec feedback.FlightSpec, width, progress float32) (fyne.Position, uint8) {
	position := home.AddXY(spec.Drift*width*progress, -spec.Rise*progress)
	alpha := uint8(255)
	if spec.FadeOut {
		alpha = uint8(255 * (1 - progress))
	}
	return position, alpha
}

func withAlpha(tint color.Color, alpha uint8) color.Color {
	if tint == nil {
		tint = color.White
	}
	red, green, blue, _ := tint.RGBA()
	return color.NRGBA{R: uint8(red >> 8), G: uint8(green >> 8), B: uint8(blue >> 8), A: alpha}
}
