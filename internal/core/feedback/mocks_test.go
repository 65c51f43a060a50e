package feedback

import (
	"errors"
	"sync"
)

var errDevice = errors.New("device busy")

type fakeAnimator struct {
	mu       sync.Mutex
	pulses   []PulseSpec
	launches []FlightSpec
	err      error
	panics   bool
}

func (animator *fakeAnimator) Pulse(spec PulseSpec) error {
	animator.mu.Lock()
	defer animator.mu.Unlock()
	if animator.panics {
		panic("renderer gone")
	}
	animator.pulses = append(animator.pulses, spec)
	return animator.err
}

func (animator *fakeAnimator) Launch(spec FlightSpec) error {
	animator.mu.Lock()
	defer animator.mu.Unlock()
	if animator.panics {
		panic("renderer gone")
	}
	animator.launches = append(animator.launches, spec)
	return animator.err
}

func (animator *fakeAnimator) counts() (int, int) {
	animator.mu.Lock()
	defer animator.mu.Unlock()
	return len(animator.pulses), len(animator.launches)
}

// fakeBrightness fails or panics on selected SetLevel calls (zero based).
type fakeBrightness struct {
	mu      sync.Mutex
	level   float64
	readErr error
	failOn  map[int]bool
	panicOn map[int]bool
	calls   int
	history []float64
}

func (brightness *fakeBrightness) Level() (float64, error) {
	brightness.mu.Lock()
	defer brightness.mu.Unlock()
	if brightness.readErr != nil {
		return 0, brightness.readErr
	}
	return brightness.level, nil
}

func (brightness *fakeBrightness) SetLevel(level float64) error {
	brightness.mu.Lock()
	defer brightness.mu.Unlock()
	call := brightness.calls
	brightness.calls++
	if brightness.panicOn[call] {
		panic("backlight driver crashed")
	}
	if brightness.failOn[call] {
		return errDevice
	}
	brightness.level = level
	brightness.history = append(brightness.history, level)
	return nil
}

func (brightness *fakeBrightness) snapshot() (float64, []float64, int) {
	brightness.mu.Lock()
	defer brightness.mu.Unlock()
	return brightness.level, append([]float64(nil), brightness.history...), brightness.calls
}

type manualClock struct {
	mu   sync.Mutex
	subs map[int]func()
	next int
}

func (clock *manualClock) Subscribe(onTick func()) func() {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	if clock.subs == nil {
		clock.subs = make(map[int]func())
	}
	id := clock.next
	clock.next++
	clock.subs[id] = onTick
	return func() {
		clock.mu.Lock()
		defer clock.mu.Unlock()
		delete(clock.subs, id)
	}
}
