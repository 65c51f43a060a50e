package feedback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"focusring/internal/core/timekeeper"
)

// ErrUnavailable marks a capability the platform does not provide.
// Capabilities may wrap it to be skipped without logging.
var ErrUnavailable = errors.New("feedback capability unavailable")

// Coordinator turns TimeKeeper events into animations and brightness flashes.
// It never holds a reference to the TimeKeeper and never blocks it.
type Coordinator struct {
	config     Config
	animator   Animator
	brightness Brightness
	logger     *slog.Logger
	flashing   sync.WaitGroup

	// flashMu guards the level shared by overlapping flashes. Only the first
	// flash reads it, so a later one never mistakes the dimmed level for the
	// user's.
	flashMu       sync.Mutex
	activeFlashes int
	flashOrigin   float64
}

// New creates a Coordinator. Either capability may be nil.
func New(config Config, animator Animator, brightness Brightness, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	if config.FlashCycles < 0 {
		config.FlashCycles = 0
	}
	return &Coordinator{
		config:     config,
		animator:   animator,
		brightness: brightness,
		logger:     logger.With("component", "feedback"),
	}
}

// Run handles events until the channel closes or ctx is done.
// Flashes already started keep running to completion.
func (coordinator *Coordinator) Run(ctx context.Context, events <-chan timekeeper.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			coordinator.Handle(event)
		}
	}
}

// Handle dispatches a single event. It returns without waiting for side effects.
func (coordinator *Coordinator) Handle(event timekeeper.Event) {
	switch event.Type {
	case timekeeper.EventStarted:
		coordinator.launch()
	case timekeeper.EventSessionCompleted:
		coordinator.pulse()
		coordinator.startFlash()
	}
}

// Wait blocks until in-flight brightness flashes finish.
func (coordinator *Coordinator) Wait() {
	coordinator.flashing.Wait()
}

func (coordinator *Coordinator) launch() {
	if !coordinator.config.LaunchEnabled || coordinator.animator == nil {
		return
	}
	coordinator.guard("launch", func() error {
		return coordinator.animator.Launch(coordinator.config.Flight)
	})
}

func (coordinator *Coordinator) pulse() {
	if !coordinator.config.PulseEnabled || coordinator.animator == nil {
		return
	}
	coordinator.guard("pulse", func() error {
		return coordinator.animator.Pulse(coordinator.config.Pulse)
	})
}

func (coordinator *Coordinator) startFlash() {
	if !coordinator.config.FlashEnabled || coordinator.brightness == nil {
		return
	}
	coordinator.flashing.Add(1)
	go func() {
		defer coordinator.flashing.Done()
		coordinator.Flash(context.Background())
	}()
}

// Flash dims the display and restores it FlashCycles times, then makes sure the
// level read before the first overlapping flash is back in place. A failed
// initial read skips the flash.
func (coordinator *Coordinator) Flash(ctx context.Context) {
	if coordinator.brightness == nil {
		return
	}
	original, ok := coordinator.acquireFlash()
	if !ok {
		return
	}
	defer coordinator.releaseFlash()

	restored := true
	for cycle := 0; cycle < coordinator.config.FlashCycles; cycle++ {
		coordinator.guard("dim brightness", func() error {
			return coordinator.brightness.SetLevel(coordinator.config.DimLevel)
		})
		restored = false
		if !sleepWithContext(ctx, coordinator.config.FlashHalf) {
			break
		}
		restored = coordinator.guard("restore brightness", func() error {
			return coordinator.brightness.SetLevel(original)
		}) == nil
		if !sleepWithContext(ctx, coordinator.config.FlashHalf) {
			break
		}
	}

	if !restored {
		coordinator.guard("final brightness restore", func() error {
			return coordinator.brightness.SetLevel(original)
		})
	}
}

func (coordinator *Coordinator) acquireFlash() (float64, bool) {
	coordinator.flashMu.Lock()
	defer coordinator.flashMu.Unlock()
	if coordinator.activeFlashes == 0 {
		var level float64
		readErr := coordinator.guard("read brightness", func() error {
			var err error
			level, err = coordinator.brightness.Level()
			return err
		})
		if readErr != nil {
			return 0, false
		}
		coordinator.flashOrigin = level
	}
	coordinator.activeFlashes++
	return coordinator.flashOrigin, true
}

func (coordinator *Coordinator) releaseFlash() {
	coordinator.flashMu.Lock()
	defer coordinator.flashMu.Unlock()
	coordinator.activeFlashes--
}

// guard runs a capability call, converting panics into errors and logging failures.
func (coordinator *Coordinator) guard(action string, call func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%s: panic: %v", action, recovered)
		}
		if err != nil && !errors.Is(err, ErrUnavailable) {
			coordinator.logger.Debug("feedback capability failed", "action", action, "error", err)
		}
	}()
	return call()
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	if duration <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
