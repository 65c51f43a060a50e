package remote

import "sync"

// manualClock ticks only when the test calls Fire.
type manualClock struct {
	mu     sync.Mutex
	onTick func()
}

func (clock *manualClock) Subscribe(onTick func()) func() {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.onTick = onTick
	return func() {
		clock.mu.Lock()
		defer clock.mu.Unlock()
		clock.onTick = nil
	}
}

func (clock *manualClock) Fire() {
	clock.mu.Lock()
	onTick := clock.onTick
	clock.mu.Unlock()
	if onTick != nil {
		onTick()
	}
}
