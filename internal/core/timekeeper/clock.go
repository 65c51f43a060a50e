package timekeeper

import (
	"sync"
	"time"
)

// Clock delivers ticks to a subscriber until the returned cancel func is called.
// Cancel must not block: it may be called from inside onTick.
type Clock interface {
	Subscribe(onTick func()) (cancel func())
}

// TickerClock is a Clock backed by time.Ticker.
type TickerClock struct {
	Interval time.Duration
}

// Subscribe starts a ticker goroutine that calls onTick every Interval.
func (clock TickerClock) Subscribe(onTick func()) func() {
	interval := clock.Interval
	if interval <= 0 {
		interval = time.Second
	}

	stopCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				onTick()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stopCh)
		})
	}
}
