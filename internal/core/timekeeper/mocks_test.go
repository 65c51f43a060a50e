package timekeeper

import "sync"

// manualClock fires subscribers only when the test calls Fire.
type manualClock struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func()
	total  int
}

func newManualClock() *manualClock {
	return &manualClock{subs: make(map[int]func())}
}

func (clock *manualClock) Subscribe(onTick func()) func() {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	id := clock.nextID
	clock.nextID++
	clock.total++
	clock.subs[id] = onTick
	return func() {
		clock.mu.Lock()
		defer clock.mu.Unlock()
		delete(clock.subs, id)
	}
}

func (clock *manualClock) Fire() {
	clock.mu.Lock()
	subs := make([]func(), 0, len(clock.subs))
	for _, onTick := range clock.subs {
		subs = append(subs, onTick)
	}
	clock.mu.Unlock()

	for _, onTick := range subs {
		onTick()
	}
}

func (clock *manualClock) Active() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.subs)
}

// staleClock keeps a handle to every callback, even released ones,
// so tests can replay ticks that were in flight during a release.
type staleClock struct {
	*manualClock
	all []func()
}

func (clock *staleClock) Subscribe(onTick func()) func() {
	clock.mu.Lock()
	clock.all = append(clock.all, onTick)
	clock.mu.Unlock()
	return clock.manualClock.Subscribe(onTick)
}

func drain(events <-chan Event) []Event {
	var out []Event
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, event)
		default:
			return out
		}
	}
}

func eventTypes(events []Event) []EventType {
	types := make([]EventType, 0, len(events))
	for _, event := range events {
		types = append(types, event.Type)
	}
	return types
}
