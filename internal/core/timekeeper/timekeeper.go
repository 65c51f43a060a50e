package timekeeper

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"focusring/internal/core/model"
)

// TimeKeeper is a state machine that counts down focus sessions.
type TimeKeeper struct {
	mu          sync.Mutex
	clock       Clock
	duration    int
	remaining   int
	running     bool
	completed   int
	generation  uint64
	cancelClock func()
	events      []chan Event
	closed      bool
}

// New creates a TimeKeeper with the provided configuration.
// A nil clock ticks once per config.TickInterval.
func New(config model.TimerConfig, clock Clock) *TimeKeeper {
	if config.SessionMinutes <= 0 || config.SessionMinutes > model.MaxSessionMinutes {
		config.SessionMinutes = model.DefaultSessionMinutes
	}
	if clock == nil {
		clock = TickerClock{Interval: config.TickInterval}
	}

	keeper := &TimeKeeper{
		clock:    clock,
		duration: config.SessionMinutes * 60,
	}
	keeper.remaining = keeper.duration
	return keeper
}

// Subscribe registers a new observer channel.
// Delivery never blocks. When the buffer is full, ticks and other routine
// events are dropped; Started and SessionCompleted evict them instead.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	return ch
}

// Unsubscribe removes and closes an observer channel.
func (keeper *TimeKeeper) Unsubscribe(events <-chan Event) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	for index, ch := range keeper.events {
		if ch == events {
			keeper.events = append(keeper.events[:index], keeper.events[index+1:]...)
			close(ch)
			return
		}
	}
}

// Close releases the clock and closes all observers.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	keeper.closed = true
	keeper.running = false
	keeper.stopClockLocked()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Snapshot returns a copy of the current state.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.snapshotLocked()
}

// Start begins counting down. A session with no time left completes immediately.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.startLocked()
}

// Pause freezes the countdown.
func (keeper *TimeKeeper) Pause() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.pauseLocked()
}

// Toggle pauses a running session or starts an idle one.
func (keeper *TimeKeeper) Toggle() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.running {
		keeper.pauseLocked()
		return
	}
	keeper.startLocked()
}

// Tick advances a running session by one second.
func (keeper *TimeKeeper) Tick() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.tickLocked()
}

// EndSession finishes the current session early and counts it as completed.
func (keeper *TimeKeeper) EndSession() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}
	keeper.remaining = 0
	keeper.completeLocked()
}

// ResetSessions clears the completed count and rewinds the countdown.
func (keeper *TimeKeeper) ResetSessions() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}
	keeper.completed = 0
	keeper.remaining = keeper.duration
	keeper.running = false
	keeper.stopClockLocked()
	keeper.emitLocked(keeper.eventLocked(EventSessionsReset))
}

// SetDuration changes the session length. It is rejected while running.
func (keeper *TimeKeeper) SetDuration(minutes int) error {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	if validation := validateMinutes(minutes); validation != nil {
		validation.Input = strconv.Itoa(minutes)
		return keeper.rejectLocked(validation)
	}
	return keeper.applyDurationLocked(minutes)
}

// RequestSetDuration validates raw user input and applies it.
// A nil error means the request is complete and the input dialog may close.
func (keeper *TimeKeeper) RequestSetDuration(raw string) error {
	minutes, err := ParseMinutes(raw)

	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if err != nil {
		var validation *ValidationError
		if errors.As(err, &validation) {
			return keeper.rejectLocked(validation)
		}
		return err
	}
	return keeper.applyDurationLocked(minutes)
}

func (keeper *TimeKeeper) applyDurationLocked(minutes int) error {
	if keeper.running {
		return keeper.rejectLocked(&ValidationError{
			Input:  strconv.Itoa(minutes),
			Reason: "pause the session before changing its length",
			Err:    ErrSessionRunning,
		})
	}
	keeper.duration = minutes * 60
	keeper.remaining = keeper.duration
	keeper.emitLocked(keeper.eventLocked(EventDurationChanged))
	return nil
}

func (keeper *TimeKeeper) rejectLocked(validation *ValidationError) error {
	event := keeper.eventLocked(EventValidationRejected)
	event.Message = validation.Reason
	keeper.emitLocked(event)
	return validation
}

func (keeper *TimeKeeper) startLocked() {
	if keeper.running || keeper.closed {
		return
	}

	keeper.running = true
	keeper.emitLocked(keeper.eventLocked(EventStarted))

	if keeper.remaining <= 0 {
		keeper.completeLocked()
		return
	}
	keeper.startClockLocked()
}

func (keeper *TimeKeeper) pauseLocked() {
	if !keeper.running {
		return
	}
	keeper.running = false
	keeper.stopClockLocked()
	keeper.emitLocked(keeper.eventLocked(EventPaused))
}

func (keeper *TimeKeeper) tickLocked() {
	if !keeper.running {
		return
	}
	keeper.remaining--
	if keeper.remaining <= 0 {
		keeper.completeLocked()
		return
	}
	keeper.emitLocked(keeper.eventLocked(EventTick))
}

// completeLocked is the only place a session ends.
func (keeper *TimeKeeper) completeLocked() {
	keeper.stopClockLocked()
	keeper.running = false
	if keeper.completed < model.TotalSessions {
		keeper.completed++
	}
	keeper.remaining = keeper.duration

	event := keeper.eventLocked(EventSessionCompleted)
	event.State = StateCompleting
	keeper.emitLocked(event)
}

func (keeper *TimeKeeper) startClockLocked() {
	keeper.stopClockLocked()
	generation := keeper.generation
	keeper.cancelClock = keeper.clock.Subscribe(func() {
		keeper.clockTick(generation)
	})
}

func (keeper *TimeKeeper) stopClockLocked() {
	keeper.generation++
	if keeper.cancelClock != nil {
		keeper.cancelClock()
		keeper.cancelClock = nil
	}
}

// clockTick ignores ticks from a subscription that has since been released.
func (keeper *TimeKeeper) clockTick(generation uint64) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if generation != keeper.generation {
		return
	}
	keeper.tickLocked()
}

func (keeper *TimeKeeper) snapshotLocked() Snapshot {
	return Snapshot{
		SessionDuration:   time.Duration(keeper.duration) * time.Second,
		Remaining:         time.Duration(keeper.remaining) * time.Second,
		Running:           keeper.running,
		CompletedSessions: keeper.completed,
		TotalSessions:     model.TotalSessions,
	}
}

func (keeper *TimeKeeper) eventLocked(eventType EventType) Event {
	snapshot := keeper.snapshotLocked()
	return Event{
		Type:      eventType,
		State:     snapshot.State(),
		Remaining: snapshot.Remaining,
		Duration:  snapshot.SessionDuration,
		Completed: snapshot.CompletedSessions,
		At:        time.Now(),
	}
}

// emitLocked never blocks. A full buffer drops routine events, while an
// essential event displaces queued routine ones.
func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
			continue
		default:
		}
		if !event.Type.Essential() {
			continue
		}
		makeRoom(ch)
		select {
		case ch <- event:
		default:
		}
	}
}

// makeRoom drops queued routine events from ch. When only essential events
// are queued the oldest one gives way. Callers must be the only sender.
func makeRoom(ch chan Event) {
	queued := make([]Event, 0, cap(ch))
drain:
	for len(queued) < cap(ch) {
		select {
		case event := <-ch:
			queued = append(queued, event)
		default:
			break drain
		}
	}

	kept := queued[:0]
	for _, event := range queued {
		if event.Type.Essential() {
			kept = append(kept, event)
		}
	}
	if len(kept) >= cap(ch) {
		kept = kept[1:]
	}
	for _, event := range kept {
		select {
		case ch <- event:
		default:
		}
	}
}
