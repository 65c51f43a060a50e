package timekeeper

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"focusring/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeeper(t *testing.T) (*TimeKeeper, *manualClock, <-chan Event) {
	t.Helper()
	clock := newManualClock()
	keeper := New(model.DefaultTimerConfig(), clock)
	events := keeper.Subscribe(4096)
	t.Cleanup(keeper.Close)
	return keeper, clock, events
}

func TestNewDefaults(t *testing.T) {
	keeper, clock, _ := newTestKeeper(t)

	snapshot := keeper.Snapshot()
	assert.Equal(t, 1500*time.Second, snapshot.SessionDuration)
	assert.Equal(t, 1500*time.Second, snapshot.Remaining)
	assert.False(t, snapshot.Running)
	assert.Equal(t, 0, snapshot.CompletedSessions)
	assert.Equal(t, model.TotalSessions, snapshot.TotalSessions)
	assert.Equal(t, StateIdle, snapshot.State())
	assert.Equal(t, 0, clock.Active())
}

func TestNewRejectsInvalidMinutes(t *testing.T) {
	keeper := New(model.TimerConfig{SessionMinutes: -5}, newManualClock())
	defer keeper.Close()

	assert.Equal(t, 25*time.Minute, keeper.Snapshot().SessionDuration)
}

func TestStartSubscribesClockOnce(t *testing.T) {
	keeper, clock, events := newTestKeeper(t)

	keeper.Start()
	keeper.Start()

	assert.True(t, keeper.Snapshot().Running)
	assert.Equal(t, 1, clock.Active())
	assert.Equal(t, []EventType{EventStarted}, eventTypes(drain(events)))
}

func TestPauseIsIdempotent(t *testing.T) {
	keeper, clock, events := newTestKeeper(t)

	keeper.Start()
	clock.Fire()
	keeper.Pause()
	afterFirst := keeper.Snapshot()
	keeper.Pause()

	assert.Equal(t, afterFirst, keeper.Snapshot())
	assert.Equal(t, 0, clock.Active())
	assert.Equal(t, []EventType{EventStarted, EventTick, EventPaused}, eventTypes(drain(events)))
}

func TestPauseWhileIdleDoesNothing(t *testing.T) {
	keeper, _, events := newTestKeeper(t)

	keeper.Pause()

	assert.Empty(t, drain(events))
}

func TestToggle(t *testing.T) {
	keeper, clock, _ := newTestKeeper(t)

	keeper.Toggle()
	assert.True(t, keeper.Snapshot().Running)
	assert.Equal(t, 1, clock.Active())

	keeper.Toggle()
	assert.False(t, keeper.Snapshot().Running)
	assert.Equal(t, 0, clock.Active())
}

func TestConcurrentTogglesEachFlipState(t *testing.T) {
	keeper, clock, events := newTestKeeper(t)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keeper.Toggle()
		}()
	}
	wg.Wait()

	assert.False(t, keeper.Snapshot().Running)
	assert.Equal(t, 0, clock.Active())
	started, paused := 0, 0
	for _, eventType := range eventTypes(drain(events)) {
		switch eventType {
		case EventStarted:
			started++
		case EventPaused:
			paused++
		}
	}
	assert.Equal(t, 100, started)
	assert.Equal(t, 100, paused)
}

func TestTickWhileIdleDoesNothing(t *testing.T) {
	keeper, _, events := newTestKeeper(t)

	keeper.Tick()

	assert.Equal(t, 1500*time.Second, keeper.Snapshot().Remaining)
	assert.Empty(t, drain(events))
}

func TestFullSessionCompletesOnLastTick(t *testing.T) {
	keeper, clock, events := newTestKeeper(t)

	keeper.Start()
	for i := 0; i < 1499; i++ {
		clock.Fire()
	}
	snapshot := keeper.Snapshot()
	require.True(t, snapshot.Running)
	require.Equal(t, time.Second, snapshot.Remaining)

	clock.Fire()

	snapshot = keeper.Snapshot()
	assert.False(t, snapshot.Running)
	assert.Equal(t, 1, snapshot.CompletedSessions)
	assert.Equal(t, 1500*time.Second, snapshot.Remaining)
	assert.Equal(t, 0, clock.Active())

	completions := 0
	for _, event := range drain(events) {
		if event.Type == EventTick {
			assert.Greater(t, event.Remaining, time.Duration(0), "tick must never report zero")
		}
		if event.Type == EventSessionCompleted {
			completions++
			assert.Equal(t, 1, event.Completed)
			assert.Equal(t, StateCompleting, event.State)
			assert.Equal(t, 1500*time.Second, event.Remaining)
		}
	}
	assert.Equal(t, 1, completions)

	// The released subscription is gone; further firing changes nothing.
	clock.Fire()
	assert.Equal(t, 1500*time.Second, keeper.Snapshot().Remaining)
}

func TestManualTickDrivesCompletion(t *testing.T) {
	keeper, _, events := newTestKeeper(t)
	require.NoError(t, keeper.SetDuration(1))
	drain(events)

	keeper.Start()
	for i := 0; i < 60; i++ {
		keeper.Tick()
	}

	snapshot := keeper.Snapshot()
	assert.Equal(t, 1, snapshot.CompletedSessions)
	assert.False(t, snapshot.Running)
	assert.Equal(t, time.Minute, snapshot.Remaining)

	types := eventTypes(drain(events))
	assert.Equal(t, EventStarted, types[0])
	assert.Equal(t, EventSessionCompleted, types[len(types)-1])
	assert.Len(t, types, 61)
}

func TestEndSessionWhileRunning(t *testing.T) {
	keeper, clock, events := newTestKeeper(t)

	keeper.Start()
	for i := 0; i < 600; i++ {
		clock.Fire()
	}
	require.Equal(t, 900*time.Second, keeper.Snapshot().Remaining)
	drain(events)

	keeper.EndSession()

	snapshot := keeper.Snapshot()
	assert.Equal(t, 1, snapshot.CompletedSessions)
	assert.Equal(t, 1500*time.Second, snapshot.Remaining)
	assert.False(t, snapshot.Running)
	assert.Equal(t, 0, clock.Active())
	assert.Equal(t, []EventType{EventSessionCompleted}, eventTypes(drain(events)))

	clock.Fire()
	assert.Equal(t, 1500*time.Second, keeper.Snapshot().Remaining)
}

func TestEndSessionWhileIdleCompletes(t *testing.T) {
	keeper, _, events := newTestKeeper(t)

	keeper.EndSession()

	assert.Equal(t, 1, keeper.Snapshot().CompletedSessions)
	assert.Equal(t, []EventType{EventSessionCompleted}, eventTypes(drain(events)))
}

func TestCompletedSessionsSaturate(t *testing.T) {
	keeper, _, events := newTestKeeper(t)

	for i := 0; i < 10; i++ {
		keeper.Start()
		keeper.EndSession()
	}

	assert.Equal(t, model.TotalSessions, keeper.Snapshot().CompletedSessions)

	last := 0
	for _, event := range drain(events) {
		if event.Type == EventSessionCompleted {
			assert.GreaterOrEqual(t, event.Completed, last)
			assert.LessOrEqual(t, event.Completed, model.TotalSessions)
			last = event.Completed
		}
	}
	assert.Equal(t, model.TotalSessions, last)
}

func TestResetSessions(t *testing.T) {
	keeper, clock, events := newTestKeeper(t)
	for i := 0; i < 3; i++ {
		keeper.EndSession()
	}
	keeper.Start()
	clock.Fire()
	drain(events)

	keeper.ResetSessions()

	snapshot := keeper.Snapshot()
	assert.Equal(t, 0, snapshot.CompletedSessions)
	assert.Equal(t, snapshot.SessionDuration, snapshot.Remaining)
	assert.False(t, snapshot.Running)
	assert.Equal(t, 0, clock.Active())
	assert.Equal(t, []EventType{EventSessionsReset}, eventTypes(drain(events)))
}

func TestStartWithNoTimeLeftCompletesImmediately(t *testing.T) {
	keeper, clock, events := newTestKeeper(t)
	keeper.mu.Lock()
	keeper.remaining = 0
	keeper.mu.Unlock()

	keeper.Start()

	snapshot := keeper.Snapshot()
	assert.False(t, snapshot.Running)
	assert.Equal(t, 1, snapshot.CompletedSessions)
	assert.Equal(t, 1500*time.Second, snapshot.Remaining)
	assert.Equal(t, 0, clock.Active())
	assert.Equal(t, 0, clock.total, "no clock subscription should be created")
	assert.Equal(t, []EventType{EventStarted, EventSessionCompleted}, eventTypes(drain(events)))
}

func TestStaleClockTickIsIgnored(t *testing.T) {
	clock := &staleClock{manualClock: newManualClock()}
	keeper := New(model.DefaultTimerConfig(), clock)
	defer keeper.Close()

	keeper.Start()
	keeper.Pause()
	keeper.Start()

	require.Len(t, clock.all, 2)
	clock.all[0]()

	assert.Equal(t, 1500*time.Second, keeper.Snapshot().Remaining)

	clock.all[1]()
	assert.Equal(t, 1499*time.Second, keeper.Snapshot().Remaining)
	assert.Equal(t, 1, clock.Active())
}

func TestSetDurationWhileIdle(t *testing.T) {
	for _, minutes := range []int{1, 5, 25, 90, 600, model.MaxSessionMinutes} {
		t.Run(fmt.Sprintf("%d_minutes", minutes), func(t *testing.T) {
			keeper, _, events := newTestKeeper(t)

			require.NoError(t, keeper.SetDuration(minutes))

			snapshot := keeper.Snapshot()
			assert.Equal(t, time.Duration(minutes)*time.Minute, snapshot.SessionDuration)
			assert.Equal(t, snapshot.SessionDuration, snapshot.Remaining)

			got := drain(events)
			require.Len(t, got, 1)
			assert.Equal(t, EventDurationChanged, got[0].Type)
			assert.Equal(t, time.Duration(minutes)*time.Minute, got[0].Duration)
		})
	}
}

func TestSetDurationRejectsNonPositive(t *testing.T) {
	for _, minutes := range []int{0, -1, -25, model.MaxSessionMinutes + 1} {
		t.Run(fmt.Sprintf("%d", minutes), func(t *testing.T) {
			keeper, _, events := newTestKeeper(t)
			before := keeper.Snapshot()

			err := keeper.SetDuration(minutes)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDuration)
			assert.Equal(t, before, keeper.Snapshot())
			got := drain(events)
			require.Len(t, got, 1)
			assert.Equal(t, EventValidationRejected, got[0].Type)
			assert.NotEmpty(t, got[0].Message)
		})
	}
}

func TestRequestSetDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		expected time.Duration
	}{
		{name: "plain", input: "30", expected: 30 * time.Minute},
		{name: "padded", input: "  45 \n", expected: 45 * time.Minute},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "abc", wantErr: true},
		{name: "fraction", input: "2.5", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-3", wantErr: true},
		{name: "mixed", input: "12min", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keeper, _, events := newTestKeeper(t)
			before := keeper.Snapshot()

			err := keeper.RequestSetDuration(tt.input)
			got := drain(events)
			require.Len(t, got, 1)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDuration)
				var validation *ValidationError
				require.ErrorAs(t, err, &validation)
				assert.Equal(t, tt.input, validation.Input)
				assert.Equal(t, before, keeper.Snapshot())
				assert.Equal(t, EventValidationRejected, got[0].Type)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, keeper.Snapshot().SessionDuration)
			assert.Equal(t, tt.expected, keeper.Snapshot().Remaining)
			assert.Equal(t, EventDurationChanged, got[0].Type)
		})
	}
}

func TestSetDurationRejectedWhileRunning(t *testing.T) {
	keeper, clock, events := newTestKeeper(t)
	keeper.Start()
	clock.Fire()
	drain(events)
	before := keeper.Snapshot()

	err := keeper.RequestSetDuration("10")

	assert.ErrorIs(t, err, ErrSessionRunning)
	assert.Equal(t, before, keeper.Snapshot())
	assert.Equal(t, []EventType{EventValidationRejected}, eventTypes(drain(events)))

	assert.ErrorIs(t, keeper.SetDuration(10), ErrSessionRunning)
}

func TestDurationChangeAfterProgressResetsRemaining(t *testing.T) {
	keeper, clock, _ := newTestKeeper(t)
	keeper.Start()
	clock.Fire()
	clock.Fire()
	keeper.Pause()

	require.NoError(t, keeper.SetDuration(10))

	assert.Equal(t, 10*time.Minute, keeper.Snapshot().Remaining)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	keeper, _, _ := newTestKeeper(t)
	extra := keeper.Subscribe(1)

	keeper.Unsubscribe(extra)

	_, ok := <-extra
	assert.False(t, ok)
	keeper.Start()
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	keeper, clock, _ := newTestKeeper(t)
	slow := keeper.Subscribe(1)

	keeper.Start()
	for i := 0; i < 10; i++ {
		clock.Fire()
	}

	assert.Equal(t, 1490*time.Second, keeper.Snapshot().Remaining)
	assert.Len(t, drain(slow), 1)
}

func TestFullSubscriberStillGetsCompletion(t *testing.T) {
	keeper, clock, _ := newTestKeeper(t)
	slow := keeper.Subscribe(2)

	keeper.Start()
	for i := 0; i < 5; i++ {
		clock.Fire()
	}
	keeper.EndSession()

	assert.Equal(t, []EventType{EventStarted, EventSessionCompleted}, eventTypes(drain(slow)))
}

func TestEssentialEventsDisplaceOldest(t *testing.T) {
	keeper, _, _ := newTestKeeper(t)
	slow := keeper.Subscribe(1)

	keeper.Start()
	keeper.EndSession()

	received := drain(slow)
	require.Len(t, received, 1)
	assert.Equal(t, EventSessionCompleted, received[0].Type)
	assert.Equal(t, 1, received[0].Completed)
}

func TestEssentialEventTypes(t *testing.T) {
	assert.True(t, EventStarted.Essential())
	assert.True(t, EventSessionCompleted.Essential())
	assert.False(t, EventTick.Essential())
	assert.False(t, EventPaused.Essential())
}

func TestCloseReleasesClockAndObservers(t *testing.T) {
	clock := newManualClock()
	keeper := New(model.DefaultTimerConfig(), clock)
	events := keeper.Subscribe(4)
	keeper.Start()

	keeper.Close()
	keeper.Close()

	assert.Equal(t, 0, clock.Active())
	drain(events)
	_, ok := <-events
	assert.False(t, ok)

	late := keeper.Subscribe(1)
	_, ok = <-late
	assert.False(t, ok)

	keeper.Start()
	assert.False(t, keeper.Snapshot().Running)
}

func TestTickerClockStopsOnCancel(t *testing.T) {
	ticks := make(chan struct{}, 16)
	cancel := TickerClock{Interval: time.Millisecond}.Subscribe(func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("ticker clock never fired")
	}

	cancel()
	cancel()
}

func TestTickerClockDrivesKeeper(t *testing.T) {
	keeper := New(model.TimerConfig{SessionMinutes: 1, TickInterval: time.Millisecond}, nil)
	defer keeper.Close()

	keeper.Start()

	assert.Eventually(t, func() bool {
		return keeper.Snapshot().Remaining < time.Minute
	}, time.Second, time.Millisecond)
}
