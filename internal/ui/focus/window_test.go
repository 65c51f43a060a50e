package focus

import (
	"testing"
	"time"

	"focusring/internal/core/timekeeper"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowRendersInitialSnapshot(t *testing.T) {
	app := test.NewTempApp(t)
	focus := New(app, newFakeController())

	assert.Equal(t, "25:00", focus.clockLabel.Text)
	assert.Equal(t, 1.0, focus.progress.Value)
	assert.Equal(t, startLabel, focus.toggleButton.Text)
	assert.Equal(t, "Ready", focus.statusLabel.Text)
	assert.False(t, focus.durationButton.Disabled())
	require.Len(t, focus.dots, 8)
	assert.NotNil(t, focus.Animator())
}

func TestWindowButtonsDriveController(t *testing.T) {
	app := test.NewTempApp(t)
	controller := newFakeController()
	focus := New(app, controller)

	test.Tap(focus.toggleButton)
	assert.Equal(t, 1, controller.toggles)
	assert.Equal(t, pauseLabel, focus.toggleButton.Text)
	assert.True(t, focus.durationButton.Disabled())

	test.Tap(focus.endButton)
	assert.Equal(t, 1, controller.ends)
	assert.Equal(t, startLabel, focus.toggleButton.Text)
	assert.Equal(t, accentColor, focus.dots[0].FillColor)
	assert.Equal(t, dotOffColor, focus.dots[1].StrokeColor)

	test.Tap(focus.resetButton)
	assert.Equal(t, 1, controller.resets)
	assert.Equal(t, dotOffColor, focus.dots[0].StrokeColor)
}

func TestWindowDurationButtonCallsHandler(t *testing.T) {
	app := test.NewTempApp(t)
	focus := New(app, newFakeController())

	calls := 0
	focus.SetOnSetDuration(func() { calls++ })
	test.Tap(focus.durationButton)
	assert.Equal(t, 1, calls)
}

func TestWindowRenderPausedSession(t *testing.T) {
	app := test.NewTempApp(t)
	focus := New(app, newFakeController())

	focus.Render(timekeeper.Snapshot{
		SessionDuration:   20 * time.Minute,
		Remaining:         5*time.Minute + 7*time.Second,
		CompletedSessions: 8,
		TotalSessions:     8,
	})

	assert.Equal(t, "05:07", focus.clockLabel.Text)
	assert.InDelta(t, 0.2558, focus.progress.Value, 1e-3)
	assert.Equal(t, "Paused", focus.statusLabel.Text)
	for _, dot := range focus.dots {
		assert.Equal(t, accentColor, dot.FillColor)
	}
}
