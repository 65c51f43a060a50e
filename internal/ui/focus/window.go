package focus

import (
	"context"
	"image/color"

	"focusring/internal/core/model"
	"focusring/internal/core/timekeeper"
	"focusring/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Controller is the part of the timer the window drives.
type Controller interface {
	Toggle()
	EndSession()
	ResetSessions()
	Snapshot() timekeeper.Snapshot
}

const (
	startLabel = "Start 🚀"
	pauseLabel = "Pause"
	rocketText = "🚀"
)

var (
	accentColor = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	dotOffColor = color.NRGBA{R: 90, G: 90, B: 90, A: 255}
)

// Window is the main focus timer window.
type Window struct {
	window     fyne.Window
	controller Controller
	engine     *animation.Engine

	progress       *widget.ProgressBar
	clockLabel     *canvas.Text
	statusLabel    *widget.Label
	rocket         *canvas.Text
	dots           []*canvas.Circle
	toggleButton   *widget.Button
	endButton      *widget.Button
	resetButton    *widget.Button
	durationButton *widget.Button

	onSetDuration func()
}

// New builds the focus window. It is hidden until Show.
func New(app fyne.App, controller Controller) *Window {
	window := app.NewWindow("Focus")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	progress := widget.NewProgressBar()
	progress.TextFormatter = func() string { return "" }

	clockLabel := canvas.NewText("--:--", accentColor)
	clockLabel.Alignment = fyne.TextAlignCenter
	clockLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockLabel.TextSize = 48

	statusLabel := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	rocket := canvas.NewText(rocketText, color.White)
	rocket.TextSize = 32

	dots := make([]*canvas.Circle, model.TotalSessions)
	dotObjects := make([]fyne.CanvasObject, len(dots))
	for index := range dots {
		dot := canvas.NewCircle(color.Transparent)
		dot.StrokeColor = dotOffColor
		dot.StrokeWidth = 2
		dots[index] = dot
		dotObjects[index] = container.NewGridWrap(fyne.NewSquareSize(14), dot)
	}

	focus := &Window{
		window:      window,
		controller:  controller,
		progress:    progress,
		clockLabel:  clockLabel,
		statusLabel: statusLabel,
		rocket:      rocket,
		dots:        dots,
	}
	focus.toggleButton = widget.NewButton(startLabel, focus.handleToggle)
	focus.toggleButton.Importance = widget.HighImportance
	focus.endButton = widget.NewButton("End session", focus.handleEnd)
	focus.resetButton = widget.NewButton("Reset sessions", focus.handleReset)
	focus.durationButton = widget.NewButton("Set duration…", func() {
		if focus.onSetDuration != nil {
			focus.onSetDuration()
		}
	})

	stage := container.New(&stageLayout{}, progress, clockLabel, rocket)
	focus.engine = animation.New(clockLabel, rocket, stage)

	content := container.NewVBox(
		stage,
		statusLabel,
		container.NewHBox(layout.NewSpacer(), focus.toggleButton, focus.endButton, layout.NewSpacer()),
		container.NewHBox(append(append([]fyne.CanvasObject{layout.NewSpacer()}, dotObjects...), layout.NewSpacer())...),
		container.NewHBox(layout.NewSpacer(), focus.resetButton, focus.durationButton, layout.NewSpacer()),
	)
	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(360, 320))
	window.SetCloseIntercept(window.Hide)

	focus.Render(controller.Snapshot())
	return focus
}

// Animator exposes the window animations to the feedback coordinator.
func (focus *Window) Animator() *animation.Engine {
	return focus.engine
}

// SetOnSetDuration sets the handler of the "Set duration…" button.
func (focus *Window) SetOnSetDuration(handler func()) {
	focus.onSetDuration = handler
}

// SetOnClose replaces the default close action, which only hides the window.
func (focus *Window) SetOnClose(handler func()) {
	focus.window.SetCloseIntercept(handler)
}

// Show displays the window.
func (focus *Window) Show() {
	focus.window.Show()
	focus.window.RequestFocus()
}

// Hide hides the window; the timer keeps running.
func (focus *Window) Hide() {
	focus.window.Hide()
}

// Run re-renders on every timer event until ctx is done or events closes.
func (focus *Window) Run(ctx context.Context, events <-chan timekeeper.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			snapshot := focus.controller.Snapshot()
			fyne.Do(func() {
				focus.Render(snapshot)
			})
		}
	}
}

// Render draws a snapshot. It must run on the fyne thread.
func (focus *Window) Render(snapshot timekeeper.Snapshot) {
	focus.progress.SetValue(snapshot.RemainingFraction())
	focus.clockLabel.Text = timekeeper.FormatClock(snapshot.Remaining)
	focus.clockLabel.Refresh()
	focus.statusLabel.SetText(snapshot.Status())

	if snapshot.Running {
		focus.toggleButton.SetText(pauseLabel)
		focus.durationButton.Disable()
	} else {
		focus.toggleButton.SetText(startLabel)
		focus.durationButton.Enable()
	}

	for index, dot := range focus.dots {
		if index < snapshot.CompletedSessions {
			dot.FillColor = accentColor
			dot.StrokeColor = accentColor
		} else {
			dot.FillColor = color.Transparent
			dot.StrokeColor = dotOffColor
		}
		dot.Refresh()
	}
}

func (focus *Window) handleToggle() {
	focus.controller.Toggle()
	focus.Render(focus.controller.Snapshot())
}

func (focus *Window) handleEnd() {
	focus.controller.EndSession()
	focus.Render(focus.controller.Snapshot())
}

func (focus *Window) handleReset() {
	focus.controller.ResetSessions()
	focus.Render(focus.controller.Snapshot())
}
