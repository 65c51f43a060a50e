package preferences

import (
	"errors"
	"strconv"

	"focusring/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// DurationSetter applies a typed session length.
type DurationSetter interface {
	RequestSetDuration(raw string) error
}

// DurationWindow asks for the session length in minutes.
type DurationWindow struct {
	window     fyne.Window
	setter     DurationSetter
	entry      *widget.Entry
	errorLabel *widget.Label
	saveButton *widget.Button
}

// NewDurationWindow creates the dialog. It stays open while the input is rejected.
func NewDurationWindow(app fyne.App, setter DurationSetter) *DurationWindow {
	window := app.NewWindow("Session length")

	entry := widget.NewEntry()
	entry.SetPlaceHolder("minutes")

	errorLabel := widget.NewLabel("")
	errorLabel.Importance = widget.DangerImportance
	errorLabel.Hide()

	prefs := &DurationWindow{
		window:     window,
		setter:     setter,
		entry:      entry,
		errorLabel: errorLabel,
	}
	entry.OnSubmitted = func(string) { prefs.handleSave() }

	prefs.saveButton = widget.NewButton("Set", prefs.handleSave)
	prefs.saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(layout.NewSpacer(), cancelButton, prefs.saveButton)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Focus session length", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, nil, widget.NewLabel("min"), entry),
		errorLabel,
	)
	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(300, 160))
	window.SetCloseIntercept(window.Hide)

	return prefs
}

// Show opens the dialog prefilled with the current length.
func (prefs *DurationWindow) Show(currentMinutes int) {
	prefs.entry.SetText(strconv.Itoa(currentMinutes))
	prefs.errorLabel.Hide()
	prefs.window.Show()
	prefs.window.RequestFocus()
}

func (prefs *DurationWindow) handleSave() {
	if err := prefs.setter.RequestSetDuration(prefs.entry.Text); err != nil {
		prefs.errorLabel.SetText(rejectionText(err))
		prefs.errorLabel.Show()
		return
	}

	prefs.errorLabel.Hide()
	prefs.window.Hide()
}

func rejectionText(err error) string {
	var validation *timekeeper.ValidationError
	if errors.As(err, &validation) {
		return validation.Reason
	}
	return err.Error()
}
