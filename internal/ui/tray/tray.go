package tray

import (
	"context"
	"fmt"

	"focusring/internal/core/timekeeper"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/systray"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggle        func()
	OnEndSession    func()
	OnResetSessions func()
	OnSetDuration   func()
	OnShowWindow    func()
	OnQuit          func()
}

// Icons are swapped as the timer starts and stops.
type Icons struct {
	Running fyne.Resource
	Paused  fyne.Resource
}

// Manager handles system tray state.
type Manager struct {
	app          desktop.App
	icons        Icons
	menu         *fyne.Menu
	statusItem   *fyne.MenuItem
	toggleItem   *fyne.MenuItem
	durationItem *fyne.MenuItem
	setTooltip   func(string)

	rendered bool
	running  bool
	tooltip  string
}

// New creates a tray manager with the provided callbacks. app may be nil
// when the platform has no tray; the manager then only tracks state.
func New(app desktop.App, icons Icons, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:        app,
		icons:      icons,
		setTooltip: systray.SetTooltip,
	}

	manager.statusItem = fyne.NewMenuItem("Ready", nil)
	manager.statusItem.Disabled = true
	manager.toggleItem = fyne.NewMenuItem("Start", invoke(callbacks.OnToggle))
	manager.durationItem = fyne.NewMenuItem("Set duration…", invoke(callbacks.OnSetDuration))

	manager.menu = fyne.NewMenu("focusring",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		fyne.NewMenuItem("End session", invoke(callbacks.OnEndSession)),
		fyne.NewMenuItem("Reset sessions", invoke(callbacks.OnResetSessions)),
		manager.durationItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show window", invoke(callbacks.OnShowWindow)),
		fyne.NewMenuItem("Quit", invoke(callbacks.OnQuit)),
	)
	// fyne adds its own Quit item unless one is flagged.
	manager.menu.Items[len(manager.menu.Items)-1].IsQuit = true

	if app != nil {
		app.SetSystemTrayMenu(manager.menu)
		if icons.Paused != nil {
			app.SetSystemTrayIcon(icons.Paused)
		}
	}
	return manager
}

// Run re-renders on every timer event until ctx is done or events closes.
func (manager *Manager) Run(ctx context.Context, events <-chan timekeeper.Event, snapshot func() timekeeper.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			current := snapshot()
			fyne.Do(func() {
				manager.Render(current)
			})
		}
	}
}

// Render updates labels, icon and tooltip. It must run on the fyne thread.
func (manager *Manager) Render(snapshot timekeeper.Snapshot) {
	manager.statusItem.Label = statusLine(snapshot)
	if snapshot.Running {
		manager.toggleItem.Label = "Pause"
	} else {
		manager.toggleItem.Label = "Start"
	}
	manager.durationItem.Disabled = snapshot.Running

	if !manager.rendered || manager.running != snapshot.Running {
		manager.applyIcon(snapshot.Running)
	}
	manager.rendered = true
	manager.running = snapshot.Running

	tooltip := "focusring " + timekeeper.FormatClock(snapshot.Remaining)
	if tooltip != manager.tooltip && manager.app != nil && manager.setTooltip != nil {
		manager.setTooltip(tooltip)
	}
	manager.tooltip = tooltip

	manager.refreshMenu()
}

func (manager *Manager) applyIcon(running bool) {
	if manager.app == nil {
		return
	}
	icon := manager.icons.Paused
	if running {
		icon = manager.icons.Running
	}
	if icon != nil {
		manager.app.SetSystemTrayIcon(icon)
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}

func statusLine(snapshot timekeeper.Snapshot) string {
	return fmt.Sprintf("%s · %s · %d/%d sessions",
		snapshot.Status(),
		timekeeper.FormatClock(snapshot.Remaining),
		snapshot.CompletedSessions,
		snapshot.TotalSessions,
	)
}

func invoke(handler func()) func() {
	return func() {
		if handler != nil {
			handler()
		}
	}
}
