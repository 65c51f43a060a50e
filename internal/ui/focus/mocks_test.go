package focus

import (
	"time"

	"focusring/internal/core/timekeeper"
)

type fakeController struct {
	snapshot timekeeper.Snapshot
	toggles  int
	ends     int
	resets   int
}

func newFakeController() *fakeController {
	return &fakeController{snapshot: timekeeper.Snapshot{
		SessionDuration: 25 * time.Minute,
		Remaining:       25 * time.Minute,
		TotalSessions:   8,
	}}
}

func (controller *fakeController) Toggle() {
	controller.toggles++
	controller.snapshot.Running = !controller.snapshot.Running
}

func (controller *fakeController) EndSession() {
	controller.ends++
	controller.snapshot.Running = false
	controller.snapshot.CompletedSessions++
}

func (controller *fakeController) ResetSessions() {
	controller.resets++
	controller.snapshot.CompletedSessions = 0
}

func (controller *fakeController) Snapshot() timekeeper.Snapshot {
	return controller.snapshot
}
