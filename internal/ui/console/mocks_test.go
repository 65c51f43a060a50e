package console

import (
	"sync"
	"time"

	"focusring/internal/core/timekeeper"
)

type fakeController struct {
	mu       sync.Mutex
	snapshot timekeeper.Snapshot
	calls    []string
	reject   error
}

func newFakeController() *fakeController {
	return &fakeController{snapshot: timekeeper.Snapshot{
		SessionDuration: 25 * time.Minute,
		Remaining:       25 * time.Minute,
		TotalSessions:   8,
	}}
}

func (controller *fakeController) record(call string) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	controller.calls = append(controller.calls, call)
}

func (controller *fakeController) Calls() []string {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return append([]string(nil), controller.calls...)
}

func (controller *fakeController) Toggle()        { controller.record("toggle") }
func (controller *fakeController) EndSession()    { controller.record("end") }
func (controller *fakeController) ResetSessions() { controller.record("reset") }

func (controller *fakeController) RequestSetDuration(raw string) error {
	controller.record("duration:" + raw)
	return controller.reject
}

func (controller *fakeController) Snapshot() timekeeper.Snapshot {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.snapshot
}
