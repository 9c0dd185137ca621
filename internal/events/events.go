// Package events carries updates from the background worker to the UI
// thread. Producers push into a Queue and never block; the UI drains the
// queue on every tick and applies the events to its own state.
package events

import (
	"fmt"

	"github.com/ytget/ptd-launcher/internal/model"
)

// Event is a message from the worker to the UI
type Event interface {
	fmt.Stringer
	event()
}

// ProgressEvent supersedes any previous progress of the same item
type ProgressEvent struct {
	model.ProgressState
}

// ItemEvent reports a per-item state transition
type ItemEvent struct {
	ItemID  string
	Status  model.TaskStatus
	Version string
	Err     error
}

// StatusEvent carries a user-facing status line
type StatusEvent struct {
	Message string
}

// BatchEvent reports orchestrator state changes. Installed and Failed are
// only meaningful once State is BatchDone.
type BatchEvent struct {
	State     model.BatchState
	Installed int
	Failed    int
}

func (ProgressEvent) event() {}
func (ItemEvent) event() {}
func (StatusEvent) event() {}
func (BatchEvent) event() {}

func (e ProgressEvent) String() string {
	return fmt.Sprintf("progress %s %d%% (%d/%d)", e.ItemID, e.Percent, e.BytesDownloaded, e.BytesTotal)
}

func (e ItemEvent) String() string {
	if e.Err != nil {
		return fmt.Sprintf("item %s %s: %v", e.ItemID, e.Status, e.Err)
	}
	return fmt.Sprintf("item %s %s %s", e.ItemID, e.Status, e.Version)
}

func (e StatusEvent) String() string {
	return e.Message
}

func (e BatchEvent) String() string {
	return fmt.Sprintf("batch %s installed=%d failed=%d", e.State, e.Installed, e.Failed)
}

// Sink accepts events. Push reports false when the event was dropped.
type Sink interface {
	Push(e Event) bool
}

// Discard is a Sink that drops everything
var Discard Sink = discard{}

type discard struct{}

func (discard) Push(Event) bool { return false }
