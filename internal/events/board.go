package events

import (
	"sort"

	"github.com/ytget/ptd-launcher/internal/model"
)

// Board is the UI-side view of the progress surface: at most one
// ProgressState per item, removed once the item completes or fails. It
// is owned by the UI thread and is not safe for concurrent use.
type Board struct {
	progress map[string]model.ProgressState
	statuses map[string]model.TaskStatus
	message  string
	batch    model.BatchState
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{
		progress: make(map[string]model.ProgressState),
		statuses: make(map[string]model.TaskStatus),
		batch:    model.BatchIdle,
	}
}

// Apply folds e into the board and reports whether anything changed
func (b *Board) Apply(e Event) bool {
	switch ev := e.(type) {
	case ProgressEvent:
		if ev.Done() {
			_, had := b.progress[ev.ItemID]
			delete(b.progress, ev.ItemID)
			return had
		}
		if cur, ok := b.progress[ev.ItemID]; ok && cur == ev.ProgressState {
			return false
		}
		b.progress[ev.ItemID] = ev.ProgressState
		return true
	case ItemEvent:
		b.statuses[ev.ItemID] = ev.Status
		if ev.Status.IsFinished() {
			delete(b.progress, ev.ItemID)
		}
		return true
	case StatusEvent:
		if b.message == ev.Message {
			return false
		}
		b.message = ev.Message
		return true
	case BatchEvent:
		b.batch = ev.State
		return true
	default:
		return false
	}
}

// Progress returns the active progress of an item
func (b *Board) Progress(item string) (model.ProgressState, bool) {
	ps, ok := b.progress[item]
	return ps, ok
}

// Active returns the items with a transfer in flight, sorted by id
func (b *Board) Active() []model.ProgressState {
	out := make([]model.ProgressState, 0, len(b.progress))
	for _, ps := range b.progress {
		out = append(out, ps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// Status returns the last known status of an item
func (b *Board) Status(item string) (model.TaskStatus, bool) {
	st, ok := b.statuses[item]
	return st, ok
}

// Message returns the latest status line
func (b *Board) Message() string {
	return b.message
}

// Batch returns the latest orchestrator state
func (b *Board) Batch() model.BatchState {
	return b.batch
}
