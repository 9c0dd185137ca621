package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ytget/ptd-launcher/internal/model"
)

func progress(item string, percent int) ProgressEvent {
	return ProgressEvent{model.ProgressState{ItemID: item, Percent: percent, BytesDownloaded: int64(percent), BytesTotal: 100}}
}

func TestBoard_ProgressSupersedes(t *testing.T) {
	b := NewBoard()

	assert.True(t, b.Apply(progress(model.GamePTD1, 10)))
	assert.True(t, b.Apply(progress(model.GamePTD1, 20)))
	assert.False(t, b.Apply(progress(model.GamePTD1, 20)), "identical update is not a change")

	ps, ok := b.Progress(model.GamePTD1)
	assert.True(t, ok)
	assert.Equal(t, 20, ps.Percent)
	assert.Len(t, b.Active(), 1)
}

func TestBoard_RemovedAtHundredPercent(t *testing.T) {
	b := NewBoard()
	b.Apply(progress(model.GamePTD2, 99))

	assert.True(t, b.Apply(progress(model.GamePTD2, 100)))
	_, ok := b.Progress(model.GamePTD2)
	assert.False(t, ok)
}

func TestBoard_RemovedOnFailure(t *testing.T) {
	b := NewBoard()
	b.Apply(progress(model.GamePTD3, 40))

	b.Apply(ItemEvent{ItemID: model.GamePTD3, Status: model.TaskStatusFailed, Err: errors.New("boom")})

	_, ok := b.Progress(model.GamePTD3)
	assert.False(t, ok)
	st, _ := b.Status(model.GamePTD3)
	assert.Equal(t, model.TaskStatusFailed, st)
}

func TestBoard_ActiveSorted(t *testing.T) {
	b := NewBoard()
	b.Apply(progress(model.GamePTD3, 5))
	b.Apply(progress(model.GamePTD1, 5))

	active := b.Active()
	assert.Equal(t, model.GamePTD1, active[0].ItemID)
	assert.Equal(t, model.GamePTD3, active[1].ItemID)
}

func TestBoard_MessageAndBatch(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, model.BatchIdle, b.Batch())

	assert.True(t, b.Apply(StatusEvent{Message: "Checking for updates..."}))
	assert.False(t, b.Apply(StatusEvent{Message: "Checking for updates..."}))
	b.Apply(BatchEvent{State: model.BatchChecking})

	assert.Equal(t, "Checking for updates...", b.Message())
	assert.Equal(t, model.BatchChecking, b.Batch())
}
