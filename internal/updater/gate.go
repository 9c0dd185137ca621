package updater

import (
	"sync"

	"github.com/ytget/ptd-launcher/internal/model"
)

// State is the single worker token
type State int

const (
	// StateIdle means no batch or manual download is running
	StateIdle State = iota
	// StateBusy means the worker is in use
	StateBusy
)

func (s State) String() string {
	if s == StateBusy {
		return "Busy"
	}
	return "Idle"
}

// Gate serialises batches and manual downloads. Requests made while it is
// busy are rejected, never queued.
type Gate struct {
	mu    sync.Mutex
	state State
}

// TryAcquire moves the gate to Busy or returns model.ErrBusy
func (g *Gate) TryAcquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateBusy {
		return model.ErrBusy
	}
	g.state = StateBusy
	return nil
}

// Release moves the gate back to Idle
func (g *Gate) Release() {
	g.mu.Lock()
	g.state = StateIdle
	g.mu.Unlock()
}

// State returns the current token value
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
