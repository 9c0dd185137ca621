package events

import "sync"

// Queue is an unbounded FIFO of events. Push never blocks. After Close
// every Push is silently dropped; producers are not notified or aborted.
type Queue struct {
	mu     sync.Mutex
	items  []Event
	closed bool
	ready  chan struct{}
}

// NewQueue creates an active queue
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push appends e unless the queue is closed
func (q *Queue) Push(e Event) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, e)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return true
}

// Drain removes and returns all pending events in push order
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}
	items := q.items
	q.items = nil
	return items
}

// Ready is signalled after a Push. Consumers that do not tick can wait on
// it and then Drain.
func (q *Queue) Ready() <-chan struct{} {
	return q.ready
}

// Close marks the queue inactive and discards pending events
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.mu.Unlock()
}

// Active reports whether the queue still accepts events
func (q *Queue) Active() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.closed
}
