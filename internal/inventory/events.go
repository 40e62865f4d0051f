package inventory

import (
	"sync"

	"github.com/erazemk/inventura/internal/model"
)

// eventBuffer is the per-subscriber buffer for feedback events. Feedback is
// fire-and-forget: a subscriber that falls behind loses events rather than
// stalling scan handling.
const eventBuffer = 8

// eventHub fans out feedback events to subscribers.
type eventHub struct {
	mu   sync.Mutex
	subs map[chan model.Event]struct{}
}

func newEventHub() *eventHub {
	return &eventHub{subs: make(map[chan model.Event]struct{})}
}

// Subscribe registers a subscriber. The cancel function removes the
// subscription and must be called on teardown.
func (h *eventHub) Subscribe() (<-chan model.Event, func()) {
	ch := make(chan model.Event, eventBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

// emit delivers an event to all subscribers without blocking.
func (h *eventHub) emit(e model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
