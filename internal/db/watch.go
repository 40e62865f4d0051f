package db

import "sync"

// Watcher fans out data-change signals to subscribers. Each subscriber gets a
// buffered channel of size one: a signal arriving while a previous one is still
// unread is dropped, so pending notifications naturally coalesce. Subscribers
// are expected to re-query the store on every signal.
type Watcher struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

// NewWatcher creates an empty watcher.
func NewWatcher() *Watcher {
	return &Watcher{subs: make(map[chan struct{}]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel function removes
// the subscription and must be called on teardown.
func (w *Watcher) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	w.mu.Lock()
	w.subs[ch] = struct{}{}
	w.mu.Unlock()

	cancel := func() {
		w.mu.Lock()
		delete(w.subs, ch)
		w.mu.Unlock()
	}
	return ch, cancel
}

// Notify signals all subscribers without blocking.
func (w *Watcher) Notify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for ch := range w.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
