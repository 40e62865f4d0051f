package db

import (
	"testing"
	"time"
)

func TestWatcherNotify(t *testing.T) {
	w := NewWatcher()
	ch, cancel := w.Subscribe()
	defer cancel()

	w.Notify()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change signal")
	}
}

func TestWatcherCoalesces(t *testing.T) {
	w := NewWatcher()
	ch, cancel := w.Subscribe()
	defer cancel()

	// A burst of signals folds into a single pending one.
	w.Notify()
	w.Notify()
	w.Notify()

	<-ch
	select {
	case <-ch:
		t.Fatal("expected coalesced signals, got a second one")
	default:
	}
}

func TestWatcherCancelStopsSignals(t *testing.T) {
	w := NewWatcher()
	ch, cancel := w.Subscribe()
	cancel()

	w.Notify()
	select {
	case <-ch:
		t.Fatal("expected no signal after cancel")
	default:
	}
}

func TestMarkChangedReachesSubscribers(t *testing.T) {
	database := NewTestDB(t)
	ch, cancel := database.Watcher().Subscribe()
	defer cancel()

	database.MarkChanged()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected MarkChanged to notify subscribers")
	}
}
