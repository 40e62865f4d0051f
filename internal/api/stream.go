package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/erazemk/inventura/internal/inventory"
	"github.com/erazemk/inventura/internal/projection"
)

// heartbeatInterval keeps idle SSE connections from being dropped by proxies.
const heartbeatInterval = 30 * time.Second

// StreamHandler exposes the live list and feedback events over SSE.
type StreamHandler struct {
	Service  *inventory.Service
	Pipeline *projection.Pipeline
}

// Items handles GET /api/items/stream: each published list snapshot is sent as
// one SSE data frame.
func (h *StreamHandler) Items(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	setSSEHeaders(w)

	rows, cancel := h.Pipeline.Subscribe()
	defer cancel()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case snapshot := <-rows:
			data, err := json.Marshal(snapshot)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// Events handles GET /api/events: feedback events for sound/vibration on the
// station side.
func (h *StreamHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	setSSEHeaders(w)

	events, cancel := h.Service.Events()
	defer cancel()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case event := <-events:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}
