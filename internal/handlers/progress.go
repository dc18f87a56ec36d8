package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"asset-library/internal/ingest"
	"asset-library/internal/logging"
)

// subscriberBuffer is the number of events a slow client may fall behind
// before further events are dropped for it.
const subscriberBuffer = 64

// ProgressHub fans import progress out to every connected event stream.
type ProgressHub struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

// NewProgressHub returns a hub with no subscribers.
func NewProgressHub() *ProgressHub {
	return &ProgressHub{subs: make(map[chan []byte]struct{})}
}

// Report broadcasts p. A nil p is sent as JSON null and marks the end of an
// import. Report never blocks on a slow client: progress events are dropped
// for it, but the end marker is always queued.
func (h *ProgressHub) Report(p *ingest.Progress) {
	data, err := json.Marshal(p)
	if err != nil {
		logging.Error("failed to encode progress event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- data:
			continue
		default:
		}
		if p != nil {
			logging.Debug("Dropping progress event for slow subscriber")
			continue
		}
		// The end marker replaces the oldest queued event.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- data:
		default:
		}
	}
}

// Subscribers returns the number of connected streams.
func (h *ProgressHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *ProgressHub) subscribe() chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *ProgressHub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// StreamProgress serves import progress as server-sent events until the
// client disconnects.
func (h *Handlers) StreamProgress(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	ch := h.progress.subscribe()
	defer h.progress.unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// The comment tells the client the subscription is live.
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case data := <-ch:
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				logging.Debug("Progress stream closed: %v", err)
				return
			}
			flusher.Flush()
		}
	}
}
