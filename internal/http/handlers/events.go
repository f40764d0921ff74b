package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kinstone/starbar/internal/domain"
)

type event struct {
	Name string
	Data any
}

// EventHub fans engine notifications out to SSE subscribers. It implements
// engine.Observer; broadcasts never block the engine's critical sections, a
// subscriber that falls behind its buffer simply misses events.
type EventHub struct {
	mu   sync.Mutex
	subs map[chan event]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[chan event]struct{})}
}

// DonationPushed implements engine.Observer.
func (h *EventHub) DonationPushed(d domain.Donation) {
	h.broadcast(event{Name: "push-donation", Data: d})
}

// MirrorUpdated implements engine.Observer.
func (h *EventHub) MirrorUpdated(kind string) {
	h.broadcast(event{Name: "mirror-updated", Data: map[string]string{"kind": kind}})
}

func (h *EventHub) broadcast(e event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (h *EventHub) subscribe() chan event {
	ch := make(chan event, 32)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) unsubscribe(ch chan event) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// EventStream streams engine notifications to the presentation layer over SSE.
func (a *App) EventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		a.error(w, http.StatusInternalServerError, "internal", "streaming unsupported")
		return
	}
	// The stream outlives the server's per-response write timeout; clear the
	// deadline so subscribers are not cut off mid-event.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := a.Events.subscribe()
	defer a.Events.unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-ch:
			payload, err := json.Marshal(e.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Name, payload)
			flusher.Flush()
		}
	}
}
