package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ceobank/backend/internal/adapter/http/middleware"
	"github.com/ceobank/backend/internal/infrastructure/fanout"
	"github.com/ceobank/backend/internal/infrastructure/metrics"
)

const sseKeepAliveInterval = 25 * time.Second

// EventsHandler streams account-scoped and global events over
// server-sent events.
type EventsHandler struct {
	hub     *fanout.Hub
	metrics *metrics.Metrics
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(hub *fanout.Hub, m *metrics.Metrics) *EventsHandler {
	return &EventsHandler{hub: hub, metrics: m}
}

// Stream subscribes the authenticated account to the event feed and
// writes events until the client disconnects.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", "")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.hub.Subscribe(claims.AccountID)
	defer sub.Close()

	h.metrics.SSESubscribers.Inc()
	defer h.metrics.SSESubscribers.Dec()

	keepAlive := time.NewTicker(sseKeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case event, open := <-sub.Events():
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()
		}
	}
}
