package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/mudra/internal/store"
)

// MaxEventLimit caps the limit query parameter.
const MaxEventLimit = 500

// EventSource reads the action journal.
type EventSource interface {
	List(limit int) ([]*store.Event, error)
	GetByID(id string) (*store.Event, error)
}

// EventHandler serves /api/events and /api/events/{id}.
type EventHandler struct {
	events EventSource
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events EventSource) *EventHandler {
	return &EventHandler{events: events}
}

// ServeHTTP implements the http.Handler interface.
func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/events"), "/")
	if id == "" {
		h.list(w, r)
		return
	}
	h.get(w, id)
}

// list handles GET /api/events?limit=N, newest first.
func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxEventLimit)
	}

	events, err := h.events.List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []*store.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) get(w http.ResponseWriter, id string) {
	event, err := h.events.GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}
