package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/app"
)

// Controller is the part of the running application the status endpoint
// reads and toggles.
type Controller interface {
	LastState() app.FrameState
	IsEnabled() bool
	SetEnabled(enabled bool)
	IsRunning() bool
	Dropped() uint64
}

type statusResponse struct {
	Enabled bool           `json:"enabled"`
	Running bool           `json:"running"`
	Status  string         `json:"status"`
	Dropped uint64         `json:"dropped_frames"`
	State   app.FrameState `json:"state"`
}

type updateStatusRequest struct {
	Enabled *bool `json:"enabled"`
}

// StatusHandler serves /api/status. GET reports the latest frame state; PUT
// with {"enabled": bool} pauses or resumes recognition.
type StatusHandler struct {
	controller Controller
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(c Controller) *StatusHandler {
	return &StatusHandler{controller: c}
}

// ServeHTTP implements the http.Handler interface.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		h.controller.SetEnabled(*req.Enabled)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state := h.controller.LastState()
	writeJSON(w, http.StatusOK, statusResponse{
		Enabled: h.controller.IsEnabled(),
		Running: h.controller.IsRunning(),
		Status:  state.Tracking(),
		Dropped: h.controller.Dropped(),
		State:   state,
	})
}
