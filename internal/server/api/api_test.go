package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

type fakeEvents struct {
	events    []*store.Event
	err       error
	lastLimit int
}

func (f *fakeEvents) List(limit int) ([]*store.Event, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.events) {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func (f *fakeEvents) GetByID(id string) (*store.Event, error) {
	for _, e := range f.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, store.ErrNotFound
}

func TestEventHandler_List(t *testing.T) {
	events := &fakeEvents{events: []*store.Event{
		{ID: "b", Gesture: "fist", Action: "right_click"},
		{ID: "a", Gesture: "peace", Action: "left_click"},
	}}
	h := NewEventHandler(events)

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantLen   int
		wantLimit int
	}{
		{"default limit", "", http.StatusOK, 2, store.DefaultListLimit},
		{"explicit limit", "?limit=1", http.StatusOK, 1, 1},
		{"limit is capped", "?limit=100000", http.StatusOK, 2, MaxEventLimit},
		{"bad limit", "?limit=abc", http.StatusBadRequest, 0, 0},
		{"zero limit", "?limit=0", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events.lastLimit = 0
			req := httptest.NewRequest(http.MethodGet, "/api/events"+tt.query, nil)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			var got []store.Event
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("expected %d events, got %d", tt.wantLen, len(got))
			}
			if events.lastLimit != tt.wantLimit {
				t.Errorf("expected limit %d, got %d", tt.wantLimit, events.lastLimit)
			}
		})
	}
}

func TestEventHandler_EmptyList(t *testing.T) {
	rec := httptest.NewRecorder()
	NewEventHandler(&fakeEvents{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	if body := bytes.TrimSpace(rec.Body.Bytes()); string(body) != "[]" {
		t.Errorf("expected empty JSON array, got %s", body)
	}
}

func TestEventHandler_Get(t *testing.T) {
	h := NewEventHandler(&fakeEvents{events: []*store.Event{{ID: "a", Gesture: "peace"}}})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events/a", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events/zzz", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestEventHandler_Errors(t *testing.T) {
	h := NewEventHandler(&fakeEvents{err: errors.New("disk I/O error")})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/events", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}
}

type fakeController struct {
	mu      sync.Mutex
	enabled bool
	state   app.FrameState
}

func (f *fakeController) LastState() app.FrameState { return f.state }
func (f *fakeController) IsRunning() bool           { return true }
func (f *fakeController) Dropped() uint64           { return 3 }

func (f *fakeController) IsEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

func (f *fakeController) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = enabled
}

func TestStatusHandler(t *testing.T) {
	ctrl := &fakeController{
		enabled: true,
		state: app.FrameState{
			Time:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Hand:    true,
			Fingers: "01100",
			Gesture: gesture.Peace,
			Action:  action.LeftClick,
		},
	}
	h := NewStatusHandler(ctrl)

	t.Run("GET reports state", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var resp map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp["status"] != "TRACKING" || resp["enabled"] != true {
			t.Errorf("unexpected response: %v", resp)
		}
		state := resp["state"].(map[string]any)
		if state["gesture"] != "peace" || state["action"] != "left_click" {
			t.Errorf("expected named gesture and action, got %v", state)
		}
	})

	t.Run("PUT toggles recognition", func(t *testing.T) {
		rec := httptest.NewRecorder()
		body := bytes.NewBufferString(`{"enabled": false}`)
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/status", body))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if ctrl.IsEnabled() {
			t.Error("expected recognition disabled")
		}
	})

	t.Run("PUT requires enabled", func(t *testing.T) {
		for _, body := range []string{`{}`, `not json`} {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/status", bytes.NewBufferString(body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("body %q: expected status 400, got %d", body, rec.Code)
			}
		}
	})

	t.Run("other methods", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/status", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405, got %d", rec.Code)
		}
	})
}
