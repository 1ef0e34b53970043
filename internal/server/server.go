// Package server provides the local HTTP status server.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/server/api"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// Config holds the server configuration. Routes whose dependency is nil are
// not registered.
type Config struct {
	Status api.Controller
	Events api.EventSource
	State  *StateHandler
	Stream *StreamHandler
	Log    logrus.FieldLogger
}

// Server represents the HTTP server.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Log == nil {
		config.Log = logrus.StandardLogger()
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Status != nil {
		s.mux.Handle("/api/status", api.NewStatusHandler(s.config.Status))
	}

	if s.config.Events != nil {
		events := api.NewEventHandler(s.config.Events)
		s.mux.Handle("/api/events", events)
		s.mux.Handle("/api/events/", events)
	}

	if s.config.State != nil {
		s.mux.Handle("/api/state", s.config.State)
	}

	if s.config.Stream != nil {
		s.mux.Handle("/api/stream", s.config.Stream)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).Round(time.Second).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.config.Log.WithField("addr", addr).Info("Status server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if s.config.State != nil {
		s.config.State.Close()
	}
	if s.config.Stream != nil {
		s.config.Stream.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
