// Package app wires camera capture, hand tracking, gesture recognition and
// action dispatch into a running pipeline.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Observer is called with the state of every processed frame.
type Observer func(FrameState)

// FrameObserver is called with every processed frame, overlay included, and
// its state. The frame is only valid for the duration of the call.
type FrameObserver func(frame *gocv.Mat, state FrameState)

// App is the main application that runs the recognition pipeline.
type App struct {
	camera    capture.Camera
	extractor *detector.Extractor
	session   *Session
	log       logrus.FieldLogger
	frames    *latest[*gocv.Mat]

	mu        sync.RWMutex
	enabled   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	state     FrameState
	observers []Observer
	frameObs  []FrameObserver
	toggles   []func(enabled bool)
}

// New creates a new App. Recognition starts enabled.
func New(camera capture.Camera, extractor *detector.Extractor, session *Session, log logrus.FieldLogger) *App {
	return &App{
		camera:    camera,
		extractor: extractor,
		session:   session,
		log:       log,
		frames:    newLatest(func(m *gocv.Mat) { m.Close() }),
		enabled:   true,
	}
}

// SetEnabled enables or disables recognition. While disabled, captured
// frames are dropped without processing.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	toggles := make([]func(bool), len(a.toggles))
	copy(toggles, a.toggles)
	a.mu.Unlock()

	if !changed {
		return
	}
	a.log.WithField("enabled", enabled).Info("Recognition toggled")
	for _, fn := range toggles {
		fn(enabled)
	}
}

// OnToggle registers fn to be called whenever the enabled state changes.
func (a *App) OnToggle(fn func(enabled bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.toggles = append(a.toggles, fn)
}

// IsEnabled returns whether recognition is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// IsRunning reports whether the pipeline goroutines are running.
func (a *App) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cancel != nil
}

// AddObserver registers fn to receive every FrameState.
func (a *App) AddObserver(fn Observer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, fn)
}

// AddFrameObserver registers fn to receive every processed frame.
func (a *App) AddFrameObserver(fn FrameObserver) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.frameObs = append(a.frameObs, fn)
}

// LastState returns the most recent FrameState.
func (a *App) LastState() FrameState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Dropped returns how many captured frames were replaced before processing.
func (a *App) Dropped() uint64 {
	return a.frames.dropped.Load()
}

// Start opens the camera and starts the capture and processing goroutines.
// The pipeline runs until ctx is cancelled or Stop is called.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(2)
	go a.captureLoop(ctx)
	go a.processLoop(ctx)

	a.log.WithField("fps", a.camera.FPS()).Info("Recognition pipeline started")
	return nil
}

// Stop cancels the pipeline, waits for it to exit and releases the camera
// and detector.
func (a *App) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	a.wg.Wait()
	a.frames.clear()

	if err := a.camera.Close(); err != nil {
		a.log.WithError(err).Warn("Error closing camera")
	}
	if err := a.extractor.Close(); err != nil {
		a.log.WithError(err).Warn("Error closing detector")
	}

	a.log.Info("Recognition pipeline stopped")
}

// Process runs one frame through extraction and the session and publishes
// the resulting state, then hands the frame to the frame observers.
func (a *App) Process(frame *gocv.Mat, now time.Time) FrameState {
	hand, err := a.extractor.Extract(frame)
	if err != nil {
		a.log.WithError(err).Warn("Skipping frame")
		state := FrameState{Time: now, Error: err.Error()}
		a.publish(frame, state)
		return state
	}

	state := a.session.Step(hand, now)
	a.log.WithFields(logrus.Fields{
		"gesture": state.Gesture,
		"fingers": state.Fingers,
		"status":  state.Tracking(),
	}).Debug("Frame processed")

	a.publish(frame, state)
	return state
}

func (a *App) publish(frame *gocv.Mat, state FrameState) {
	a.mu.Lock()
	a.state = state
	observers := make([]Observer, len(a.observers))
	copy(observers, a.observers)
	frameObs := make([]FrameObserver, len(a.frameObs))
	copy(frameObs, a.frameObs)
	a.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
	if frame == nil || frame.Empty() {
		return
	}
	for _, fn := range frameObs {
		fn(frame, state)
	}
}
