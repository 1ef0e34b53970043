package app

import (
	"context"
	"time"
)

// captureLoop reads frames at the camera rate and hands them to the
// processing goroutine through the single-slot mailbox. A frame the
// processor has not picked up yet is replaced, never queued.
func (a *App) captureLoop(ctx context.Context) {
	defer a.wg.Done()

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	var lastErr string
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			// Log once per distinct failure rather than once per tick.
			if err.Error() != lastErr {
				a.log.WithError(err).Warn("Error reading frame")
				lastErr = err.Error()
			}
			continue
		}
		lastErr = ""

		a.frames.put(frame)
	}
}

// processLoop runs every frame it receives through Process. The session's
// previous landmarks are dropped after a pause so a swipe never spans it.
func (a *App) processLoop(ctx context.Context) {
	defer a.wg.Done()

	paused := false
	for {
		frame, ok := a.frames.take(ctx)
		if !ok {
			return
		}

		if !a.IsEnabled() {
			frame.Close()
			paused = true
			continue
		}
		if paused {
			a.session.Reset()
			paused = false
		}

		a.Process(frame, time.Now())
		frame.Close()
	}
}
