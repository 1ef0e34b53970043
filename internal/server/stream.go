package server

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// streamInterval caps the preview at about 15 FPS per client.
const streamInterval = 66 * time.Millisecond

var (
	statusBarColor = color.RGBA{R: 0, G: 0, B: 0, A: 0}
	gestureColor   = color.RGBA{R: 255, G: 255, B: 0, A: 0}
	fingersColor   = color.RGBA{R: 200, G: 200, B: 200, A: 0}
	trackingColor  = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	noHandColor    = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

// StreamHandler serves the processed camera frames, with the hand overlay and
// a status bar, as an MJPEG preview. Frames are only encoded while at least
// one client is watching.
type StreamHandler struct {
	log      logrus.FieldLogger
	interval time.Duration

	mu      sync.Mutex
	jpeg    []byte
	fresh   chan struct{}
	done    chan struct{}
	closed  bool
	clients int
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(log logrus.FieldLogger) *StreamHandler {
	return &StreamHandler{
		log:      log,
		interval: streamInterval,
		fresh:    make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Publish annotates a copy of frame with state and makes it the current
// preview frame. It matches app.FrameObserver and does not retain frame.
func (h *StreamHandler) Publish(frame *gocv.Mat, state app.FrameState) {
	if frame == nil || frame.Empty() || h.Clients() == 0 {
		return
	}

	annotated := frame.Clone()
	defer annotated.Close()
	DrawStatus(&annotated, state)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, annotated)
	if err != nil {
		h.log.WithError(err).Debug("Preview frame encoding failed")
		return
	}
	data := bytes.Clone(buf.GetBytes())
	buf.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.jpeg = data
	close(h.fresh)
	h.fresh = make(chan struct{})
}

// Clients returns the number of connected preview clients.
func (h *StreamHandler) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients
}

// Close ends every open preview response.
func (h *StreamHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
}

// ServeHTTP streams MJPEG frames until the client goes away or the handler
// is closed.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		http.Error(w, "Preview closed", http.StatusServiceUnavailable)
		return
	}
	h.clients++
	fresh := h.fresh
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.clients--
		h.mu.Unlock()
	}()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.done:
			return
		case <-fresh:
		}

		h.mu.Lock()
		data := h.jpeg
		fresh = h.fresh
		h.mu.Unlock()

		if err := writePart(w, data); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}

		select {
		case <-r.Context().Done():
			return
		case <-h.done:
			return
		case <-time.After(h.interval):
		}
	}
}

func writePart(w http.ResponseWriter, data []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "\r\n")
	return err
}

// DrawStatus draws the status bar onto frame in place: the gesture, the
// finger vector and whether a hand is tracked.
func DrawStatus(frame *gocv.Mat, state app.FrameState) {
	w := frame.Cols()

	gocv.Rectangle(frame, image.Rect(0, 0, w, 90), statusBarColor, -1)
	gocv.PutText(frame, "Gesture: "+state.Gesture.String(), image.Pt(10, 30),
		gocv.FontHersheySimplex, 0.8, gestureColor, 2)

	if state.Hand {
		gocv.PutText(frame, "Fingers: "+state.Fingers, image.Pt(10, 60),
			gocv.FontHersheySimplex, 0.6, fingersColor, 2)
	}

	statusColor := noHandColor
	if state.Hand {
		statusColor = trackingColor
	}
	gocv.PutText(frame, state.Tracking(), image.Pt(w-150, 30),
		gocv.FontHersheySimplex, 0.6, statusColor, 2)
}
