package server

import (
	"bufio"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"gocv.io/x/gocv"
)

func TestStreamHandler_ServesPublishedFrames(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	h := NewStreamHandler(logger)
	h.interval = time.Millisecond
	ts := httptest.NewServer(h)
	defer ts.Close()
	defer h.Close()

	resp, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("GET stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "multipart/x-mixed-replace; boundary=frame" {
		t.Fatalf("unexpected Content-Type %q", ct)
	}
	if h.Clients() != 1 {
		t.Fatalf("expected 1 client, got %d", h.Clients())
	}

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()
	h.Publish(&frame, app.FrameState{Hand: true, Gesture: gesture.Peace, Fingers: "01100"})

	r := bufio.NewReader(resp.Body)
	var length int
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read part header: %v", err)
		}
		line = strings.TrimSpace(line)
		if line == "" && length > 0 {
			break
		}
		if v, ok := strings.CutPrefix(line, "Content-Length: "); ok {
			length, _ = strconv.Atoi(v)
		}
	}

	jpeg := make([]byte, length)
	if _, err := io.ReadFull(r, jpeg); err != nil {
		t.Fatalf("read frame: %v", err)
	}

	decoded, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	defer decoded.Close()
	if decoded.Cols() != 320 || decoded.Rows() != 240 {
		t.Errorf("expected a 320x240 frame, got %dx%d", decoded.Cols(), decoded.Rows())
	}
}

func TestStreamHandler_IdleWithoutClients(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	h := NewStreamHandler(logger)

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()
	h.Publish(&frame, app.FrameState{})

	if h.jpeg != nil {
		t.Error("expected no frame to be encoded without clients")
	}
}

func TestStreamHandler_Closed(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	h := NewStreamHandler(logger)
	h.Close()
	h.Close()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stream", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 after Close, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stream", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for POST, got %d", rec.Code)
	}
}

func TestDrawStatus(t *testing.T) {
	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()
	frame.SetTo(gocv.NewScalar(255, 255, 255, 0))

	DrawStatus(&frame, app.FrameState{})

	if v := frame.GetVecbAt(5, 5); v[0] != 0 || v[1] != 0 || v[2] != 0 {
		t.Errorf("expected a black status bar, got BGR %v", v)
	}
	if v := frame.GetVecbAt(200, 5); v[0] != 255 {
		t.Errorf("expected pixels below the bar untouched, got BGR %v", v)
	}
}
