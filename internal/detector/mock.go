package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Pose builds a right hand, seen in a mirrored (selfie) frame, with each finger
// extended or curled as given in thumb, index, middle, ring, pinky order.
//
// Extended fingers have their tip well above the PIP joint; curled fingers have
// the tip folded below it. An extended thumb points toward lower X.
func Pose(thumb, index, middle, ring, pinky bool) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: Right,
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.45, Y: 0.75, Z: -0.01}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.41, Y: 0.70, Z: -0.02}
	landmarks.Points[ThumbIP] = Point3D{X: 0.38, Y: 0.66, Z: -0.03}
	if thumb {
		landmarks.Points[ThumbTip] = Point3D{X: 0.33, Y: 0.62, Z: -0.03}
	} else {
		landmarks.Points[ThumbTip] = Point3D{X: 0.40, Y: 0.72, Z: -0.04}
	}

	setFinger(&landmarks, IndexMCP, 0.45, index)
	setFinger(&landmarks, MiddleMCP, 0.50, middle)
	setFinger(&landmarks, RingMCP, 0.55, ring)
	setFinger(&landmarks, PinkyMCP, 0.60, pinky)

	return landmarks
}

// setFinger fills the four joints of the finger starting at mcp.
func setFinger(h *HandLandmarks, mcp int, x float64, extended bool) {
	h.Points[mcp] = Point3D{X: x, Y: 0.65, Z: 0.0}
	if extended {
		h.Points[mcp+1] = Point3D{X: x, Y: 0.55, Z: 0.0}
		h.Points[mcp+2] = Point3D{X: x, Y: 0.47, Z: 0.0}
		h.Points[mcp+3] = Point3D{X: x, Y: 0.40, Z: 0.0}
		return
	}
	h.Points[mcp+1] = Point3D{X: x, Y: 0.60, Z: -0.04}
	h.Points[mcp+2] = Point3D{X: x, Y: 0.64, Z: -0.05}
	h.Points[mcp+3] = Point3D{X: x, Y: 0.66, Z: -0.03}
}

// ThumbsUpLandmarks returns a preset HandLandmarks representing a thumbs up gesture.
// The thumb is extended while other fingers are curled.
func ThumbsUpLandmarks() HandLandmarks {
	return Pose(true, false, false, false, false)
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
func OpenPalmLandmarks() HandLandmarks {
	return Pose(true, true, true, true, true)
}

// FistLandmarks returns a preset HandLandmarks with every finger curled.
func FistLandmarks() HandLandmarks {
	return Pose(false, false, false, false, false)
}

// PointingLandmarks returns a preset HandLandmarks with only the index finger extended.
func PointingLandmarks() HandLandmarks {
	return Pose(false, true, false, false, false)
}

// PeaceLandmarks returns a preset HandLandmarks with index and middle fingers extended.
func PeaceLandmarks() HandLandmarks {
	return Pose(false, true, true, false, false)
}
