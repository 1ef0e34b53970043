// Package detector provides hand detection interfaces and types for gesture recognition.
package detector

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrMalformedLandmarks is returned when a detector reports a landmark count other than NumLandmarks.
var ErrMalformedLandmarks = errors.New("malformed landmarks")

// Handedness identifies which physical hand produced a set of landmarks.
type Handedness string

// Handedness labels as reported by MediaPipe.
const (
	Left  Handedness = "Left"
	Right Handedness = "Right"
)

// ParseHandedness converts a detector label into a Handedness.
func ParseHandedness(s string) (Handedness, error) {
	switch Handedness(s) {
	case Left, Right:
		return Handedness(s), nil
	}
	return "", fmt.Errorf("unknown handedness %q", s)
}

// Point3D is a landmark position. X and Y are normalized to the frame size,
// Z is depth relative to the wrist.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness Handedness            `json:"handedness"`
	Score      float64               `json:"score"`
}

// NewHandLandmarks builds a HandLandmarks from a raw point slice.
// It returns ErrMalformedLandmarks unless exactly NumLandmarks points are given.
func NewHandLandmarks(points []Point3D, handedness Handedness, score float64) (HandLandmarks, error) {
	if len(points) != NumLandmarks {
		return HandLandmarks{}, fmt.Errorf("%w: got %d points, want %d", ErrMalformedLandmarks, len(points), NumLandmarks)
	}

	h := HandLandmarks{
		Handedness: handedness,
		Score:      score,
	}
	copy(h.Points[:], points)
	return h, nil
}

// IndexTip returns the index fingertip position.
func (h *HandLandmarks) IndexTip() Point3D {
	return h.Points[IndexTip]
}

// ThumbTip returns the thumb tip position.
func (h *HandLandmarks) ThumbTip() Point3D {
	return h.Points[ThumbTip]
}

// Distance2D returns the Euclidean distance between a and b in the image plane.
// Z is ignored.
func Distance2D(a, b Point3D) float64 {
	return floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
}
