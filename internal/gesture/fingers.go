// Package gesture turns hand landmarks into finger states and gesture labels.
package gesture

import (
	"strings"

	"github.com/ayusman/mudra/internal/detector"
)

// Finger positions within a FingerState.
const (
	Thumb = iota
	Index
	Middle
	Ring
	Pinky
	NumFingers
)

// fingerTips lists the landmark index of each non-thumb fingertip, in FingerState order.
var fingerTips = [...]int{detector.IndexTip, detector.MiddleTip, detector.RingTip, detector.PinkyTip}

// FingerState records which fingers are extended, in thumb, index, middle, ring, pinky order.
type FingerState [NumFingers]bool

// Count returns the number of extended fingers.
func (f FingerState) Count() int {
	n := 0
	for _, up := range f {
		if up {
			n++
		}
	}
	return n
}

// String renders the state as five digits, e.g. "01100" for peace.
func (f FingerState) String() string {
	var b strings.Builder
	for _, up := range f {
		if up {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// FingerClassifier derives a FingerState from a single hand.
//
// Mirrored states whether frames reach the detector horizontally flipped
// (selfie view). In a mirrored frame an extended right thumb points toward
// lower X and an extended left thumb toward higher X; without mirroring both
// directions invert.
type FingerClassifier struct {
	Mirrored bool
}

// NewFingerClassifier creates a FingerClassifier for the given camera orientation.
func NewFingerClassifier(mirrored bool) *FingerClassifier {
	return &FingerClassifier{Mirrored: mirrored}
}

// Classify returns the extension state of every finger of hand.
func (c *FingerClassifier) Classify(hand detector.HandLandmarks) FingerState {
	var state FingerState

	state[Thumb] = c.thumbExtended(hand)

	// y grows downward in image space, so an extended fingertip sits above its PIP joint.
	for i, tip := range fingerTips {
		state[Index+i] = hand.Points[tip].Y < hand.Points[tip-2].Y
	}

	return state
}

// ClassifyPoints is Classify for a raw landmark slice. It returns
// detector.ErrMalformedLandmarks when the slice does not hold 21 points.
func (c *FingerClassifier) ClassifyPoints(points []detector.Point3D, handedness detector.Handedness) (FingerState, error) {
	hand, err := detector.NewHandLandmarks(points, handedness, 0)
	if err != nil {
		return FingerState{}, err
	}
	return c.Classify(hand), nil
}

func (c *FingerClassifier) thumbExtended(hand detector.HandLandmarks) bool {
	tip := hand.Points[detector.ThumbTip].X
	ip := hand.Points[detector.ThumbIP].X

	towardLowerX := hand.Handedness == detector.Right
	if !c.Mirrored {
		towardLowerX = !towardLowerX
	}

	if towardLowerX {
		return tip < ip
	}
	return tip > ip
}
