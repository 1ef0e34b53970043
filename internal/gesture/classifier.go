package gesture

import "github.com/ayusman/mudra/internal/detector"

// Default classifier thresholds, in normalized frame units.
const (
	DefaultPinchThreshold = 0.05
	DefaultSwipeThreshold = 0.15
)

// Classifier maps finger states and landmarks to a gesture label.
type Classifier struct {
	// PinchThreshold is the thumb tip to index tip distance below which the hand pinches.
	PinchThreshold float64
	// SwipeThreshold is the frame-to-frame index tip X displacement that counts as a swipe.
	SwipeThreshold float64
}

// NewClassifier creates a Classifier with the default thresholds.
func NewClassifier() *Classifier {
	return &Classifier{
		PinchThreshold: DefaultPinchThreshold,
		SwipeThreshold: DefaultSwipeThreshold,
	}
}

// Classify returns the gesture for one frame. fingers must come from hand;
// prev is the previous frame's hand, or nil if there was none.
//
// The first matching rule wins:
//  1. no finger extended: Fist
//  2. only the thumb: ThumbsUp
//  3. only the index: Pointing
//  4. index and middle, nothing else: Peace
//  5. thumb and index tips closer than PinchThreshold: Pinch
//  6. three fingers: Three
//  7. four or five fingers: OpenPalm
//  8. index tip moved more than SwipeThreshold along X since prev: SwipeRight or SwipeLeft
//  9. anything else: Unknown
//
// A nil hand yields None.
func (c *Classifier) Classify(fingers FingerState, hand, prev *detector.HandLandmarks) Label {
	if hand == nil {
		return None
	}

	count := fingers.Count()

	switch {
	case count == 0:
		return Fist
	case count == 1 && fingers[Thumb]:
		return ThumbsUp
	case count == 1 && fingers[Index]:
		return Pointing
	case count == 2 && fingers[Index] && fingers[Middle]:
		return Peace
	}

	if detector.Distance2D(hand.ThumbTip(), hand.IndexTip()) < c.PinchThreshold {
		return Pinch
	}

	switch {
	case count == 3:
		return Three
	case count >= 4:
		return OpenPalm
	}

	if prev != nil {
		dx := hand.IndexTip().X - prev.IndexTip().X
		switch {
		case dx > c.SwipeThreshold:
			return SwipeRight
		case dx < -c.SwipeThreshold:
			return SwipeLeft
		}
	}

	return Unknown
}
