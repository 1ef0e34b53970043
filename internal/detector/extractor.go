package detector

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Extractor reduces raw detector output to at most one hand per frame.
type Extractor struct {
	detector Detector
	overlay  bool
}

// NewExtractor creates an Extractor over d. When overlay is true every
// extracted hand is drawn onto the frame it came from.
func NewExtractor(d Detector, overlay bool) *Extractor {
	return &Extractor{
		detector: d,
		overlay:  overlay,
	}
}

// Extract runs the detector on frame and returns the most confident hand.
// It returns nil, nil when no hand is in view.
func (e *Extractor) Extract(frame *gocv.Mat) (*HandLandmarks, error) {
	hands, err := e.detector.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("extract landmarks: %w", err)
	}

	hand := selectHand(hands)
	if hand == nil {
		return nil, nil
	}

	if e.overlay && frame != nil && !frame.Empty() {
		DrawSkeleton(frame, hand)
	}

	return hand, nil
}

// Close releases the underlying detector.
func (e *Extractor) Close() error {
	return e.detector.Close()
}

// selectHand picks the highest-scoring hand; the earliest wins ties.
func selectHand(hands []HandLandmarks) *HandLandmarks {
	if len(hands) == 0 {
		return nil
	}

	best := 0
	for i := 1; i < len(hands); i++ {
		if hands[i].Score > hands[best].Score {
			best = i
		}
	}

	hand := hands[best]
	return &hand
}
