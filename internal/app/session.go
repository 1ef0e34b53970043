package app

import (
	"image"
	"math"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/sirupsen/logrus"
)

// FrameState summarizes what happened on one processed frame.
type FrameState struct {
	Time       time.Time           `json:"time"`
	Hand       bool                `json:"hand"`
	Handedness detector.Handedness `json:"handedness,omitempty"`
	Fingers    string              `json:"fingers,omitempty"`
	Gesture    gesture.Label       `json:"gesture"`
	Action     action.Action       `json:"action"`
	Pointer    *image.Point        `json:"pointer,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// Tracking reports whether a hand was seen, as shown in status lines.
func (s FrameState) Tracking() string {
	if s.Hand {
		return "TRACKING"
	}
	return "NO HAND"
}

// Session carries the per-frame state of one recognition run: the previous
// frame's landmarks, plus the pointer filter and cooldown owned by its
// dispatcher. It must be used from a single goroutine.
type Session struct {
	fingers    *gesture.FingerClassifier
	classifier *gesture.Classifier
	dispatcher *action.Dispatcher
	prev       *detector.HandLandmarks
	log        logrus.FieldLogger
}

// NewSession creates a Session.
func NewSession(fingers *gesture.FingerClassifier, classifier *gesture.Classifier, dispatcher *action.Dispatcher, log logrus.FieldLogger) *Session {
	return &Session{
		fingers:    fingers,
		classifier: classifier,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Step classifies hand and dispatches the bound action. A nil hand means no
// hand was detected: the label is None and the previous landmarks are cleared.
func (s *Session) Step(hand *detector.HandLandmarks, now time.Time) FrameState {
	state := FrameState{Time: now}

	if hand == nil {
		s.prev = nil
		state.Gesture = gesture.None
		return state
	}

	fingers := s.fingers.Classify(*hand)
	label := s.classifier.Classify(fingers, hand, s.prev)

	current := *hand
	s.prev = &current

	state.Hand = true
	state.Handedness = hand.Handedness
	state.Fingers = fingers.String()
	state.Gesture = label

	tip := hand.IndexTip()
	act, err := s.dispatcher.Dispatch(label, &tip, now)
	state.Action = act
	if err != nil {
		state.Error = err.Error()
		s.log.WithError(err).WithField("gesture", label).Warn("Injection failed")
	}

	if act == action.MovePointer {
		x, y := s.dispatcher.Cursor().Position()
		state.Pointer = &image.Point{X: int(math.Round(x)), Y: int(math.Round(y))}
	}

	return state
}

// Reset forgets the previous frame's landmarks and recentres the pointer
// filter.
func (s *Session) Reset() {
	s.prev = nil
	s.dispatcher.Cursor().Reset()
}
