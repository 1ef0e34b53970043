package gesture

import "fmt"

// Label is a recognized gesture.
type Label int

// Gesture labels. Adding a label means extending this list, labelNames and
// the precedence in Classifier.Classify together.
const (
	None Label = iota
	Fist
	OpenPalm
	Pointing
	Peace
	ThumbsUp
	Pinch
	Three
	SwipeLeft
	SwipeRight
	Unknown
)

var labelNames = [...]string{
	None:       "none",
	Fist:       "fist",
	OpenPalm:   "open_palm",
	Pointing:   "pointing",
	Peace:      "peace",
	ThumbsUp:   "thumbs_up",
	Pinch:      "pinch",
	Three:      "three",
	SwipeLeft:  "swipe_left",
	SwipeRight: "swipe_right",
	Unknown:    "unknown",
}

// Labels returns every label in declaration order.
func Labels() []Label {
	labels := make([]Label, len(labelNames))
	for i := range labelNames {
		labels[i] = Label(i)
	}
	return labels
}

// String returns the snake_case name of the label.
func (l Label) String() string {
	if l < 0 || int(l) >= len(labelNames) {
		return fmt.Sprintf("label(%d)", int(l))
	}
	return labelNames[l]
}

// Valid reports whether l is one of the declared labels.
func (l Label) Valid() bool {
	return l >= 0 && int(l) < len(labelNames)
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLabel returns the label with the given snake_case name.
func ParseLabel(name string) (Label, error) {
	for i, n := range labelNames {
		if n == name {
			return Label(i), nil
		}
	}
	return None, fmt.Errorf("unknown gesture %q", name)
}
