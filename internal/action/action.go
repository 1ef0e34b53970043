// Package action turns gesture labels into input injections.
package action

import (
	"fmt"

	"github.com/ayusman/mudra/internal/gesture"
)

// Action is something the dispatcher can do through an injector.
type Action int

// Actions.
const (
	NoAction Action = iota
	MovePointer
	ScrollUp
	ScrollDown
	LeftClick
	RightClick
	DoubleClick
	VolumeUp
	VolumeDown
	PlayPause
	SwitchTab
)

var actionNames = [...]string{
	NoAction:    "none",
	MovePointer: "move_pointer",
	ScrollUp:    "scroll_up",
	ScrollDown:  "scroll_down",
	LeftClick:   "left_click",
	RightClick:  "right_click",
	DoubleClick: "double_click",
	VolumeUp:    "volume_up",
	VolumeDown:  "volume_down",
	PlayPause:   "play_pause",
	SwitchTab:   "switch_tab",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ParseAction returns the action with the given snake_case name.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return NoAction, fmt.Errorf("unknown action %q", name)
}

// Continuous reports whether a fires on every frame its gesture is held.
// All other actions are debounced by the cooldown.
func (a Action) Continuous() bool {
	switch a {
	case MovePointer, ScrollUp, ScrollDown:
		return true
	}
	return false
}

// Bindings maps gestures to actions. Unbound gestures do nothing.
type Bindings map[gesture.Label]Action

// DefaultBindings returns the built-in gesture table.
func DefaultBindings() Bindings {
	return Bindings{
		gesture.Pointing:   MovePointer,
		gesture.OpenPalm:   ScrollUp,
		gesture.Peace:      LeftClick,
		gesture.Pinch:      LeftClick,
		gesture.Fist:       RightClick,
		gesture.ThumbsUp:   VolumeUp,
		gesture.SwipeLeft:  SwitchTab,
		gesture.SwipeRight: SwitchTab,
	}
}

// ParseBindings builds Bindings from gesture and action names, starting from
// DefaultBindings. Mapping a gesture to "none" unbinds it.
func ParseBindings(names map[string]string) (Bindings, error) {
	b := DefaultBindings()
	for g, a := range names {
		label, err := gesture.ParseLabel(g)
		if err != nil {
			return nil, err
		}
		act, err := ParseAction(a)
		if err != nil {
			return nil, err
		}
		if act == NoAction {
			delete(b, label)
			continue
		}
		b[label] = act
	}
	return b, nil
}
