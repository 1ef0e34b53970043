// Package inject defines the OS input boundary: pointer, click, scroll and key injection.
package inject

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when a backend cannot perform an injection.
var ErrUnsupported = errors.New("injection not supported")

// Button identifies a pointer click.
type Button int

// Pointer buttons.
const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonDouble
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonDouble:
		return "double"
	}
	return fmt.Sprintf("button(%d)", int(b))
}

// MediaKey identifies a media control key.
type MediaKey int

// Media keys.
const (
	VolumeUp MediaKey = iota
	VolumeDown
	PlayPause
)

func (k MediaKey) String() string {
	switch k {
	case VolumeUp:
		return "volume-up"
	case VolumeDown:
		return "volume-down"
	case PlayPause:
		return "play-pause"
	}
	return fmt.Sprintf("media(%d)", int(k))
}

// Injector synthesizes OS input events. Every method reports failure to
// inject (e.g. missing accessibility permission) as an error.
type Injector interface {
	// MoveTo moves the pointer to an absolute screen coordinate.
	MoveTo(x, y int) error
	// Click presses and releases a pointer button.
	Click(b Button) error
	// Scroll scrolls vertically; positive amounts scroll up.
	Scroll(amount int) error
	// KeyCombo presses keys together; the last key is the main key and the
	// rest are held as modifiers, e.g. KeyCombo("ctrl", "tab").
	KeyCombo(keys ...string) error
	// MediaKey taps a media control key.
	MediaKey(k MediaKey) error
}

// ScreenSizer reports the primary screen size in pixels.
type ScreenSizer interface {
	ScreenSize() (width, height int)
}
