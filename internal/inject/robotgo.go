package inject

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// robotgoMediaKeys maps media keys to robotgo key names.
var robotgoMediaKeys = map[MediaKey]string{
	VolumeUp:   "audio_vol_up",
	VolumeDown: "audio_vol_down",
	PlayPause:  "audio_play",
}

// Robotgo injects input in-process through robotgo.
type Robotgo struct{}

// NewRobotgo creates a robotgo-backed Injector.
func NewRobotgo() *Robotgo {
	return &Robotgo{}
}

// MoveTo implements Injector.
func (r *Robotgo) MoveTo(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// Click implements Injector.
func (r *Robotgo) Click(b Button) error {
	switch b {
	case ButtonLeft:
		robotgo.Click("left", false)
	case ButtonRight:
		robotgo.Click("right", false)
	case ButtonDouble:
		robotgo.Click("left", true)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, b)
	}
	return nil
}

// Scroll implements Injector.
func (r *Robotgo) Scroll(amount int) error {
	robotgo.Scroll(0, amount)
	return nil
}

// KeyCombo implements Injector.
func (r *Robotgo) KeyCombo(keys ...string) error {
	if len(keys) == 0 {
		return fmt.Errorf("key combo: no keys")
	}

	key := keys[len(keys)-1]
	modifiers := make([]interface{}, 0, len(keys)-1)
	for _, m := range keys[:len(keys)-1] {
		modifiers = append(modifiers, m)
	}

	if err := robotgo.KeyTap(key, modifiers...); err != nil {
		return fmt.Errorf("key combo %v: %w", keys, err)
	}
	return nil
}

// MediaKey implements Injector.
func (r *Robotgo) MediaKey(k MediaKey) error {
	name, ok := robotgoMediaKeys[k]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupported, k)
	}
	if err := robotgo.KeyTap(name); err != nil {
		return fmt.Errorf("media key %s: %w", k, err)
	}
	return nil
}

// ScreenSize implements ScreenSizer.
func (r *Robotgo) ScreenSize() (int, int) {
	return robotgo.GetScreenSize()
}
