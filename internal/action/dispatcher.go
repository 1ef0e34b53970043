package action

import (
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/inject"
	"github.com/sirupsen/logrus"
)

// Default dispatch settings.
const (
	DefaultScrollAmount = 300
)

// DefaultSwitchTabKeys is the key combination sent for SwitchTab.
var DefaultSwitchTabKeys = []string{"ctrl", "tab"}

// Event describes a debounced action that fired.
type Event struct {
	Gesture gesture.Label
	Action  Action
	Time    time.Time
	Err     error
}

// EventSink receives fired debounced actions.
type EventSink interface {
	Record(e Event) error
}

// Config holds dispatcher settings.
type Config struct {
	Bindings      Bindings
	Cooldown      time.Duration
	ScrollAmount  int
	SwitchTabKeys []string
}

// DefaultConfig returns the built-in dispatch settings.
func DefaultConfig() Config {
	return Config{
		Bindings:      DefaultBindings(),
		Cooldown:      DefaultCooldown,
		ScrollAmount:  DefaultScrollAmount,
		SwitchTabKeys: DefaultSwitchTabKeys,
	}
}

// Dispatcher issues at most one injection per frame for the current gesture.
// It owns the cooldown and the pointer filter and is not safe for concurrent use.
type Dispatcher struct {
	config   Config
	injector inject.Injector
	cursor   *cursor.Filter
	cooldown *Cooldown
	sink     EventSink
	log      logrus.FieldLogger
}

// NewDispatcher creates a Dispatcher. sink may be nil.
func NewDispatcher(config Config, injector inject.Injector, filter *cursor.Filter, sink EventSink, log logrus.FieldLogger) *Dispatcher {
	if config.Bindings == nil {
		config.Bindings = DefaultBindings()
	}
	if config.ScrollAmount == 0 {
		config.ScrollAmount = DefaultScrollAmount
	}
	if len(config.SwitchTabKeys) == 0 {
		config.SwitchTabKeys = DefaultSwitchTabKeys
	}

	return &Dispatcher{
		config:   config,
		injector: injector,
		cursor:   filter,
		cooldown: NewCooldown(config.Cooldown),
		sink:     sink,
		log:      log,
	}
}

// Dispatch performs the action bound to label. indexTip is the index fingertip
// of the current frame, or nil without a hand.
//
// It returns the action that was issued, or NoAction when the gesture is
// unbound, the cooldown is still running, or a pointer move has no position.
// An injection error is returned alongside the issued action and never
// disables later dispatches.
func (d *Dispatcher) Dispatch(label gesture.Label, indexTip *detector.Point3D, now time.Time) (Action, error) {
	act, ok := d.config.Bindings[label]
	if !ok || act == NoAction {
		return NoAction, nil
	}

	if act == MovePointer && indexTip == nil {
		return NoAction, nil
	}

	if !act.Continuous() {
		if !d.cooldown.Ready(now) {
			return NoAction, nil
		}
		d.cooldown.Mark(now)
	}

	err := d.perform(act, indexTip)
	if err != nil {
		err = fmt.Errorf("%s for %s: %w", act, label, err)
	}

	if !act.Continuous() {
		d.log.WithFields(logrus.Fields{"gesture": label, "action": act}).Info("Action fired")
		d.record(Event{Gesture: label, Action: act, Time: now, Err: err})
	}

	return act, err
}

// Cooldown returns the dispatcher's cooldown state.
func (d *Dispatcher) Cooldown() *Cooldown {
	return d.cooldown
}

// Cursor returns the dispatcher's pointer filter.
func (d *Dispatcher) Cursor() *cursor.Filter {
	return d.cursor
}

func (d *Dispatcher) perform(act Action, indexTip *detector.Point3D) error {
	switch act {
	case MovePointer:
		x, y := d.cursor.Update(indexTip.X, indexTip.Y)
		return d.injector.MoveTo(x, y)
	case ScrollUp:
		return d.injector.Scroll(d.config.ScrollAmount)
	case ScrollDown:
		return d.injector.Scroll(-d.config.ScrollAmount)
	case LeftClick:
		return d.injector.Click(inject.ButtonLeft)
	case RightClick:
		return d.injector.Click(inject.ButtonRight)
	case DoubleClick:
		return d.injector.Click(inject.ButtonDouble)
	case VolumeUp:
		return d.injector.MediaKey(inject.VolumeUp)
	case VolumeDown:
		return d.injector.MediaKey(inject.VolumeDown)
	case PlayPause:
		return d.injector.MediaKey(inject.PlayPause)
	case SwitchTab:
		return d.injector.KeyCombo(d.config.SwitchTabKeys...)
	}
	return fmt.Errorf("%w: %s", inject.ErrUnsupported, act)
}

func (d *Dispatcher) record(e Event) {
	if d.sink == nil {
		return
	}
	if err := d.sink.Record(e); err != nil {
		d.log.WithError(err).Warn("Failed to record action event")
	}
}
