package inject

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// dryRunKeep bounds the calls a dry-run Recorder remembers.
const dryRunKeep = 100

// Recorder is an Injector that records calls instead of injecting input.
// It is used by tests and by the dry-run backend.
type Recorder struct {
	mu     sync.Mutex
	calls  []string
	err    error
	width  int
	height int
	keep   int
	log    logrus.FieldLogger
}

// NewRecorder creates a Recorder reporting a width x height screen.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

// NewDryRun creates a Recorder that logs every call and remembers only the
// most recent ones.
func NewDryRun(log logrus.FieldLogger, width, height int) *Recorder {
	return &Recorder{width: width, height: height, keep: dryRunKeep, log: log}
}

// SetError makes every subsequent call fail with err after being recorded.
func (r *Recorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Calls returns the recorded calls, e.g. "move 10 20" or "keys ctrl+tab".
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Reset forgets recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) record(format string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	call := fmt.Sprintf(format, args...)
	r.calls = append(r.calls, call)
	if r.keep > 0 && len(r.calls) > r.keep {
		r.calls = r.calls[len(r.calls)-r.keep:]
	}
	if r.log != nil {
		r.log.WithField("call", call).Info("Dry-run injection")
	}
	return r.err
}

// MoveTo implements Injector.
func (r *Recorder) MoveTo(x, y int) error { return r.record("move %d %d", x, y) }

// Click implements Injector.
func (r *Recorder) Click(b Button) error { return r.record("click %s", b) }

// Scroll implements Injector.
func (r *Recorder) Scroll(amount int) error { return r.record("scroll %d", amount) }

// KeyCombo implements Injector.
func (r *Recorder) KeyCombo(keys ...string) error {
	return r.record("keys %s", strings.Join(keys, "+"))
}

// MediaKey implements Injector.
func (r *Recorder) MediaKey(k MediaKey) error { return r.record("media %s", k) }

// ScreenSize implements ScreenSizer.
func (r *Recorder) ScreenSize() (int, int) { return r.width, r.height }
