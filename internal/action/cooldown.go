package action

import "time"

// DefaultCooldown is the minimum spacing between two debounced actions.
const DefaultCooldown = 700 * time.Millisecond

// Cooldown gates debounced actions.
type Cooldown struct {
	window time.Duration
	last   time.Time
}

// NewCooldown creates a Cooldown that has never fired.
func NewCooldown(window time.Duration) *Cooldown {
	if window <= 0 {
		window = DefaultCooldown
	}
	return &Cooldown{window: window}
}

// Ready reports whether strictly more than the window has passed since the last fire.
func (c *Cooldown) Ready(now time.Time) bool {
	return c.last.IsZero() || now.Sub(c.last) > c.window
}

// Mark records a fire at now.
func (c *Cooldown) Mark(now time.Time) {
	c.last = now
}

// Window returns the cooldown duration.
func (c *Cooldown) Window() time.Duration {
	return c.window
}
