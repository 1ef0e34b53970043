// Package cursor converts tracked hand positions into smoothed screen coordinates.
package cursor

import "math"

// DefaultAlpha is the default smoothing factor. Higher values track the hand
// more closely; lower values damp more jitter.
const DefaultAlpha = 0.3

// Filter applies exponential smoothing to a normalized hand position.
// It is not safe for concurrent use.
type Filter struct {
	width, height float64
	alpha         float64
	mirror        bool

	x, y float64
}

// NewFilter creates a Filter for a width x height screen, seeded at the screen centre.
// An alpha outside (0, 1] falls back to DefaultAlpha. With mirror set, moving
// the hand toward higher frame X moves the pointer left, matching what the user
// sees in a mirrored preview.
func NewFilter(width, height int, alpha float64, mirror bool) *Filter {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}

	f := &Filter{
		width:  float64(width),
		height: float64(height),
		alpha:  alpha,
		mirror: mirror,
	}
	f.Reset()
	return f
}

// Reset moves the smoothed position back to the screen centre.
func (f *Filter) Reset() {
	f.x = f.width / 2
	f.y = f.height / 2
}

// Update feeds one normalized hand position and returns the new smoothed
// screen coordinate, rounded to whole pixels.
func (f *Filter) Update(handX, handY float64) (int, int) {
	tx, ty := f.Target(handX, handY)

	f.x += (tx - f.x) * f.alpha
	f.y += (ty - f.y) * f.alpha

	return int(math.Round(f.x)), int(math.Round(f.y))
}

// Target returns the unsmoothed screen coordinate for a hand position.
// Coordinates are clamped to [0, 1] first.
func (f *Filter) Target(handX, handY float64) (float64, float64) {
	handX = clamp01(handX)
	handY = clamp01(handY)

	if f.mirror {
		handX = 1 - handX
	}
	return handX * f.width, handY * f.height
}

// Position returns the current smoothed coordinate without rounding.
func (f *Filter) Position() (float64, float64) {
	return f.x, f.y
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
