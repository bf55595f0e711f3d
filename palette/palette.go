// Package palette maps simulation values to display colors.
package palette

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Size is the number of precomputed entries in a Ramp.
const Size = 256

// Ramp is a precomputed hue sweep from blue (low) to red (high).
type Ramp [Size]colorful.Color

// NewRamp builds the pressure ramp.
func NewRamp() *Ramp {
	r := new(Ramp)
	for i := range r {
		t := float64(i) / (Size - 1)
		r[i] = colorful.Hsv(240*(1-t), 1, 1)
	}
	return r
}

// At returns the color for v within [lo, hi]. Values outside are clamped;
// an empty range maps everything to the middle of the ramp.
func (r *Ramp) At(v, lo, hi float64) colorful.Color {
	return r[int(Normalize(v, lo, hi)*(Size-1))]
}

// Normalize maps v into [0,1] relative to [lo, hi].
func Normalize(v, lo, hi float64) float64 {
	if !(hi > lo) {
		return 0.5
	}
	return math.Min(1, math.Max(0, (v-lo)/(hi-lo)))
}

// Alpha returns the opacity of a smoke cell given the densest cell.
func Alpha(d, maxDensity float64) float64 {
	if maxDensity <= 0 || d <= 0 {
		return 0
	}
	return math.Min(1, d/maxDensity)
}

// Xterm256 returns the index of the closest color in the xterm 6x6x6 cube.
func Xterm256(c colorful.Color) int {
	c = c.Clamped()
	level := func(x float64) int { return int(math.Round(x * 5)) }
	return 16 + 36*level(c.R) + 6*level(c.G) + level(c.B)
}
