package morph

import (
	"fmt"

	"github.com/scidev5/fftmorph/dsp/core"
	"github.com/scidev5/fftmorph/dsp/interp"
)

// Continuity crossfades the sub-range carried over from the previous block
// into the freshly computed sub-range of the current block.
//
// Over the first len/divisor samples of a block the weight ramps from 0 to 1,
// so the first output sample is exactly the carried tail and every sample
// from the ramp end on is exactly the current value.
type Continuity struct {
	previous []float64
	divisor  int
}

// NewContinuity returns an empty blender with the given ramp divisor.
// It panics if divisor < 1.
func NewContinuity(divisor int) *Continuity {
	if divisor < 1 {
		panic(fmt.Sprintf("morph: continuity ramp divisor must be >= 1: %d", divisor))
	}
	return &Continuity{divisor: divisor}
}

// Len returns the block length the blender is sized for.
func (c *Continuity) Len() int { return len(c.previous) }

// Resize sets the block length and clears the carried tail, reusing
// capacity where possible.
func (c *Continuity) Resize(n int) {
	c.previous = core.EnsureLen(c.previous, n)
	core.Zero(c.previous)
}

// Reset clears the carried tail.
func (c *Continuity) Reset() { core.Zero(c.previous) }

// Previous returns the carried tail. The slice is owned by c.
func (c *Continuity) Previous() []float64 { return c.previous }

// Weight returns the crossfade weight of sample i in a block of n samples:
// min(1, divisor*i/n).
func Weight(i, n, divisor int) float64 {
	return min(1, float64(divisor*i)/float64(n))
}

// Blend writes into dst the crossfade from the carried tail to current and
// then carries tail into the next call. dst, current and tail must all have
// length Len(). dst may alias current.
func (c *Continuity) Blend(dst, current, tail []float64) {
	n := len(c.previous)
	if len(dst) != n || len(current) != n || len(tail) != n {
		panic(fmt.Sprintf("morph: continuity sized for %d samples, got dst %d, current %d, tail %d",
			n, len(dst), len(current), len(tail)))
	}

	for i := range dst {
		dst[i] = interp.Lerp(Weight(i, n, c.divisor), c.previous[i], current[i])
	}

	copy(c.previous, tail)
}
