package spectrum

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
)

// SplitParts writes the real and imaginary parts of in into re and im.
// All three slices must have the same length.
func SplitParts(re, im []float64, in []complex128) {
	if len(re) != len(in) || len(im) != len(in) {
		panic(fmt.Sprintf("spectrum: part lengths %d/%d do not match %d bins", len(re), len(im), len(in)))
	}

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
}

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
//
// This uses the SIMD kernels of algo-vecmath when available. All three
// slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// Magnitude returns |X[k]| for each bin in a newly allocated slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	parts := make([]float64, 2*len(in))
	re, im := parts[:len(in)], parts[len(in):]
	SplitParts(re, im, in)

	out := make([]float64, len(in))
	MagnitudeFromParts(out, re, im)

	return out
}

// PhaseInto writes arg(X[k]) in radians, in (-pi, pi], into dst.
func PhaseInto(dst []float64, in []complex128) {
	if len(dst) != len(in) {
		panic(fmt.Sprintf("spectrum: phase length %d does not match %d bins", len(dst), len(in)))
	}

	for i, c := range in {
		dst[i] = cmplx.Phase(c)
	}
}

// Phase returns arg(X[k]) for each bin in a newly allocated slice.
func Phase(in []complex128) []float64 {
	out := make([]float64, len(in))
	PhaseInto(out, in)
	return out
}

// SpreadMagnitude writes into dst the mean of src over the bins
// [i-radius, i+radius) for every bin i, with the range clipped to
// [0, len(src)-1). The last bin therefore never contributes to any mean.
//
// radius must be >= 1 and src must hold at least two bins. dst and src must
// have the same length and must not overlap. The cost is O(len(src)*radius).
func SpreadMagnitude(dst, src []float64, radius int) {
	n := len(src)
	if len(dst) != n {
		panic(fmt.Sprintf("spectrum: spread length %d does not match %d bins", len(dst), n))
	}
	if radius < 1 || n < 2 {
		panic(fmt.Sprintf("spectrum: spread radius %d over %d bins", radius, n))
	}

	for i := range dst {
		lo := max(0, i-radius)
		hi := min(n-1, i+radius)

		sum := 0.0
		for j := lo; j < hi; j++ {
			sum += src[j]
		}

		dst[i] = sum / float64(hi-lo)
	}
}
