package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// BinSine generates a sine completing exactly bin periods every window
// samples, so its spectrum over any whole window is a single bin pair.
func BinSine(bin, window int, amplitude float64, length int) []float64 {
	return DeterministicSine(float64(bin), float64(window), amplitude, length)
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Float32 narrows a test signal to the sample type used by host buffers.
func Float32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

// Constant32 returns n copies of value, for per-sample control lanes.
func Constant32(value float32, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// Delay returns in shifted late by d samples with zeros in front,
// truncated to len(in).
func Delay(in []float64, d int) []float64 {
	out := make([]float64, len(in))
	if d < len(in) {
		copy(out[d:], in)
	}
	return out
}
