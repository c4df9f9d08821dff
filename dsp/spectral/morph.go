package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/scidev5/fftmorph/dsp/fft"
	"github.com/scidev5/fftmorph/dsp/interp"
	"github.com/scidev5/fftmorph/dsp/spectrum"
)

const (
	// Epsilon keeps the log-domain blend finite for zero magnitudes.
	Epsilon = 1e-16

	// MaxSpreadBins is the neighbourhood half-width added at spread == 1.
	MaxSpreadBins = 50
)

// SpreadRadius maps a spread control in [0, 1] to the half-width Z of the
// bin neighbourhood averaged for the second spectrum: floor(50*spread) + 1.
// Values outside [0, 1] are clamped.
func SpreadRadius(spread float64) int {
	if !(spread > 0) {
		return 1
	}
	if spread > 1 {
		spread = 1
	}

	return int(math.Floor(MaxSpreadBins*spread)) + 1
}

// BlendMagnitude pulls magnitude a towards b by iterations rounds of
// log-domain interpolation at weight k. Equal endpoints are returned
// unchanged and round-off below zero is floored at 0.
func BlendMagnitude(a, b, k float64, iterations int) float64 {
	if a == b || iterations <= 0 {
		return a
	}

	logB := math.Log(b + Epsilon)
	for range iterations {
		a = math.Exp(interp.Lerp(k, math.Log(a+Epsilon), logB)) - Epsilon
	}

	return max(a, 0)
}

// Morpher morphs windows of a fixed length W.
//
// The FFT plan is referenced, not owned, and may be shared with other
// morphers driven from the same goroutine. All scratch memory is allocated
// by NewMorpher; Morph and Morph2x do not allocate.
//
// A Morpher is not safe for concurrent use.
type Morpher struct {
	plan  *fft.Plan
	size  int
	scale float64 // sqrt(W)

	timeA, timeB []complex128
	specA, specB []complex128
	synth        []complex128
	out          []complex128

	re, im     []float64
	magA, magB []float64
	phaseA     []float64
	phaseB     []float64
	spreadB    []float64
}

// NewMorpher returns a morpher for windows of plan.Len() samples.
func NewMorpher(plan *fft.Plan) (*Morpher, error) {
	if plan == nil {
		return nil, fmt.Errorf("spectral: FFT plan is nil")
	}

	n := plan.Len()
	m := &Morpher{
		plan:  plan,
		size:  n,
		scale: math.Sqrt(float64(n)),
	}

	m.timeA = make([]complex128, n)
	m.timeB = make([]complex128, n)
	m.specA = make([]complex128, n)
	m.specB = make([]complex128, n)
	m.synth = make([]complex128, n)
	m.out = make([]complex128, n)

	m.re = make([]float64, n)
	m.im = make([]float64, n)
	m.magA = make([]float64, n)
	m.magB = make([]float64, n)
	m.phaseA = make([]float64, n)
	m.phaseB = make([]float64, n)
	m.spreadB = make([]float64, n)

	return m, nil
}

// Size returns the window length W.
func (m *Morpher) Size() int { return m.size }

// Plan returns the shared FFT plan.
func (m *Morpher) Plan() *fft.Plan { return m.plan }

// Morph writes into dst the morph of windows a and b at weight k: 0 keeps
// a's magnitudes and phases, 1 pulls them towards b. spread in [0, 1] widens
// the neighbourhood used for b's magnitudes and iterations sets the number
// of geometric blend rounds. dst, a and b must all have length Size().
func (m *Morpher) Morph(dst, a, b []float64, k, spread float64, iterations int) {
	m.checkLen("dst", dst)
	m.analyze(a, b, spread)
	m.synthesize(dst, k, iterations)
}

// Morph2x computes both morph directions from a single pair of forward
// transforms: ab receives Morph(a, b, k, ...) and ba receives
// Morph(a, b, 1-k, ...).
func (m *Morpher) Morph2x(ab, ba, a, b []float64, k, spread float64, iterations int) {
	m.checkLen("ab", ab)
	m.checkLen("ba", ba)
	m.analyze(a, b, spread)
	m.synthesize(ab, k, iterations)
	m.synthesize(ba, 1-k, iterations)
}

func (m *Morpher) checkLen(name string, s []float64) {
	if len(s) != m.size {
		panic(fmt.Sprintf("spectral: %s has %d samples, morpher window is %d", name, len(s), m.size))
	}
}

// analyze transforms both windows and derives the per-bin quantities that do
// not depend on the morph weight.
func (m *Morpher) analyze(a, b []float64, spread float64) {
	m.checkLen("a", a)
	m.checkLen("b", b)

	for i := range a {
		m.timeA[i] = complex(a[i], 0)
		m.timeB[i] = complex(b[i], 0)
	}

	m.forward(m.specA, m.timeA)
	m.forward(m.specB, m.timeB)

	spectrum.SplitParts(m.re, m.im, m.specA)
	spectrum.MagnitudeFromParts(m.magA, m.re, m.im)
	spectrum.SplitParts(m.re, m.im, m.specB)
	spectrum.MagnitudeFromParts(m.magB, m.re, m.im)

	spectrum.PhaseInto(m.phaseA, m.specA)
	spectrum.PhaseInto(m.phaseB, m.specB)

	spectrum.SpreadMagnitude(m.spreadB, m.magB, SpreadRadius(spread))
}

// forward transforms src into dst and applies the 1/sqrt(W) half of the
// round-trip normalization, so bin magnitudes are energy preserving.
func (m *Morpher) forward(dst, src []complex128) {
	if err := m.plan.Forward(dst, src); err != nil {
		panic(fmt.Sprintf("spectral: %v", err))
	}

	inv := complex(1/m.scale, 0)
	for i := range dst {
		dst[i] *= inv
	}
}

func (m *Morpher) synthesize(dst []float64, k float64, iterations int) {
	for i := range m.synth {
		phase := blendPhase(m.specA[i] == 0, m.specB[i] == 0, m.phaseA[i], m.phaseB[i], k)
		mag := BlendMagnitude(m.magA[i], m.spreadB[i], k, iterations)
		m.synth[i] = cmplx.Rect(mag, phase)
	}

	if err := m.plan.Inverse(m.out, m.synth); err != nil {
		panic(fmt.Sprintf("spectral: %v", err))
	}

	// Inverse already divides by W; multiply back the sqrt(W) removed in forward.
	for i := range dst {
		dst[i] = real(m.out[i]) * m.scale
	}
}

// blendPhase interpolates raw angles. A bin with no energy has no meaningful
// angle, so the other spectrum's angle is taken instead.
func blendPhase(aZero, bZero bool, phaseA, phaseB, k float64) float64 {
	switch {
	case aZero:
		return phaseB
	case bZero:
		return phaseA
	default:
		return interp.Lerp(k, phaseA, phaseB)
	}
}
