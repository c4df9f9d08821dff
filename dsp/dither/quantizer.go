package dither

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	minBitDepth = 2
	maxBitDepth = 32
)

var (
	ErrInvalidBitDepth  = errors.New("dither: bit depth out of range")
	ErrInvalidType      = errors.New("dither: invalid dither type")
	ErrInvalidAmplitude = errors.New("dither: amplitude must be >= 0 and finite")
)

type config struct {
	bitDepth  int
	typ       Type
	amplitude float64
	rng       *rand.Rand
}

// Option configures a [Quantizer].
type Option func(*config) error

// WithBitDepth sets the target bit depth (default 16).
func WithBitDepth(bits int) Option {
	return func(cfg *config) error {
		if bits < minBitDepth || bits > maxBitDepth {
			return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBitDepth, bits, minBitDepth, maxBitDepth)
		}
		cfg.bitDepth = bits
		return nil
	}
}

// WithType sets the noise distribution (default [None]).
func WithType(t Type) Option {
	return func(cfg *config) error {
		if !t.Valid() {
			return fmt.Errorf("%w: %d", ErrInvalidType, int(t))
		}
		cfg.typ = t
		return nil
	}
}

// WithAmplitude scales the noise, in output codes (default 1).
func WithAmplitude(amp float64) Option {
	return func(cfg *config) error {
		if amp < 0 || math.IsNaN(amp) || math.IsInf(amp, 0) {
			return fmt.Errorf("%w: %f", ErrInvalidAmplitude, amp)
		}
		cfg.amplitude = amp
		return nil
	}
}

// WithSeed makes the noise sequence reproducible.
func WithSeed(seed uint64) Option {
	return func(cfg *config) error {
		cfg.rng = rand.New(rand.NewPCG(seed, 0))
		return nil
	}
}

// Quantizer maps samples in [-1, 1] to signed integers of a fixed bit depth.
// Out-of-range input is clipped to the representable codes.
//
// A Quantizer is not safe for concurrent use.
type Quantizer struct {
	bitDepth  int
	typ       Type
	amplitude float64
	rng       *rand.Rand

	peak   float64
	lo, hi int
}

// NewQuantizer creates a quantizer. Without options it rounds to 16 bits.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := config{bitDepth: 16, typ: None, amplitude: 1}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	q := &Quantizer{
		bitDepth:  cfg.bitDepth,
		typ:       cfg.typ,
		amplitude: cfg.amplitude,
		rng:       cfg.rng,
	}
	if q.rng == nil {
		q.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	q.peak = math.Ldexp(1, q.bitDepth-1) - 1
	q.hi = int(q.peak)
	q.lo = -q.hi

	return q, nil
}

// ProcessInteger quantizes one sample.
func (q *Quantizer) ProcessInteger(input float64) int {
	scaled := input*q.peak + q.noise()
	return int(math.Round(min(max(scaled, float64(q.lo)), float64(q.hi))))
}

// ProcessInto quantizes src into dst. It panics if the lengths differ.
func (q *Quantizer) ProcessInto(dst []int, src []float32) {
	if len(dst) != len(src) {
		panic(fmt.Sprintf("dither: dst has %d samples, src has %d", len(dst), len(src)))
	}
	for i, v := range src {
		dst[i] = q.ProcessInteger(float64(v))
	}
}

func (q *Quantizer) noise() float64 {
	switch q.typ {
	case Rectangular:
		return q.amplitude * (q.rng.Float64() - 0.5)
	case Triangular:
		return q.amplitude * (q.rng.Float64() - q.rng.Float64())
	default:
		return 0
	}
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// Type returns the noise distribution.
func (q *Quantizer) Type() Type { return q.typ }

// Amplitude returns the noise scale in output codes.
func (q *Quantizer) Amplitude() float64 { return q.amplitude }
