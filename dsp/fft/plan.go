package fft

import (
	"errors"
	"fmt"
	"strings"

	algofft "github.com/MeKo-Christian/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Backend selects the FFT implementation behind a [Plan].
type Backend int

const (
	// BackendAlgoFFT uses github.com/MeKo-Christian/algo-fft.
	BackendAlgoFFT Backend = iota
	// BackendGonum uses gonum.org/v1/gonum/dsp/fourier.
	BackendGonum
)

// MinSize is the smallest supported transform length.
const MinSize = 4

var (
	// ErrInvalidSize is returned for lengths that are not a power of two >= MinSize.
	ErrInvalidSize = errors.New("fft: size must be a power of two >= 4")
	// ErrUnknownBackend is returned for an unrecognized [Backend].
	ErrUnknownBackend = errors.New("fft: unknown backend")
	// ErrLengthMismatch is returned when a buffer does not match the plan length.
	ErrLengthMismatch = errors.New("fft: buffer length mismatch")
)

// String returns the flag-friendly backend name.
func (b Backend) String() string {
	switch b {
	case BackendAlgoFFT:
		return "algofft"
	case BackendGonum:
		return "gonum"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend maps a backend name as printed by [Backend.String] back to a Backend.
func ParseBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "algofft", "algo-fft", "":
		return BackendAlgoFFT, nil
	case "gonum":
		return BackendGonum, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// Plan is a fixed-length complex FFT.
type Plan struct {
	size    int
	backend Backend
	invN    complex128

	algo  *algofft.Plan[complex128]
	gonum *fourier.CmplxFFT
}

// NewPlan builds a plan for transforms of the given length.
func NewPlan(size int, backend Backend) (*Plan, error) {
	if size < MinSize || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	p := &Plan{
		size:    size,
		backend: backend,
		invN:    complex(1/float64(size), 0),
	}

	switch backend {
	case BackendAlgoFFT:
		plan, err := algofft.NewPlan64(size)
		if err != nil {
			return nil, fmt.Errorf("fft: failed to create algo-fft plan: %w", err)
		}
		p.algo = plan
	case BackendGonum:
		p.gonum = fourier.NewCmplxFFT(size)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownBackend, int(backend))
	}

	return p, nil
}

// Len returns the transform length.
func (p *Plan) Len() int { return p.size }

// Backend returns the implementation in use.
func (p *Plan) Backend() Backend { return p.backend }

// Forward computes the unnormalized DFT of src into dst.
// dst and src must both have length Len() and must not overlap.
func (p *Plan) Forward(dst, src []complex128) error {
	if err := p.check(dst, src); err != nil {
		return err
	}

	if p.algo != nil {
		if err := p.algo.Forward(dst, src); err != nil {
			return fmt.Errorf("fft: forward transform failed: %w", err)
		}
		return nil
	}

	p.gonum.Coefficients(dst, src)
	return nil
}

// Inverse computes the inverse DFT of src into dst, scaled by 1/Len().
// dst and src must both have length Len() and must not overlap.
func (p *Plan) Inverse(dst, src []complex128) error {
	if err := p.check(dst, src); err != nil {
		return err
	}

	if p.algo != nil {
		if err := p.algo.Inverse(dst, src); err != nil {
			return fmt.Errorf("fft: inverse transform failed: %w", err)
		}
		return nil
	}

	// gonum's Sequence is unnormalized.
	p.gonum.Sequence(dst, src)
	for i := range dst {
		dst[i] *= p.invN
	}

	return nil
}

func (p *Plan) check(dst, src []complex128) error {
	if len(dst) != p.size || len(src) != p.size {
		return fmt.Errorf("%w: plan %d, dst %d, src %d", ErrLengthMismatch, p.size, len(dst), len(src))
	}
	return nil
}
