package morph

import (
	"fmt"
	"math"

	"github.com/scidev5/fftmorph/dsp/buffer"
	"github.com/scidev5/fftmorph/dsp/core"
	"github.com/scidev5/fftmorph/dsp/fft"
	"github.com/scidev5/fftmorph/dsp/interp"
	"github.com/scidev5/fftmorph/dsp/spectral"
)

// Processor morphs one channel pair block by block.
//
// It owns the rolling history of both streams and the continuity state of
// both morph directions; none of it is shared with other processors. The
// FFT plan may be shared.
//
// A Processor is not safe for concurrent use.
type Processor struct {
	cfg        Config
	sampleRate float64
	gain       float64

	morpher  *spectral.Morpher
	historyA *buffer.Ring[float32]
	historyB *buffer.Ring[float32]

	windowA, windowB []float64
	segAB, segBA     []float64

	chunkLen int
	blendAB  *Continuity
	blendBA  *Continuity
	outAB    []float64
	outBA    []float64
}

// NewProcessor creates a processor. Options override [DefaultConfig].
func NewProcessor(opts ...Option) (*Processor, error) {
	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	plan := cfg.Plan
	if plan == nil {
		var err error
		plan, err = fft.NewPlan(cfg.WindowSize, cfg.Backend)
		if err != nil {
			return nil, fmt.Errorf("morph: %w", err)
		}
		cfg.Plan = plan
	}
	cfg.Backend = plan.Backend()

	morpher, err := spectral.NewMorpher(plan)
	if err != nil {
		return nil, fmt.Errorf("morph: %w", err)
	}

	w := cfg.WindowSize
	p := &Processor{
		cfg:      cfg,
		gain:     core.DBToLinear(cfg.OutputGainDB),
		morpher:  morpher,
		historyA: buffer.NewRing[float32](w, 0),
		historyB: buffer.NewRing[float32](w, 0),
		windowA:  make([]float64, w),
		windowB:  make([]float64, w),
		segAB:    make([]float64, w),
		segBA:    make([]float64, w),
		blendAB:  NewContinuity(cfg.RampDivisor),
		blendBA:  NewContinuity(cfg.RampDivisor),
	}

	return p, nil
}

// Initialize records the host sample rate. Processing works in sample and
// bin units, so the rate is informational only.
func (p *Processor) Initialize(sampleRate float64) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}
	p.sampleRate = sampleRate
	return nil
}

// SampleRate returns the rate passed to Initialize, or 0.
func (p *Processor) SampleRate() float64 { return p.sampleRate }

// Config returns the effective configuration.
func (p *Processor) Config() Config { return p.cfg }

// WindowSize returns the history and FFT length W.
func (p *Processor) WindowSize() int { return p.cfg.WindowSize }

// Plan returns the FFT plan in use.
func (p *Processor) Plan() *fft.Plan { return p.cfg.Plan }

// Mode returns the current processing mode.
func (p *Processor) Mode() Mode { return p.cfg.Mode }

// SetMode switches between single- and dual-direction processing and
// clears the continuity state of both directions.
func (p *Processor) SetMode(mode Mode) error {
	if err := validateMode(mode); err != nil {
		return err
	}
	if mode != p.cfg.Mode {
		p.blendAB.Reset()
		p.blendBA.Reset()
	}
	p.cfg.Mode = mode
	return nil
}

// OutputGainDB returns the output gain in dB.
func (p *Processor) OutputGainDB() float64 { return p.cfg.OutputGainDB }

// SetOutputGainDB sets the output gain in dB, within [-50, 0].
func (p *Processor) SetOutputGainDB(db float64) error {
	if err := validateGain(db); err != nil {
		return err
	}
	p.cfg.OutputGainDB = db
	p.gain = core.DBToLinear(db)
	return nil
}

// ChunkLen returns the length of the last processed chunk, or 0.
func (p *Processor) ChunkLen() int { return p.chunkLen }

// MaxChunkLen returns the longest chunk whose sub-ranges fit into the window.
func (p *Processor) MaxChunkLen() int { return (p.cfg.WindowSize - p.cfg.TailOffset) / 2 }

// Latency returns the delay in samples between an input sample and the
// output sample carrying it, for chunks of chunkLen samples.
func (p *Processor) Latency(chunkLen int) int { return chunkLen + p.cfg.TailOffset }

// Reset clears the history of both streams and all continuity state.
func (p *Processor) Reset() {
	for i := 0; i < p.historyA.Len(); i++ {
		p.historyA.Set(i, 0)
		p.historyB.Set(i, 0)
	}
	p.blendAB.Reset()
	p.blendBA.Reset()
}

// Process morphs one chunk in place.
//
// a is overwritten with the output and b is only read. morph and fade hold
// one weight per sample in [0, 1]; morph is reduced to its mean for the whole
// chunk while fade is applied per sample. fade is ignored, and may be nil, in
// ModeSingle. spread is clamped to [0, 1] and iterations to [0, MaxIterations].
//
// Process panics if the slice lengths differ or the chunk is longer than
// MaxChunkLen.
func (p *Processor) Process(a, b, morph, fade []float32, spread float32, iterations int) {
	n := len(a)
	if len(b) != n || len(morph) != n {
		panic(fmt.Sprintf("morph: length mismatch: a %d, b %d, morph %d", n, len(b), len(morph)))
	}
	dual := p.cfg.Mode == ModeDual
	if dual && len(fade) != n {
		panic(fmt.Sprintf("morph: length mismatch: a %d, fade %d", n, len(fade)))
	}
	if n == 0 {
		return
	}

	if n != p.chunkLen {
		p.resize(n)
	}

	p.historyA.Push(a)
	p.historyB.Push(b)
	loadWindow(p.windowA, p.historyA)
	loadWindow(p.windowB, p.historyB)

	k := core.Mean(morph)
	z := core.Clamp(float64(spread), 0, 1)
	iters := core.ClampInt(iterations, 0, MaxIterations)

	if dual {
		p.morpher.Morph2x(p.segAB, p.segBA, p.windowA, p.windowB, k, z, iters)
	} else {
		p.morpher.Morph(p.segAB, p.windowA, p.windowB, k, z, iters)
	}

	current, tail := p.subRanges(p.segAB)
	p.blendAB.Blend(p.outAB, current, tail)

	if !dual {
		for i := range a {
			a[i] = float32(p.outAB[i] * p.gain)
		}
		return
	}

	current, tail = p.subRanges(p.segBA)
	p.blendBA.Blend(p.outBA, current, tail)

	for i := range a {
		a[i] = float32(interp.Lerp(float64(fade[i]), p.outAB[i], p.outBA[i]) * p.gain)
	}
}

// resize reallocates the per-chunk buffers for a new chunk length. The
// carried tails restart from silence.
func (p *Processor) resize(n int) {
	w := p.cfg.WindowSize
	if n >= w {
		panic(fmt.Sprintf("morph: chunk of %d leaves no history in window of %d", n, w))
	}
	if n > p.MaxChunkLen() {
		panic(fmt.Sprintf("morph: chunk of %d exceeds maximum %d for window %d and tail offset %d",
			n, p.MaxChunkLen(), w, p.cfg.TailOffset))
	}

	p.chunkLen = n
	p.blendAB.Resize(n)
	p.blendBA.Resize(n)
	p.outAB = core.EnsureLen(p.outAB, n)
	p.outBA = core.EnsureLen(p.outBA, n)
}

// subRanges returns the current block, ending chunkLen+TailOffset samples
// before the end of seg, and the tail that follows it.
func (p *Processor) subRanges(seg []float64) (current, tail []float64) {
	n := p.chunkLen
	end := len(seg) - p.cfg.TailOffset
	return seg[end-2*n : end-n], seg[end-n : end]
}

func loadWindow(dst []float64, history *buffer.Ring[float32]) {
	lower, upper := history.Slices(0, history.Len())
	core.Widen(dst[:len(lower)], lower)
	core.Widen(dst[len(lower):], upper)
}
