package morph

import (
	"fmt"

	"github.com/scidev5/fftmorph/dsp/fft"
)

// Channels is the number of channel pairs a Stereo processes.
const Channels = 2

// Stereo fans one set of controls out over two channel pairs. Both
// processors reference the same FFT plan and share no other state.
type Stereo struct {
	channels [Channels]*Processor
}

// NewStereo builds two processors from the same options. Unless WithPlan is
// given, one plan is created and shared by both.
func NewStereo(opts ...Option) (*Stereo, error) {
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
	}

	s := &Stereo{}
	chOpts := append(append([]Option(nil), opts...), WithPlan(plan))
	for i := range s.channels {
		p, err := NewProcessor(chOpts...)
		if err != nil {
			return nil, err
		}
		s.channels[i] = p
	}

	return s, nil
}

// Initialize forwards the host sample rate to both processors.
func (s *Stereo) Initialize(sampleRate float64) error {
	for _, p := range s.channels {
		if err := p.Initialize(sampleRate); err != nil {
			return err
		}
	}
	return nil
}

// Channel returns the processor of channel pair i.
func (s *Stereo) Channel(i int) *Processor { return s.channels[i] }

// SetMode switches both processors.
func (s *Stereo) SetMode(mode Mode) error {
	if err := validateMode(mode); err != nil {
		return err
	}
	for _, p := range s.channels {
		if err := p.SetMode(mode); err != nil {
			return err
		}
	}
	return nil
}

// SetOutputGainDB sets the output gain of both processors.
func (s *Stereo) SetOutputGainDB(db float64) error {
	if err := validateGain(db); err != nil {
		return err
	}
	for _, p := range s.channels {
		if err := p.SetOutputGainDB(db); err != nil {
			return err
		}
	}
	return nil
}

// Latency returns the shared processing delay for chunks of chunkLen samples.
func (s *Stereo) Latency(chunkLen int) int { return s.channels[0].Latency(chunkLen) }

// Reset clears the state of both processors.
func (s *Stereo) Reset() {
	for _, p := range s.channels {
		p.Reset()
	}
}

// Process morphs main[c] towards aux[c] in place for both channel pairs.
// It panics unless main and aux each hold Channels buffers.
func (s *Stereo) Process(main, aux [][]float32, morph, fade []float32, spread float32, iterations int) {
	if len(main) != Channels || len(aux) != Channels {
		panic(fmt.Sprintf("morph: stereo needs %d main and aux channels, got %d and %d",
			Channels, len(main), len(aux)))
	}
	for c, p := range s.channels {
		p.Process(main[c], aux[c], morph, fade, spread, iterations)
	}
}
