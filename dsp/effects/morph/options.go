package morph

import (
	"errors"
	"fmt"
	"math"

	"github.com/scidev5/fftmorph/dsp/fft"
)

const (
	// DefaultWindowSize is the history and FFT length W.
	DefaultWindowSize = 4096
	// DefaultTailOffset keeps the crossfaded sub-ranges away from the least
	// settled trailing edge of each morphed window.
	DefaultTailOffset = 400
	// DefaultRampDivisor makes the crossfade ramp span the first eighth of a chunk.
	DefaultRampDivisor = 8
	// DefaultIterations is the suggested geometric blend round count.
	DefaultIterations = 5
	// MaxIterations bounds the blend rounds accepted by Process.
	MaxIterations = 15
	// DefaultOutputGainDB leaves the output level unchanged.
	DefaultOutputGainDB = 0.0
	// MinOutputGainDB is the lowest accepted output gain.
	MinOutputGainDB = -50.0
	// MaxOutputGainDB is the highest accepted output gain.
	MaxOutputGainDB = 0.0
)

// Mode selects single- or dual-direction morphing.
type Mode int

const (
	// ModeSingle morphs A towards B at weight k only. Fade weights are ignored.
	ModeSingle Mode = iota
	// ModeDual morphs at k and 1-k and fades between the two per sample.
	ModeDual
)

// String returns the flag-friendly mode name.
func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeDual:
		return "dual"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "single" or "dual" to a Mode.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "single":
		return ModeSingle, nil
	case "dual":
		return ModeDual, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, name)
	}
}

// Errors reported by Config.Validate and the setters.
var (
	ErrInvalidWindowSize  = errors.New("morph: window size must be a power of two >= 4")
	ErrInvalidTailOffset  = errors.New("morph: tail offset must be in [0, window size - 2]")
	ErrInvalidRampDivisor = errors.New("morph: ramp divisor must be >= 1")
	ErrInvalidMode        = errors.New("morph: invalid mode")
	ErrInvalidSampleRate  = errors.New("morph: sample rate must be positive and finite")
	ErrInvalidGain        = errors.New("morph: output gain out of range")
	ErrPlanSizeMismatch   = errors.New("morph: FFT plan length does not match window size")
)

// Config holds processor construction settings.
type Config struct {
	WindowSize   int
	TailOffset   int
	RampDivisor  int
	Mode         Mode
	Backend      fft.Backend
	Plan         *fft.Plan
	OutputGainDB float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the settings used when no options are given.
func DefaultConfig() Config {
	return Config{
		WindowSize:   DefaultWindowSize,
		TailOffset:   DefaultTailOffset,
		RampDivisor:  DefaultRampDivisor,
		Mode:         ModeDual,
		Backend:      fft.BackendAlgoFFT,
		OutputGainDB: DefaultOutputGainDB,
	}
}

// WithWindowSize sets the history and FFT length.
func WithWindowSize(size int) Option {
	return func(cfg *Config) { cfg.WindowSize = size }
}

// WithTailOffset sets how far before the window end the carried tail ends.
func WithTailOffset(offset int) Option {
	return func(cfg *Config) { cfg.TailOffset = offset }
}

// WithRampDivisor sets the crossfade ramp length to chunkLen/divisor.
func WithRampDivisor(divisor int) Option {
	return func(cfg *Config) { cfg.RampDivisor = divisor }
}

// WithMode selects single- or dual-direction processing.
func WithMode(mode Mode) Option {
	return func(cfg *Config) { cfg.Mode = mode }
}

// WithBackend selects the FFT backend used when no plan is supplied.
func WithBackend(backend fft.Backend) Option {
	return func(cfg *Config) { cfg.Backend = backend }
}

// WithPlan shares an existing FFT plan. The window size follows the plan.
func WithPlan(plan *fft.Plan) Option {
	return func(cfg *Config) {
		cfg.Plan = plan
		if plan != nil {
			cfg.WindowSize = plan.Len()
		}
	}
}

// WithOutputGainDB sets the output gain in dB, within [-50, 0].
func WithOutputGainDB(db float64) Option {
	return func(cfg *Config) { cfg.OutputGainDB = db }
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.WindowSize < fft.MinSize || c.WindowSize&(c.WindowSize-1) != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWindowSize, c.WindowSize)
	}
	if c.TailOffset < 0 || c.TailOffset > c.WindowSize-2 {
		return fmt.Errorf("%w: %d", ErrInvalidTailOffset, c.TailOffset)
	}
	if c.RampDivisor < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidRampDivisor, c.RampDivisor)
	}
	if err := validateMode(c.Mode); err != nil {
		return err
	}
	if err := validateGain(c.OutputGainDB); err != nil {
		return err
	}
	if c.Plan != nil && c.Plan.Len() != c.WindowSize {
		return fmt.Errorf("%w: plan %d, window %d", ErrPlanSizeMismatch, c.Plan.Len(), c.WindowSize)
	}
	return nil
}

func validateMode(mode Mode) error {
	switch mode {
	case ModeSingle, ModeDual:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
}

func validateGain(db float64) error {
	if math.IsNaN(db) || db < MinOutputGainDB || db > MaxOutputGainDB {
		return fmt.Errorf("%w: %f dB not in [%g, %g]", ErrInvalidGain, db, MinOutputGainDB, MaxOutputGainDB)
	}
	return nil
}
