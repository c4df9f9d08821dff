// Package render runs whole files through a stereo morph processor in
// host-sized blocks and removes the processing delay from the result.
package render

import (
	"errors"
	"fmt"

	"github.com/scidev5/fftmorph/dsp/effects/morph"
	"github.com/scidev5/fftmorph/internal/wavio"
	"github.com/sirupsen/logrus"
)

// DefaultBlockSize is the host block length used when none is configured.
const DefaultBlockSize = 512

var (
	// ErrNoInput is returned when main or aux is nil or has no channels.
	ErrNoInput = errors.New("render: input has no channels")
	// ErrSampleRateMismatch is returned when main and aux differ in sample rate.
	ErrSampleRateMismatch = errors.New("render: main and aux sample rates differ")
	// ErrInvalidBlockSize is returned for a block below 1 or above the processor's MaxChunkLen.
	ErrInvalidBlockSize = errors.New("render: invalid block size")
	// ErrInvalidControl is returned for morph, fade or spread outside [0, 1] or iterations outside [0, 15].
	ErrInvalidControl = errors.New("render: control value out of [0, 1]")
)

// Config describes one offline render.
type Config struct {
	Morph      float32
	Fade       float32
	Spread     float32
	Iterations int
	BlockSize  int

	// Options configure both channel processors.
	Options []morph.Option
}

// DefaultConfig returns an even morph in dual mode with default block size.
func DefaultConfig() Config {
	return Config{
		Morph:      0.5,
		Fade:       0.5,
		Iterations: morph.DefaultIterations,
		BlockSize:  DefaultBlockSize,
	}
}

// Validate checks the control values. Processor options are checked by
// Render when the processors are built.
func (c Config) Validate() error {
	for _, v := range []struct {
		name  string
		value float32
	}{{"morph", c.Morph}, {"fade", c.Fade}, {"spread", c.Spread}} {
		if !(v.value >= 0 && v.value <= 1) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidControl, v.name, v.value)
		}
	}
	if c.Iterations < 0 || c.Iterations > morph.MaxIterations {
		return fmt.Errorf("%w: iterations = %d not in [0, %d]", ErrInvalidControl, c.Iterations, morph.MaxIterations)
	}
	if c.BlockSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, c.BlockSize)
	}
	return nil
}

// Render morphs main towards aux and returns a result with main's length,
// sample rate and channel count (mono or stereo). Mono inputs feed both
// channel pairs; aux is padded with silence or truncated to main's length.
func Render(main, aux *wavio.Audio, cfg Config) (*wavio.Audio, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if main == nil || len(main.Channels) == 0 || aux == nil || len(aux.Channels) == 0 {
		return nil, ErrNoInput
	}
	if main.SampleRate != aux.SampleRate {
		return nil, fmt.Errorf("%w: %d Hz vs %d Hz", ErrSampleRateMismatch, main.SampleRate, aux.SampleRate)
	}

	proc, err := morph.NewStereo(cfg.Options...)
	if err != nil {
		return nil, err
	}
	if err := proc.Initialize(float64(main.SampleRate)); err != nil {
		return nil, err
	}

	block := cfg.BlockSize
	if maxLen := proc.Channel(0).MaxChunkLen(); block > maxLen {
		return nil, fmt.Errorf("%w: %d exceeds %d for window %d", ErrInvalidBlockSize,
			block, maxLen, proc.Channel(0).WindowSize())
	}

	frames := main.Frames()
	latency := proc.Latency(block)
	total := roundUp(frames+latency, block)

	mainBuf := pairBuffers(main.Channels, frames, total)
	auxBuf := pairBuffers(aux.Channels, frames, total)

	logrus.WithFields(logrus.Fields{
		"function":    "Render",
		"frames":      frames,
		"block_size":  block,
		"blocks":      total / block,
		"latency":     latency,
		"window_size": proc.Channel(0).WindowSize(),
		"mode":        proc.Channel(0).Mode().String(),
	}).Info("Rendering morph")

	if len(main.Channels) > morph.Channels {
		logrus.WithFields(logrus.Fields{
			"function": "Render",
			"channels": len(main.Channels),
		}).Warn("Only the first two main channels are processed")
	}
	if aux.Frames() != frames {
		logrus.WithFields(logrus.Fields{
			"function":   "Render",
			"main":       frames,
			"aux":        aux.Frames(),
			"difference": aux.Frames() - frames,
		}).Debug("Aligning aux length to main")
	}

	morphLane := constant(cfg.Morph, block)
	fadeLane := constant(cfg.Fade, block)
	mainBlk := make([][]float32, morph.Channels)
	auxBlk := make([][]float32, morph.Channels)
	for start := 0; start < total; start += block {
		for c := range morph.Channels {
			mainBlk[c] = mainBuf[c][start : start+block]
			auxBlk[c] = auxBuf[c][start : start+block]
		}
		proc.Process(mainBlk, auxBlk, morphLane, fadeLane, cfg.Spread, cfg.Iterations)
	}

	out := &wavio.Audio{
		SampleRate: main.SampleRate,
		BitDepth:   main.BitDepth,
		Channels:   make([][]float32, min(len(main.Channels), morph.Channels)),
	}
	for c := range out.Channels {
		out.Channels[c] = mainBuf[c][latency : latency+frames]
	}

	return out, nil
}

// pairBuffers maps channels onto a left/right pair of zero-padded buffers of
// length total, copying at most frames samples from each source.
func pairBuffers(channels [][]float32, frames, total int) [][]float32 {
	pair := make([][]float32, morph.Channels)
	for c := range pair {
		src := channels[min(c, len(channels)-1)]
		buf := make([]float32, total)
		copy(buf, src[:min(len(src), frames)])
		pair[c] = buf
	}
	return pair
}

func constant(v float32, n int) []float32 {
	lane := make([]float32, n)
	for i := range lane {
		lane[i] = v
	}
	return lane
}

func roundUp(n, multiple int) int {
	return (n + multiple - 1) / multiple * multiple
}
