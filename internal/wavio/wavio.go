// Package wavio reads and writes PCM WAV files as normalized float32 channels.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/scidev5/fftmorph/dsp/dither"
	"github.com/sirupsen/logrus"
)

// pcmFormat is the WAVE_FORMAT_PCM tag.
const pcmFormat = 1

var (
	// ErrInvalidFile is returned when the input is not a readable WAV file.
	ErrInvalidFile = errors.New("wavio: not a valid WAV file")
	// ErrUnsupportedFormat is returned for non-PCM data or unsupported bit depths.
	ErrUnsupportedFormat = errors.New("wavio: unsupported sample format")
	// ErrInvalidAudio is returned when an Audio value cannot be encoded.
	ErrInvalidAudio = errors.New("wavio: invalid audio")
)

// Audio is decoded sample data, one slice per channel, nominally in [-1, 1].
type Audio struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float32
}

// Frames returns the number of samples per channel.
func (a *Audio) Frames() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// SupportedBitDepth reports whether bits can be read and written.
func SupportedBitDepth(bits int) bool {
	switch bits {
	case 16, 24, 32:
		return true
	default:
		return false
	}
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	a, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "ReadFile",
		"path":        path,
		"sample_rate": a.SampleRate,
		"bit_depth":   a.BitDepth,
		"channels":    len(a.Channels),
		"frames":      a.Frames(),
	}).Debug("Decoded WAV file")

	return a, nil
}

// Read decodes a PCM WAV stream into de-interleaved float32 channels.
func Read(r io.ReadSeeker) (*Audio, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrInvalidFile
	}

	bits := int(d.BitDepth)
	if d.WavAudioFormat != pcmFormat || !SupportedBitDepth(bits) {
		return nil, fmt.Errorf("%w: format %d, %d bits", ErrUnsupportedFormat, d.WavAudioFormat, bits)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	numChans := int(d.NumChans)
	if numChans < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidFile, numChans)
	}

	frames := len(buf.Data) / numChans
	scale := 1 / math.Ldexp(1, bits-1)

	a := &Audio{
		SampleRate: int(d.SampleRate),
		BitDepth:   bits,
		Channels:   make([][]float32, numChans),
	}
	for c := range a.Channels {
		ch := make([]float32, frames)
		for i := range ch {
			ch[i] = float32(float64(buf.Data[i*numChans+c]) * scale)
		}
		a.Channels[c] = ch
	}

	return a, nil
}

// WriteOption configures WAV encoding.
type WriteOption func(*writeConfig)

type writeConfig struct {
	dither []dither.Option
}

// WithDither quantizes through a dither.Quantizer built from opts instead of
// plain rounding. The bit depth always follows the Write argument.
func WithDither(opts ...dither.Option) WriteOption {
	return func(cfg *writeConfig) { cfg.dither = append(cfg.dither, opts...) }
}

// WriteFile encodes a as a PCM WAV file at path with the given bit depth.
func WriteFile(path string, a *Audio, bitDepth int, opts ...WriteOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %s: %w", path, err)
	}

	if err := Write(f, a, bitDepth, opts...); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("wavio: close %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "WriteFile",
		"path":        path,
		"sample_rate": a.SampleRate,
		"bit_depth":   bitDepth,
		"channels":    len(a.Channels),
		"frames":      a.Frames(),
	}).Debug("Encoded WAV file")

	return nil
}

// Write encodes a as PCM WAV. Samples are clipped to [-1, 1] during
// quantization.
func Write(w io.WriteSeeker, a *Audio, bitDepth int, opts ...WriteOption) error {
	if err := validate(a, bitDepth); err != nil {
		return err
	}

	var cfg writeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	q, err := dither.NewQuantizer(append(cfg.dither, dither.WithBitDepth(bitDepth))...)
	if err != nil {
		return fmt.Errorf("wavio: %w", err)
	}

	numChans := len(a.Channels)
	frames := a.Frames()

	data := make([]int, frames*numChans)
	for i := range frames {
		for c, ch := range a.Channels {
			data[i*numChans+c] = q.ProcessInteger(float64(ch[i]))
		}
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChans,
			SampleRate:  a.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	e := wav.NewEncoder(w, a.SampleRate, bitDepth, numChans, pcmFormat)
	if err := e.Write(buf); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}
	if err := e.Close(); err != nil {
		return fmt.Errorf("wavio: finalize: %w", err)
	}

	return nil
}

func validate(a *Audio, bitDepth int) error {
	if !SupportedBitDepth(bitDepth) {
		return fmt.Errorf("%w: %d bits", ErrUnsupportedFormat, bitDepth)
	}
	if a == nil || len(a.Channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidAudio)
	}
	if a.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidAudio, a.SampleRate)
	}
	frames := a.Frames()
	for c, ch := range a.Channels {
		if len(ch) != frames {
			return fmt.Errorf("%w: channel %d has %d frames, want %d", ErrInvalidAudio, c, len(ch), frames)
		}
	}
	return nil
}
