package morph

import (
	"errors"
	"testing"

	"github.com/scidev5/fftmorph/dsp/fft"
	"github.com/scidev5/fftmorph/internal/testutil"
)

const (
	smallWindow = 256
	smallOffset = 32
)

func newSmallProcessor(t *testing.T, opts ...Option) *Processor {
	t.Helper()

	base := []Option{WithWindowSize(smallWindow), WithTailOffset(smallOffset)}
	p, err := NewProcessor(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}
	return p
}

// run feeds a through p in chunks of n and returns the concatenated output.
func run(p *Processor, a, b []float32, n int, k, fade float32, spread float32, iterations int) []float32 {
	out := make([]float32, len(a))
	copy(out, a)
	morph := testutil.Constant32(k, n)
	fades := testutil.Constant32(fade, n)
	for start := 0; start+n <= len(a); start += n {
		p.Process(out[start:start+n], b[start:start+n], morph, fades, spread, iterations)
	}
	return out
}

func TestProcessorDefaults(t *testing.T) {
	p, err := NewProcessor()
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}

	if p.WindowSize() != DefaultWindowSize {
		t.Fatalf("WindowSize() = %d, want %d", p.WindowSize(), DefaultWindowSize)
	}
	if p.Mode() != ModeDual {
		t.Fatalf("Mode() = %v, want dual", p.Mode())
	}
	if got := p.Latency(128); got != 128+DefaultTailOffset {
		t.Fatalf("Latency(128) = %d, want %d", got, 128+DefaultTailOffset)
	}
	if got := p.MaxChunkLen(); got != (DefaultWindowSize-DefaultTailOffset)/2 {
		t.Fatalf("MaxChunkLen() = %d, want %d", got, (DefaultWindowSize-DefaultTailOffset)/2)
	}
	if p.Plan() == nil || p.Plan().Len() != DefaultWindowSize {
		t.Fatal("Plan() does not match window size")
	}
}

func TestProcessorDelayedIdentity(t *testing.T) {
	const (
		sampleRate = 48000.0
		chunk      = 128
		calls      = 16
	)

	p, err := NewProcessor(WithMode(ModeSingle))
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}
	if err := p.Initialize(sampleRate); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	input := testutil.DeterministicSine(440, sampleRate, 0.8, chunk*calls)
	a := testutil.Float32(input)
	b := testutil.Float32(testutil.DeterministicNoise(7, 0.5, chunk*calls))

	got := run(p, a, b, chunk, 0, 0, 0.3, DefaultIterations)

	latency := p.Latency(chunk)
	if latency != 528 {
		t.Fatalf("Latency(%d) = %d, want 528", chunk, latency)
	}

	want := testutil.Float32(testutil.Delay(input, latency))
	testutil.RequireSliceNearlyEqual32(t, got, want, 1e-5)
}

func TestProcessorDualWithZeroFadeMatchesSingle(t *testing.T) {
	const chunk = 64

	a := testutil.Float32(testutil.DeterministicNoise(1, 0.7, chunk*8))
	b := testutil.Float32(testutil.BinSine(9, smallWindow, 0.6, chunk*8))

	single := newSmallProcessor(t, WithMode(ModeSingle))
	dual := newSmallProcessor(t, WithMode(ModeDual))

	gotSingle := run(single, a, b, chunk, 0.35, 0, 0.2, 3)
	gotDual := run(dual, a, b, chunk, 0.35, 0, 0.2, 3)

	testutil.RequireSliceNearlyEqual32(t, gotDual, gotSingle, 0)
}

func TestProcessorSilenceStaysSilent(t *testing.T) {
	const chunk = 48

	for _, mode := range []Mode{ModeSingle, ModeDual} {
		p := newSmallProcessor(t, WithMode(mode))
		silence := make([]float32, chunk*6)
		got := run(p, silence, silence, chunk, 0.5, 0.5, 1, MaxIterations)
		testutil.RequireSilent(t, got)
	}
}

func TestProcessorLeavesAuxUntouched(t *testing.T) {
	const chunk = 32

	p := newSmallProcessor(t)
	a := testutil.Float32(testutil.DeterministicNoise(3, 1, chunk))
	b := testutil.Float32(testutil.DeterministicNoise(4, 1, chunk))
	orig := append([]float32(nil), b...)

	p.Process(a, b, testutil.Constant32(0.5, chunk), testutil.Constant32(0.5, chunk), 0.5, 2)

	testutil.RequireSliceNearlyEqual32(t, b, orig, 0)
}

func TestProcessorHistoryKeepsWindowLength(t *testing.T) {
	p := newSmallProcessor(t)

	// stream holds every input sample of channel A after smallWindow zeros.
	stream := make([]float32, smallWindow)
	for _, n := range []int{1, 17, 64, 3, 112, 64, 0, 5} {
		a := testutil.Float32(testutil.DeterministicNoise(int64(n), 1, n))
		b := testutil.Float32(testutil.DeterministicNoise(int64(n)+100, 1, n))
		in := append([]float32(nil), a...)
		stream = append(stream, in...)

		p.Process(a, b, testutil.Constant32(0.2, n), testutil.Constant32(0.8, n), 0.1, 1)

		if p.historyA.Len() != smallWindow || p.historyB.Len() != smallWindow {
			t.Fatalf("history lengths = %d, %d after chunk %d, want %d",
				p.historyA.Len(), p.historyB.Len(), n, smallWindow)
		}
		if n > 0 && p.ChunkLen() != n {
			t.Fatalf("ChunkLen() = %d, want %d", p.ChunkLen(), n)
		}

		newest := stream[len(stream)-1]
		oldest := stream[len(stream)-smallWindow]
		if got := p.historyA.At(-1); got != newest {
			t.Fatalf("chunk %d: newest history sample = %v, want %v", n, got, newest)
		}
		if got := p.historyA.At(0); got != oldest {
			t.Fatalf("chunk %d: oldest history sample = %v, want %v", n, got, oldest)
		}
		if n > 0 && p.historyB.At(-1) != b[n-1] {
			t.Fatalf("chunk %d: newest aux history sample = %v, want %v", n, p.historyB.At(-1), b[n-1])
		}
	}
}

func TestProcessorOutputGain(t *testing.T) {
	const chunk = 64

	a := testutil.Float32(testutil.DeterministicNoise(11, 0.5, chunk*6))
	b := testutil.Float32(testutil.DeterministicNoise(12, 0.5, chunk*6))

	unity := newSmallProcessor(t)
	quiet := newSmallProcessor(t, WithOutputGainDB(-20))

	ref := run(unity, a, b, chunk, 0.4, 0.3, 0.1, 2)
	got := run(quiet, a, b, chunk, 0.4, 0.3, 0.1, 2)

	for i := range ref {
		want := ref[i] * 0.1
		if diff := float64(got[i] - want); diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want)
		}
	}

	if err := quiet.SetOutputGainDB(-60); !errors.Is(err, ErrInvalidGain) {
		t.Fatalf("SetOutputGainDB(-60) error = %v, want ErrInvalidGain", err)
	}
	if quiet.OutputGainDB() != -20 {
		t.Fatalf("OutputGainDB() = %v after rejected set, want -20", quiet.OutputGainDB())
	}
}

func TestProcessorSetModeResetsTails(t *testing.T) {
	const chunk = 32

	p := newSmallProcessor(t)
	a := testutil.Float32(testutil.DeterministicNoise(5, 1, chunk))
	b := testutil.Float32(testutil.DeterministicNoise(6, 1, chunk))
	for range 4 {
		p.Process(append([]float32(nil), a...), b, testutil.Constant32(0.5, chunk), testutil.Constant32(0.5, chunk), 0, 1)
	}

	if err := p.SetMode(ModeSingle); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}
	for i, v := range p.blendAB.Previous() {
		if v != 0 {
			t.Fatalf("tail[%d] = %v after SetMode, want 0", i, v)
		}
	}

	if err := p.SetMode(Mode(7)); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("SetMode(7) error = %v, want ErrInvalidMode", err)
	}
}

func TestProcessorSingleModeAcceptsNilFade(t *testing.T) {
	p := newSmallProcessor(t, WithMode(ModeSingle))
	a := make([]float32, 16)
	p.Process(a, make([]float32, 16), make([]float32, 16), nil, 0, 0)
}

func TestProcessorPanics(t *testing.T) {
	tests := []struct {
		name string
		n    int
		aux  int
		fade int
	}{
		{name: "aux mismatch", n: 16, aux: 15, fade: 16},
		{name: "fade mismatch", n: 16, aux: 16, fade: 8},
		{name: "chunk exceeds geometry", n: (smallWindow-smallOffset)/2 + 1, aux: -1, fade: -1},
		{name: "chunk fills window", n: smallWindow, aux: -1, fade: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newSmallProcessor(t)
			aux, fade := tt.aux, tt.fade
			if aux < 0 {
				aux = tt.n
			}
			if fade < 0 {
				fade = tt.n
			}

			defer func() {
				if recover() == nil {
					t.Fatal("Process() expected panic")
				}
			}()
			p.Process(make([]float32, tt.n), make([]float32, aux), make([]float32, tt.n), make([]float32, fade), 0, 0)
		})
	}
}

func TestProcessorMaxChunkLen(t *testing.T) {
	p := newSmallProcessor(t)
	n := p.MaxChunkLen()
	if 2*n+smallOffset > smallWindow {
		t.Fatalf("MaxChunkLen() = %d violates 2n+offset <= window", n)
	}

	a := testutil.Float32(testutil.DeterministicNoise(9, 1, n))
	p.Process(a, make([]float32, n), make([]float32, n), make([]float32, n), 0, 0)
}

func TestProcessorBackendsAgree(t *testing.T) {
	const chunk = 64

	a := testutil.Float32(testutil.DeterministicNoise(21, 0.5, chunk*6))
	b := testutil.Float32(testutil.DeterministicNoise(22, 0.5, chunk*6))

	algo := newSmallProcessor(t, WithBackend(fft.BackendAlgoFFT))
	gonum := newSmallProcessor(t, WithBackend(fft.BackendGonum))

	testutil.RequireSliceNearlyEqual32(t,
		run(gonum, a, b, chunk, 0.6, 0.4, 0.5, 4),
		run(algo, a, b, chunk, 0.6, 0.4, 0.5, 4), 1e-5)
}

func TestProcessorInitialize(t *testing.T) {
	p := newSmallProcessor(t)
	if err := p.Initialize(0); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("Initialize(0) error = %v, want ErrInvalidSampleRate", err)
	}
	if err := p.Initialize(44100); err != nil {
		t.Fatalf("Initialize(44100) error = %v", err)
	}
	if p.SampleRate() != 44100 {
		t.Fatalf("SampleRate() = %v, want 44100", p.SampleRate())
	}
}

func TestProcessorReset(t *testing.T) {
	const chunk = 32

	p := newSmallProcessor(t)
	a := testutil.Float32(testutil.DeterministicNoise(31, 1, chunk*4))
	b := testutil.Float32(testutil.DeterministicNoise(32, 1, chunk*4))
	first := run(p, a, b, chunk, 0.5, 0.5, 0.2, 2)

	p.Reset()
	second := run(p, a, b, chunk, 0.5, 0.5, 0.2, 2)

	testutil.RequireSliceNearlyEqual32(t, second, first, 0)
}
