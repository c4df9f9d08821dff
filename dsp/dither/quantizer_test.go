package dither

import (
	"errors"
	"math"
	"testing"
)

func TestNewQuantizerDefaults(t *testing.T) {
	q, err := NewQuantizer()
	if err != nil {
		t.Fatalf("NewQuantizer() error = %v", err)
	}
	if q.BitDepth() != 16 || q.Type() != None || q.Amplitude() != 1 {
		t.Fatalf("defaults = %d bits, %v, amp %v", q.BitDepth(), q.Type(), q.Amplitude())
	}
}

func TestNewQuantizerRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		want error
	}{
		{name: "bits low", opt: WithBitDepth(1), want: ErrInvalidBitDepth},
		{name: "bits high", opt: WithBitDepth(33), want: ErrInvalidBitDepth},
		{name: "type", opt: WithType(Type(5)), want: ErrInvalidType},
		{name: "amplitude", opt: WithAmplitude(-1), want: ErrInvalidAmplitude},
		{name: "amplitude nan", opt: WithAmplitude(math.NaN()), want: ErrInvalidAmplitude},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewQuantizer(tt.opt); !errors.Is(err, tt.want) {
				t.Fatalf("NewQuantizer() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestProcessIntegerRounds(t *testing.T) {
	q, err := NewQuantizer(WithBitDepth(16))
	if err != nil {
		t.Fatalf("NewQuantizer() error = %v", err)
	}

	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{0.5, 16384},
		{4, 32767},
		{-4, -32767},
	}
	for _, tt := range tests {
		if got := q.ProcessInteger(tt.in); got != tt.want {
			t.Fatalf("ProcessInteger(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDitherStaysWithinOneCode(t *testing.T) {
	for _, typ := range []Type{Rectangular, Triangular} {
		q, err := NewQuantizer(WithBitDepth(8), WithType(typ), WithSeed(7))
		if err != nil {
			t.Fatalf("NewQuantizer() error = %v", err)
		}

		const in = 0.3
		exact := in * 127
		var sum float64
		const n = 20000
		for range n {
			code := q.ProcessInteger(in)
			if math.Abs(float64(code)-exact) > 2 {
				t.Fatalf("%v: code %d too far from %v", typ, code, exact)
			}
			sum += float64(code)
		}
		if mean := sum / n; math.Abs(mean-exact) > 0.05 {
			t.Fatalf("%v: mean code %v, want about %v", typ, mean, exact)
		}
	}
}

func TestSeedIsReproducible(t *testing.T) {
	a, _ := NewQuantizer(WithType(Triangular), WithSeed(42))
	b, _ := NewQuantizer(WithType(Triangular), WithSeed(42))

	src := []float32{0.1, -0.2, 0.3, 0.0001, -0.7}
	da := make([]int, len(src))
	db := make([]int, len(src))
	a.ProcessInto(da, src)
	b.ProcessInto(db, src)

	for i := range da {
		if da[i] != db[i] {
			t.Fatalf("code %d: %d != %d with equal seeds", i, da[i], db[i])
		}
	}
}

func TestProcessIntoPanicsOnMismatch(t *testing.T) {
	q, _ := NewQuantizer()
	defer func() {
		if recover() == nil {
			t.Fatal("ProcessInto() expected panic")
		}
	}()
	q.ProcessInto(make([]int, 2), make([]float32, 3))
}
