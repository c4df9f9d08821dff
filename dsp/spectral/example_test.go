package spectral_test

import (
	"fmt"
	"math"

	"github.com/scidev5/fftmorph/dsp/fft"
	"github.com/scidev5/fftmorph/dsp/spectral"
)

func ExampleMorpher_Morph() {
	plan, err := fft.NewPlan(64, fft.BackendAlgoFFT)
	if err != nil {
		panic(err)
	}
	m, err := spectral.NewMorpher(plan)
	if err != nil {
		panic(err)
	}

	a := make([]float64, 64)
	b := make([]float64, 64)
	for i := range a {
		a[i] = math.Sin(2 * math.Pi * 4 * float64(i) / 64)
		b[i] = 0.5 * math.Sin(2*math.Pi*9*float64(i)/64)
	}

	out := make([]float64, 64)
	m.Morph(out, a, b, 0, 0, 0)
	fmt.Printf("%.4f %.4f\n", out[2], a[2])
	// Output:
	// 0.7071 0.7071
}

func ExampleSpreadRadius() {
	fmt.Println(spectral.SpreadRadius(0), spectral.SpreadRadius(0.5), spectral.SpreadRadius(1))
	// Output:
	// 1 26 51
}
