package spectrum_test

import (
	"fmt"

	"github.com/scidev5/fftmorph/dsp/spectrum"
)

func ExampleMagnitude() {
	bins := []complex128{1 + 0i, 0 + 1i, -1 + 0i}
	mag := spectrum.Magnitude(bins)
	fmt.Printf("%.1f %.1f %.1f\n", mag[0], mag[1], mag[2])
	// Output:
	// 1.0 1.0 1.0
}

func ExampleSpreadMagnitude() {
	mag := []float64{0, 0, 8, 0, 0, 0}
	out := make([]float64, len(mag))
	spectrum.SpreadMagnitude(out, mag, 1)
	fmt.Println(out)
	// Output:
	// [0 0 4 4 0 0]
}
