// Package fft wraps fixed-size complex FFT plans behind one type so that a
// plan can be built once per window size and shared by every block that
// analyzes windows of that size.
//
// Two backends are available: algo-fft ([BackendAlgoFFT], the default) and
// gonum's dsp/fourier ([BackendGonum]). Both follow the same scaling
// convention: [Plan.Forward] is unnormalized and [Plan.Inverse] divides by
// the transform length, so Inverse(Forward(x)) == x.
//
// A Plan holds backend scratch state. It may be shared by any number of
// consumers as long as they run on the same goroutine.
package fft
