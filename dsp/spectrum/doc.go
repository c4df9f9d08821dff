// Package spectrum provides bin-domain helpers for complex FFT spectra.
//
// The package does not implement an FFT. It operates on bins produced by
// [github.com/scidev5/fftmorph/dsp/fft] plans: splitting bins into parts,
// magnitude and phase extraction, and the neighbourhood magnitude spreading
// used to smear a spectral envelope.
//
// The *Into and *FromParts variants write into caller-owned slices and do not
// allocate, which makes them usable on a real-time audio path.
package spectrum
