// Package spectral implements the FFT-domain morph of two equal-length
// windows.
//
// For every bin the morph interpolates phase linearly between the two
// spectra, smears the second spectrum's magnitudes over a neighbourhood of
// bins, and pulls the first spectrum's magnitude towards that envelope by
// repeated geometric blending in the log domain:
//
//	a = exp(lerp(k, ln(a+eps), ln(b+eps))) - eps
//
// Zero iterations leave the first spectrum's magnitudes untouched, so
// Morph(a, b, 0, spread, 0) reproduces a up to FFT round-off.
//
// Phase angles are interpolated without unwrapping. Interpolating across the
// ±pi boundary yields angles near 0 rather than near ±pi; this matches the
// reference behaviour and is left as is.
package spectral
