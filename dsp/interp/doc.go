// Package interp provides linear interpolation primitives shared by the
// spectral morph blocks.
//
// [Lerp] and [InvLerp] work on float32 and float64 scalars, [LerpComplex] on
// complex bins, and [Pair] on two-component values. Weights are never
// clamped, so weights outside [0, 1] extrapolate.
package interp
