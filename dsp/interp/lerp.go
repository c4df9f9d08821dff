package interp

// Float is the sample type set accepted by the scalar helpers.
type Float interface {
	~float32 | ~float64
}

// Lerp returns from*(1-w) + to*w.
//
// w is not clamped: values outside [0, 1] extrapolate.
func Lerp[T Float](w, from, to T) T {
	return from*(1-w) + to*w
}

// InvLerp returns the weight w for which Lerp(w, from, to) == v.
// The result is NaN or ±Inf when from == to.
func InvLerp[T Float](v, from, to T) T {
	return (v - from) / (to - from)
}

// LerpComplex interpolates real and imaginary parts independently.
func LerpComplex(w float64, from, to complex128) complex128 {
	cw := complex(w, 0)
	return from*(1-cw) + to*cw
}

// Pair is a two-component value interpolated component-wise.
type Pair struct {
	A, B float64
}

// Lerp interpolates p towards to by w, component-wise.
func (p Pair) Lerp(w float64, to Pair) Pair {
	return Pair{A: Lerp(w, p.A, to.A), B: Lerp(w, p.B, to.B)}
}

// InvLerp returns the per-component weights that map p onto v.
func (p Pair) InvLerp(v, to Pair) Pair {
	return Pair{A: InvLerp(v.A, p.A, to.A), B: InvLerp(v.B, p.B, to.B)}
}
