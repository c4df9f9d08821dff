package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
// Reused elements keep their previous contents; call [Zero] to clear them.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	clear(buf)
}

// Widen converts src into dst sample by sample. dst and src must have the
// same length.
func Widen(dst []float64, src []float32) {
	for i, v := range src[:len(dst)] {
		dst[i] = float64(v)
	}
}

// Narrow converts src into dst sample by sample. dst and src must have the
// same length.
func Narrow(dst []float32, src []float64) {
	for i, v := range src[:len(dst)] {
		dst[i] = float32(v)
	}
}
