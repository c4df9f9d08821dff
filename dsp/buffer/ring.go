package buffer

import "fmt"

// Ring is a fixed-length circular buffer with a rotating zero offset.
//
// Ring is not safe for concurrent use.
type Ring[T any] struct {
	data []T
	zero int
}

// NewRing returns a ring of length n with every slot set to initial.
// It panics if n <= 0.
func NewRing[T any](n int, initial T) *Ring[T] {
	if n <= 0 {
		panic(fmt.Sprintf("buffer: ring length must be > 0: %d", n))
	}

	data := make([]T, n)
	for i := range data {
		data[i] = initial
	}

	return &Ring[T]{data: data}
}

// RingFromSlice wraps s without copying. s[0] becomes the oldest element.
func RingFromSlice[T any](s []T) *Ring[T] {
	if len(s) == 0 {
		panic("buffer: ring length must be > 0: 0")
	}

	return &Ring[T]{data: s}
}

// Len returns the fixed ring length.
func (r *Ring[T]) Len() int { return len(r.data) }

// resolve maps a logical index onto the backing slice. Negative indices
// count back from the end, so -1 is the newest element.
func (r *Ring[T]) resolve(i int) int {
	n := len(r.data)

	j := (i + r.zero) % n
	if j < 0 {
		j += n
	}

	return j
}

// At returns the element at logical index i.
func (r *Ring[T]) At(i int) T { return r.data[r.resolve(i)] }

// Set overwrites the element at logical index i.
func (r *Ring[T]) Set(i int, v T) { r.data[r.resolve(i)] = v }

// Shift rotates the ring so that the element at logical index i becomes
// index 0.
func (r *Ring[T]) Shift(i int) { r.zero = r.resolve(i) }

// Slices returns the logical range [from, to) as two raw slices whose
// concatenation is the range in order. upper is empty unless the range
// wraps around the end of the backing storage. The slices alias the ring.
func (r *Ring[T]) Slices(from, to int) (lower, upper []T) {
	n := len(r.data)

	length := to - from
	if length < 0 || length > n {
		panic(fmt.Sprintf("buffer: ring range [%d, %d) invalid for length %d", from, to, n))
	}

	if length == 0 {
		return nil, nil
	}

	start := r.resolve(from)
	if start+length <= n {
		return r.data[start : start+length], nil
	}

	return r.data[start:], r.data[:start+length-n]
}

// Push appends src as the newest elements and drops the len(src) oldest.
// It panics if len(src) >= Len(), since no history would remain.
func (r *Ring[T]) Push(src []T) {
	if len(src) >= len(r.data) {
		panic(fmt.Sprintf("buffer: pushed chunk of %d leaves no history in ring of %d", len(src), len(r.data)))
	}

	lower, upper := r.Slices(0, len(src))
	copy(lower, src)
	copy(upper, src[len(lower):])

	r.Shift(len(src))
}

// PushPop replaces the oldest element with v, rotates it to the newest
// position and returns the evicted element.
func (r *Ring[T]) PushPop(v T) T {
	j := r.resolve(0)
	old := r.data[j]
	r.data[j] = v
	r.Shift(1)

	return old
}

// PushPopSlice swaps s with the len(s) oldest elements and rotates them to
// the newest positions. On return s holds the evicted elements, oldest first.
// It panics if len(s) > Len().
func (r *Ring[T]) PushPopSlice(s []T) {
	if len(s) > len(r.data) {
		panic(fmt.Sprintf("buffer: swapped chunk of %d exceeds ring of %d", len(s), len(r.data)))
	}

	lower, upper := r.Slices(0, len(s))
	for i := range lower {
		lower[i], s[i] = s[i], lower[i]
	}

	rest := s[len(lower):]
	for i := range upper {
		upper[i], rest[i] = rest[i], upper[i]
	}

	r.Shift(len(s))
}

// CopyTo copies the ring contents into dst, oldest first.
// It panics if len(dst) != Len().
func (r *Ring[T]) CopyTo(dst []T) {
	if len(dst) != len(r.data) {
		panic(fmt.Sprintf("buffer: destination length %d does not match ring length %d", len(dst), len(r.data)))
	}

	lower, upper := r.Slices(0, len(r.data))
	n := copy(dst, lower)
	copy(dst[n:], upper)
}
