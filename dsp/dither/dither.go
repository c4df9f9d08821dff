// Package dither quantizes normalized samples to signed PCM integers with
// optional dither noise.
package dither

import (
	"fmt"
	"strings"
)

// Type selects the probability distribution of the dither noise.
type Type int

const (
	// None rounds to the nearest code without noise.
	None Type = iota
	// Rectangular adds uniform noise spanning one code.
	Rectangular
	// Triangular adds TPDF noise, the sum of two uniform draws.
	Triangular

	typeCount
)

var typeNames = [typeCount]string{"none", "rect", "tpdf"}

// String returns the flag-friendly name.
func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known dither type.
func (t Type) Valid() bool { return t >= 0 && t < typeCount }

// ParseType maps a flag value to a Type.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidType, name)
}
