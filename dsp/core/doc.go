// Package core holds small numeric and slice helpers shared by the DSP
// packages: clamping, block means, dB conversion and float32/float64 sample
// conversion into preallocated buffers.
package core
