// Package biquad provides the second-order IIR section used by the linked
// low-pass filter of the stereo imager.
//
// A [Section] implements Direct Form II Transposed processing for one
// channel. [Lowpass] designs RBJ low-pass coefficients; the section keeps
// its history when coefficients are replaced with
// [Section.SetCoefficients], and only [Section.Reset] clears it.
//
// [Section.ProcessBlock] runs a kernel picked once from the CPU features
// reported by algo-vecmath/cpu; every kernel produces the same output as
// [Section.ProcessSample].
package biquad
