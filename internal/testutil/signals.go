// Package testutil holds deterministic test signals and tolerance checks
// shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns length samples of a sine starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// LogSweep returns length samples of an exponential sine sweep from f0 to
// f1 Hz, starting at phase 0.
func LogSweep(f0, f1, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	if length == 0 || f0 <= 0 || f1 <= 0 {
		return out
	}

	duration := float64(length) / sampleRate
	k := math.Log(f1 / f0)

	for i := range out {
		t := float64(i) / sampleRate

		var phase float64
		if k == 0 {
			phase = 2 * math.Pi * f0 * t
		} else {
			phase = 2 * math.Pi * f0 * duration / k * (math.Exp(t/duration*k) - 1)
		}

		out[i] = amplitude * math.Sin(phase)
	}

	return out
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude)
// from a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse returns a unit impulse at pos, or silence if pos is out of range.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC returns a constant signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// Ones returns n samples of 1.
func Ones(n int) []float64 {
	return DC(1, n)
}
