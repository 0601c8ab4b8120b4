package spectrum

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-stereoimager/dsp/core"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidSize indicates an FFT size that is not a power of two >= 2.
var ErrInvalidSize = errors.New("spectrum: size must be a power of two >= 2")

// floorDB is returned for bins with zero magnitude.
const floorDB = -400.0

// Analyzer computes single-sided amplitude spectra of real frames.
//
// Magnitudes are scaled so a full-period sine of amplitude A centered on a
// bin reads A. An Analyzer reuses its buffers and is not thread-safe.
type Analyzer struct {
	size   int
	plan   *algofft.Plan[complex128]
	win    []float64
	gain   float64
	in     []complex128
	out    []complex128
	re, im []float64
	mag    []float64
}

// NewAnalyzer creates an analyzer for frames of size samples.
func NewAnalyzer(size int) (*Analyzer, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	win := make([]float64, size)
	for i := range win {
		win[i] = 1
	}

	window.Hann(win)

	bins := size/2 + 1

	return &Analyzer{
		size: size,
		plan: plan,
		win:  win,
		gain: 2 / floats.Sum(win),
		in:   make([]complex128, size),
		out:  make([]complex128, size),
		re:   make([]float64, bins),
		im:   make([]float64, bins),
		mag:  make([]float64, bins),
	}, nil
}

// Size returns the frame length.
func (a *Analyzer) Size() int { return a.size }

// Bins returns the number of non-negative frequency bins.
func (a *Analyzer) Bins() int { return len(a.mag) }

// BinFrequency returns the center frequency of bin k.
func (a *Analyzer) BinFrequency(k int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(a.size)
}

// Magnitude returns the amplitude spectrum of frame, bins [0..size/2].
// Frames shorter than Size are zero-padded; longer frames are truncated.
// The returned slice is owned by the analyzer and overwritten by the next
// call.
func (a *Analyzer) Magnitude(frame []float64) ([]float64, error) {
	n := min(len(frame), a.size)

	for i := range n {
		a.in[i] = complex(frame[i]*a.win[i], 0)
	}

	for i := n; i < a.size; i++ {
		a.in[i] = 0
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return nil, fmt.Errorf("spectrum: forward fft: %w", err)
	}

	for k := range a.mag {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}

	vecmath.Magnitude(a.mag, a.re, a.im)

	for k := range a.mag {
		a.mag[k] *= a.gain
	}

	a.mag[0] /= 2
	if a.size > 1 {
		a.mag[len(a.mag)-1] /= 2
	}

	return a.mag, nil
}

// BandPeakDB returns the highest bin level in dBFS with center frequency
// in [loHz, hiHz].
func (a *Analyzer) BandPeakDB(frame []float64, sampleRate, loHz, hiHz float64) (float64, error) {
	mag, err := a.Magnitude(frame)
	if err != nil {
		return 0, err
	}

	peak := 0.0
	found := false

	for k, m := range mag {
		f := a.BinFrequency(k, sampleRate)
		if f < loHz || f > hiHz {
			continue
		}

		found = true

		if m > peak {
			peak = m
		}
	}

	if !found {
		return 0, fmt.Errorf("spectrum: no bins in [%g, %g] Hz", loHz, hiHz)
	}

	return ToDB(peak), nil
}

// ToDB converts a linear amplitude to dB, with a floor for silence.
func ToDB(v float64) float64 {
	return core.LinearToDB(v, floorDB)
}
