// Package delay provides the fixed-length circular buffer behind the
// delay-based width algorithm.
package delay

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-stereoimager/dsp/core"
)

// ErrInvalidSize indicates a non-positive line length.
var ErrInvalidSize = errors.New("delay: size must be > 0")

// Line is a circular delay line of fixed length.
//
// The width stage reads before it writes: Oldest returns the sample
// written Len() calls ago, then Write replaces exactly that slot and
// advances the cursor. The cursor always lies in [0, Len()).
type Line struct {
	samples []float64
	cursor  int
}

// New returns a silent line holding size samples.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	return &Line{samples: make([]float64, size)}, nil
}

// Len returns the line length in samples.
func (d *Line) Len() int {
	return len(d.samples)
}

// Cursor returns the slot the next Write fills.
func (d *Line) Cursor() int {
	return d.cursor
}

// Write stores x and advances the cursor.
func (d *Line) Write(x float64) {
	d.samples[d.cursor] = x

	if d.cursor++; d.cursor == len(d.samples) {
		d.cursor = 0
	}
}

// Oldest returns the sample the next Write overwrites, which is Read(Len()).
func (d *Line) Oldest() float64 {
	return d.samples[d.cursor]
}

// Read returns the sample written delay calls ago: 1 is the latest write,
// Len() the oldest. delay is clamped to [1, Len()].
func (d *Line) Read(delay int) float64 {
	n := len(d.samples)
	delay = min(max(delay, 1), n)

	return d.samples[(d.cursor-delay+n)%n]
}

// Resize changes the length to size and clears the line. It allocates only
// when size exceeds the current capacity.
func (d *Line) Resize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	d.samples = core.EnsureLen(d.samples, size)
	d.Reset()

	return nil
}

// Reset silences the line and rewinds the cursor.
func (d *Line) Reset() {
	core.Zero(d.samples)
	d.cursor = 0
}
