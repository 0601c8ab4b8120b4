package biquad

import (
	"sync"

	"github.com/cwbudde/algo-stereoimager/dsp/core"
	archregistry "github.com/cwbudde/algo-stereoimager/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

// Coefficients is a normalized second-order transfer function
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Section filters one channel in Direct Form II Transposed:
//
//	y     = B0*x + s[0]
//	s[0] <- B1*x - A1*y + s[1]
//	s[1] <- B2*x - A2*y
type Section struct {
	Coefficients

	state [2]float64
}

type kernelChoice struct {
	once sync.Once
	fn   archregistry.ProcessBlockFn
}

var blockKernel kernelChoice

// NewSection returns a section with zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// SetCoefficients swaps the transfer function between blocks. The state is
// kept so the output continues from where the previous block ended.
func (s *Section) SetCoefficients(c Coefficients) {
	s.Coefficients = c
}

// ProcessSample filters x.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.state[0]
	s.state[0] = s.B1*x - s.A1*y + s.state[1]
	s.state[1] = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters buf in place without allocating.
func (s *Section) ProcessBlock(buf []float64) {
	if len(buf) == 0 {
		return
	}

	c := archregistry.Coefficients(s.Coefficients)
	s.state[0], s.state[1] = processBlockKernel()(c, s.state[0], s.state[1], buf)
}

// FlushDenormals zeroes state values that have decayed into the subnormal
// range.
func (s *Section) FlushDenormals() {
	s.state[0] = core.FlushDenormals(s.state[0])
	s.state[1] = core.FlushDenormals(s.state[1])
}

// Reset clears the state.
func (s *Section) Reset() {
	s.state = [2]float64{}
}

// State returns the two state values.
func (s *Section) State() [2]float64 {
	return s.state
}

// SetState overwrites the two state values.
func (s *Section) SetState(state [2]float64) {
	s.state = state
}

// processBlockKernel picks the block kernel for this CPU on first use.
func processBlockKernel() archregistry.ProcessBlockFn {
	blockKernel.once.Do(func() {
		entry := archregistry.Global.Lookup(cpu.DetectFeatures())
		if entry == nil || entry.ProcessBlock == nil {
			panic("biquad: no block kernel registered")
		}

		blockKernel.fn = entry.ProcessBlock
	})

	return blockKernel.fn
}
