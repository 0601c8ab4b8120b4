// Package generic registers the plain per-sample biquad kernel, the
// fallback every CPU can run.
package generic

import (
	"github.com/cwbudde/algo-stereoimager/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.Kernel{
		Name:         "generic",
		Level:        cpu.SIMDNone,
		ProcessBlock: processBlock,
	})
}

func processBlock(c registry.Coefficients, s0, s1 float64, buf []float64) (float64, float64) {
	for i, x := range buf {
		y := c.B0*x + s0
		s0 = c.B1*x - c.A1*y + s1
		s1 = c.B2*x - c.A2*y
		buf[i] = y
	}

	return s0, s1
}
