package biquad

import (
	_ "github.com/cwbudde/algo-stereoimager/dsp/filter/biquad/internal/arch/generic"  // register scalar fallback
	_ "github.com/cwbudde/algo-stereoimager/dsp/filter/biquad/internal/arch/unrolled" // register unrolled kernels
)
