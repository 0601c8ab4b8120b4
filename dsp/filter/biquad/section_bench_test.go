package biquad

import (
	"fmt"
	"testing"
)

// linkedFilterCoeffs is a typical linked filter setting at a 2x processing
// rate.
var linkedFilterCoeffs = Lowpass(2000, 0.7, 96000)

func BenchmarkSectionProcessBlock(b *testing.B) {
	for _, size := range []int{128, 512, 2048} {
		b.Run(fmt.Sprintf("N=%d", size), func(b *testing.B) {
			s := NewSection(linkedFilterCoeffs)
			buf := make([]float64, size)

			for i := range buf {
				buf[i] = float64(i%64)/32 - 1
			}

			b.SetBytes(int64(size * 8))
			b.ReportAllocs()

			for b.Loop() {
				s.ProcessBlock(buf)
				s.FlushDenormals()
			}
		})
	}
}
