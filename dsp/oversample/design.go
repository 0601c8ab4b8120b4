package oversample

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/simd/f64"
)

// designPrototype returns the 2x lowpass prototype of length 2*tapsPerPhase+1,
// normalized to unity DC gain. Frequencies are relative to the oversampled
// rate, so the ideal cutoff is 0.25.
func designPrototype(cfg config) ([]float64, error) {
	if cfg.tapsPerPhase <= 0 {
		return nil, errors.New("oversample: taps per phase must be > 0")
	}

	if cfg.cutoffScale <= 0 || cfg.cutoffScale > 1 {
		return nil, errors.New("oversample: cutoff scale must be in (0,1]")
	}

	nTaps := 2*cfg.tapsPerPhase + 1

	fc := 0.25 * cfg.cutoffScale
	if fc <= 0 || fc >= 0.5 {
		return nil, fmt.Errorf("oversample: invalid cutoff %.6f", fc)
	}

	taps := make([]float64, nTaps)

	center := float64(cfg.tapsPerPhase)
	for n := range nTaps {
		t := float64(n) - center
		taps[n] = 2 * fc * sinc(2*fc*t) * kaiserWindow(n, nTaps, cfg.kaiserBeta)
	}

	sum := f64.Sum(taps)
	if sum == 0 {
		return nil, errors.New("oversample: designed zero-sum filter")
	}

	f64.Scale(taps, taps, 1/sum)

	return taps, nil
}

// splitPolyphase derives the time-reversed interpolation branches (gain 2,
// compensating the zero stuffing) and the time-reversed decimation filter
// from the prototype. Reversal lets both directions use plain dot products
// over contiguous history windows.
func splitPolyphase(taps []float64) (even, odd, down []float64) {
	n := len(taps)

	for k := n - 1; k >= 0; k-- {
		down = append(down, taps[k])
	}

	for k := n - 1; k >= 0; k-- {
		if k%2 == 0 {
			even = append(even, 2*taps[k])
		} else {
			odd = append(odd, 2*taps[k])
		}
	}

	return even, odd, down
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	pix := math.Pi * x

	return math.Sin(pix) / pix
}

func kaiserWindow(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(n-1) - 1
	a := math.Sqrt(math.Max(0, 1-t*t))

	return i0(beta*a) / i0(beta)
}

func i0(x float64) float64 {
	// Power series approximation.
	sum := 1.0
	term := 1.0

	x2 := (x * x) / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)

		sum += term
		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
