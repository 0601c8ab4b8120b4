// Package stereo measures the stereo image of a two-channel signal:
// inter-channel correlation, level balance and side-to-mid energy.
package stereo

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-stereoimager/dsp/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrChannelLength indicates left and right buffers of different length.
var ErrChannelLength = errors.New("stereo: left and right buffers must have equal length")

// silenceDB is reported for ratios involving a silent signal.
const silenceDB = -400.0

// Image summarizes a stereo buffer.
type Image struct {
	// Correlation is the Pearson correlation of left and right in [-1, 1]:
	// 1 for mono, 0 for unrelated channels, -1 for inverted channels. It
	// is 0 when either channel is constant.
	Correlation float64
	// BalanceDB is the left level relative to the right level. Positive
	// values lean left.
	BalanceDB float64
	// SideToMidDB is the side energy relative to the mid energy. Very
	// negative values mean near mono.
	SideToMidDB float64
	// LeftRMS and RightRMS are the channel RMS levels.
	LeftRMS  float64
	RightRMS float64
}

// Analyze measures left and right.
func Analyze(left, right []float64) (Image, error) {
	if len(left) != len(right) {
		return Image{}, ErrChannelLength
	}

	if len(left) == 0 {
		return Image{BalanceDB: 0, SideToMidDB: silenceDB}, nil
	}

	n := float64(len(left))
	ll := floats.Dot(left, left)
	rr := floats.Dot(right, right)
	lr := floats.Dot(left, right)

	// mid = (L+R)/sqrt2, side = (L-R)/sqrt2
	midEnergy := (ll + rr + 2*lr) / 2
	sideEnergy := (ll + rr - 2*lr) / 2

	img := Image{
		LeftRMS:     math.Sqrt(ll / n),
		RightRMS:    math.Sqrt(rr / n),
		BalanceDB:   core.PowerRatioDB(ll, rr, -silenceDB),
		SideToMidDB: core.PowerRatioDB(sideEnergy, midEnergy, -silenceDB),
	}

	if len(left) > 1 {
		c := stat.Correlation(left, right, nil)
		if !math.IsNaN(c) {
			img.Correlation = c
		}
	}

	return img, nil
}
