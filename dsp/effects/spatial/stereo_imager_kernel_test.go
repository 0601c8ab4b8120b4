package spatial

import (
	"math"
	"testing"
)

func TestMidSideRoundTrip(t *testing.T) {
	for _, pair := range [][2]float64{{1, 0}, {0, 1}, {0.3, -0.7}, {-1, -1}} {
		mid, side := encodeMidSide(pair[0], pair[1])
		l, r := decodeMidSide(mid, side)

		if math.Abs(l-pair[0]) > 1e-15 || math.Abs(r-pair[1]) > 1e-15 {
			t.Fatalf("round trip of %v gave (%g,%g)", pair, l, r)
		}
	}

	// Orthonormal: energy preserved.
	mid, side := encodeMidSide(0.6, 0.8)
	if e := mid*mid + side*side; math.Abs(e-1) > 1e-15 {
		t.Fatalf("energy=%g want=1", e)
	}
}

func TestTrigWidthGains(t *testing.T) {
	tests := []struct {
		width     float64
		mid, side float64
	}{
		{0, math.Sqrt2, 0},
		{0.5, 1, 1},
		{1, 0, math.Sqrt2},
	}

	for _, tc := range tests {
		mid, side := trigWidthGains(tc.width)
		if math.Abs(mid-tc.mid) > 1e-15 || math.Abs(side-tc.side) > 1e-15 {
			t.Fatalf("width=%g gains=(%g,%g) want (%g,%g)", tc.width, mid, side, tc.mid, tc.side)
		}
	}

	// Matches the angle form theta = (pi/2)w - pi/4.
	for _, w := range []float64{0.1, 0.33, 0.8} {
		theta := math.Pi/2*w - math.Pi/4
		mid, side := trigWidthGains(w)

		if math.Abs(mid-math.Sqrt2*math.Sin(math.Pi/4-theta)) > 1e-15 ||
			math.Abs(side-math.Sqrt2*math.Cos(math.Pi/4-theta)) > 1e-15 {
			t.Fatalf("width=%g gains=(%g,%g) disagree with angle form", w, mid, side)
		}
	}
}

func TestImageKernelBypasses(t *testing.T) {
	snap := DefaultSnapshot()
	snap.Width = 0.9
	snap.WidthBypass = true
	snap.Rotation = 0.6
	snap.RotationBypass = true

	k := newImageKernel(snap)
	if k != (imageKernel{midGain: 1, sideGain: 1, rotCos: 1}) {
		t.Fatalf("bypassed kernel=%+v", k)
	}

	snap.WidthAlgorithm = WidthDelayBased
	snap.WidthBypass = false
	snap.RotationBypass = false

	k = newImageKernel(snap)
	if k.midGain != 1 || k.sideGain != 1 || k.delayMix != 0.9 {
		t.Fatalf("delay kernel=%+v", k)
	}

	if math.Abs(k.rotSin-math.Sin(0.6*math.Pi/4)) > 1e-15 {
		t.Fatalf("rotSin=%g", k.rotSin)
	}
}

func TestRotationPreservesEnergy(t *testing.T) {
	snap := DefaultSnapshot()
	snap.Rotation = -0.37

	k := newImageKernel(snap)
	mid, side := k.rotate(0.6, 0.8)

	if e := mid*mid + side*side; math.Abs(e-1) > 1e-15 {
		t.Fatalf("energy=%g want=1", e)
	}
}
