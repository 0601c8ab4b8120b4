package spatial

import "math"

const invSqrt2 = 1 / math.Sqrt2

// encodeMidSide converts left/right to orthonormal mid/side.
func encodeMidSide(left, right float64) (mid, side float64) {
	return (left + right) * invSqrt2, (left - right) * invSqrt2
}

// decodeMidSide is the inverse of encodeMidSide.
func decodeMidSide(mid, side float64) (left, right float64) {
	return (mid + side) * invSqrt2, (mid - side) * invSqrt2
}

// imageKernel holds the per-block constants of the width and rotation
// stages, derived once from a snapshot.
type imageKernel struct {
	midGain  float64
	sideGain float64
	delayMix float64
	rotCos   float64
	rotSin   float64
}

func newImageKernel(snap Snapshot) imageKernel {
	k := imageKernel{midGain: 1, sideGain: 1, rotCos: 1}

	switch {
	case snap.WidthAlgorithm == WidthDelayBased:
		if !snap.WidthBypass {
			k.delayMix = snap.Width
		}
	case !snap.WidthBypass:
		k.midGain, k.sideGain = trigWidthGains(snap.Width)
	}

	if theta := rotationAngle(snap); theta != 0 {
		k.rotSin, k.rotCos = math.Sincos(theta)
	}

	return k
}

// trigWidthGains returns the mid and side gains for width in [0, 1]:
// theta = (pi/2)*width - pi/4, mid gain sqrt2*sin(pi/4-theta), side gain
// sqrt2*cos(pi/4-theta). Written in terms of width so the endpoints are
// exact zeros.
func trigWidthGains(width float64) (mid, side float64) {
	phi := math.Pi / 2 * width

	return math.Sqrt2 * math.Cos(phi), math.Sqrt2 * math.Sin(phi)
}

// rotationAngle maps the rotation control in [-1, 1] to [-pi/4, pi/4].
func rotationAngle(snap Snapshot) float64 {
	if snap.RotationBypass {
		return 0
	}

	return snap.Rotation * math.Pi / 4
}

func (k imageKernel) rotate(mid, side float64) (float64, float64) {
	return mid*k.rotCos - side*k.rotSin, mid*k.rotSin + side*k.rotCos
}
