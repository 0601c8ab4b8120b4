package core

import "math"

const defaultTolerance = 1e-12

// Clamp limits value to [lo, hi]. Swapped bounds are accepted.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	return max(lo, min(value, hi))
}

// ClampFinite is Clamp for values from hosts or automation: NaN and ±Inf
// fall back to def, which is clamped too.
func ClampFinite(value, lo, hi, def float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = def
	}

	return Clamp(value, lo, hi)
}

// NearlyEqual reports whether a and b agree within tol, absolute below
// magnitude 1 and relative above. tol <= 0 selects 1e-12. NaN never
// compares equal.
func NearlyEqual(a, b, tol float64) bool {
	if tol <= 0 {
		tol = defaultTolerance
	}

	scale := max(1, math.Abs(a), math.Abs(b))

	return math.Abs(a-b) <= tol*scale
}
