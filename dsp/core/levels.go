package core

import "math"

// DenormalThreshold is the magnitude below which FlushDenormals returns 0.
const DenormalThreshold = 1e-30

// DBToLinear converts a level in dB to an amplitude factor. -Inf maps to 0.
func DBToLinear(db float64) float64 {
	if math.IsInf(db, -1) {
		return 0
	}

	return math.Pow(10, db/20)
}

// LinearToDB converts an amplitude factor to dB, never returning less than
// floorDB. Zero, negative and NaN inputs return floorDB.
func LinearToDB(linear, floorDB float64) float64 {
	if !(linear > 0) {
		return floorDB
	}

	return max(floorDB, 20*math.Log10(linear))
}

// PowerRatioDB returns 10*log10(num/den) for two energies, saturating at
// ±limitDB when one side is silent and returning 0 when both are.
func PowerRatioDB(num, den, limitDB float64) float64 {
	switch {
	case num <= 0 && den <= 0:
		return 0
	case num <= 0:
		return -limitDB
	case den <= 0:
		return limitDB
	}

	return Clamp(10*math.Log10(num/den), -limitDB, limitDB)
}

// FlushDenormals returns 0 for |x| below DenormalThreshold. Filter and
// delay state decaying toward silence otherwise lingers in the subnormal
// range.
func FlushDenormals(x float64) float64 {
	if math.Abs(x) < DenormalThreshold {
		return 0
	}

	return x
}
