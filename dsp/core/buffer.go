package core

// EnsureLen returns buf resliced to n samples when its capacity allows and
// a new zeroed slice otherwise. Reused contents are not cleared.
func EnsureLen(buf []float64, n int) []float64 {
	n = max(n, 0)
	if cap(buf) < n {
		return make([]float64, n)
	}

	return buf[:n]
}

// Zero clears buf.
func Zero(buf []float64) {
	clear(buf)
}
