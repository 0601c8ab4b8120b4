package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1, 48)
	if len(s) != 48 {
		t.Fatalf("len=%d want=48", len(s))
	}

	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0]=%v want 0", s[0])
	}

	// Quarter period at 1 kHz / 48 kHz.
	if math.Abs(s[12]-1) > 1e-12 {
		t.Fatalf("s[12]=%v want 1", s[12])
	}
}

func TestLogSweepRange(t *testing.T) {
	s := LogSweep(20, 20000, 48000, 0.5, 4800)
	if len(s) != 4800 {
		t.Fatalf("len=%d want=4800", len(s))
	}

	for i, v := range s {
		if math.Abs(v) > 0.5 {
			t.Fatalf("s[%d]=%v exceeds amplitude", i, v)
		}
	}

	flat := LogSweep(1000, 1000, 48000, 1, 48)
	RequireSliceNearlyEqual(t, flat, DeterministicSine(1000, 48000, 1, 48), 1e-12)

	if got := LogSweep(0, 100, 48000, 1, 4); got[1] != 0 {
		t.Fatalf("invalid start frequency must give silence, got %v", got)
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 0.5, 64)
	b := DeterministicNoise(42, 0.5, 64)
	c := DeterministicNoise(43, 0.5, 64)

	RequireSliceNearlyEqual(t, a, b, 0)

	if d, _ := MaxAbsDiff(a, c); d == 0 {
		t.Fatal("different seeds produced identical noise")
	}

	for i, v := range a {
		if v < -0.5 || v >= 0.5 {
			t.Fatalf("a[%d]=%v out of range", i, v)
		}
	}
}

func TestImpulseAndDC(t *testing.T) {
	imp := Impulse(8, 3)
	for i, v := range imp {
		want := 0.0
		if i == 3 {
			want = 1
		}

		if v != want {
			t.Fatalf("imp[%d]=%v want %v", i, v, want)
		}
	}

	RequireSliceNearlyEqual(t, Impulse(4, 10), make([]float64, 4), 0)
	RequireSliceNearlyEqual(t, Ones(3), []float64{1, 1, 1}, 0)
	RequireSliceNearlyEqual(t, DC(0.5, 2), []float64{0.5, 0.5}, 0)
}
