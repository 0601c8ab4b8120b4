package oversample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-stereoimager/internal/testutil"
	"github.com/cwbudde/algo-stereoimager/measure/spectrum"
)

func TestNewValidation(t *testing.T) {
	if _, err := New(0); !errors.Is(err, ErrInvalidBlockSize) {
		t.Fatalf("New(0) err=%v, want ErrInvalidBlockSize", err)
	}
}

func TestQualityProfiles(t *testing.T) {
	tests := []struct {
		q    Quality
		taps int
		name string
	}{
		{QualityFast, 16, "fast"},
		{QualityBalanced, 32, "balanced"},
		{QualityBest, 64, "best"},
	}

	for _, tc := range tests {
		o, err := New(64, WithQuality(tc.q))
		if err != nil {
			t.Fatalf("New(%s) error = %v", tc.name, err)
		}

		if o.Latency() != tc.taps || o.TapsPerPhase() != tc.taps {
			t.Fatalf("%s: latency=%d taps=%d want %d", tc.name, o.Latency(), o.TapsPerPhase(), tc.taps)
		}

		if got := len(o.Prototype()); got != 2*tc.taps+1 {
			t.Fatalf("%s: prototype len=%d want=%d", tc.name, got, 2*tc.taps+1)
		}

		if o.Quality().String() != tc.name {
			t.Fatalf("quality name=%q want=%q", o.Quality().String(), tc.name)
		}
	}
}

func TestOptionsOverrideProfile(t *testing.T) {
	o, err := New(8, WithQuality(QualityFast), WithTapsPerPhase(12), WithCutoffScale(0.9), WithKaiserBeta(6))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if o.Latency() != 12 {
		t.Fatalf("latency=%d want=12", o.Latency())
	}

	// Invalid overrides fall back to the profile.
	o, err = New(8, WithTapsPerPhase(-1), WithCutoffScale(2), WithKaiserBeta(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if o.Latency() != QualityProfile(QualityBalanced).TapsPerPhase {
		t.Fatalf("latency=%d want balanced default", o.Latency())
	}
}

func TestPrototypeSymmetricUnityDC(t *testing.T) {
	o, err := New(8)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	taps := o.Prototype()
	sum := 0.0

	for i := range taps {
		sum += taps[i]
		if d := math.Abs(taps[i] - taps[len(taps)-1-i]); d > 1e-15 {
			t.Fatalf("prototype not symmetric at %d: diff=%g", i, d)
		}
	}

	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("dc gain=%g want=1", sum)
	}
}

// roundTrip runs x through Up/Down in blocks of blockSize.
func roundTrip(t *testing.T, o *Oversampler, x []float64, blockSize int) []float64 {
	t.Helper()

	out := make([]float64, len(x))
	hi := make([]float64, Factor*blockSize)

	for pos := 0; pos < len(x); pos += blockSize {
		end := min(pos+blockSize, len(x))
		n := end - pos

		o.Up(hi[:Factor*n], x[pos:end])
		o.Down(out[pos:end], hi[:Factor*n])
	}

	return out
}

func TestRoundTripReconstructsDelayedInput(t *testing.T) {
	const (
		sr = 48000.0
		n  = 8192
	)

	o, err := New(256, WithQuality(QualityBest))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lat := o.Latency()
	settle := 4 * (2*lat + 1)

	for _, freq := range []float64{20, 100, 1000, 5000, 10000, 15000, 19000} {
		o.Reset()

		x := testutil.DeterministicSine(freq, sr, 0.9, n)
		y := roundTrip(t, o, x, 256)

		maxErr := 0.0
		for i := settle; i < n; i++ {
			maxErr = math.Max(maxErr, math.Abs(y[i]-x[i-lat]))
		}

		if maxErr > 1e-3 {
			t.Fatalf("freq=%g: round-trip error=%g want <= 1e-3", freq, maxErr)
		}
	}
}

func TestRoundTripSweep(t *testing.T) {
	const (
		sr = 48000.0
		n  = 1 << 15
	)

	o, err := New(512, WithQuality(QualityBest))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	x := testutil.LogSweep(20, 19000, sr, 0.9, n)
	y := roundTrip(t, o, x, 512)

	lat := o.Latency()

	maxErr := 0.0
	for i := 4 * (2*lat + 1); i < n; i++ {
		maxErr = math.Max(maxErr, math.Abs(y[i]-x[i-lat]))
	}

	if maxErr > 1e-3 {
		t.Fatalf("sweep round-trip error=%g want <= 1e-3", maxErr)
	}
}

func TestUpOutputHalfRateSamplesAreDelayedInput(t *testing.T) {
	o, err := New(512)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	x := testutil.DeterministicSine(500, 48000, 1, 512)
	hi := make([]float64, 1024)
	lo := make([]float64, 512)

	o.Up(hi, x)
	o.Down(lo, hi)

	// The upsampled stream carries the input delayed by Latency/2 host
	// samples at the interpolated rate.
	lat := o.Latency()
	for i := 2 * lat; i < 512; i++ {
		if d := math.Abs(hi[2*i-lat] - x[i-lat]); d > 1e-3 {
			t.Fatalf("hi[%d]=%g want~%g", 2*i-lat, hi[2*i-lat], x[i-lat])
		}
	}
}

func TestStreamingMatchesSingleBlock(t *testing.T) {
	x := testutil.DeterministicNoise(7, 0.5, 1000)

	whole, err := New(1000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	chunked, err := New(1000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := roundTrip(t, whole, x, 1000)

	got := make([]float64, len(x))
	hi := make([]float64, 2*len(x))
	sizes := []int{1, 7, 64, 3, 128, 1, 300}

	pos := 0
	for i := 0; pos < len(x); i++ {
		n := min(sizes[i%len(sizes)], len(x)-pos)
		chunked.Up(hi[:2*n], x[pos:pos+n])
		chunked.Down(got[pos:pos+n], hi[:2*n])
		pos += n
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestResetClearsHistory(t *testing.T) {
	o, err := New(64)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	x := testutil.DeterministicNoise(3, 1, 64)
	first := roundTrip(t, o, x, 64)

	o.Reset()

	second := roundTrip(t, o, x, 64)
	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}

func TestImagesBelowMinus60dB(t *testing.T) {
	const (
		sr   = 48000.0
		size = 8192
	)

	// QualityFast trades image rejection for latency and is not held to
	// this bound.
	for _, q := range []Quality{QualityBalanced, QualityBest} {
		o, err := New(size, WithQuality(q))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		x := testutil.DeterministicSine(1000, sr, 1, size)
		hi := make([]float64, 2*size)
		lo := make([]float64, size)

		o.Up(hi, x)
		o.Down(lo, hi)

		a, err := spectrum.NewAnalyzer(size)
		if err != nil {
			t.Fatalf("NewAnalyzer() error = %v", err)
		}

		// Analyze the settled second half of the oversampled stream.
		frame := hi[size:]

		tone, err := a.BandPeakDB(frame, 2*sr, 900, 1100)
		if err != nil {
			t.Fatalf("BandPeakDB() error = %v", err)
		}

		image, err := a.BandPeakDB(frame, 2*sr, sr/2, sr)
		if err != nil {
			t.Fatalf("BandPeakDB() error = %v", err)
		}

		if image-tone > -60 {
			t.Fatalf("%s: image level=%.1f dB relative to tone, want < -60 dB", q, image-tone)
		}
	}
}

func TestPairingViolationsPanic(t *testing.T) {
	tests := []struct {
		name string
		run  func(o *Oversampler)
	}{
		{"down without up", func(o *Oversampler) {
			o.Down(make([]float64, 4), make([]float64, 8))
		}},
		{"up twice", func(o *Oversampler) {
			o.Up(make([]float64, 8), make([]float64, 4))
			o.Up(make([]float64, 8), make([]float64, 4))
		}},
		{"mismatched down length", func(o *Oversampler) {
			o.Up(make([]float64, 8), make([]float64, 4))
			o.Down(make([]float64, 3), make([]float64, 6))
		}},
		{"block too large", func(o *Oversampler) {
			o.Up(make([]float64, 32), make([]float64, 16))
		}},
		{"short up destination", func(o *Oversampler) {
			o.Up(make([]float64, 7), make([]float64, 4))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o, err := New(8)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()

			tc.run(o)
		})
	}
}

func TestResetDropsPendingUp(t *testing.T) {
	o, err := New(8)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	o.Up(make([]float64, 8), make([]float64, 4))
	o.Reset()
	o.Up(make([]float64, 8), make([]float64, 4))
	o.Down(make([]float64, 4), make([]float64, 8))
}

func TestUpDownAllocationFree(t *testing.T) {
	o, err := New(128)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	x := testutil.DeterministicSine(1000, 48000, 1, 128)
	hi := make([]float64, 256)
	lo := make([]float64, 128)

	allocs := testing.AllocsPerRun(100, func() {
		o.Up(hi, x)
		o.Down(lo, hi)
	})
	if allocs != 0 {
		t.Fatalf("allocs=%v want=0", allocs)
	}
}
