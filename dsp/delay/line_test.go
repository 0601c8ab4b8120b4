package delay

import (
	"errors"
	"testing"
)

func newLine(t *testing.T, size int) *Line {
	t.Helper()

	d, err := New(size)
	if err != nil {
		t.Fatalf("New(%d) error = %v", size, err)
	}

	return d
}

func TestNewRejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("New(%d) err=%v want ErrInvalidSize", size, err)
		}
	}

	d := newLine(t, 16)
	if d.Len() != 16 || d.Cursor() != 0 {
		t.Fatalf("len=%d cursor=%d want 16/0", d.Len(), d.Cursor())
	}
}

func TestRead(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		writes int
		delay  int
		want   float64
	}{
		{"latest", 8, 8, 1, 7},
		{"three back", 8, 8, 3, 5},
		{"wrapped latest", 4, 10, 1, 9},
		{"wrapped oldest", 4, 10, 4, 6},
		{"clamped low", 4, 4, 0, 3},
		{"clamped high", 4, 4, 99, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := newLine(t, tc.size)
			for i := range tc.writes {
				d.Write(float64(i))
			}

			if got := d.Read(tc.delay); got != tc.want {
				t.Fatalf("Read(%d)=%g want=%g", tc.delay, got, tc.want)
			}
		})
	}
}

func TestOldestBeforeWriteDelaysByLen(t *testing.T) {
	d := newLine(t, 3)

	input := []float64{1, 2, 3, 4, 5, 6, 7}
	want := []float64{0, 0, 0, 1, 2, 3, 4}

	for i, x := range input {
		got := d.Oldest()
		if got != d.Read(d.Len()) {
			t.Fatalf("sample %d: Oldest=%g Read(Len)=%g", i, got, d.Read(d.Len()))
		}

		d.Write(x)

		if got != want[i] {
			t.Fatalf("sample %d: got=%g want=%g", i, got, want[i])
		}
	}
}

func TestWriteWrapsToSlotZero(t *testing.T) {
	const size = 5

	d := newLine(t, size)
	for i := 0; i <= size; i++ {
		d.Write(float64(100 + i))
	}

	if d.samples[0] != 100+size || d.Cursor() != 1 {
		t.Fatalf("slot0=%g cursor=%d want %d/1", d.samples[0], d.Cursor(), 100+size)
	}

	for range size - 1 {
		d.Write(0)
	}

	if d.Cursor() != 0 || d.Oldest() != 100+size {
		t.Fatalf("after a full cycle cursor=%d oldest=%g", d.Cursor(), d.Oldest())
	}
}

func TestCursorStaysInRange(t *testing.T) {
	d := newLine(t, 7)

	for i := range 100 {
		d.Write(float64(i))

		if c := d.Cursor(); c < 0 || c >= d.Len() {
			t.Fatalf("cursor %d out of range [0,%d)", c, d.Len())
		}
	}
}

func TestSingleSampleLine(t *testing.T) {
	d := newLine(t, 1)

	for i, x := range []float64{3, -1, 2} {
		want := 0.0
		if i > 0 {
			want = []float64{3, -1}[i-1]
		}

		if got := d.Oldest(); got != want {
			t.Fatalf("step %d: oldest=%g want=%g", i, got, want)
		}

		d.Write(x)
	}
}

func TestResetAndResize(t *testing.T) {
	d := newLine(t, 4)
	d.Write(1)
	d.Write(2)
	d.Reset()

	for delay := 1; delay <= 4; delay++ {
		if got := d.Read(delay); got != 0 {
			t.Fatalf("after Reset Read(%d)=%g want 0", delay, got)
		}
	}

	d.Write(1)

	if err := d.Resize(10); err != nil {
		t.Fatalf("Resize(10) error = %v", err)
	}

	if d.Len() != 10 || d.Cursor() != 0 {
		t.Fatalf("after Resize(10): len=%d cursor=%d", d.Len(), d.Cursor())
	}

	d.Write(5)

	if err := d.Resize(2); err != nil {
		t.Fatalf("Resize(2) error = %v", err)
	}

	if d.Len() != 2 || d.Read(1) != 0 || d.Read(2) != 0 {
		t.Fatalf("after Resize(2): len=%d not silent", d.Len())
	}

	if err := d.Resize(0); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("Resize(0) err=%v want ErrInvalidSize", err)
	}
}
