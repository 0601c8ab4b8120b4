package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-stereoimager/dsp/core"
	"github.com/cwbudde/algo-stereoimager/dsp/delay"
	"github.com/cwbudde/algo-stereoimager/dsp/filter/biquad"
	"github.com/cwbudde/algo-stereoimager/dsp/oversample"
	"github.com/tphakala/simd/f64"
)

const (
	defaultImagerFilterQ = 0.7

	defaultDelayDivisorL = 100.0
	defaultDelayDivisorR = 350.0

	// transparentCutoffHz is the linked filter cutoff with rotation centered.
	transparentCutoffHz = 20000.0

	// maxCutoffRatio keeps the linked filter cutoff below Nyquist of the
	// processing rate.
	maxCutoffRatio = 0.45
)

// Block-processing errors. They are preallocated so the audio path never
// allocates.
var (
	ErrNotPrepared       = errors.New("stereo imager: Prepare must be called before processing")
	ErrChannelLength     = errors.New("stereo imager: left and right buffers must have equal length")
	ErrInterleavedLength = errors.New("stereo imager: interleaved buffer length must be even")
)

// Sample is the set of supported host sample types.
type Sample interface {
	float32 | float64
}

// StereoImagerOption mutates stereo imager construction parameters.
type StereoImagerOption func(*stereoImagerConfig) error

type stereoImagerConfig struct {
	oversampling  bool
	quality       oversample.Quality
	filterQ       float64
	delayDivisorL float64
	delayDivisorR float64
}

func defaultStereoImagerConfig() stereoImagerConfig {
	return stereoImagerConfig{
		oversampling:  true,
		quality:       oversample.QualityBalanced,
		filterQ:       defaultImagerFilterQ,
		delayDivisorL: defaultDelayDivisorL,
		delayDivisorR: defaultDelayDivisorR,
	}
}

// WithOversampling enables or disables 2x oversampling. Disabled, the
// processor has zero latency.
func WithOversampling(enabled bool) StereoImagerOption {
	return func(cfg *stereoImagerConfig) error {
		cfg.oversampling = enabled
		return nil
	}
}

// WithOversamplingQuality selects the anti-aliasing filter quality.
func WithOversamplingQuality(q oversample.Quality) StereoImagerOption {
	return func(cfg *stereoImagerConfig) error {
		if q < oversample.QualityFast || q > oversample.QualityBest {
			return fmt.Errorf("stereo imager oversampling quality is invalid: %d", q)
		}

		cfg.quality = q

		return nil
	}
}

// WithFilterQ sets the Q of the linked low-pass filter.
func WithFilterQ(q float64) StereoImagerOption {
	return func(cfg *stereoImagerConfig) error {
		if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
			return fmt.Errorf("stereo imager filter Q must be > 0 and finite: %f", q)
		}

		cfg.filterQ = q

		return nil
	}
}

// WithDelayDivisors sets the delay line lengths of the delay-based width
// algorithm as processing rate divided by left and right. The defaults,
// 100 and 350, give 10 ms and about 2.86 ms.
func WithDelayDivisors(left, right float64) StereoImagerOption {
	return func(cfg *stereoImagerConfig) error {
		for _, d := range []float64{left, right} {
			if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
				return fmt.Errorf("stereo imager delay divisor must be > 0 and finite: %f", d)
			}
		}

		cfg.delayDivisorL = left
		cfg.delayDivisorR = right

		return nil
	}
}

// StereoImager reshapes the width and rotation of a stereo signal.
//
// Per sample the processor encodes left/right into orthonormal mid/side,
// applies the selected width algorithm and a mid/side rotation, and decodes
// back. When the linked low-pass filter is on, the channel the rotation
// turns away from is low-passed with a cutoff that follows the amount of
// rotation. The whole chain runs at twice the host rate unless oversampling
// is disabled; the output gain is applied at the host rate.
//
// Controls live in an ImagerParams store that other goroutines may update
// at any time. Each processing call takes one Snapshot and uses it for the
// whole buffer. Processing is real-time safe after Prepare and must run on
// a single goroutine.
type StereoImager struct {
	cfg    stereoImagerConfig
	params *ImagerParams

	prepared   bool
	sampleRate float64
	procRate   float64
	maxBlock   int

	osL, osR *oversample.Oversampler
	hiL, hiR []float64

	// workL and workR hold deinterleaved or converted host samples.
	workL, workR []float64

	lineL, lineR *delay.Line

	lpfL, lpfR *biquad.Section
	cutoffHz   float64
}

// NewStereoImager creates a stereo imager with default controls. Call
// Prepare before processing.
func NewStereoImager(opts ...StereoImagerOption) (*StereoImager, error) {
	cfg := defaultStereoImagerConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(&cfg)
		if err != nil {
			return nil, err
		}
	}

	passthrough := biquad.Coefficients{B0: 1}

	return &StereoImager{
		cfg:      cfg,
		params:   NewImagerParams(),
		lpfL:     biquad.NewSection(passthrough),
		lpfR:     biquad.NewSection(passthrough),
		cutoffHz: math.NaN(),
	}, nil
}

// Params returns the control store. It is safe to use from any goroutine.
func (s *StereoImager) Params() *ImagerParams { return s.params }

// Prepare sizes all buffers for blocks of up to maxBlockSize samples at
// sampleRate and clears all processing state. It allocates and must not be
// called concurrently with processing.
func (s *StereoImager) Prepare(sampleRate float64, maxBlockSize int) error {
	return s.PrepareConfig(core.ProcessorConfig{SampleRate: sampleRate, MaxBlockSize: maxBlockSize})
}

// PrepareConfig is Prepare taking a core.ProcessorConfig.
func (s *StereoImager) PrepareConfig(cfg core.ProcessorConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("stereo imager: %w", err)
	}

	factor := 1
	if s.cfg.oversampling {
		factor = oversample.Factor
	}

	procRate := cfg.SampleRate * float64(factor)
	lenL := max(1, int(procRate/s.cfg.delayDivisorL))
	lenR := max(1, int(procRate/s.cfg.delayDivisorR))

	var (
		osL, osR *oversample.Oversampler
		err      error
	)

	if s.cfg.oversampling {
		osL, err = oversample.New(cfg.MaxBlockSize, oversample.WithQuality(s.cfg.quality))
		if err != nil {
			return fmt.Errorf("stereo imager: %w", err)
		}

		osR, err = oversample.New(cfg.MaxBlockSize, oversample.WithQuality(s.cfg.quality))
		if err != nil {
			return fmt.Errorf("stereo imager: %w", err)
		}
	}

	s.lineL, err = prepareLine(s.lineL, lenL)
	if err != nil {
		return fmt.Errorf("stereo imager: %w", err)
	}

	s.lineR, err = prepareLine(s.lineR, lenR)
	if err != nil {
		return fmt.Errorf("stereo imager: %w", err)
	}

	s.sampleRate = cfg.SampleRate
	s.procRate = procRate
	s.maxBlock = cfg.MaxBlockSize
	s.osL, s.osR = osL, osR
	s.hiL = core.EnsureLen(s.hiL, factor*cfg.MaxBlockSize)
	s.hiR = core.EnsureLen(s.hiR, factor*cfg.MaxBlockSize)
	s.workL = core.EnsureLen(s.workL, cfg.MaxBlockSize)
	s.workR = core.EnsureLen(s.workR, cfg.MaxBlockSize)
	s.prepared = true

	s.Reset()

	return nil
}

// prepareLine returns line resized to size, or a new line if it is nil.
func prepareLine(line *delay.Line, size int) (*delay.Line, error) {
	if line == nil {
		return delay.New(size)
	}

	if err := line.Resize(size); err != nil {
		return nil, err
	}

	return line, nil
}

// Reset clears filter, delay line and oversampler state without changing
// the configuration.
func (s *StereoImager) Reset() {
	s.lpfL.Reset()
	s.lpfR.Reset()
	s.cutoffHz = math.NaN()

	if s.lineL != nil {
		s.lineL.Reset()
		s.lineR.Reset()
	}

	if s.osL != nil {
		s.osL.Reset()
		s.osR.Reset()
	}
}

// Latency returns the processing delay in host samples.
func (s *StereoImager) Latency() int {
	if s.osL == nil {
		return 0
	}

	return s.osL.Latency()
}

// SampleRate returns the host sample rate given to Prepare.
func (s *StereoImager) SampleRate() float64 { return s.sampleRate }

// ProcessingRate returns the rate the stereo math runs at.
func (s *StereoImager) ProcessingRate() float64 { return s.procRate }

// MaxBlockSize returns the block size given to Prepare.
func (s *StereoImager) MaxBlockSize() int { return s.maxBlock }

// Oversampling reports whether 2x oversampling is enabled.
func (s *StereoImager) Oversampling() bool { return s.cfg.oversampling }

// DelayLengths returns the lengths of the left and right delay lines in
// processing-rate samples, or zeros before Prepare.
func (s *StereoImager) DelayLengths() (int, int) {
	if s.lineL == nil {
		return 0, 0
	}

	return s.lineL.Len(), s.lineR.Len()
}

// LinkedCutoffHz returns the linked filter cutoff that snap produces at the
// current processing rate.
func (s *StereoImager) LinkedCutoffHz(snap Snapshot) float64 {
	snap = snap.Clamped()
	bias := math.Abs(snap.Rotation)
	cutoff := bias*snap.LPFCutoffHz + (1-bias)*transparentCutoffHz

	if s.procRate > 0 {
		cutoff = math.Min(cutoff, maxCutoffRatio*s.procRate)
	}

	return cutoff
}

// LinkedFilterResponseDB returns the linked filter gain at freqHz for snap,
// or 0 when the filter would not run.
func (s *StereoImager) LinkedFilterResponseDB(snap Snapshot, freqHz float64) float64 {
	snap = snap.Clamped()
	if !snap.LPFLinked || rotationAngle(snap) == 0 || s.procRate <= 0 {
		return 0
	}

	c := biquad.Lowpass(s.LinkedCutoffHz(snap), s.cfg.filterQ, s.procRate)

	return c.MagnitudeDB(freqHz, s.procRate)
}

// ProcessStereoInPlace processes paired left/right buffers in place using
// one snapshot of the controls.
func (s *StereoImager) ProcessStereoInPlace(left, right []float64) error {
	return s.ProcessSnapshot(s.params.Snapshot(), left, right)
}

// ProcessSnapshot processes paired buffers in place with explicit control
// values instead of the store. snap is clamped first.
func (s *StereoImager) ProcessSnapshot(snap Snapshot, left, right []float64) error {
	if !s.prepared {
		return ErrNotPrepared
	}

	if len(left) != len(right) {
		return ErrChannelLength
	}

	snap = snap.Clamped()
	if snap.MasterBypass {
		return nil
	}

	for pos := 0; pos < len(left); pos += s.maxBlock {
		end := min(pos+s.maxBlock, len(left))
		s.processChunk(snap, left[pos:end], right[pos:end])
	}

	return nil
}

// ProcessInterleavedInPlace processes an interleaved stereo buffer
// (L, R, L, R, ...) in place.
func (s *StereoImager) ProcessInterleavedInPlace(buf []float64) error {
	if !s.prepared {
		return ErrNotPrepared
	}

	if len(buf)%2 != 0 {
		return ErrInterleavedLength
	}

	snap := s.params.Snapshot()
	if snap.MasterBypass {
		return nil
	}

	frames := len(buf) / 2
	for pos := 0; pos < frames; pos += s.maxBlock {
		end := min(pos+s.maxBlock, frames)
		n := end - pos
		l, r := s.workL[:n], s.workR[:n]

		for i := range n {
			l[i] = buf[2*(pos+i)]
			r[i] = buf[2*(pos+i)+1]
		}

		s.processChunk(snap, l, r)
		f64.Interleave2(buf[2*pos:2*end], l, r)
	}

	return nil
}

// ProcessBuffer processes paired left/right host buffers of either
// precision in place. Samples are converted to float64 for processing.
func ProcessBuffer[F Sample](s *StereoImager, left, right []F) error {
	if !s.prepared {
		return ErrNotPrepared
	}

	if len(left) != len(right) {
		return ErrChannelLength
	}

	snap := s.params.Snapshot()
	if snap.MasterBypass {
		return nil
	}

	for pos := 0; pos < len(left); pos += s.maxBlock {
		end := min(pos+s.maxBlock, len(left))
		n := end - pos
		l, r := s.workL[:n], s.workR[:n]

		for i := range n {
			l[i] = float64(left[pos+i])
			r[i] = float64(right[pos+i])
		}

		s.processChunk(snap, l, r)

		for i := range n {
			left[pos+i] = F(l[i])
			right[pos+i] = F(r[i])
		}
	}

	return nil
}

// processChunk runs the full chain on at most maxBlock samples.
func (s *StereoImager) processChunk(snap Snapshot, left, right []float64) {
	n := len(left)
	if n == 0 {
		return
	}

	hiL, hiR := left, right

	if s.osL != nil {
		hiL, hiR = s.hiL[:oversample.Factor*n], s.hiR[:oversample.Factor*n]
		s.osL.Up(hiL, left)
		s.osR.Up(hiR, right)
	}

	k := newImageKernel(snap)
	s.processImage(k, hiL, hiR)
	s.applyLinkedFilter(snap, k.rotSin, hiL, hiR)

	if s.osL != nil {
		s.osL.Down(left, hiL)
		s.osR.Down(right, hiR)
	}

	if gain := core.DBToLinear(snap.GainDB); gain != 1 {
		f64.Scale(left, left, gain)
		f64.Scale(right, right, gain)
	}
}

// processImage applies mid/side width and rotation in place at the
// processing rate.
func (s *StereoImager) processImage(k imageKernel, left, right []float64) {
	for i := range left {
		mid, side := encodeMidSide(left[i], right[i])

		// Read before write: the oldest slot is the one about to be
		// overwritten.
		dl := s.lineL.Oldest()
		dr := s.lineR.Oldest()

		mid *= k.midGain
		side *= k.sideGain

		s.lineL.Write(mid)
		s.lineR.Write(mid)

		mid, side = k.rotate(mid, side)
		l, r := decodeMidSide(mid, side)

		if k.delayMix != 0 {
			l += k.delayMix * dl * invSqrt2
			r += k.delayMix * dr * invSqrt2
		}

		left[i] = l
		right[i] = r
	}
}

// applyLinkedFilter low-passes the channel the rotation turns away from.
func (s *StereoImager) applyLinkedFilter(snap Snapshot, rotSin float64, left, right []float64) {
	if !snap.LPFLinked || rotSin == 0 {
		return
	}

	cutoff := s.LinkedCutoffHz(snap)
	if !core.NearlyEqual(cutoff, s.cutoffHz, 0) {
		c := biquad.Lowpass(cutoff, s.cfg.filterQ, s.procRate)
		s.lpfL.SetCoefficients(c)
		s.lpfR.SetCoefficients(c)
		s.cutoffHz = cutoff
	}

	if rotSin > 0 {
		s.lpfR.ProcessBlock(right)
		s.lpfR.FlushDenormals()

		return
	}

	s.lpfL.ProcessBlock(left)
	s.lpfL.FlushDenormals()
}
