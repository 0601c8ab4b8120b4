package oversample

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-stereoimager/dsp/core"
	"github.com/tphakala/simd/f64"
)

// Factor is the oversampling ratio implemented by this package.
const Factor = 2

// ErrInvalidBlockSize indicates a non-positive maximum block size.
var ErrInvalidBlockSize = errors.New("oversample: max block size must be > 0")

// Quality controls default anti-aliasing filter settings.
type Quality int

const (
	// QualityFast prioritizes lower CPU usage.
	QualityFast Quality = iota
	// QualityBalanced is the default quality/performance trade-off.
	QualityBalanced
	// QualityBest prioritizes stopband attenuation and passband flatness.
	QualityBest
)

// String returns the quality name.
func (q Quality) String() string {
	switch q {
	case QualityFast:
		return "fast"
	case QualityBest:
		return "best"
	default:
		return "balanced"
	}
}

// Profile exposes default filter parameters for each quality mode.
type Profile struct {
	TapsPerPhase      int
	CutoffScale       float64
	KaiserBeta        float64
	NominalStopbandDB float64
}

// QualityProfile returns the default profile used by quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0, NominalStopbandDB: 55}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0, NominalStopbandDB: 90}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5, NominalStopbandDB: 75}
	}
}

type config struct {
	quality      Quality
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
}

// Option configures the oversampler.
type Option func(*config)

// WithQuality selects a predefined anti-aliasing quality mode.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithTapsPerPhase overrides taps per polyphase branch. The latency in
// host samples equals this value.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.tapsPerPhase = n
		}
	}
}

// WithCutoffScale overrides normalized cutoff scaling in range (0, 1].
// 1.0 puts the cutoff exactly at the host Nyquist frequency.
func WithCutoffScale(v float64) Option {
	return func(cfg *config) {
		if v > 0 && v <= 1 {
			cfg.cutoffScale = v
		}
	}
}

// WithKaiserBeta overrides the Kaiser window beta parameter.
func WithKaiserBeta(beta float64) Option {
	return func(cfg *config) {
		if beta > 0 {
			cfg.kaiserBeta = beta
		}
	}
}

func (c config) finalized() config {
	p := QualityProfile(c.quality)
	if c.tapsPerPhase <= 0 {
		c.tapsPerPhase = p.TapsPerPhase
	}

	if c.cutoffScale <= 0 || c.cutoffScale > 1 {
		c.cutoffScale = p.CutoffScale
	}

	if c.kaiserBeta <= 0 {
		c.kaiserBeta = p.KaiserBeta
	}

	return c
}

// Oversampler is the 2x interpolator/decimator pair for one channel.
//
// It is real-time safe after construction and not thread-safe.
type Oversampler struct {
	maxBlock int
	quality  Quality
	taps     []float64

	upEven []float64
	upOdd  []float64
	down   []float64

	// upWork holds upHist input samples of history followed by the
	// current input block.
	upWork []float64
	upHist int

	// downWork holds downHist oversampled samples of history followed by
	// the current oversampled block.
	downWork []float64
	downHist int

	// pending is the host length of the last Up call awaiting its Down,
	// or -1 when the pair is complete.
	pending int
}

// New creates an oversampler accepting host blocks of up to maxBlock
// samples.
func New(maxBlock int, opts ...Option) (*Oversampler, error) {
	if maxBlock <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, maxBlock)
	}

	cfg := config{quality: QualityBalanced}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	cfg = cfg.finalized()

	taps, err := designPrototype(cfg)
	if err != nil {
		return nil, err
	}

	even, odd, down := splitPolyphase(taps)

	o := &Oversampler{
		maxBlock: maxBlock,
		quality:  cfg.quality,
		taps:     taps,
		upEven:   even,
		upOdd:    odd,
		down:     down,
		upHist:   len(even) - 1,
		downHist: len(down) - 1,
		pending:  -1,
	}

	o.upWork = make([]float64, o.upHist+maxBlock)
	o.downWork = make([]float64, o.downHist+Factor*maxBlock)

	return o, nil
}

// Up interpolates src into dst, which must hold exactly 2*len(src)
// samples. len(src) must not exceed the maximum block size.
func (o *Oversampler) Up(dst, src []float64) {
	n := len(src)

	if o.pending >= 0 {
		panic("oversample: Up called again before the matching Down")
	}

	if n > o.maxBlock {
		panic(fmt.Sprintf("oversample: block of %d samples exceeds max block size %d", n, o.maxBlock))
	}

	if len(dst) != Factor*n {
		panic(fmt.Sprintf("oversample: Up needs dst of %d samples, got %d", Factor*n, len(dst)))
	}

	h := o.upHist
	copy(o.upWork[h:h+n], src)

	nEven := len(o.upEven)
	nOdd := len(o.upOdd)

	for i := range n {
		end := h + i + 1
		dst[2*i] = f64.DotProductUnsafe(o.upEven, o.upWork[end-nEven:end])
		dst[2*i+1] = f64.DotProductUnsafe(o.upOdd, o.upWork[end-nOdd:end])
	}

	copy(o.upWork[:h], o.upWork[n:n+h])

	o.pending = n
}

// Down decimates src, the processed output of the preceding Up call, into
// dst. len(dst) must equal the length passed to Up and len(src) twice that.
func (o *Oversampler) Down(dst, src []float64) {
	if o.pending < 0 {
		panic("oversample: Down called without a preceding Up")
	}

	n := o.pending
	if len(dst) != n || len(src) != Factor*n {
		panic(fmt.Sprintf("oversample: Down expects %d -> %d samples, got %d -> %d",
			Factor*n, n, len(src), len(dst)))
	}

	h := o.downHist
	copy(o.downWork[h:h+len(src)], src)

	nTaps := len(o.down)

	for i := range n {
		start := Factor * i
		dst[i] = f64.DotProductUnsafe(o.down, o.downWork[start:start+nTaps])
	}

	copy(o.downWork[:h], o.downWork[len(src):len(src)+h])

	o.pending = -1
}

// Latency returns the round-trip delay of Up followed by Down, in host
// samples.
func (o *Oversampler) Latency() int {
	return o.upHist
}

// MaxBlock returns the largest host block accepted by Up.
func (o *Oversampler) MaxBlock() int {
	return o.maxBlock
}

// Quality returns the configured quality mode.
func (o *Oversampler) Quality() Quality {
	return o.quality
}

// TapsPerPhase returns taps in the odd interpolation branch, which equals
// the configured taps per phase.
func (o *Oversampler) TapsPerPhase() int {
	return len(o.upOdd)
}

// Prototype returns a copy of the underlying prototype FIR taps.
func (o *Oversampler) Prototype() []float64 {
	out := make([]float64, len(o.taps))
	copy(out, o.taps)

	return out
}

// Reset clears filter history and any pending Up.
func (o *Oversampler) Reset() {
	core.Zero(o.upWork)
	core.Zero(o.downWork)

	o.pending = -1
}
