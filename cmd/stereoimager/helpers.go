package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-stereoimager/dsp/effects/spatial"
	"github.com/cwbudde/algo-stereoimager/dsp/oversample"
	"github.com/cwbudde/algo-stereoimager/internal/wavio"
	"github.com/tphakala/simd/f64"
)

// paramOverride is one name=value pair given with -p.
type paramOverride struct {
	id    spatial.ParamID
	value float64
}

// paramOverrides collects repeated -p flags.
type paramOverrides []paramOverride

func (p *paramOverrides) String() string {
	parts := make([]string, len(*p))
	for i, o := range *p {
		parts[i] = fmt.Sprintf("%s=%g", o.id, o.value)
	}

	return strings.Join(parts, ",")
}

func (p *paramOverrides) Set(s string) error {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("parameter %q: want name=value", s)
	}

	id, ok := spatial.ParamIDByName(strings.TrimSpace(name))
	if !ok {
		return fmt.Errorf("unknown parameter %q", name)
	}

	raw = strings.TrimSpace(raw)

	var v float64

	switch strings.ToLower(raw) {
	case "on", "true":
		v = 1
	case "off", "false":
		v = 0
	case "trigonometric", "trig":
		v = float64(spatial.WidthTrigonometric)
	case "delay":
		v = float64(spatial.WidthDelayBased)
	default:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", id, err)
		}

		v = f
	}

	*p = append(*p, paramOverride{id: id, value: v})

	return nil
}

func (p paramOverrides) apply(params *spatial.ImagerParams) error {
	for _, o := range p {
		if err := params.Set(o.id, o.value); err != nil {
			return err
		}
	}

	return nil
}

func parseAlgorithm(s string) (spatial.WidthAlgorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trigonometric", "trig":
		return spatial.WidthTrigonometric, nil
	case "delay", "delay-based":
		return spatial.WidthDelayBased, nil
	default:
		return 0, fmt.Errorf("unknown width algorithm %q (want trigonometric or delay)", s)
	}
}

func parseQuality(s string) (oversample.Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast":
		return oversample.QualityFast, nil
	case "balanced":
		return oversample.QualityBalanced, nil
	case "best":
		return oversample.QualityBest, nil
	default:
		return 0, fmt.Errorf("unknown quality %q (want fast, balanced or best)", s)
	}
}

// processInterleaved runs clip through the imager as one interleaved
// buffer. latency extra silent frames are processed and the first latency
// output frames dropped, so the output lines up with the input.
func processInterleaved(imager *spatial.StereoImager, clip *wavio.Clip, latency int) error {
	frames := clip.Frames()
	padded := frames + latency

	left := make([]float64, padded)
	right := make([]float64, padded)

	copy(left, clip.Left)
	copy(right, clip.Right)

	buf := make([]float64, 2*padded)
	f64.Interleave2(buf, left, right)

	if err := imager.ProcessInterleavedInPlace(buf); err != nil {
		return err
	}

	for i := range frames {
		clip.Left[i] = buf[2*(i+latency)]
		clip.Right[i] = buf[2*(i+latency)+1]
	}

	return nil
}

// processFloat32 is processInterleaved using planar float32 buffers.
func processFloat32(imager *spatial.StereoImager, clip *wavio.Clip, latency int) error {
	frames := clip.Frames()
	padded := frames + latency

	left := make([]float32, padded)
	right := make([]float32, padded)

	for i := range frames {
		left[i] = float32(clip.Left[i])
		right[i] = float32(clip.Right[i])
	}

	if err := spatial.ProcessBuffer(imager, left, right); err != nil {
		return err
	}

	for i := range frames {
		clip.Left[i] = float64(left[i+latency])
		clip.Right[i] = float64(right[i+latency])
	}

	return nil
}
