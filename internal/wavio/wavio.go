// Package wavio reads and writes stereo PCM WAV files as float64 channels.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	stereoChannels = 2
	pcmFormat      = 1
)

var (
	// ErrNotStereo indicates a file that does not have exactly two channels.
	ErrNotStereo = errors.New("wavio: only stereo files are supported")
	// ErrInvalidFile indicates data that is not a PCM WAV stream.
	ErrInvalidFile = errors.New("wavio: not a valid PCM WAV file")
	// ErrUnsupportedBitDepth indicates a bit depth other than 16, 24 or 32.
	ErrUnsupportedBitDepth = errors.New("wavio: unsupported bit depth")
)

// Clip is a decoded stereo recording. Samples are full scale at ±1.
type Clip struct {
	SampleRate int
	BitDepth   int
	Left       []float64
	Right      []float64
}

// Frames returns the number of stereo frames.
func (c *Clip) Frames() int {
	return len(c.Left)
}

// Read decodes the WAV file at path.
func Read(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: %w", err)
	}
	defer f.Close()

	clip, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return clip, nil
}

// Decode reads a stereo PCM WAV stream.
func Decode(r io.ReadSeeker) (*Clip, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() || decoder.WavAudioFormat != pcmFormat {
		return nil, ErrInvalidFile
	}

	if int(decoder.NumChans) != stereoChannels {
		return nil, fmt.Errorf("%w: got %d channels", ErrNotStereo, decoder.NumChans)
	}

	bitDepth := int(decoder.BitDepth)

	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: decode: %w", err)
	}

	frames := len(buf.Data) / stereoChannels
	clip := &Clip{
		SampleRate: int(decoder.SampleRate),
		BitDepth:   bitDepth,
		Left:       make([]float64, frames),
		Right:      make([]float64, frames),
	}

	inv := 1 / scale
	for i := range frames {
		clip.Left[i] = float64(buf.Data[2*i]) * inv
		clip.Right[i] = float64(buf.Data[2*i+1]) * inv
	}

	return clip, nil
}

// Write encodes clip to a new file at path.
func Write(path string, clip *Clip) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: %w", err)
	}

	if err := Encode(f, clip); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	return f.Close()
}

// Encode writes clip as stereo PCM. Samples outside [-1, 1) are clipped.
func Encode(w io.WriteSeeker, clip *Clip) error {
	if len(clip.Left) != len(clip.Right) {
		return fmt.Errorf("wavio: channel lengths differ: %d != %d", len(clip.Left), len(clip.Right))
	}

	if clip.SampleRate <= 0 {
		return fmt.Errorf("wavio: sample rate must be > 0: %d", clip.SampleRate)
	}

	scale, err := fullScale(clip.BitDepth)
	if err != nil {
		return err
	}

	data := make([]int, stereoChannels*len(clip.Left))
	for i := range clip.Left {
		data[2*i] = quantize(clip.Left[i], scale)
		data[2*i+1] = quantize(clip.Right[i], scale)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: stereoChannels,
			SampleRate:  clip.SampleRate,
		},
		Data:           data,
		SourceBitDepth: clip.BitDepth,
	}

	encoder := wav.NewEncoder(w, clip.SampleRate, clip.BitDepth, stereoChannels, pcmFormat)
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}

	return nil
}

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return math.Ldexp(1, bitDepth-1), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

func quantize(x, scale float64) int {
	v := math.Round(x * scale)

	switch {
	case math.IsNaN(v):
		return 0
	case v > scale-1:
		return int(scale - 1)
	case v < -scale:
		return int(-scale)
	default:
		return int(v)
	}
}
