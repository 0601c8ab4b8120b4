package core

import (
	"errors"
	"fmt"
	"math"
)

// Configuration errors returned by ProcessorConfig.Validate.
var (
	ErrInvalidSampleRate = errors.New("sample rate must be > 0 and finite")
	ErrInvalidBlockSize  = errors.New("max block size must be > 0")
)

// ProcessorConfig is what a host hands a processor before the first
// block: its sample rate and the largest block it will pass in one call.
type ProcessorConfig struct {
	SampleRate   float64
	MaxBlockSize int
}

// ProcessorOption adjusts a ProcessorConfig. Out-of-range values are
// ignored and the default stays in place.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns 48 kHz with blocks of up to 1024 samples.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{SampleRate: 48000, MaxBlockSize: 1024}
}

// WithSampleRate sets the host sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && !math.IsInf(sampleRate, 1) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithMaxBlockSize sets the largest block per call.
func WithMaxBlockSize(n int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if n > 0 {
			cfg.MaxBlockSize = n
		}
	}
}

// ApplyProcessorOptions applies opts on top of DefaultProcessorConfig. Nil
// options are skipped.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Validate reports whether cfg can be used to prepare a processor.
func (cfg ProcessorConfig) Validate() error {
	if !(cfg.SampleRate > 0) || math.IsInf(cfg.SampleRate, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRate, cfg.SampleRate)
	}

	if cfg.MaxBlockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, cfg.MaxBlockSize)
	}

	return nil
}
