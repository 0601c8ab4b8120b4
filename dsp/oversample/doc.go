// Package oversample provides the 2x up/down sampling pair used to run
// nonlinear stereo processing at twice the host rate.
//
// Both directions use the same linear-phase Kaiser-windowed sinc prototype
// of odd length 2T+1 (T taps per polyphase branch), split into polyphase
// branches for interpolation and applied to every other output for
// decimation. The round trip therefore has a fixed, integer latency of T
// host samples.
//
// Quality modes:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
//
// Usage contract: every Up call on N samples must be followed by exactly
// one Down call consuming the corresponding 2N samples before the next Up.
// Violations are programming errors and panic. All buffers are allocated
// in New; Up and Down never allocate.
package oversample
