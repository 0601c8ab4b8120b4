// Package core holds the small helpers shared by the processing packages:
// parameter range clamping, dB/linear level conversion, buffer reuse and
// the sample-rate/block-size configuration handed to Prepare.
package core
