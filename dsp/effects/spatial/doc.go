// Package spatial provides the stereo image processor: mid/side width
// (trigonometric or delay-based), mid/side rotation, a rotation-linked
// low-pass filter and output gain, run at twice the host rate.
//
// Controls are held in a lock-free ImagerParams store. A control thread
// may update it at any time; each processing call reads it exactly once
// into a Snapshot.
//
// Conventions:
//   - mid = (L+R)/sqrt2, side = (L-R)/sqrt2, and the inverse has the same form.
//   - Width is in [0, 1]. With the trigonometric algorithm 0.5 is neutral,
//     0 is mono and 1 keeps only side content. With the delay-based
//     algorithm it is the mix of delayed mid added to each channel.
//   - Rotation is in [-1, 1] and maps to [-pi/4, pi/4]. Positive values
//     move energy toward the left channel and low-pass the right one when
//     the linked filter is on; negative values do the opposite.
//   - Master bypass returns the input untouched, without latency
//     compensation.
package spatial
