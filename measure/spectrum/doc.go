// Package spectrum provides a windowed FFT magnitude analyzer for verifying
// processing output: tone levels, image rejection and band energy.
package spectrum
