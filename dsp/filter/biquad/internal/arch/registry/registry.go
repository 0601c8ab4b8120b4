// Package registry holds the block kernels the biquad section can run and
// picks one for the CPU at hand.
package registry

import (
	"cmp"
	"slices"
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// Coefficients mirrors biquad.Coefficients so kernels do not import the
// parent package.
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// ProcessBlockFn filters buf in place starting from state (s0, s1) and
// returns the state after the last sample.
type ProcessBlockFn func(c Coefficients, s0, s1 float64, buf []float64) (float64, float64)

// Kernel is one registered block implementation.
type Kernel struct {
	Name         string
	Level        cpu.SIMDLevel
	Priority     int
	ProcessBlock ProcessBlockFn
}

// Registry keeps kernels ordered by descending priority.
type Registry struct {
	mu      sync.RWMutex
	kernels []Kernel
}

// Global is filled by the kernel packages' init functions.
var Global = &Registry{}

// Register adds k. Kernels with equal priority keep registration order.
func (r *Registry) Register(k Kernel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.kernels = append(r.kernels, k)
	slices.SortStableFunc(r.kernels, func(a, b Kernel) int {
		return cmp.Compare(b.Priority, a.Priority)
	})
}

// Lookup returns the highest-priority kernel features can run, or nil.
func (r *Registry) Lookup(features cpu.Features) *Kernel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, k := range r.kernels {
		if runsOn(features, k.Level) {
			return &k
		}
	}

	return nil
}

// Kernels returns a copy of the registered kernels in lookup order.
func (r *Registry) Kernels() []Kernel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.kernels)
}

// runsOn reports whether a kernel tagged with level should be picked on a
// CPU with features. All kernels are pure Go; the level marks the cores
// that profit from the wider unrolling.
func runsOn(features cpu.Features, level cpu.SIMDLevel) bool {
	switch {
	case level == cpu.SIMDNone:
		return true
	case features.ForceGeneric:
		return false
	case level == cpu.SIMDSSE2:
		return features.HasSSE2
	case level == cpu.SIMDAVX2:
		return features.HasAVX2
	}

	return false
}
