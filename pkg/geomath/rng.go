package geomath

import "math/rand"

// RandomRange draws a uniform float64 in [lo, hi) from rng. All random
// draws in this module read from a single caller-owned *rand.Rand so that
// one seed produces one deterministic world (spec.md Design Notes §9).
func RandomRange(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
