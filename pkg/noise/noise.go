// Package noise provides a deterministic, seeded 2D gradient-noise field
// (spec.md §4.E) and a domain-warped fractal-Brownian-motion composition
// used to bias growth and to classify zones in "perlin mode".
//
// No simplex/perlin library is available anywhere in the retrieved example
// pack (see DESIGN.md's dependency ledger), so this is a standard Perlin
// permutation-table implementation seeded from the caller's derived noise
// seed via a local xorshift64 generator (math/rand is not used here).
package noise

import "math"

const tableSize = 256

// Field is a deterministic 2D gradient noise generator.
type Field struct {
	perm [tableSize * 2]int
}

// New builds a Field from a permutation table shuffled by seed using the
// classic Fisher-Yates scheme, so the same seed always yields the same
// table.
func New(seed int64) *Field {
	f := &Field{}
	for i := 0; i < tableSize; i++ {
		f.perm[i] = i
	}

	// xorshift64 avoids importing math/rand here so the permutation is
	// reproducible independent of math/rand's internal algorithm version.
	state := uint64(seed)
	if state == 0 {
		state = 0x9E3779B97F4A7C15
	}
	nextRand := func() uint64 {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		return state
	}

	for i := tableSize - 1; i > 0; i-- {
		j := int(nextRand() % uint64(i+1))
		f.perm[i], f.perm[j] = f.perm[j], f.perm[i]
	}
	for i := 0; i < tableSize; i++ {
		f.perm[tableSize+i] = f.perm[i]
	}
	return f
}

func fade(t float64) float64 { return t * t * t * (t*(t*6-15) + 10) }

func lerp(t, a, b float64) float64 { return a + t*(b-a) }

func grad(hash int, x, y float64) float64 {
	switch hash & 3 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	default:
		return -x - y
	}
}

// Simplex2 samples the field at (x,y), returning a value in [-1,1]. The
// name matches spec.md §6's collaborator interface
// (`simplex2(x,y) -> [-1,1]`); the implementation is classic Perlin
// gradient noise, which has the same contract.
func (f *Field) Simplex2(x, y float64) float64 {
	xi := int(math.Floor(x)) & (tableSize - 1)
	yi := int(math.Floor(y)) & (tableSize - 1)
	xf := x - math.Floor(x)
	yf := y - math.Floor(y)

	u := fade(xf)
	v := fade(yf)

	aa := f.perm[f.perm[xi]+yi]
	ab := f.perm[f.perm[xi]+yi+1]
	ba := f.perm[f.perm[xi+1]+yi]
	bb := f.perm[f.perm[xi+1]+yi+1]

	x1 := lerp(u, grad(aa, xf, yf), grad(ba, xf-1, yf))
	x2 := lerp(u, grad(ab, xf, yf-1), grad(bb, xf-1, yf-1))
	return lerp(v, x1, x2)
}

// fbm sums octaves of noise at increasing frequency (lacunarity) and
// decreasing amplitude (gain), normalized to roughly [-1,1].
func (f *Field) fbm(x, y float64, octaves int, lacunarity, gain float64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	sum := 0.0
	amp := 1.0
	freq := 1.0
	maxAmp := 0.0
	for i := 0; i < octaves; i++ {
		sum += f.Simplex2(x*freq, y*freq) * amp
		maxAmp += amp
		amp *= gain
		freq *= lacunarity
	}
	if maxAmp == 0 {
		return 0
	}
	return sum / maxAmp
}

// SampleWarped returns a value in [0,1] via domain warping: a first noise
// call perturbs the coordinates fed into a second fBm sum, per spec.md
// §4.E.
func (f *Field) SampleWarped(x, y float64, octaves int, lacunarity, gain float64) float64 {
	const warpScale = 4.0
	wx := x + f.Simplex2(x*0.01, y*0.01)*warpScale
	wy := y + f.Simplex2(x*0.01+37.2, y*0.01+11.3)*warpScale
	v := f.fbm(wx, wy, octaves, lacunarity, gain)
	return (v + 1) / 2
}
