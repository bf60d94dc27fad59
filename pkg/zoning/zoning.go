// Package zoning classifies world points into one of five land-use
// classes (spec.md §4.G), with a heatmap-driven mode and a
// perlin-threshold mode, both memoized in a coarse world grid.
package zoning

import (
	"math"

	"citygen/internal/invariant"
	"citygen/pkg/geomath"
	"citygen/pkg/heatmap"
	"citygen/pkg/noise"
)

// Zone is one of the five land-use classes.
type Zone string

const (
	Downtown    Zone = "downtown"
	Commercial  Zone = "commercial"
	Residential Zone = "residential"
	Industrial  Zone = "industrial"
	Rural       Zone = "rural"
)

// Mode selects which classification rule zoneAt uses.
type Mode int

const (
	// ModeHeatmap classifies by the same 5 radial bands the heatmap uses.
	ModeHeatmap Mode = iota
	// ModePerlin classifies by ordered noise thresholds.
	ModePerlin
)

// Params holds the perlin-mode tunables. Thresholds must be strictly
// ascending; SetParams normalizes them defensively (spec.md §7).
type Params struct {
	BaseScale  float64
	Octaves    int
	Lacunarity float64
	Gain       float64
	R1, R2, R3, R4 float64
}

// DefaultParams returns reasonable perlin-mode defaults.
func DefaultParams() Params {
	return Params{
		BaseScale:  0.0008,
		Octaves:    4,
		Lacunarity: 2.0,
		Gain:       0.5,
		R1:         0.25,
		R2:         0.45,
		R3:         0.65,
		R4:         0.85,
	}
}

const (
	gridCellM  = 64.0
	cacheCap   = 1 << 16
)

// Classifier assigns a Zone to any finite world point.
type Classifier struct {
	mode   Mode
	field  *noise.Field
	hm     *heatmap.Heatmap
	params Params

	cache map[[2]int32]Zone
}

// New builds a Classifier seeded from the same noise derivation the growth
// loop uses, so zoning and growth always agree for a given seed (spec.md
// §6: "Zoning consults the same noise instance as growth").
func New(mode Mode, field *noise.Field, hm *heatmap.Heatmap, params Params) *Classifier {
	c := &Classifier{mode: mode, field: field, hm: hm}
	c.SetParams(params)
	return c
}

// SetParams normalizes and installs new perlin-mode thresholds, clearing
// the memoization cache (spec.md §8: "Reseeding zoning clears the
// memoization cache").
func (c *Classifier) SetParams(p Params) {
	c.params = normalize(p)
	c.cache = make(map[[2]int32]Zone)
}

// normalize enforces r1<r2<r3<r4 by sorting; a zoning config with
// out-of-order thresholds is a configuration error, not a silent no-op
// (spec.md §7), but rather than panic on user-supplied tunables we clamp
// into a valid ascending order deterministically.
func normalize(p Params) Params {
	vals := []float64{p.R1, p.R2, p.R3, p.R4}
	for i := 1; i < len(vals); i++ {
		for j := i; j > 0 && vals[j] < vals[j-1]; j-- {
			vals[j], vals[j-1] = vals[j-1], vals[j]
		}
	}
	p.R1, p.R2, p.R3, p.R4 = vals[0], vals[1], vals[2], vals[3]
	invariant.Check(p.R1 < p.R2 && p.R2 < p.R3 && p.R3 < p.R4, "zoning: thresholds not strictly ascending after normalization")
	return p
}

// ZoneAt classifies a world point, memoizing by a coarse grid cell.
func (c *Classifier) ZoneAt(p geomath.Vec2) Zone {
	cell := [2]int32{
		int32(math.Floor(p.X / gridCellM)),
		int32(math.Floor(p.Y / gridCellM)),
	}
	if z, ok := c.cache[cell]; ok {
		return z
	}
	if len(c.cache) >= cacheCap {
		c.cache = make(map[[2]int32]Zone)
	}

	var z Zone
	switch c.mode {
	case ModeHeatmap:
		z = c.zoneHeatmap(p)
	default:
		z = c.zonePerlin(p)
	}
	c.cache[cell] = z
	return z
}

func (c *Classifier) zoneHeatmap(p geomath.Vec2) Zone {
	r := math.Hypot(p.X-c.hm.CenterX, p.Y-c.hm.CenterY)
	R := c.hm.RUnit
	switch {
	case r < R:
		return Downtown
	case r < 2*R:
		return Commercial
	case r < 3*R:
		return Residential
	case r < 4*R:
		return Industrial
	default:
		return Rural
	}
}

func (c *Classifier) zonePerlin(p geomath.Vec2) Zone {
	v := c.field.SampleWarped(p.X*c.params.BaseScale, p.Y*c.params.BaseScale, c.params.Octaves, c.params.Lacunarity, c.params.Gain)
	switch {
	case v < c.params.R1:
		return Rural
	case v < c.params.R2:
		return Residential
	case v < c.params.R3:
		return Commercial
	case v < c.params.R4:
		return Industrial
	default:
		return Downtown
	}
}
