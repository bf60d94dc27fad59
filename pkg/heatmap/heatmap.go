// Package heatmap implements the radial-band population density field
// (spec.md §4.F) used both to bias branch growth and, in heatmap zoning
// mode, to classify zones.
package heatmap

import (
	"math"

	"citygen/internal/invariant"
	"citygen/pkg/geomath"
	"citygen/pkg/noise"
)

// Heatmap is calibrated once, after growth completes, from the extents of
// the accepted segment graph.
type Heatmap struct {
	RUnit       float64
	CenterX     float64
	CenterY     float64
	ShiftX      float64
	ShiftY      float64
	noiseField  *noise.Field
}

// New creates a Heatmap centered at (centerX, centerY) using field for the
// jitter term. RUnit defaults to its zero value (callers must Calibrate
// before population queries are meaningful for a grown city, per spec.md
// §7: "empty segment list: rUnit retains its default").
func New(field *noise.Field, centerX, centerY float64) *Heatmap {
	invariant.Check(field != nil, "heatmap: nil noise field")
	return &Heatmap{noiseField: field, CenterX: centerX, CenterY: centerY}
}

// Calibrate sets RUnit to maxDistFromCenter/5 over the given endpoints
// (spec.md §4.K step 5, §8 round-trip property).
func (h *Heatmap) Calibrate(endpoints []geomath.Vec2) {
	maxDist := 0.0
	for _, p := range endpoints {
		d := math.Hypot(p.X-h.CenterX, p.Y-h.CenterY)
		if d > maxDist {
			maxDist = d
		}
	}
	h.RUnit = maxDist / 5
}

// WithShift returns a copy of h with an additional center shift applied to
// population queries (spec.md §3: optional (shiftX, shiftY)).
func (h *Heatmap) WithShift(dx, dy float64) *Heatmap {
	copyH := *h
	copyH.ShiftX = dx
	copyH.ShiftY = dy
	return &copyH
}

// band returns the 4..0 radial band for r given radius unit R.
func band(r, rUnit float64) int {
	switch {
	case r < rUnit:
		return 4
	case r < 2*rUnit:
		return 3
	case r < 3*rUnit:
		return 2
	case r < 4*rUnit:
		return 1
	default:
		return 0
	}
}

// PopulationAt returns a population scalar in [0,1] for (x,y), per
// spec.md §4.F: a discrete radial band with soft jitter derived from a
// noise sample.
func (h *Heatmap) PopulationAt(x, y float64) float64 {
	rUnit := math.Max(200, h.RUnit)
	cx, cy := h.CenterX+h.ShiftX, h.CenterY+h.ShiftY
	r := math.Hypot(x-cx, y-cy)
	b := band(r, rUnit)

	noise01 := (h.noiseField.Simplex2(x*0.002, y*0.002) + 1) / 2
	v := float64(b)/4 + 0.08*(noise01-0.5)
	return geomath.Clamp(v, 0, 1)
}

// PopOnRoad averages the population at a segment's two endpoints.
func (h *Heatmap) PopOnRoad(a, b geomath.Vec2) float64 {
	return (h.PopulationAt(a.X, a.Y) + h.PopulationAt(b.X, b.Y)) / 2
}
