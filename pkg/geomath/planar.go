package geomath

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// planarDistance is a thin seam over orb/planar.Distance so the rest of
// this package only ever talks in Vec2.
func planarDistance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}
