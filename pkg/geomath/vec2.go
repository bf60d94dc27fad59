// Package geomath provides the 2D vector, angle, and segment math the
// road-growth engine and its collaborators build on. Distances are in
// meters; angles are in degrees unless a function name says otherwise.
package geomath

import (
	"math"

	"github.com/paulmach/orb"
)

// Vec2 is a point or displacement in the plane, in meters.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v*s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the 2D scalar cross product v.X*o.Y - v.Y*o.X.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

// Length returns the Euclidean length of v.
func (v Vec2) Length() float64 { return math.Sqrt(v.Dot(v)) }

// orbPoint adapts v to paulmach/orb's Point for use with the orb/planar
// helpers.
func (v Vec2) orbPoint() orb.Point { return orb.Point{v.X, v.Y} }

// Distance returns the Euclidean distance between a and b, via
// orb/planar — the one pure-geometry dependency this module reuses from
// the teacher's stack.
func Distance(a, b Vec2) float64 {
	return planarDistance(a.orbPoint(), b.orbPoint())
}

// SinDegrees returns sin(deg).
func SinDegrees(deg float64) float64 { return math.Sin(deg * math.Pi / 180) }

// CosDegrees returns cos(deg).
func CosDegrees(deg float64) float64 { return math.Cos(deg * math.Pi / 180) }

// AngleBetween returns the unsigned angle in degrees, [0,180], between
// two direction vectors.
func AngleBetween(a, b Vec2) float64 {
	la, lb := a.Length(), b.Length()
	if la == 0 || lb == 0 {
		return 0
	}
	cos := a.Dot(b) / (la * lb)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}

// MinDegreeDifference returns the smallest unsigned angle between two
// directions given in degrees, correctly handling wraparound at 360.
func MinDegreeDifference(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// DirVector returns the unit vector whose Segment-style Dir() (oriented by
// the sign of the cross product with +y, per pkg/roadgraph) equals deg.
// The inverse of that convention: (-sin(deg), cos(deg)).
func DirVector(deg float64) Vec2 {
	rad := deg * math.Pi / 180
	return Vec2{X: -math.Sin(rad), Y: math.Cos(rad)}
}

// Clamp returns v limited to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
