// Package collider wraps a domain object (segment or building) together
// with a geometric shape and a recomputable AABB, per spec.md §3/4.C.
package collider

import (
	"github.com/paulmach/orb"

	"citygen/pkg/geomath"
	"citygen/pkg/quadtree"
)

// Kind distinguishes the two shapes spec.md names.
type Kind int

const (
	// Line is a road segment: a line from A to B with a width.
	Line Kind = iota
	// RectShape is an oriented rectangle: a building or furniture footprint.
	RectShape
)

// Shape is the geometric payload of a Collider. Exactly one of the two
// constructors below should be used to build one.
type Shape struct {
	Kind Kind

	// Line fields.
	A, B  geomath.Vec2
	Width float64

	// RectShape fields: center, half-diagonal, and orientation in degrees.
	Center         geomath.Vec2
	HalfDiagonal   float64
	OrientationDeg float64
	AspectDeg      float64 // atan(width/depth) in degrees
}

// NewLine builds a Line shape.
func NewLine(a, b geomath.Vec2, width float64) Shape {
	return Shape{Kind: Line, A: a, B: b, Width: width}
}

// NewRect builds a RectShape shape.
func NewRect(center geomath.Vec2, halfDiagonal, orientationDeg, aspectDeg float64) Shape {
	return Shape{Kind: RectShape, Center: center, HalfDiagonal: halfDiagonal, OrientationDeg: orientationDeg, AspectDeg: aspectDeg}
}

// Corners returns the four oriented corners of a RectShape, as an
// orb.Ring (closed: first point repeated at the end) suitable for handing
// to a renderer.
func (s Shape) Corners() orb.Ring {
	if s.Kind != RectShape {
		return nil
	}
	halfW := s.HalfDiagonal * geomath.SinDegrees(s.AspectDeg)
	halfD := s.HalfDiagonal * geomath.CosDegrees(s.AspectDeg)

	local := [4]geomath.Vec2{
		{-halfW, -halfD}, {halfW, -halfD}, {halfW, halfD}, {-halfW, halfD},
	}
	cos, sin := geomath.CosDegrees(s.OrientationDeg), geomath.SinDegrees(s.OrientationDeg)

	ring := make(orb.Ring, 0, 5)
	for _, p := range local {
		rx := p.X*cos - p.Y*sin
		ry := p.X*sin + p.Y*cos
		ring = append(ring, orb.Point{s.Center.X + rx, s.Center.Y + ry})
	}
	ring = append(ring, ring[0])
	return ring
}

// AABB returns the shape's current axis-aligned bounding box.
func (s Shape) AABB() quadtree.Rect {
	switch s.Kind {
	case Line:
		halfW := s.Width / 2
		r := quadtree.Rect{
			MinX: min(s.A.X, s.B.X) - halfW,
			MinY: min(s.A.Y, s.B.Y) - halfW,
			MaxX: max(s.A.X, s.B.X) + halfW,
			MaxY: max(s.A.Y, s.B.Y) + halfW,
		}
		return r
	case RectShape:
		corners := s.Corners()
		r := quadtree.Rect{MinX: corners[0][0], MinY: corners[0][1], MaxX: corners[0][0], MaxY: corners[0][1]}
		for _, c := range corners[1:] {
			r = r.Union(quadtree.Rect{MinX: c[0], MinY: c[1], MaxX: c[0], MaxY: c[1]})
		}
		return r
	default:
		return quadtree.Rect{}
	}
}

// Collider associates an owner with a Shape. AABB is recomputed on demand
// rather than cached: callers recompute after mutating the owner's
// endpoints/center, mirroring the revision-counter invalidation used for
// Segment.Dir()/Length() in pkg/roadgraph.
type Collider struct {
	Owner any
	Shape Shape
}

// AABB returns the collider's current bounding box.
func (c Collider) AABB() quadtree.Rect { return c.Shape.AABB() }
