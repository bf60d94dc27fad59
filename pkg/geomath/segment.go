package geomath

import "math"

// IntersectionResult carries the hit point and parametric positions along
// both segments, t along ab and u along cd, both in [0,1] when the segments
// actually cross within their extents.
type IntersectionResult struct {
	Point Vec2
	T, U  float64
}

// SegmentIntersection returns the intersection of segments ab and cd, if
// one exists. When includeEndpoints is false, intersections exactly at an
// endpoint of either segment are rejected (ok=false).
func SegmentIntersection(a, b, c, d Vec2, includeEndpoints bool) (res IntersectionResult, ok bool) {
	r := b.Sub(a)
	s := d.Sub(c)
	rxs := r.Cross(s)
	if rxs == 0 {
		return IntersectionResult{}, false // parallel or collinear
	}

	qp := c.Sub(a)
	t := qp.Cross(s) / rxs
	u := qp.Cross(r) / rxs

	lo, hi := 0.0, 1.0
	if !includeEndpoints {
		const eps = 1e-9
		lo, hi = eps, 1-eps
	}
	if t < lo || t > hi || u < lo || u > hi {
		return IntersectionResult{}, false
	}

	return IntersectionResult{
		Point: a.Add(r.Scale(t)),
		T:     t,
		U:     u,
	}, true
}

// LineDistance describes a point's relation to line segment AB.
type LineDistance struct {
	DistanceSq float64
	PointOnAB  Vec2
	Proj       float64 // parametric position along AB, clamped to [0,1]
	LengthSq   float64 // |AB|^2
}

// DistanceToLine returns the squared distance from p to the closest point
// on segment AB (clamped projection), the closest point itself, the
// clamped parametric projection, and |AB|^2.
func DistanceToLine(p, a, b Vec2) LineDistance {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		d := p.Sub(a)
		return LineDistance{DistanceSq: d.Dot(d), PointOnAB: a, Proj: 0, LengthSq: 0}
	}
	ap := p.Sub(a)
	t := Clamp(ap.Dot(ab)/lenSq, 0, 1)
	closest := a.Add(ab.Scale(t))
	d := p.Sub(closest)
	return LineDistance{
		DistanceSq: d.Dot(d),
		PointOnAB:  closest,
		Proj:       t,
		LengthSq:   lenSq,
	}
}

// SegmentDistance returns the minimum Euclidean distance between segments
// ab and cd — the "classical 2D closest-pair" check spec.md §4.I calls for
// when two segments are disjoint.
func SegmentDistance(a, b, c, d Vec2) float64 {
	if res, ok := SegmentIntersection(a, b, c, d, true); ok {
		_ = res
		return 0
	}
	candidates := []float64{
		math.Sqrt(DistanceToLine(a, c, d).DistanceSq),
		math.Sqrt(DistanceToLine(b, c, d).DistanceSq),
		math.Sqrt(DistanceToLine(c, a, b).DistanceSq),
		math.Sqrt(DistanceToLine(d, a, b).DistanceSq),
	}
	min := candidates[0]
	for _, v := range candidates[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
