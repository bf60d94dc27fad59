package constraints

import (
	"math"

	"citygen/pkg/cityconfig"
	"citygen/pkg/geomath"
	"citygen/pkg/roadgraph"
)

// passLateralClearance runs pass 2 (always enforced, regardless of what
// pass 1 did): reject cand outright if it runs too close to any
// near-parallel neighbor, per spec.md §4.I.
func passLateralClearance(cfg *cityconfig.Config, g *roadgraph.Graph, cand *roadgraph.Segment) bool {
	query := searchBounds(cfg, cand)
	for _, obj := range g.Tree.Retrieve(query) {
		other, ok := obj.Owner.(*roadgraph.Segment)
		if !ok || other == cand {
			continue
		}
		if !clearanceOK(cfg, cand, other) {
			return false
		}
	}
	return true
}

func clearanceOK(cfg *cityconfig.Config, s, o *roadgraph.Segment) bool {
	angleDiff := geomath.MinDegreeDifference(s.Dir(), o.Dir())
	nearParallel := angleDiff < 20 || angleDiff > 160

	shared, sharedPoint := sharedEndpoint(s, o)
	if shared && nearParallel {
		return true // continuation of the same road, always allowed
	}
	if !nearParallel {
		return true // lateral clearance only matters between near-parallel roads
	}

	var hinge geomath.Vec2
	switch {
	case shared:
		hinge = sharedPoint
	default:
		if res, ok := geomath.SegmentIntersection(s.Start(), s.End(), o.Start(), o.End(), true); ok {
			hinge = res.Point
		} else {
			return clearanceOKParallelNonTouching(cfg, s, o)
		}
	}
	return clearanceOKAroundHinge(cfg, s, o, hinge)
}

func sharedEndpoint(s, o *roadgraph.Segment) (bool, geomath.Vec2) {
	switch {
	case s.Start() == o.Start() || s.Start() == o.End():
		return true, s.Start()
	case s.End() == o.Start() || s.End() == o.End():
		return true, s.End()
	default:
		return false, geomath.Vec2{}
	}
}

// clearanceOKAroundHinge samples interior points on both segments at
// offsets ±sampleOffset from the shared/intersection point hinge, and
// checks each against a tapered local clearance requirement.
func clearanceOKAroundHinge(cfg *cityconfig.Config, s, o *roadgraph.Segment, hinge geomath.Vec2) bool {
	for _, sample := range sampleOffsets(s, hinge, o.Width) {
		if !sampleClears(cfg, sample, s.Width, o.Start(), o.End(), o.Width) {
			return false
		}
	}
	for _, sample := range sampleOffsets(o, hinge, s.Width) {
		if !sampleClears(cfg, sample, o.Width, s.Start(), s.End(), s.Width) {
			return false
		}
	}
	return true
}

// clearanceOKParallelNonTouching handles near-parallel segments that
// neither share an endpoint nor intersect: there is no hinge point, so the
// minimum segment-to-segment distance is checked against the full
// (untapered) required clearance.
func clearanceOKParallelNonTouching(cfg *cityconfig.Config, s, o *roadgraph.Segment) bool {
	required := 0.5*(s.Width+o.Width) + cfg.ClearanceExtraM
	return geomath.SegmentDistance(s.Start(), s.End(), o.Start(), o.End()) >= required
}

// sampleOffsets returns the two points on seg at ±s from hinge's
// projection onto seg, where s = min(0.5*len, max(2, otherWidth/2)),
// skipping samples that land on or past either endpoint.
func sampleOffsets(seg *roadgraph.Segment, hinge geomath.Vec2, otherWidth float64) []geomath.Vec2 {
	ld := geomath.DistanceToLine(hinge, seg.Start(), seg.End())
	length := seg.Length()
	if length == 0 {
		return nil
	}
	s := math.Min(0.5*length, math.Max(2, otherWidth/2))

	dir := seg.End().Sub(seg.Start()).Scale(1 / length)
	anchorT := ld.Proj * length

	const eps = 1e-6
	var out []geomath.Vec2
	for _, sign := range []float64{-1, 1} {
		t := anchorT + sign*s
		if t <= eps || t >= length-eps {
			continue
		}
		out = append(out, seg.Start().Add(dir.Scale(t)))
	}
	return out
}

// sampleClears checks one sample point against the opposing segment's
// tapered required clearance.
func sampleClears(cfg *cityconfig.Config, p geomath.Vec2, ownWidth float64, a, b geomath.Vec2, otherWidth float64) bool {
	ld := geomath.DistanceToLine(p, a, b)
	dist := math.Sqrt(ld.DistanceSq)

	distFromNearEnd := math.Min(ld.Proj*math.Sqrt(ld.LengthSq), (1-ld.Proj)*math.Sqrt(ld.LengthSq))
	taperedOwn := taperedWidth(ownWidth, distFromNearEnd, otherWidth)

	required := 0.5*taperedOwn + 0.5*otherWidth + cfg.ClearanceExtraM
	return dist >= required
}

// taperedWidth linearly ramps width from 0 at distFromHinge==0 up to its
// full value once distFromHinge reaches taperLen (the opposing segment's
// width), per spec.md §4.I.
func taperedWidth(width, distFromHinge, taperLen float64) float64 {
	if taperLen <= 0 || distFromHinge >= taperLen {
		return width
	}
	return width * (distFromHinge / taperLen)
}
