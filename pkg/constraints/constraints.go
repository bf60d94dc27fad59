// Package constraints resolves a candidate segment against the existing
// network: spec.md §4.I's pass-1 priority actions (intersect-split,
// end-snap, extend-to-line) and pass-2 lateral clearance.
//
// Grounded on pkg/ch/witness.go's shape of a single focused resolver
// function operating over a passed-in graph; the segment-distance math it
// leans on is geomath.SegmentDistance/DistanceToLine, written from this
// spec's own "classical 2D closest-pair" description rather than copied
// from any corpus file.
package constraints

import (
	"math"

	"citygen/pkg/cityconfig"
	"citygen/pkg/geomath"
	"citygen/pkg/quadtree"
	"citygen/pkg/roadgraph"
)

type actionKind int

const (
	actionNone actionKind = iota
	actionExtend
	actionSnap
	actionIntersect
)

// priority orders actionKind so a higher int always wins ties.
func (k actionKind) priority() int { return int(k) }

type action struct {
	kind  actionKind
	t     float64 // tie-break: parametric t along cand for intersect, distance for snap/extend
	other *roadgraph.Segment
	point geomath.Vec2
}

func (a action) betterThan(b action) bool {
	if a.kind.priority() != b.kind.priority() {
		return a.kind.priority() > b.kind.priority()
	}
	return a.t < b.t
}

// EventKind classifies the pass-1 action actually committed, for the
// debugData spec.md §6 describes (intersections/snaps/intersectionsRadius).
type EventKind int

const (
	EventNone EventKind = iota
	EventIntersect
	EventSnap
	EventExtend
)

// Event records one committed pass-1 action, for debug/telemetry capture.
type Event struct {
	Kind  EventKind
	Point geomath.Vec2
}

// Resolve runs the full two-pass local-constraints check for a candidate
// segment not yet owned by g, mutating cand and g in place when pass 1
// commits an intersect-split, snap, or extend action. It returns whether
// cand should be accepted into the graph at all (pass 2 failure rejects
// the whole candidate; pass 1 rejection merely falls back to a plain,
// unmodified segment per spec.md §9 open question 2) plus a record of
// whatever pass-1 action actually committed, if any. Pass 2 checks cand
// with the winning action's endpoint before that action is committed, so
// a rejected candidate leaves g unchanged.
func Resolve(cfg *cityconfig.Config, g *roadgraph.Graph, cand *roadgraph.Segment) (bool, Event) {
	win := pickAction(cfg, g, cand)

	end := cand.End()
	if win.kind != actionNone {
		cand.SetEnd(win.point)
	}
	ok := passLateralClearance(cfg, g, cand)
	cand.SetEnd(end)
	if !ok {
		return false, Event{}
	}
	return true, commitAction(cfg, g, cand, win)
}

// pickAction runs pass 1: find the highest-priority, best-tie-broken
// candidate action among everything the quadtree returns near cand.
func pickAction(cfg *cityconfig.Config, g *roadgraph.Graph, cand *roadgraph.Segment) action {
	best := action{kind: actionNone}

	query := searchBounds(cfg, cand)
	for _, obj := range g.Tree.Retrieve(query) {
		other, ok := obj.Owner.(*roadgraph.Segment)
		if !ok || other == cand {
			continue
		}

		if res, ok := geomath.SegmentIntersection(cand.Start(), cand.End(), other.Start(), other.End(), false); ok {
			cand := action{kind: actionIntersect, t: res.T, other: other, point: res.Point}
			if cand.betterThan(best) {
				best = cand
			}
			continue // an intersecting pair is never also a snap/extend candidate
		}

		if d := geomath.Distance(cand.End(), other.End()); d <= cfg.RoadSnapDistanceM {
			c := action{kind: actionSnap, t: d, other: other, point: other.End()}
			if c.betterThan(best) {
				best = c
			}
		}

		ld := geomath.DistanceToLine(cand.End(), other.Start(), other.End())
		const eps = 1e-6
		if ld.Proj > eps && ld.Proj < 1-eps {
			dist := math.Sqrt(ld.DistanceSq)
			if dist <= cfg.RoadSnapDistanceM {
				c := action{kind: actionExtend, t: dist, other: other, point: ld.PointOnAB}
				if c.betterThan(best) {
					best = c
				}
			}
		}
	}
	return best
}

// commitAction applies the winning pass-1 action to cand/g, or does
// nothing when the angle test rejects it (the candidate then stays a
// plain, unmodified segment — spec.md §9 open question 2).
func commitAction(cfg *cityconfig.Config, g *roadgraph.Graph, cand *roadgraph.Segment, win action) Event {
	switch win.kind {
	case actionIntersect:
		if geomath.MinDegreeDifference(win.other.Dir(), cand.Dir()) < cfg.MinIntersectionDeviationDeg {
			return Event{}
		}
		g.Split(win.other, win.point, cand)
		cand.SetEnd(win.point)
		cand.Meta.Severed = true
		return Event{Kind: EventIntersect, Point: win.point}

	case actionExtend:
		if geomath.MinDegreeDifference(win.other.Dir(), cand.Dir()) < cfg.MinIntersectionDeviationDeg {
			return Event{}
		}
		g.Split(win.other, win.point, cand)
		cand.SetEnd(win.point)
		cand.Meta.Severed = true
		return Event{Kind: EventExtend, Point: win.point}

	case actionSnap:
		if commitSnap(win.other, cand) {
			return Event{Kind: EventSnap, Point: win.point}
		}
	}
	return Event{}
}

// commitSnap splices cand into other's node-side link set, rejecting if
// the resulting edge would duplicate an existing link at that node.
// Reports whether the snap committed.
func commitSnap(other, cand *roadgraph.Segment) bool {
	node := other.End()
	if hasDuplicateEdge(other, node, cand.Start()) {
		return false
	}

	cand.SetEnd(node)
	cand.Meta.Severed = true

	// "forward if other.startIsBackwards else back" (spec.md §4.I).
	backwards := other.StartIsBackwards()
	var existing []*roadgraph.Segment
	if backwards {
		existing = append([]*roadgraph.Segment(nil), other.Forward...)
		other.AddForward(cand)
	} else {
		existing = append([]*roadgraph.Segment(nil), other.Back...)
		other.AddBack(cand)
	}
	cand.AddForward(other)

	// Cross-link to each neighbor already at that node.
	for _, n := range existing {
		if n.InBack(other) {
			n.AddBack(cand)
		} else {
			n.AddForward(cand)
		}
		cand.AddForward(n)
	}
	return true
}

// hasDuplicateEdge reports whether any segment already linked to other at
// node runs to the same far endpoint cand would (spec.md §9 open question
// 3: scan both of other's link sets, not just the selected one).
func hasDuplicateEdge(other *roadgraph.Segment, node, farEnd geomath.Vec2) bool {
	for _, n := range other.Neighbors() {
		var far geomath.Vec2
		if n.Start() == node {
			far = n.End()
		} else {
			far = n.Start()
		}
		if far == farEnd {
			return true
		}
	}
	return false
}

// searchBounds covers everything pass 1 and pass 2 need in one quadtree
// query: cand's own extent plus the snap/clearance radius around it.
func searchBounds(cfg *cityconfig.Config, cand *roadgraph.Segment) quadtree.Rect {
	r := cand.Collider().AABB()
	return r.Expand(cfg.RoadSnapDistanceM + cfg.ClearanceExtraM)
}
