package constraints

import (
	"testing"

	"citygen/pkg/cityconfig"
	"citygen/pkg/geomath"
	"citygen/pkg/quadtree"
	"citygen/pkg/roadgraph"
)

func newTestGraph() *roadgraph.Graph {
	tree := quadtree.New(quadtree.Rect{MinX: -10000, MinY: -10000, MaxX: 10000, MaxY: 10000}, 4, 8)
	return roadgraph.NewGraph(tree)
}

// TestIntersectSplit mirrors the spec's concrete crossing scenario: A runs
// east-west through the midpoint of B, which runs north-south. Because the
// two are perpendicular (well above the 30 degree floor), B must split at
// the crossing point and A must be cross-linked to both halves.
func TestIntersectSplit(t *testing.T) {
	cfg := cityconfig.Default()
	g := newTestGraph()

	b := roadgraph.New(geomath.Vec2{X: 50, Y: -30}, geomath.Vec2{X: 50, Y: 30}, 10, 0, roadgraph.Meta{})
	g.Add(b)

	a := roadgraph.New(geomath.Vec2{X: 0, Y: 0}, geomath.Vec2{X: 100, Y: 0}, 10, 0, roadgraph.Meta{})

	ok, ev := Resolve(cfg, g, a)
	if !ok {
		t.Fatal("expected candidate to be accepted")
	}
	if ev.Kind != EventIntersect || ev.Point != (geomath.Vec2{X: 50, Y: 0}) {
		t.Fatalf("expected an intersect event at (50,0), got %+v", ev)
	}
	if a.End() != (geomath.Vec2{X: 50, Y: 0}) {
		t.Fatalf("expected A to be severed at the crossing, got end=%v", a.End())
	}
	if !a.Meta.Severed {
		t.Error("expected A to be marked severed")
	}
	// Resolve only mutates the graph's existing segments (B splits in
	// place plus one new half); inserting the accepted candidate A itself
	// is the growth loop's job, not the resolver's.
	if len(g.Segments) != 2 {
		t.Fatalf("expected B to have split into 2 segments, got %d", len(g.Segments))
	}
}

// TestSnapToNearbyNode mirrors the spec's snap scenario: a candidate whose
// end lands within ROAD_SNAP_DISTANCE of an existing segment's end should
// snap to it rather than leave a near-duplicate dangling node.
func TestSnapToNearbyNode(t *testing.T) {
	cfg := cityconfig.Default()
	g := newTestGraph()

	existing := roadgraph.New(geomath.Vec2{X: 0, Y: 0}, geomath.Vec2{X: 54.9, Y: 0}, 10, 0, roadgraph.Meta{})
	g.Add(existing)

	cand := roadgraph.New(geomath.Vec2{X: 55, Y: 40}, geomath.Vec2{X: 55, Y: 0}, 10, 0, roadgraph.Meta{})

	if ok, _ := Resolve(cfg, g, cand); !ok {
		t.Fatal("expected candidate to be accepted")
	}
	if cand.End() != (geomath.Vec2{X: 54.9, Y: 0}) {
		t.Fatalf("expected candidate to snap to existing node, got %v", cand.End())
	}
	if !cand.Meta.Severed {
		t.Error("expected candidate to be marked severed after snap")
	}
}

// TestLateralClearanceRejectsTooClose mirrors spec.md's 5th concrete
// scenario in spirit: two near-parallel, non-continuation segments that
// run within the tapered clearance distance of each other must reject the
// later one outright in pass 2.
func TestLateralClearanceRejectsTooClose(t *testing.T) {
	cfg := cityconfig.Default()
	g := newTestGraph()

	existing := roadgraph.New(geomath.Vec2{X: 0, Y: 0}, geomath.Vec2{X: 200, Y: 0}, 10, 0, roadgraph.Meta{})
	g.Add(existing)

	// Runs parallel to existing, offset by only 1m — well under clearance.
	// It points the other way, so its end (0,1) is not within snap distance
	// of existing's end (200,0): a snap there would make the pair share an
	// endpoint, which pass 2 accepts as a continuation.
	cand := roadgraph.New(geomath.Vec2{X: 200, Y: 1}, geomath.Vec2{X: 0, Y: 1}, 10, 0, roadgraph.Meta{})

	if ok, _ := Resolve(cfg, g, cand); ok {
		t.Fatal("expected candidate to be rejected by lateral clearance")
	}
}

func TestContinuationAllowedAtSharedEndpoint(t *testing.T) {
	cfg := cityconfig.Default()
	g := newTestGraph()

	existing := roadgraph.New(geomath.Vec2{X: 0, Y: 0}, geomath.Vec2{X: 100, Y: 0}, 10, 0, roadgraph.Meta{})
	g.Add(existing)

	cand := roadgraph.New(geomath.Vec2{X: 100, Y: 0}, geomath.Vec2{X: 200, Y: 0}, 10, 0, roadgraph.Meta{})

	if ok, _ := Resolve(cfg, g, cand); !ok {
		t.Fatal("expected a colinear continuation to be accepted")
	}
}
