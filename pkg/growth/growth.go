// Package growth drives the priority-queued segment expansion loop:
// spec.md §4.K's root-highway bootstrap, pop/resolve/branch cycle, and
// post-loop rUnit calibration.
//
// Orchestration style grounded on pkg/routing/engine.go's Engine.Route: a
// numbered-step method with one comment per step, delegating to
// collaborator packages and returning a single result struct. The
// context.Context parameter and periodic ctx.Err() check follow that same
// file's cancellable-loop idiom (bitmask-checked every 256 iterations,
// mirroring runCHDijkstra's iterations&255==0 pattern), even though
// spec.md never requires cancellation of its own accord.
package growth

import (
	"context"
	"hash/fnv"
	"math/rand"

	"citygen/pkg/cityconfig"
	"citygen/pkg/constraints"
	"citygen/pkg/geomath"
	"citygen/pkg/goals"
	"citygen/pkg/heatmap"
	"citygen/pkg/noise"
	"citygen/pkg/pq"
	"citygen/pkg/quadtree"
	"citygen/pkg/roadgraph"
	"citygen/pkg/zoning"
)

// DebugData mirrors the external interface spec.md §6 names: the points
// where pass 1 committed an intersect-split, a node snap, or an
// extend-to-line action.
type DebugData struct {
	Intersections       []geomath.Vec2
	Snaps               []geomath.Vec2
	IntersectionsRadius []geomath.Vec2
}

// Result is growth.Generate's full external interface: the accepted
// segments, the spatial index over them, a calibrated heatmap, the zone
// classifier (needed again by buildings.PlaceAll), and debug trace data.
type Result struct {
	Segments []*roadgraph.Segment
	Tree     *quadtree.Tree
	Heatmap  *heatmap.Heatmap
	Zoner    *zoning.Classifier
	Debug    DebugData
}

// SeedFromString derives a stable int64 seed from an arbitrary string, for
// callers of Generate that take a user-typed seed rather than a raw
// integer (spec.md §6: generate(seed: string | integer)).
func SeedFromString(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}

// Generate runs the full deterministic growth process for seed and
// returns the accepted network. cfg may be nil to use cityconfig.Default().
func Generate(ctx context.Context, cfg *cityconfig.Config, seed int64) (*Result, error) {
	if cfg == nil {
		cfg = cityconfig.Default()
	}

	// 1. Seed the process-scoped RNG, then derive the noise seed from it
	// (a fresh 16-bit draw from the same RNG keeps one seed -> one world).
	rng := rand.New(rand.NewSource(seed))
	noiseSeed := rng.Int63n(1 << 16)
	field := noise.New(noiseSeed)

	hm := heatmap.New(field, 0, 0)
	zoner := zoning.New(cfg.ZoningMode, field, hm, cfg.ZoningParams)

	tree := quadtree.New(cfg.QuadtreeBounds, cfg.QuadtreeMaxObjects, cfg.QuadtreeMaxDepth)
	g := roadgraph.NewGraph(tree)

	queue := pq.Queue[*pendingSegment]{}
	debug := DebugData{}

	// 2 & 3. Root highway pair: two collinear highway segments running in
	// opposite directions from the origin, cross-linked at the origin via
	// back, both pushed into the priority queue.
	root1, root2 := bootstrapRoots(cfg)
	root1.AddBack(root2)
	root2.AddBack(root1)
	queue.Put(&pendingSegment{segment: root1}, root1.T)
	queue.Put(&pendingSegment{segment: root2}, root2.T)

	// 4. Main loop.
	iterations := 0
	for queue.Length() > 0 && len(g.Segments) < cfg.SegmentCountLimit {
		iterations++
		if iterations&255 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		item, ok := queue.Get()
		if !ok {
			break
		}
		cand := item.Value

		accepted, ev := constraints.Resolve(cfg, g, cand.segment)
		if !accepted {
			continue
		}
		recordEvent(&debug, ev)

		goals.ApplyLink(cand.link, cand.segment)
		g.Add(cand.segment)

		for _, child := range goals.Propose(cfg, rng, hm, zoner, cand.segment) {
			pending := &pendingSegment{segment: child.Segment, link: child.Link}
			queue.Put(pending, child.Segment.T)
		}
	}

	// 5. Calibrate the heatmap's radial unit from the final segment
	// extents (needed here because zoning/branching already consulted hm
	// with whatever rUnit was in effect during growth — recalibration
	// after the loop only refines classification for callers querying the
	// finished network). The zoner's cache is cleared so that zones
	// memoized during growth are reclassified with the calibrated rUnit.
	hm.Calibrate(endpoints(g.Segments))
	zoner.SetParams(cfg.ZoningParams)

	return &Result{
		Segments: g.Segments,
		Tree:     tree,
		Heatmap:  hm,
		Zoner:    zoner,
		Debug:    debug,
	}, nil
}

// pendingSegment pairs a not-yet-accepted segment with the deferred link
// action to apply if it is accepted.
type pendingSegment struct {
	segment *roadgraph.Segment
	link    goals.PendingLink
}

// bootstrapRoots builds the two collinear highway segments spec.md §4.K
// step 2 describes, running in opposite directions from the origin.
func bootstrapRoots(cfg *cityconfig.Config) (*roadgraph.Segment, *roadgraph.Segment) {
	length := cfg.HighwaySegmentLengthM
	width := cfg.HighwayWidth()
	meta := roadgraph.Meta{Highway: true}

	east := roadgraph.New(geomath.Vec2{}, geomath.Vec2{X: length, Y: 0}, width, 0, meta)
	west := roadgraph.New(geomath.Vec2{}, geomath.Vec2{X: -length, Y: 0}, width, 0, meta)
	return east, west
}

func endpoints(segments []*roadgraph.Segment) []geomath.Vec2 {
	out := make([]geomath.Vec2, 0, len(segments)*2)
	for _, s := range segments {
		out = append(out, s.Start(), s.End())
	}
	return out
}

func recordEvent(debug *DebugData, ev constraints.Event) {
	switch ev.Kind {
	case constraints.EventIntersect:
		debug.Intersections = append(debug.Intersections, ev.Point)
	case constraints.EventSnap:
		debug.Snaps = append(debug.Snaps, ev.Point)
	case constraints.EventExtend:
		debug.IntersectionsRadius = append(debug.IntersectionsRadius, ev.Point)
	}
}
