package roadgraph

import (
	"citygen/internal/invariant"
	"citygen/pkg/geomath"
	"citygen/pkg/quadtree"
)

// Graph owns the arena of accepted segments and the spatial index over
// their AABBs. Segments are never deleted: Split shortens the original in
// place and inserts a new half (spec.md §3 lifecycle).
type Graph struct {
	Segments []*Segment
	Tree     *quadtree.Tree
}

// NewGraph creates an empty graph backed by tree.
func NewGraph(tree *quadtree.Tree) *Graph {
	return &Graph{Tree: tree}
}

// Add appends s to the arena (assigning it an insertion-order ID) and
// inserts its current AABB into the spatial index.
func (g *Graph) Add(s *Segment) {
	s.ID = len(g.Segments)
	g.Segments = append(g.Segments, s)
	g.Tree.Insert(s.Collider().AABB(), s)
}

// owns reports whether s is part of this graph's arena.
func (g *Graph) owns(s *Segment) bool {
	for _, o := range g.Segments {
		if o == s {
			return true
		}
	}
	return false
}

// Split divides x at point p, inserting a new half-segment into the
// arena/tree and cross-linking inserter to both halves, per spec.md §4.H.
// x must already belong to g (spec.md §7: a programmer error otherwise).
func (g *Graph) Split(x *Segment, p geomath.Vec2, inserter *Segment) (*Segment, *Segment) {
	invariant.Check(g.owns(x), "roadgraph: Split called on a segment not in this graph")

	// 1. Clone x (same t, meta) before any mutation, and register it.
	splitPart := New(x.Start(), x.End(), x.Width, x.T, x.Meta)
	g.Add(splitPart)

	// 2. Determine which half is "first" (toward which splitPart's old
	// links must be refactored) using x's orientation before this split
	// rewires anything: StartIsBackwards reads x.start against x's link
	// sets, so it must run before either is touched.
	backwards := x.StartIsBackwards()

	// 3. splitPart keeps x's original start; x keeps x's original end.
	splitPart.SetEnd(p)
	x.SetStart(p)

	// 4. splitPart starts life holding copies of x's pre-split link sets.
	splitPart.Back = append([]*Segment(nil), x.Back...)
	splitPart.Forward = append([]*Segment(nil), x.Forward...)

	var first, second *Segment
	var fixLinks []*Segment
	if backwards {
		first, second = splitPart, x
		fixLinks = splitPart.Back
	} else {
		first, second = x, splitPart
		fixLinks = splitPart.Forward
	}

	// 5. Any neighbor that used to point at x now points at splitPart.
	for _, l := range fixLinks {
		replaceNeighbor(l, x, splitPart)
	}

	// 6. Cross-link inserter to both halves at p.
	first.Forward = []*Segment{inserter, second}
	second.Back = []*Segment{inserter, first}
	inserter.Forward = append(inserter.Forward, first, second)

	return splitPart, x
}

func replaceNeighbor(l, old, replacement *Segment) {
	for i, n := range l.Back {
		if n == old {
			l.Back[i] = replacement
		}
	}
	for i, n := range l.Forward {
		if n == old {
			l.Forward[i] = replacement
		}
	}
}
