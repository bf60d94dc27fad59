// Package roadgraph implements the mutable planar segment graph of
// spec.md §3/§4.H: segments with directed-by-construction endpoints,
// back/forward link sets, and a split operation that preserves link
// invariants.
//
// Grounded on pkg/graph/graph.go + component.go's plain-struct-with-methods
// style (no sentinel errors: a Split on a segment outside the graph panics
// via internal/invariant), but the representation is an arena of
// pointers (spec.md Design Notes §9), not CSR: CSR is rebuild-only and
// cannot support the repeated in-place Split this component requires.
package roadgraph

import (
	"citygen/pkg/collider"
	"citygen/pkg/geomath"
)

// Meta carries the per-segment classification flags spec.md §3 names.
type Meta struct {
	Highway bool
	Severed bool
	Color   int
}

// Segment is a directed-by-construction road edge. Endpoint mutations go
// through SetStart/SetEnd, which bump rev so cached Dir()/Length() are
// recomputed on next access — the same invalidation shape as the
// teacher's cached-value patterns, generalized from a revision counter.
type Segment struct {
	ID int

	start, end geomath.Vec2
	Width      float64
	T          int
	Meta       Meta

	Back    []*Segment
	Forward []*Segment

	rev        uint64
	cachedRev  uint64
	cachedDir  float64
	cachedLen  float64
}

// New creates a detached segment (not yet owned by any Graph).
func New(start, end geomath.Vec2, width float64, t int, meta Meta) *Segment {
	return &Segment{start: start, end: end, Width: width, T: t, Meta: meta, rev: 1}
}

// Start returns the segment's start point.
func (s *Segment) Start() geomath.Vec2 { return s.start }

// End returns the segment's end point.
func (s *Segment) End() geomath.Vec2 { return s.end }

// SetStart updates the start point and invalidates cached Dir()/Length().
func (s *Segment) SetStart(p geomath.Vec2) {
	s.start = p
	s.rev++
}

// SetEnd updates the end point and invalidates cached Dir()/Length().
func (s *Segment) SetEnd(p geomath.Vec2) {
	s.end = p
	s.rev++
}

func (s *Segment) recompute() {
	if s.cachedRev == s.rev {
		return
	}
	d := s.end.Sub(s.start)
	// Orient by the sign of the cross product with +y, so rotating +y
	// toward the segment yields a consistent sign (spec.md §4.A).
	up := geomath.Vec2{X: 0, Y: 1}
	cross := up.Cross(d)
	angle := geomath.AngleBetween(up, d)
	if cross < 0 {
		angle = -angle
	}
	s.cachedDir = angle
	s.cachedLen = d.Length()
	s.cachedRev = s.rev
}

// Dir returns the segment's direction in degrees, oriented by the sign
// convention derived from the cross-product with +y.
func (s *Segment) Dir() float64 {
	s.recompute()
	return s.cachedDir
}

// Length returns the current Euclidean length of the segment.
func (s *Segment) Length() float64 {
	s.recompute()
	return s.cachedLen
}

// MaxSpeed returns the derived max speed for the segment's road type.
func (s *Segment) MaxSpeed() float64 {
	if s.Meta.Highway {
		return 1200
	}
	return 800
}

// Capacity returns the derived lane capacity for the segment's road type.
func (s *Segment) Capacity() int {
	if s.Meta.Highway {
		return 12
	}
	return 6
}

// Collider returns a fresh line collider reflecting the segment's current
// endpoints and width.
func (s *Segment) Collider() collider.Collider {
	return collider.Collider{Owner: s, Shape: collider.NewLine(s.start, s.end, s.Width)}
}

func sharesEndpoint(n *Segment, p geomath.Vec2) bool {
	return n.start == p || n.end == p
}

// StartIsBackwards deduces whether S.Back attaches at S.Start (the normal
// case) by checking the first Back neighbor's endpoint equality to Start,
// falling back to the first Forward neighbor if Back is empty (spec.md
// §4.H). A segment with both link sets empty (e.g. freshly constructed,
// not yet linked into the graph — spec.md §8's bare two-segment split
// scenario) has no established orientation to deduce; false is returned
// arbitrarily in that case (DESIGN.md open question 1). In Split the
// choice has no effect, since empty Back/Forward sets make fixLinks empty
// on either branch; a snap onto such a segment puts the new neighbor into
// Back, and later calls deduce the orientation from that entry.
func (s *Segment) StartIsBackwards() bool {
	if len(s.Back) > 0 {
		return sharesEndpoint(s.Back[0], s.start)
	}
	if len(s.Forward) > 0 {
		return !sharesEndpoint(s.Forward[0], s.start)
	}
	return false
}

// EndKind identifies which node of a segment a neighbor attaches to.
type EndKind int

const (
	EndNone EndKind = iota
	EndStart
	EndEnd
)

// EndContaining maps a neighbor to the end it attaches to, using link
// membership and StartIsBackwards (spec.md §4.H).
func (s *Segment) EndContaining(other *Segment) EndKind {
	inBack := containsSegment(s.Back, other)
	inForward := containsSegment(s.Forward, other)
	if !inBack && !inForward {
		return EndNone
	}
	backwards := s.StartIsBackwards()
	if inBack {
		if backwards {
			return EndStart
		}
		return EndEnd
	}
	if backwards {
		return EndEnd
	}
	return EndStart
}

func containsSegment(list []*Segment, s *Segment) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}

// InBack reports whether n is already a member of s.Back.
func (s *Segment) InBack(n *Segment) bool { return containsSegment(s.Back, n) }

// InForward reports whether n is already a member of s.Forward.
func (s *Segment) InForward(n *Segment) bool { return containsSegment(s.Forward, n) }

// AddBack appends n to Back if not already present (idempotent — see
// DESIGN.md open question 4 on setupBranchLinks double-linking).
func (s *Segment) AddBack(n *Segment) {
	if !containsSegment(s.Back, n) {
		s.Back = append(s.Back, n)
	}
}

// AddForward appends n to Forward if not already present.
func (s *Segment) AddForward(n *Segment) {
	if !containsSegment(s.Forward, n) {
		s.Forward = append(s.Forward, n)
	}
}

// CrossLink links a and b at their shared node, each into the other's
// appropriate set, idempotently.
func CrossLink(a, b *Segment, aIsBack bool) {
	if aIsBack {
		a.AddBack(b)
		b.AddForward(a)
	} else {
		a.AddForward(b)
		b.AddBack(a)
	}
}

// Neighbors returns every segment linked to s, back or forward, in
// insertion order with Back first (spec.md §5: link-set iteration order
// must be preserved for determinism).
func (s *Segment) Neighbors() []*Segment {
	out := make([]*Segment, 0, len(s.Back)+len(s.Forward))
	out = append(out, s.Back...)
	out = append(out, s.Forward...)
	return out
}
