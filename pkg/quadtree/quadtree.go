// Package quadtree implements the bounded-region spatial index spec.md §4.B
// describes: object AABBs bucketed into a capacity- and depth-limited
// quad-subdivision tree, with false-positive-tolerant retrieval (callers
// must re-test candidates against precise geometry) and no deletion.
//
// Adapted from the reference quadtree shape retrieved alongside this spec
// (center/half-extent boundary, capacity-triggered subdivide, tolerant
// Retrieve), generalized from point objects to AABB-owning objects since
// spec.md's segments and buildings are extended shapes, not points.
package quadtree

import "citygen/internal/invariant"

// Object pairs a caller-owned value with the AABB it currently occupies.
// Owner is typically a *roadgraph.Segment; identity is
// by pointer equality and the quadtree never dereferences it.
type Object struct {
	BBox  Rect
	Owner any
}

// node is one {x,y,w,h,o} cell: an origin, a size, and either leaf objects
// or four children.
type node struct {
	x, y, w, h float64
	objects    []Object
	children   [4]*node // nil until subdivided
}

func (n *node) bounds() Rect {
	return Rect{n.x, n.y, n.x + n.w, n.y + n.h}
}

// Tree is a quadtree bounded to a fixed world rectangle.
type Tree struct {
	root       *node
	bounds     Rect
	maxObjects int
	maxDepth   int
}

// New creates a quadtree covering bounds, subdividing any node once it
// holds more than maxObjects objects, down to maxDepth levels.
func New(bounds Rect, maxObjects, maxDepth int) *Tree {
	if maxObjects < 1 {
		maxObjects = 1
	}
	if maxDepth < 1 {
		maxDepth = 1
	}
	return &Tree{
		root:       newNode(bounds),
		bounds:     bounds,
		maxObjects: maxObjects,
		maxDepth:   maxDepth,
	}
}

func newNode(b Rect) *node {
	return &node{x: b.MinX, y: b.MinY, w: b.MaxX - b.MinX, h: b.MaxY - b.MinY}
}

// Insert adds obj under bbox. bbox must lie within the tree's world bounds
// (spec.md §7: a programmer error otherwise).
func (t *Tree) Insert(bbox Rect, owner any) {
	invariant.Check(t.bounds.Contains(bbox), "quadtree: inserted AABB outside world bounds")
	t.insert(t.root, Object{BBox: bbox, Owner: owner}, 1)
}

func (t *Tree) insert(n *node, obj Object, depth int) {
	if n.children[0] != nil {
		if idx, ok := quadrantFor(n, obj.BBox); ok {
			t.insert(n.children[idx], obj, depth+1)
			return
		}
		// Straddles the split point: keep it at this level.
		n.objects = append(n.objects, obj)
		return
	}

	n.objects = append(n.objects, obj)
	if len(n.objects) > t.maxObjects && depth < t.maxDepth {
		t.subdivide(n)
		rest := n.objects
		n.objects = nil
		for _, o := range rest {
			if idx, ok := quadrantFor(n, o.BBox); ok {
				t.insert(n.children[idx], o, depth+1)
			} else {
				n.objects = append(n.objects, o)
			}
		}
	}
}

func (t *Tree) subdivide(n *node) {
	hw, hh := n.w/2, n.h/2
	n.children[0] = &node{x: n.x, y: n.y, w: hw, h: hh}          // SW
	n.children[1] = &node{x: n.x + hw, y: n.y, w: hw, h: hh}     // SE
	n.children[2] = &node{x: n.x, y: n.y + hh, w: hw, h: hh}     // NW
	n.children[3] = &node{x: n.x + hw, y: n.y + hh, w: hw, h: hh} // NE
}

// quadrantFor returns the child index that fully contains bbox, if any.
func quadrantFor(n *node, bbox Rect) (int, bool) {
	hw, hh := n.w/2, n.h/2
	midX, midY := n.x+hw, n.y+hh

	left := bbox.MaxX <= midX
	right := bbox.MinX >= midX
	bottom := bbox.MaxY <= midY
	top := bbox.MinY >= midY

	switch {
	case left && bottom:
		return 0, true
	case right && bottom:
		return 1, true
	case left && top:
		return 2, true
	case right && top:
		return 3, true
	default:
		return 0, false
	}
}

// Retrieve returns every object whose node-bucket the query rectangle
// touches. This may include false positives (objects whose own AABB does
// not actually intersect bbox); callers must re-test precisely.
func (t *Tree) Retrieve(bbox Rect) []Object {
	var out []Object
	t.retrieve(t.root, bbox, &out)
	return out
}

func (t *Tree) retrieve(n *node, bbox Rect, out *[]Object) {
	if n == nil || !n.bounds().Intersects(bbox) {
		return
	}
	*out = append(*out, n.objects...)
	for _, c := range n.children {
		t.retrieve(c, bbox, out)
	}
}

// Clear empties the tree in O(N) by discarding the root.
func (t *Tree) Clear() {
	t.root = newNode(t.bounds)
}

// Bounds returns the tree's fixed world rectangle.
func (t *Tree) Bounds() Rect { return t.bounds }
