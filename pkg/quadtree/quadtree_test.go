package quadtree

import "testing"

func TestInsertRetrieve(t *testing.T) {
	tr := New(Rect{-1000, -1000, 1000, 1000}, 2, 6)

	type owner struct{ id int }
	owners := make([]*owner, 0, 50)
	for i := 0; i < 50; i++ {
		o := &owner{id: i}
		owners = append(owners, o)
		x := float64(i*10 - 250)
		tr.Insert(Rect{x, x, x + 5, x + 5}, o)
	}

	hits := tr.Retrieve(Rect{-5, -5, 5, 5})
	found := false
	for _, h := range hits {
		if h.BBox.Intersects(Rect{-5, -5, 5, 5}) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected at least one real hit near origin among %d candidates", len(hits))
	}
}

func TestRetrieveCoversInsertedBBox(t *testing.T) {
	tr := New(Rect{-500, -500, 500, 500}, 4, 8)
	bbox := Rect{10, 10, 20, 20}
	tr.Insert(bbox, "owner")

	hits := tr.Retrieve(bbox)
	if len(hits) == 0 {
		t.Fatal("expected the inserted object to be retrievable via its own bbox")
	}
}

func TestInsertOutsideBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-bounds insert")
		}
	}()
	tr := New(Rect{0, 0, 100, 100}, 4, 4)
	tr.Insert(Rect{200, 200, 210, 210}, "oops")
}

func TestClear(t *testing.T) {
	tr := New(Rect{0, 0, 100, 100}, 1, 4)
	tr.Insert(Rect{1, 1, 2, 2}, "a")
	tr.Clear()
	if len(tr.Retrieve(Rect{0, 0, 100, 100})) != 0 {
		t.Fatal("expected empty tree after Clear")
	}
}
