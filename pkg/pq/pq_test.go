package pq

import "testing"

func TestOrderedByT(t *testing.T) {
	var q Queue[string]
	q.Put("c", 3)
	q.Put("a", 1)
	q.Put("b", 2)

	var order []string
	for q.Length() > 0 {
		item, _ := q.Get()
		order = append(order, item.Value)
	}
	want := []string{"a", "b", "c"}
	for i, v := range want {
		if order[i] != v {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestTieBreakByInsertionOrder(t *testing.T) {
	var q Queue[int]
	for i := 0; i < 5; i++ {
		q.Put(i, 0)
	}
	for i := 0; i < 5; i++ {
		item, ok := q.Get()
		if !ok || item.Value != i {
			t.Fatalf("got %v at position %d, want %d", item.Value, i, i)
		}
	}
}

func TestEmptyQueue(t *testing.T) {
	var q Queue[int]
	if _, ok := q.Get(); ok {
		t.Fatal("expected Get on empty queue to return ok=false")
	}
}
