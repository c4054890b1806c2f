package biqbin

import "testing"

// TestPriorityQueue_OrdersByBoundThenLevel checks the queue's ordering:
// highest Bound first, ties broken by deeper Level first.
func TestPriorityQueue_OrdersByBoundThenLevel(t *testing.T) {
	q := NewPriorityQueue()
	q.Push(&BabNode{Bound: 5, Level: 0})
	q.Push(&BabNode{Bound: 10, Level: 2})
	q.Push(&BabNode{Bound: 10, Level: 5})
	q.Push(&BabNode{Bound: 7, Level: 1})

	var order []float64
	var levels []int
	for q.Len() > 0 {
		n := q.Pop()
		order = append(order, n.Bound)
		levels = append(levels, n.Level)
	}

	wantBounds := []float64{10, 10, 7, 5}
	for i, b := range wantBounds {
		if order[i] != b {
			t.Fatalf("pop order = %v, want bounds %v", order, wantBounds)
		}
	}
	// The two Bound==10 nodes must come out deepest-level-first.
	if levels[0] != 5 || levels[1] != 2 {
		t.Fatalf("tie-break order = %v, want [5 2 ...]", levels)
	}
}

func TestPriorityQueue_EmptyPopReturnsNil(t *testing.T) {
	q := NewPriorityQueue()
	if n := q.Pop(); n != nil {
		t.Fatalf("Pop on empty queue = %v, want nil", n)
	}
	if n := q.Peek(); n != nil {
		t.Fatalf("Peek on empty queue = %v, want nil", n)
	}
}

func TestPriorityQueue_PeekDoesNotRemove(t *testing.T) {
	q := NewPriorityQueue()
	q.Push(&BabNode{Bound: 1})
	before := q.Len()
	q.Peek()
	if q.Len() != before {
		t.Fatalf("Peek changed queue length: %d -> %d", before, q.Len())
	}
}
