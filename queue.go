package biqbin

import "container/heap"

// queue.go is the master's work queue: a binary max-heap over BabNode
// ordered by inherited upper bound (highest first, processing the most
// promising node first), tie-broken by deeper level
// so the tree drains depth-first among equal bounds.

type nodeQueue []*BabNode

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].Bound != q[j].Bound {
		return q[i].Bound > q[j].Bound
	}
	// Deeper nodes (higher level) sort first so ties drain depth-first,
	// bounding how many siblings accumulate in the queue at once.
	return q[i].Level > q[j].Level
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) {
	*q = append(*q, x.(*BabNode))
}

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// PriorityQueue wraps nodeQueue behind heap.Interface so callers never
// juggle container/heap directly.
type PriorityQueue struct {
	q nodeQueue
}

// NewPriorityQueue returns an empty queue ready for Push/Pop.
func NewPriorityQueue() *PriorityQueue {
	q := &PriorityQueue{}
	heap.Init(&q.q)
	return q
}

func (pq *PriorityQueue) Push(n *BabNode) { heap.Push(&pq.q, n) }

// Pop removes and returns the most promising node, or nil if the queue is
// empty.
func (pq *PriorityQueue) Pop() *BabNode {
	if pq.q.Len() == 0 {
		return nil
	}
	return heap.Pop(&pq.q).(*BabNode)
}

func (pq *PriorityQueue) Len() int { return pq.q.Len() }

// Peek returns the best node without removing it, or nil if empty.
func (pq *PriorityQueue) Peek() *BabNode {
	if pq.q.Len() == 0 {
		return nil
	}
	return pq.q[0]
}
