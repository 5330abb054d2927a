// Package pqueue is the min-priority queue the expansion stages (cultures,
// nations) share: it tolerates duplicate keys (the same tile re-inserted
// with a cheaper cost) and the caller dedupes logically against a
// best-cost map before claiming.
package pqueue

import "container/heap"

// Item is one entry: Value is opaque to the queue, Cost orders entries
// ascending (lowest cost pops first). Tie breaks entries with equal Cost,
// also ascending, so pop order is fully deterministic across runs.
type Item[T any] struct {
	Value T
	Cost  float64
	Tie   uint64
}

type innerHeap[T any] []Item[T]

func (h innerHeap[T]) Len() int { return len(h) }
func (h innerHeap[T]) Less(i, j int) bool {
	if h[i].Cost != h[j].Cost {
		return h[i].Cost < h[j].Cost
	}
	return h[i].Tie < h[j].Tie
}
func (h innerHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *innerHeap[T]) Push(x any)   { *h = append(*h, x.(Item[T])) }
func (h *innerHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Queue is a generic min-priority queue over heap.Interface.
type Queue[T any] struct {
	h innerHeap[T]
}

// New returns an empty queue.
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	heap.Init(&q.h)
	return q
}

// Push inserts value with the given cost. Pushing the same logical value
// twice with different costs is allowed; the caller is responsible for
// ignoring stale pops via a best-cost map.
func (q *Queue[T]) Push(value T, cost float64) {
	q.PushTiebreak(value, cost, 0)
}

// PushTiebreak inserts value with the given cost and a secondary ordering
// key used to break ties between equal-cost entries (e.g. a tile id, for
// reproducible expansion order independent of push order).
func (q *Queue[T]) PushTiebreak(value T, cost float64, tie uint64) {
	heap.Push(&q.h, Item[T]{Value: value, Cost: cost, Tie: tie})
}

// Pop removes and returns the lowest-cost item. ok is false if the queue is
// empty.
func (q *Queue[T]) Pop() (item Item[T], ok bool) {
	if q.h.Len() == 0 {
		return Item[T]{}, false
	}
	return heap.Pop(&q.h).(Item[T]), true
}

// Len reports the number of items currently queued.
func (q *Queue[T]) Len() int { return q.h.Len() }
