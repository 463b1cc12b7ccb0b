package graph

import "container/heap"

// queue is a min-heap of node ids ordered by the graph's ordering function.
type queue[K comparable] struct {
	items []K
	less  func(a, b K) bool
}

func newQueue[K comparable](less func(a, b K) bool) *queue[K] {
	return &queue[K]{less: less}
}

func (q *queue[K]) push(id K) { heap.Push(q, id) }
func (q *queue[K]) pop() K    { return heap.Pop(q).(K) }

func (q *queue[K]) Len() int           { return len(q.items) }
func (q *queue[K]) Less(i, j int) bool { return q.less(q.items[i], q.items[j]) }
func (q *queue[K]) Swap(i, j int)      { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *queue[K]) Push(x any) { q.items = append(q.items, x.(K)) }

func (q *queue[K]) Pop() any {
	last := len(q.items) - 1
	item := q.items[last]
	q.items = q.items[:last]
	return item
}
