package domain

// Min-priority queue shared by the river and road graph traversals.
// Matches the container/heap idiom; not safe for concurrent use.

type pqItem[T comparable] struct {
	node     T
	priority float64
}

type pqueue[T comparable] []pqItem[T]

func (q pqueue[T]) Len() int            { return len(q) }
func (q pqueue[T]) Less(i, j int) bool  { return q[i].priority < q[j].priority }
func (q pqueue[T]) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *pqueue[T]) Push(x interface{}) { *q = append(*q, x.(pqItem[T])) }

func (q *pqueue[T]) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
