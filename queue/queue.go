package queue

import (
	"container/heap"
	"fmt"
)

const (
	// DefaultCapacity is the number of nodes preallocated when no capacity is configured.
	DefaultCapacity = 1024
	// MaxCapacity bounds the backing array.
	MaxCapacity = 1 << 30

	growthFactor = 2
)

// Queue is a min-heap of opaque values ordered by an integer priority.
// The queue only stores and returns values, it never inspects them.
// A Queue is not safe for concurrent use.
type Queue[V any] struct {
	nodes *heapNodes[V]
	limit int
}

// New returns an empty queue with room for capacity nodes.
func New[V any](capacity int) (*Queue[V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidArgument, capacity)
	}
	nodes := make(heapNodes[V], 0, capacity)
	return &Queue[V]{
		nodes: &nodes,
		limit: MaxCapacity,
	}, nil
}

// Reserve makes room for at least capacity nodes. It may be called on a queue
// that is already in use; stored elements are kept.
func (q *Queue[V]) Reserve(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidArgument, capacity)
	}
	if capacity > q.limit {
		return fmt.Errorf("%w: capacity %d exceeds %d", ErrAllocationFailure, capacity, q.limit)
	}
	if capacity > cap(*q.nodes) {
		*q.nodes = q.nodes.resized(capacity)
	}
	return nil
}

// Push adds value with the given priority, doubling the backing array when it is full.
func (q *Queue[V]) Push(value V, priority int) error {
	if err := q.grow(); err != nil {
		return err
	}
	heap.Push(q.nodes, node[V]{value: value, priority: priority})
	return nil
}

// Pop removes and returns the value with the lowest priority.
// The boolean is false when the queue is empty.
func (q *Queue[V]) Pop() (V, bool) {
	if q.nodes.Len() == 0 {
		var zero V
		return zero, false
	}
	return heap.Pop(q.nodes).(node[V]).value, true
}

// Peek returns the value with the lowest priority without removing it.
func (q *Queue[V]) Peek() (V, int, bool) {
	root, ok := q.nodes.Root()
	return root.value, root.priority, ok
}

// Len returns the number of stored values.
func (q *Queue[V]) Len() int {
	return q.nodes.Len()
}

// Cap returns the capacity of the backing array.
func (q *Queue[V]) Cap() int {
	return cap(*q.nodes)
}

// Clone returns a queue with its own copy of the backing array.
// Stored values are copied as they are, so references are shared with q.
func (q *Queue[V]) Clone() *Queue[V] {
	nodes := q.nodes.resized(cap(*q.nodes))
	return &Queue[V]{
		nodes: &nodes,
		limit: q.limit,
	}
}

func (q *Queue[V]) grow() error {
	n, c := len(*q.nodes), cap(*q.nodes)
	if n < c {
		return nil
	}
	if c >= q.limit {
		return fmt.Errorf("%w: queue is at its limit of %d nodes", ErrAllocationFailure, q.limit)
	}
	next := c * growthFactor
	if next > q.limit {
		next = q.limit
	}
	*q.nodes = q.nodes.resized(next)
	return nil
}
