package queue

type node[V any] struct {
	value    V
	priority int
}

// heapNodes implements heap.Interface. Push never reallocates: Queue grows the
// backing array before handing a node over.
type heapNodes[V any] []node[V]

func (h heapNodes[V]) Root() (node[V], bool) {
	if len(h) > 0 {
		return h[0], true
	}
	return node[V]{}, false
}

func (h heapNodes[V]) Len() int { return len(h) }

func (h heapNodes[V]) Less(i, j int) bool {
	return h[i].priority < h[j].priority
}

func (h heapNodes[V]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *heapNodes[V]) Push(x any) {
	*h = append(*h, x.(node[V]))
}

func (h *heapNodes[V]) Pop() any {
	old := *h
	n := len(old)
	n1 := old[n-1]
	old[n-1] = node[V]{} // drop the reference
	*h = old[:n-1]
	return n1
}

// resized returns a copy of h backed by an array of the given capacity.
func (h heapNodes[V]) resized(capacity int) heapNodes[V] {
	nodes := make(heapNodes[V], len(h), capacity)
	copy(nodes, h)
	return nodes
}
