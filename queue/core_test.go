package queue

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertHeap[V any](t *testing.T, q *Queue[V]) {
	t.Helper()
	nodes := *q.nodes
	for i := range nodes {
		for _, c := range []int{2*i + 1, 2*i + 2} {
			if c < len(nodes) {
				assert.LessOrEqual(t, nodes[i].priority, nodes[c].priority, "parent %d child %d", i, c)
			}
		}
	}
	assert.LessOrEqual(t, len(nodes), cap(nodes))
}

func TestHeapPropertyAfterEachOperation(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	q, err := New[int](3)
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		if rnd.Intn(3) == 0 {
			q.Pop()
		} else {
			require.NoError(t, q.Push(i, rnd.Intn(100)-50))
		}
		assertHeap(t, q)
	}
}

func TestPopPrefersLeftChildOnTie(t *testing.T) {
	q, err := New[string](4)
	require.NoError(t, err)
	*q.nodes = heapNodes[string]{
		{value: "root", priority: 0},
		{value: "left", priority: 1},
		{value: "right", priority: 1},
		{value: "last", priority: 5},
	}

	v, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "root", v)
	assert.Equal(t, "left", (*q.nodes)[0].value)
	assertHeap(t, q)
}

func TestGrowthLimit(t *testing.T) {
	q, err := New[int](3)
	require.NoError(t, err)
	q.limit = 5

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Push(i, i))
	}
	assert.Equal(t, 5, q.Cap(), "growth is clamped to the limit")

	err = q.Push(5, 5)
	assert.ErrorIs(t, err, ErrAllocationFailure)
	assert.Equal(t, 5, q.Len())
	assertHeap(t, q)

	v, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestPopReleasesSlot(t *testing.T) {
	q, err := New[*int](2)
	require.NoError(t, err)
	require.NoError(t, q.Push(new(int), 1))

	_, ok := q.Pop()
	require.True(t, ok)
	assert.Nil(t, (*q.nodes)[:1][0].value)
}
