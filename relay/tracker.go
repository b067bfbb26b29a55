package relay

import (
	"github.com/segmentio/kafka-go"

	"github.com/iowanobos/kafka-priority/queue"
)

type partitionKey struct {
	topic     string
	partition int
}

// tracker follows the offsets of one partition that were handled out of order
// and reports the highest offset below which everything is handled.
type tracker struct {
	partitionKey
	first     int64
	next      int64
	processed *queue.Queue[int64]
}

func newTracker(key partitionKey, first int64, capacity int) (*tracker, error) {
	processed, err := queue.New[int64](capacity)
	if err != nil {
		return nil, err
	}
	return &tracker{
		partitionKey: key,
		first:        first,
		next:         first,
		processed:    processed,
	}, nil
}

func (t *tracker) Done(offset int64) error {
	if offset < t.next {
		return nil
	}
	if offset > t.next {
		return t.processed.Push(offset, int(offset))
	}

	t.next++
	for {
		_, root, ok := t.processed.Peek()
		if !ok || int64(root) > t.next {
			return nil
		}
		t.processed.Pop()
		if int64(root) == t.next {
			t.next++
		}
	}
}

// Committed returns the last message of the contiguous handled prefix.
func (t *tracker) Committed() (kafka.Message, bool) {
	if t.next == t.first {
		return kafka.Message{}, false
	}
	return kafka.Message{
		Topic:     t.topic,
		Partition: t.partition,
		Offset:    t.next - 1,
	}, true
}
