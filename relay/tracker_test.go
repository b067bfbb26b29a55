package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker(t *testing.T) {
	key := partitionKey{topic: "in", partition: 3}

	tests := []struct {
		name       string
		done       []int64
		wantOffset int64
		wantOK     bool
	}{
		{name: "nothing done", done: nil},
		{name: "in order", done: []int64{5, 6, 7}, wantOffset: 7, wantOK: true},
		{name: "gap", done: []int64{6, 7}},
		{name: "gap filled", done: []int64{7, 6, 5}, wantOffset: 7, wantOK: true},
		{name: "partial prefix", done: []int64{5, 8, 6}, wantOffset: 6, wantOK: true},
		{name: "duplicates", done: []int64{9, 9, 6, 6, 5, 8, 7}, wantOffset: 9, wantOK: true},
		{name: "below first", done: []int64{2, 5}, wantOffset: 5, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := newTracker(key, 5, 2)
			require.NoError(t, err)

			for _, offset := range tt.done {
				require.NoError(t, tr.Done(offset))
			}

			msg, ok := tr.Committed()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "in", msg.Topic)
				assert.Equal(t, 3, msg.Partition)
				assert.Equal(t, tt.wantOffset, msg.Offset)
			}
		})
	}
}

func TestTrackerInvalidCapacity(t *testing.T) {
	_, err := newTracker(partitionKey{}, 0, 0)
	assert.Error(t, err)
}
