package relay

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/iowanobos/kafka-priority/queue"
)

// Reader is satisfied by *kafka.Reader configured with a consumer group.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Writer is satisfied by *kafka.Writer.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Relay moves messages from the input topic to the output topic, reordering
// every batch so the lowest X-Priority goes first.
type Relay struct {
	reader  Reader
	writer  Writer
	options Options
	log     *logrus.Entry
}

func New(reader Reader, writer Writer, options Options) (*Relay, error) {
	options.setDefaults()
	if err := options.validate(); err != nil {
		return nil, err
	}
	return &Relay{
		reader:  reader,
		writer:  writer,
		options: options,
		log: logrus.WithFields(logrus.Fields{
			"input":  options.InputTopic,
			"output": options.OutputTopic,
		}),
	}, nil
}

// Run relays batches until ctx is done. A batch interrupted by shutdown is not
// committed and will be fetched again.
func (r *Relay) Run(ctx context.Context) error {
	pending, err := queue.New[int](r.options.QueueCapacity)
	if err != nil {
		return err
	}

	for {
		batch, err := r.fetch(ctx)
		if ctx.Err() != nil { // graceful shutdown
			r.log.WithField("dropped", len(batch)).Debug("shutdown. relay stopped")
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch message: %w", err)
		}
		if len(batch) == 0 {
			continue
		}

		if err = r.forward(ctx, pending, batch); err != nil {
			if ctx.Err() != nil { // shutdown while writing or committing
				r.log.WithError(err).Debug("shutdown. relay stopped")
				return nil
			}
			return err
		}
	}
}

func (r *Relay) Close() error {
	readerErr := r.reader.Close()
	if err := r.writer.Close(); err != nil {
		return err
	}
	return readerErr
}

func (r *Relay) fetch(ctx context.Context) ([]kafka.Message, error) {
	windowCtx, cancel := context.WithTimeout(ctx, r.options.BatchWindow)
	defer cancel()

	batch := make([]kafka.Message, 0, r.options.BatchSize)
	for len(batch) < r.options.BatchSize {
		msg, err := r.reader.FetchMessage(windowCtx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil { // window closed
				return batch, nil
			}
			return batch, err
		}
		batch = append(batch, msg)
	}
	return batch, nil
}

func (r *Relay) forward(ctx context.Context, pending *queue.Queue[int], batch []kafka.Message) error {
	trackers := make(map[partitionKey]*tracker)
	for i, msg := range batch {
		key := partitionKey{topic: msg.Topic, partition: msg.Partition}
		if _, ok := trackers[key]; !ok {
			t, err := newTracker(key, msg.Offset, len(batch))
			if err != nil {
				return err
			}
			trackers[key] = t
		}
		if err := pending.Push(i, priorityOf(msg, r.options.DefaultPriority)); err != nil {
			return fmt.Errorf("enqueue message: %w", err)
		}
	}

	sources := make([]kafka.Message, 0, len(batch))
	out := make([]kafka.Message, 0, len(batch))
	for _, i := range drain(pending) {
		msg := batch[i]
		sources = append(sources, msg)
		out = append(out, kafka.Message{
			Topic:   r.options.OutputTopic,
			Key:     msg.Key,
			Value:   msg.Value,
			Headers: msg.Headers,
		})
	}

	writeErr := r.writer.WriteMessages(ctx, out...)
	var writeErrs kafka.WriteErrors
	for i, msg := range sources {
		switch {
		case writeErr == nil:
		case errors.As(writeErr, &writeErrs) && i < len(writeErrs) && writeErrs[i] == nil:
		default:
			continue
		}
		if err := trackers[partitionKey{topic: msg.Topic, partition: msg.Partition}].Done(msg.Offset); err != nil {
			return fmt.Errorf("track offset: %w", err)
		}
	}

	commits := committed(trackers)
	if len(commits) > 0 {
		if err := r.reader.CommitMessages(ctx, commits...); err != nil {
			r.log.WithError(err).Warn("commit offsets failed")
			if writeErr == nil {
				return fmt.Errorf("commit messages: %w", err)
			}
		}
	}

	r.log.WithFields(logrus.Fields{
		"messages":   len(batch),
		"partitions": len(trackers),
		"committed":  len(commits),
	}).Debug("batch relayed")

	if writeErr != nil {
		return fmt.Errorf("write messages: %w", writeErr)
	}
	return nil
}

// drain pops every batch index in priority order. Indexes sharing a priority
// keep their fetch order so per-partition order survives for equal priorities.
func drain(pending *queue.Queue[int]) []int {
	order := make([]int, 0, pending.Len())
	run := 0
	last := 0
	for {
		_, priority, ok := pending.Peek()
		if !ok || (len(order) > run && priority != last) {
			sort.Ints(order[run:])
			run = len(order)
		}
		if !ok {
			return order
		}
		i, _ := pending.Pop()
		order = append(order, i)
		last = priority
	}
}

func committed(trackers map[partitionKey]*tracker) []kafka.Message {
	commits := make([]kafka.Message, 0, len(trackers))
	for _, t := range trackers {
		if msg, ok := t.Committed(); ok {
			commits = append(commits, msg)
		}
	}
	sort.Slice(commits, func(i, j int) bool {
		if commits[i].Topic != commits[j].Topic {
			return commits[i].Topic < commits[j].Topic
		}
		return commits[i].Partition < commits[j].Partition
	})
	return commits
}
