package relay

import (
	"errors"
	"fmt"
	"time"

	"github.com/iowanobos/kafka-priority/queue"
)

var ErrInvalidOptions = errors.New("relay: invalid options")

type Options struct {
	Brokers         []string
	Group           string
	InputTopic      string
	OutputTopic     string
	BatchSize       int
	BatchWindow     time.Duration
	QueueCapacity   int
	DefaultPriority int
	SessionTimeout  time.Duration
}

func (o *Options) setDefaults() {
	if o.QueueCapacity == 0 {
		o.QueueCapacity = queue.DefaultCapacity
	}
	if o.BatchSize == 0 {
		o.BatchSize = o.QueueCapacity
	}
	if o.BatchWindow == 0 {
		o.BatchWindow = time.Second
	}
}

func (o Options) validate() error {
	switch {
	case o.OutputTopic == "":
		return fmt.Errorf("%w: output topic is required", ErrInvalidOptions)
	case o.BatchSize < 0:
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidOptions, o.BatchSize)
	case o.BatchWindow < 0:
		return fmt.Errorf("%w: batch window must be positive, got %s", ErrInvalidOptions, o.BatchWindow)
	case o.QueueCapacity < 0:
		return fmt.Errorf("%w: queue capacity must be positive, got %d", ErrInvalidOptions, o.QueueCapacity)
	}
	return nil
}
