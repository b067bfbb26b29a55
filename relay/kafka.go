package relay

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// NewKafka builds a relay reading from a consumer group and writing to the brokers.
func NewKafka(options Options) (*Relay, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        options.Brokers,
		GroupID:        options.Group,
		Topic:          options.InputTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		SessionTimeout: options.SessionTimeout,
	})

	writer := &kafka.Writer{
		Addr:         kafka.TCP(options.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}

	r, err := New(reader, writer, options)
	if err != nil {
		_ = reader.Close()
		return nil, err
	}
	return r, nil
}

// CreateTopics asks the brokers, one after another, to create the topics.
func CreateTopics(ctx context.Context, brokers, topics []string) error {
	topicsConfigs := make([]kafka.TopicConfig, len(topics))
	for i, topic := range topics {
		topicsConfigs[i] = kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}

	for _, broker := range brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			return err
		}

		err = conn.CreateTopics(topicsConfigs...)
		_ = conn.Close()
		if err != nil {
			logrus.WithError(err).WithField("broker", broker).Warn("create topics failed")
		} else {
			logrus.WithField("topics", topics).Info("create topics succeeded")
			break
		}
	}

	return nil
}
