package relay

import (
	"strconv"

	"github.com/segmentio/kafka-go"
)

const HeaderPriority = "X-Priority"

type headerMap map[string][]byte

func headersToMap(headers []kafka.Header) headerMap {
	m := make(headerMap, len(headers))
	for _, header := range headers {
		m[header.Key] = header.Value
	}
	return m
}

func (m headerMap) GetPriority() (int, bool) {
	value, ok := m[HeaderPriority]
	if !ok {
		return 0, false
	}
	priority, err := strconv.Atoi(string(value))
	if err != nil {
		return 0, false
	}
	return priority, true
}

// WithPriority returns message with its priority header set, replacing any previous one.
func WithPriority(message kafka.Message, priority int) kafka.Message {
	value := []byte(strconv.Itoa(priority))
	headers := make([]kafka.Header, 0, len(message.Headers)+1)
	for _, header := range message.Headers {
		if header.Key != HeaderPriority {
			headers = append(headers, header)
		}
	}
	message.Headers = append(headers, kafka.Header{
		Key:   HeaderPriority,
		Value: value,
	})
	return message
}

func priorityOf(message kafka.Message, fallback int) int {
	if priority, ok := headersToMap(message.Headers).GetPriority(); ok {
		return priority
	}
	return fallback
}
