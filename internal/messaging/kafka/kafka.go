package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/messaging"

	kafkaGo "github.com/segmentio/kafka-go"
)

type Publisher struct {
	writer *kafkaGo.Writer
	prefix string
}

// NewPublisher creates a Kafka publisher. Topics are "<prefix>.<topic>".
func NewPublisher(brokers []string, prefix string) *Publisher {
	return &Publisher{
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(brokers...),
			Balancer:               &kafkaGo.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
		prefix: prefix,
	}
}

var _ messaging.Publisher = (*Publisher)(nil)

func (k *Publisher) topic(t string) string {
	if k.prefix == "" {
		return t
	}
	return k.prefix + "." + t
}

func (k *Publisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return k.writer.WriteMessages(ctx, kafkaGo.Message{
		Topic: k.topic(topic),
		Key:   []byte(key),
		Value: payload,
	})
}

func (k *Publisher) Close() error {
	return k.writer.Close()
}
