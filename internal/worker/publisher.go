package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sellsync/internal/worker/processors"

	"github.com/segmentio/kafka-go"
)

// Publisher enqueues sync jobs for the worker.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// PublishSync keys the message by account so jobs for one account stay ordered.
func (p *Publisher) PublishSync(ctx context.Context, event processors.Event) error {
	if event.Type == "" {
		event.Type = processors.EventSyncRequested
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode sync event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AccountID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish sync event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
