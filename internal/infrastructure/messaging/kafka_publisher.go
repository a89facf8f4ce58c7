package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/pkg/events"
	pkgkafka "github.com/zephyrpay/remit/pkg/kafka"
)

// Compile-time interface check.
var _ port.EventPublisher = (*KafkaEventPublisher)(nil)

// KafkaEventPublisher implements the EventPublisher port using Kafka. The
// aggregate id keys each message so that events of one remittance stay on one
// partition, in order.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	logger   *slog.Logger
}

func NewKafkaEventPublisher(producer *pkgkafka.Producer, logger *slog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, logger: logger}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, topic string, evts ...events.DomainEvent) error {
	messages := make([]pkgkafka.Message, 0, len(evts))
	for _, evt := range evts {
		p.logger.DebugContext(ctx, "publishing event to Kafka",
			slog.String("topic", topic),
			slog.String("event_type", evt.EventType()),
			slog.String("aggregate_id", evt.AggregateID().String()),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(evt.AggregateID().String()),
			Value: evt.Payload(),
			Headers: map[string]string{
				"event_id":   evt.EventID().String(),
				"event_type": evt.EventType(),
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", topic, err)
	}
	return nil
}
