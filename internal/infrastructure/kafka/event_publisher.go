// Package kafka publishes loan application events to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/loan-decision-service/internal/domain/event"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
	"github.com/bibbank/loan-decision-service/pkg/events"
	pkgkafka "github.com/bibbank/loan-decision-service/pkg/kafka"
)

// MessageProducer is the part of *pkgkafka.Producer the publisher uses.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// EventPublisher implements port.EventPublisher by writing JSON envelopes to
// Kafka, keyed by application id so one application's events stay ordered.
type EventPublisher struct {
	producer MessageProducer
	topic    string
	logger   *slog.Logger
}

var _ port.EventPublisher = (*EventPublisher)(nil)

// NewEventPublisher creates a publisher targeting the given producer and topic.
func NewEventPublisher(producer MessageProducer, topic string, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish serialises and sends domain events in one batch.
func (p *EventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, 0, len(evts))
	for _, evt := range evts {
		payload, err := events.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		p.logger.DebugContext(ctx, "publishing domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"topic", p.topic,
			"payload_size", len(payload),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type":   evt.EventType(),
				"event_id":     evt.EventID(),
				"content-type": "application/json",
			},
		})
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}
	return nil
}
