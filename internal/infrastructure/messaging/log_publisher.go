// Package messaging holds the event publisher used when no broker is
// configured.
package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/loan-decision-service/internal/domain/event"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
	"github.com/bibbank/loan-decision-service/pkg/events"
)

// LogPublisher implements port.EventPublisher by logging each event.
type LogPublisher struct {
	logger *slog.Logger
}

var _ port.EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the events at info level. It fails only when an event cannot
// be encoded.
func (p *LogPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	for _, evt := range evts {
		payload, err := events.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}
		p.logger.InfoContext(ctx, "domain event",
			"event_type", evt.EventType(),
			"event_id", evt.EventID(),
			"aggregate_id", evt.AggregateID(),
			"payload_size", len(payload),
		)
	}
	return nil
}
