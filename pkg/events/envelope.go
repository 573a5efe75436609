package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is the wire form of a domain event: the metadata carried by
// BaseEvent plus the event itself as the payload.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a domain event for transport.
func NewEnvelope(event DomainEvent) (Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", event.EventType(), err)
	}
	return Envelope{
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
	}, nil
}

// Marshal encodes a domain event as a JSON envelope.
func Marshal(event DomainEvent) ([]byte, error) {
	env, err := NewEnvelope(event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}
