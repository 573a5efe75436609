package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate. Envelope metadata comes
// from these methods; the payload is the event's own exported fields.
type DomainEvent interface {
	EventID() string
	EventType() string
	AggregateID() string
	AggregateType() string
	OccurredAt() time.Time
}

// BaseEvent provides a default implementation of DomainEvent. Its fields are
// unexported so that JSON encoding of an embedding event only carries the
// event's own payload fields.
type BaseEvent struct {
	id            string
	eventType     string
	aggregateID   string
	aggregateType string
	occurredAt    time.Time
}

// NewBaseEvent stamps a fresh event id. A zero occurredAt means now; the
// time is stored in UTC.
func NewBaseEvent(eventType, aggregateID, aggregateType string, occurredAt time.Time) BaseEvent {
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	return BaseEvent{
		id:            uuid.New().String(),
		eventType:     eventType,
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		occurredAt:    occurredAt.UTC(),
	}
}

func (e BaseEvent) EventID() string       { return e.id }
func (e BaseEvent) EventType() string     { return e.eventType }
func (e BaseEvent) AggregateID() string   { return e.aggregateID }
func (e BaseEvent) AggregateType() string { return e.aggregateType }
func (e BaseEvent) OccurredAt() time.Time { return e.occurredAt }
