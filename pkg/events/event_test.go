package events

import (
	"encoding/json"
	"testing"
	"time"
)

type amountRecorded struct {
	BaseEvent
	Amount string `json:"amount"`
}

func TestNewBaseEvent(t *testing.T) {
	aggregateID := "agg-123"
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	event := NewBaseEvent("ApplicationEvaluated", aggregateID, "LoanApplication", at)

	if event.EventID() == "" {
		t.Error("expected non-empty event ID")
	}
	if event.EventType() != "ApplicationEvaluated" {
		t.Errorf("expected event type %q, got %q", "ApplicationEvaluated", event.EventType())
	}
	if event.AggregateID() != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, event.AggregateID())
	}
	if event.AggregateType() != "LoanApplication" {
		t.Errorf("expected aggregate type %q, got %q", "LoanApplication", event.AggregateType())
	}
	if !event.OccurredAt().Equal(at) || event.OccurredAt().Location() != time.UTC {
		t.Errorf("expected occurredAt %v in UTC, got %v", at, event.OccurredAt())
	}
}

func TestNewBaseEventDefaultsOccurredAt(t *testing.T) {
	before := time.Now().UTC()
	event := NewBaseEvent("X", "agg", "Aggregate", time.Time{})
	after := time.Now().UTC()

	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurredAt between %v and %v, got %v", before, after, event.OccurredAt())
	}
}

func TestBaseEventImplementsDomainEvent(t *testing.T) {
	var _ DomainEvent = BaseEvent{}
}

func TestMarshal(t *testing.T) {
	event := amountRecorded{
		BaseEvent: NewBaseEvent("AmountRecorded", "agg-789", "Account", time.Now()),
		Amount:    "10.00",
	}

	data, err := Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("expected valid JSON envelope, got error: %v", err)
	}
	if env.EventID != event.EventID() {
		t.Errorf("expected event ID %q, got %q", event.EventID(), env.EventID)
	}
	if env.EventType != "AmountRecorded" {
		t.Errorf("expected event type %q, got %q", "AmountRecorded", env.EventType)
	}
	if env.AggregateID != "agg-789" {
		t.Errorf("expected aggregate ID %q, got %q", "agg-789", env.AggregateID)
	}

	var payload map[string]any
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload["amount"] != "10.00" {
		t.Errorf("expected amount in payload, got %v", payload)
	}
	if len(payload) != 1 {
		t.Errorf("expected only event fields in payload, got %v", payload)
	}
}
