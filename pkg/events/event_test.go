package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewBaseEvent(t *testing.T) {
	aggregateID := uuid.New()
	payload := []byte(`{"k":"v"}`)

	before := time.Now().UTC()
	event := NewBaseEvent("remittance.created", aggregateID, "Remittance", payload)
	after := time.Now().UTC()

	if event.EventID() == uuid.Nil {
		t.Error("expected non-nil event ID")
	}

	if event.EventType() != "remittance.created" {
		t.Errorf("expected event type %q, got %q", "remittance.created", event.EventType())
	}

	if event.AggregateID() != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, event.AggregateID())
	}

	if event.AggregateType() != "Remittance" {
		t.Errorf("expected aggregate type %q, got %q", "Remittance", event.AggregateType())
	}

	if event.OccurredAt().Before(before) || event.OccurredAt().After(after) {
		t.Errorf("expected occurredAt between %v and %v, got %v", before, after, event.OccurredAt())
	}

	if string(event.Payload()) != string(payload) {
		t.Errorf("expected payload %s, got %s", payload, event.Payload())
	}
}

func TestNewOutboxEntry(t *testing.T) {
	aggregateID := uuid.New()
	event := NewBaseEvent("remittance.completed", aggregateID, "Remittance", []byte(`{}`))

	entry := NewOutboxEntry(event)

	if entry.ID != event.EventID() {
		t.Errorf("expected entry ID %v, got %v", event.EventID(), entry.ID)
	}
	if entry.AggregateID != aggregateID {
		t.Errorf("expected aggregate ID %v, got %v", aggregateID, entry.AggregateID)
	}
	if entry.EventType != "remittance.completed" {
		t.Errorf("unexpected event type %q", entry.EventType)
	}
	if entry.PublishedAt != nil {
		t.Error("expected nil PublishedAt on new entry")
	}
}
