package events

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEntry is a domain event in its at-rest form. Rows are written in
// the same transaction as the state change they describe; PublishedAt stays
// nil until a relay hands the row to the broker.
type OutboxEntry struct {
	ID            uuid.UUID
	AggregateID   uuid.UUID
	AggregateType string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// NewOutboxEntry converts a DomainEvent into its outbox row.
func NewOutboxEntry(event DomainEvent) OutboxEntry {
	return OutboxEntry{
		ID:            event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		EventType:     event.EventType(),
		Payload:       event.Payload(),
		CreatedAt:     event.OccurredAt(),
	}
}
