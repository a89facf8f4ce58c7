package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is what the aggregates emit and the outbox persists. Payload
// is the already-serialized JSON body, so the transport layer never needs
// to know the concrete event type.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	OccurredAt() time.Time
	Payload() []byte
}

// BaseEvent carries the common event envelope. Concrete events embed it and
// add nothing but their payload construction.
type BaseEvent struct {
	id            uuid.UUID
	eventType     string
	aggregateID   uuid.UUID
	aggregateType string
	occurredAt    time.Time
	payload       []byte
}

// NewBaseEvent stamps the envelope with a fresh id and the current UTC time.
func NewBaseEvent(eventType string, aggregateID uuid.UUID, aggregateType string, payload []byte) BaseEvent {
	return BaseEvent{
		id:            uuid.New(),
		eventType:     eventType,
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
		occurredAt:    time.Now().UTC(),
		payload:       payload,
	}
}

func (e BaseEvent) EventID() uuid.UUID     { return e.id }
func (e BaseEvent) EventType() string      { return e.eventType }
func (e BaseEvent) AggregateID() uuid.UUID { return e.aggregateID }

// AggregateType names the aggregate that produced the event.
func (e BaseEvent) AggregateType() string { return e.aggregateType }

func (e BaseEvent) OccurredAt() time.Time { return e.occurredAt }
func (e BaseEvent) Payload() []byte       { return e.payload }
