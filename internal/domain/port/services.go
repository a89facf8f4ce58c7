package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zephyrpay/remit/pkg/events"
)

// RateQuote is the FX rate plus fee for a currency pair.
type RateQuote struct {
	Rate decimal.Decimal
	// Fee in source-currency minor units.
	Fee int64
}

// QuoteService looks up the FX rate and fee for a transfer. Connector may be
// empty, in which case the provider's default pricing applies.
type QuoteService interface {
	Rate(ctx context.Context, sourceCurrency, destinationCurrency string, amount int64, connector string) (RateQuote, error)
}

// TaskKind identifies a deferred continuation.
type TaskKind string

const (
	// TaskPayRemittance funds a freshly created remittance (auto_process).
	TaskPayRemittance TaskKind = "pay_remittance"
	// TaskInitiatePayout disburses after funding succeeded.
	TaskInitiatePayout TaskKind = "initiate_payout"
)

// Task is a fire-and-forget continuation of a remittance operation. The
// remittance id is the only payload; the status guards make re-delivery
// harmless.
type Task struct {
	Kind         TaskKind
	RemittanceID uuid.UUID
}

// TaskQueue accepts continuations for asynchronous execution. Enqueue must
// not block on task execution.
type TaskQueue interface {
	Enqueue(ctx context.Context, task Task) error
}

// WebhookKind classifies which leg a webhook refers to.
type WebhookKind string

const (
	WebhookKindPayment WebhookKind = "payment"
	WebhookKindPayout  WebhookKind = "payout"
)

// WebhookEvent is the normalized form of an inbound connector notification.
type WebhookEvent struct {
	// ReferenceID is the connector-known leg id (external payment or
	// payout id), never the remittance id.
	ReferenceID        string
	Kind               WebhookKind
	Status             string
	ConnectorReference string
}

// WebhookTranslator parses a connector's raw webhook body into the
// normalized event. Unknown connectors or unparseable payloads are errors.
type WebhookTranslator interface {
	Translate(connector string, body []byte) (WebhookEvent, error)
}

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, evts ...events.DomainEvent) error
}
