package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/zephyrpay/remit/internal/domain/port"
)

// Compile-time interface check.
var _ port.WebhookTranslator = (*WebhookTranslator)(nil)

// WebhookTranslator normalizes connector webhook payloads. Each connector
// ships its own envelope; the translator maps both the shape and the status
// vocabulary onto the normalized event.
type WebhookTranslator struct{}

func NewWebhookTranslator() *WebhookTranslator {
	return &WebhookTranslator{}
}

func (t *WebhookTranslator) Translate(connector string, body []byte) (port.WebhookEvent, error) {
	switch connector {
	case "stripe":
		return translateStripe(body)
	case "wise":
		return translateWise(body)
	default:
		return port.WebhookEvent{}, fmt.Errorf("no webhook translator for connector %q", connector)
	}
}

// stripeEnvelope is the subset of a Stripe event we consume.
type stripeEnvelope struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID           string `json:"id"`
			Status       string `json:"status"`
			LatestCharge string `json:"latest_charge"`
		} `json:"object"`
	} `json:"data"`
}

var stripePaymentStatuses = map[string]string{
	"succeeded":               "succeeded",
	"processing":              "pending",
	"requires_action":         "requires_action",
	"requires_payment_method": "failed",
	"canceled":                "cancelled",
}

func translateStripe(body []byte) (port.WebhookEvent, error) {
	var env stripeEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return port.WebhookEvent{}, fmt.Errorf("parse stripe webhook: %w", err)
	}
	if env.Data.Object.ID == "" {
		return port.WebhookEvent{}, fmt.Errorf("stripe webhook carries no object id")
	}

	status, ok := stripePaymentStatuses[env.Data.Object.Status]
	if !ok {
		// Pass through unmapped statuses; the use case rejects them with
		// the original value in the error.
		status = env.Data.Object.Status
	}

	return port.WebhookEvent{
		ReferenceID:        env.Data.Object.ID,
		Kind:               port.WebhookKindPayment,
		Status:             status,
		ConnectorReference: env.Data.Object.LatestCharge,
	}, nil
}

// wiseEnvelope is the subset of a Wise transfer-state webhook we consume.
type wiseEnvelope struct {
	Data struct {
		Resource struct {
			ID string `json:"id"`
		} `json:"resource"`
		CurrentState string `json:"current_state"`
	} `json:"data"`
	EventType string `json:"event_type"`
}

var wisePayoutStatuses = map[string]string{
	"outgoing_payment_sent": "success",
	"funds_refunded":        "failed",
	"cancelled":             "cancelled",
	"processing":            "pending",
}

func translateWise(body []byte) (port.WebhookEvent, error) {
	var env wiseEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return port.WebhookEvent{}, fmt.Errorf("parse wise webhook: %w", err)
	}
	if env.Data.Resource.ID == "" {
		return port.WebhookEvent{}, fmt.Errorf("wise webhook carries no resource id")
	}

	status, ok := wisePayoutStatuses[env.Data.CurrentState]
	if !ok {
		status = env.Data.CurrentState
	}

	return port.WebhookEvent{
		ReferenceID:        env.Data.Resource.ID,
		Kind:               port.WebhookKindPayout,
		Status:             status,
		ConnectorReference: env.EventType,
	}, nil
}
