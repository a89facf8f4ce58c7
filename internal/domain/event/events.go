package event

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/zephyrpay/remit/pkg/events"
)

const AggregateTypeRemittance = "Remittance"

// RemittanceCreated is emitted when a new remittance is accepted.
type RemittanceCreated struct {
	events.BaseEvent
	RemittanceID        uuid.UUID `json:"remittance_id"`
	MerchantID          string    `json:"merchant_id"`
	Amount              int64     `json:"amount"`
	SourceCurrency      string    `json:"source_currency"`
	DestinationCurrency string    `json:"destination_currency"`
	Connector           string    `json:"connector"`
}

func NewRemittanceCreated(remittanceID uuid.UUID, merchantID string, amount int64, sourceCurrency, destinationCurrency, connector string) RemittanceCreated {
	payload, _ := json.Marshal(struct {
		RemittanceID        uuid.UUID `json:"remittance_id"`
		MerchantID          string    `json:"merchant_id"`
		Amount              int64     `json:"amount"`
		SourceCurrency      string    `json:"source_currency"`
		DestinationCurrency string    `json:"destination_currency"`
		Connector           string    `json:"connector"`
	}{remittanceID, merchantID, amount, sourceCurrency, destinationCurrency, connector})

	return RemittanceCreated{
		BaseEvent:           events.NewBaseEvent("remittance.created", remittanceID, AggregateTypeRemittance, payload),
		RemittanceID:        remittanceID,
		MerchantID:          merchantID,
		Amount:              amount,
		SourceCurrency:      sourceCurrency,
		DestinationCurrency: destinationCurrency,
		Connector:           connector,
	}
}

// RemittanceStatusChanged is emitted on every lifecycle transition.
type RemittanceStatusChanged struct {
	events.BaseEvent
	RemittanceID   uuid.UUID `json:"remittance_id"`
	PreviousStatus string    `json:"previous_status"`
	CurrentStatus  string    `json:"current_status"`
	FailureReason  string    `json:"failure_reason,omitempty"`
}

func NewRemittanceStatusChanged(remittanceID uuid.UUID, previousStatus, currentStatus, failureReason string) RemittanceStatusChanged {
	payload, _ := json.Marshal(struct {
		RemittanceID   uuid.UUID `json:"remittance_id"`
		PreviousStatus string    `json:"previous_status"`
		CurrentStatus  string    `json:"current_status"`
		FailureReason  string    `json:"failure_reason,omitempty"`
	}{remittanceID, previousStatus, currentStatus, failureReason})

	return RemittanceStatusChanged{
		BaseEvent:      events.NewBaseEvent("remittance.status_changed", remittanceID, AggregateTypeRemittance, payload),
		RemittanceID:   remittanceID,
		PreviousStatus: previousStatus,
		CurrentStatus:  currentStatus,
		FailureReason:  failureReason,
	}
}

// RemittanceRefundRequested is emitted when cancellation triggers a
// compensating refund of the funding leg.
type RemittanceRefundRequested struct {
	events.BaseEvent
	RemittanceID      uuid.UUID `json:"remittance_id"`
	ExternalPaymentID string    `json:"external_payment_id"`
	Amount            int64     `json:"amount"`
}

func NewRemittanceRefundRequested(remittanceID uuid.UUID, externalPaymentID string, amount int64) RemittanceRefundRequested {
	payload, _ := json.Marshal(struct {
		RemittanceID      uuid.UUID `json:"remittance_id"`
		ExternalPaymentID string    `json:"external_payment_id"`
		Amount            int64     `json:"amount"`
	}{remittanceID, externalPaymentID, amount})

	return RemittanceRefundRequested{
		BaseEvent:         events.NewBaseEvent("remittance.refund_requested", remittanceID, AggregateTypeRemittance, payload),
		RemittanceID:      remittanceID,
		ExternalPaymentID: externalPaymentID,
		Amount:            amount,
	}
}

// RemittanceManuallyUpdated is emitted when an operator overrides the state
// machine. Kept separate from RemittanceStatusChanged so audits can filter it.
type RemittanceManuallyUpdated struct {
	events.BaseEvent
	RemittanceID   uuid.UUID `json:"remittance_id"`
	PreviousStatus string    `json:"previous_status"`
	CurrentStatus  string    `json:"current_status"`
	Operator       string    `json:"operator,omitempty"`
}

func NewRemittanceManuallyUpdated(remittanceID uuid.UUID, previousStatus, currentStatus, operator string) RemittanceManuallyUpdated {
	payload, _ := json.Marshal(struct {
		RemittanceID   uuid.UUID `json:"remittance_id"`
		PreviousStatus string    `json:"previous_status"`
		CurrentStatus  string    `json:"current_status"`
		Operator       string    `json:"operator,omitempty"`
	}{remittanceID, previousStatus, currentStatus, operator})

	return RemittanceManuallyUpdated{
		BaseEvent:      events.NewBaseEvent("remittance.manually_updated", remittanceID, AggregateTypeRemittance, payload),
		RemittanceID:   remittanceID,
		PreviousStatus: previousStatus,
		CurrentStatus:  currentStatus,
		Operator:       operator,
	}
}
