package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

// RemittancePayment is the 1:1 funding-leg record of a remittance. It is
// created empty alongside the remittance and updated in place as the payment
// gateway reports outcomes.
type RemittancePayment struct {
	remittanceID           uuid.UUID
	externalPaymentID      string
	connectorTransactionID string
	status                 valueobject.PaymentStatus
	authType               string
	createdAt              time.Time
	updatedAt              time.Time
}

// NewRemittancePayment creates the empty funding-leg record.
func NewRemittancePayment(remittanceID uuid.UUID, now time.Time) RemittancePayment {
	return RemittancePayment{
		remittanceID: remittanceID,
		createdAt:    now,
		updatedAt:    now,
	}
}

// ReconstructRemittancePayment rebuilds the record from persistence.
func ReconstructRemittancePayment(
	remittanceID uuid.UUID,
	externalPaymentID, connectorTransactionID string,
	status valueobject.PaymentStatus,
	authType string,
	createdAt, updatedAt time.Time,
) RemittancePayment {
	return RemittancePayment{
		remittanceID:           remittanceID,
		externalPaymentID:      externalPaymentID,
		connectorTransactionID: connectorTransactionID,
		status:                 status,
		authType:               authType,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}
}

// RecordOutcome applies a gateway-reported outcome to the funding leg. The
// external payment id is immutable once set; a conflicting id from a later
// report is rejected.
func (p RemittancePayment) RecordOutcome(
	externalPaymentID, connectorTransactionID string,
	status valueobject.PaymentStatus,
	now time.Time,
) (RemittancePayment, error) {
	if p.externalPaymentID != "" && externalPaymentID != "" && p.externalPaymentID != externalPaymentID {
		return RemittancePayment{}, apperr.Newf(apperr.KindConcurrentModification,
			"payment leg already bound to %s", p.externalPaymentID)
	}

	next := p
	if externalPaymentID != "" {
		next.externalPaymentID = externalPaymentID
	}
	if connectorTransactionID != "" {
		next.connectorTransactionID = connectorTransactionID
	}
	next.status = status
	next.updatedAt = now
	return next, nil
}

// WithAuthType sets the authentication type chosen for the funding leg.
func (p RemittancePayment) WithAuthType(authType string, now time.Time) RemittancePayment {
	next := p
	next.authType = authType
	next.updatedAt = now
	return next
}

func (p RemittancePayment) RemittanceID() uuid.UUID           { return p.remittanceID }
func (p RemittancePayment) ExternalPaymentID() string         { return p.externalPaymentID }
func (p RemittancePayment) ConnectorTransactionID() string    { return p.connectorTransactionID }
func (p RemittancePayment) Status() valueobject.PaymentStatus { return p.status }
func (p RemittancePayment) AuthType() string                  { return p.authType }
func (p RemittancePayment) CreatedAt() time.Time              { return p.createdAt }
func (p RemittancePayment) UpdatedAt() time.Time              { return p.updatedAt }

// RemittancePayout is the 1:1 disbursement-leg record, symmetric to
// RemittancePayment.
type RemittancePayout struct {
	remittanceID           uuid.UUID
	externalPayoutID       string
	connectorTransactionID string
	status                 valueobject.PayoutStatus
	methodType             string
	createdAt              time.Time
	updatedAt              time.Time
}

// NewRemittancePayout creates the empty disbursement-leg record.
func NewRemittancePayout(remittanceID uuid.UUID, now time.Time) RemittancePayout {
	return RemittancePayout{
		remittanceID: remittanceID,
		createdAt:    now,
		updatedAt:    now,
	}
}

// ReconstructRemittancePayout rebuilds the record from persistence.
func ReconstructRemittancePayout(
	remittanceID uuid.UUID,
	externalPayoutID, connectorTransactionID string,
	status valueobject.PayoutStatus,
	methodType string,
	createdAt, updatedAt time.Time,
) RemittancePayout {
	return RemittancePayout{
		remittanceID:           remittanceID,
		externalPayoutID:       externalPayoutID,
		connectorTransactionID: connectorTransactionID,
		status:                 status,
		methodType:             methodType,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}
}

// RecordOutcome applies a gateway-reported outcome to the disbursement leg.
// The external payout id is immutable once set.
func (p RemittancePayout) RecordOutcome(
	externalPayoutID, connectorTransactionID string,
	status valueobject.PayoutStatus,
	now time.Time,
) (RemittancePayout, error) {
	if p.externalPayoutID != "" && externalPayoutID != "" && p.externalPayoutID != externalPayoutID {
		return RemittancePayout{}, apperr.Newf(apperr.KindConcurrentModification,
			"payout leg already bound to %s", p.externalPayoutID)
	}

	next := p
	if externalPayoutID != "" {
		next.externalPayoutID = externalPayoutID
	}
	if connectorTransactionID != "" {
		next.connectorTransactionID = connectorTransactionID
	}
	next.status = status
	next.updatedAt = now
	return next, nil
}

// WithMethodType labels the leg with the payout method used.
func (p RemittancePayout) WithMethodType(methodType string, now time.Time) RemittancePayout {
	next := p
	next.methodType = methodType
	next.updatedAt = now
	return next
}

func (p RemittancePayout) RemittanceID() uuid.UUID          { return p.remittanceID }
func (p RemittancePayout) ExternalPayoutID() string         { return p.externalPayoutID }
func (p RemittancePayout) ConnectorTransactionID() string   { return p.connectorTransactionID }
func (p RemittancePayout) Status() valueobject.PayoutStatus { return p.status }
func (p RemittancePayout) MethodType() string               { return p.methodType }
func (p RemittancePayout) CreatedAt() time.Time             { return p.createdAt }
func (p RemittancePayout) UpdatedAt() time.Time             { return p.updatedAt }
