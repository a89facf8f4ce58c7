package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

// FundRequest is the connector-agnostic request to collect funds from the
// sender.
type FundRequest struct {
	RemittanceID  uuid.UUID
	Amount        int64
	Currency      string
	FundingMethod valueobject.FundingMethod
	ReturnURL     string
}

// FundResult is the normalized outcome of a funding attempt.
type FundResult struct {
	ExternalPaymentID      string
	Status                 valueobject.PaymentStatus
	ConnectorTransactionID string
	DeclineReason          string
}

// RefundResult is the normalized outcome of a compensating refund.
type RefundResult struct {
	Status valueobject.PaymentStatus
}

// PaymentGateway abstracts the external processor executing the funding leg.
// Implementations map transport failures to errors; a returned error means
// the leg outcome is unknown, never that it failed.
type PaymentGateway interface {
	Fund(ctx context.Context, req FundRequest) (FundResult, error)
	Refund(ctx context.Context, externalPaymentID string, amount int64, reason string) (RefundResult, error)
	QueryPayment(ctx context.Context, externalPaymentID string) (valueobject.PaymentStatus, error)
}

// DisburseRequest is the connector-agnostic request to pay out to the
// beneficiary.
type DisburseRequest struct {
	RemittanceID uuid.UUID
	Amount       int64
	Currency     string
	PayoutMethod valueobject.PayoutMethod
	Beneficiary  valueobject.BeneficiaryDetails
}

// DisburseResult is the normalized outcome of a disbursement attempt.
type DisburseResult struct {
	ExternalPayoutID       string
	Status                 valueobject.PayoutStatus
	ConnectorTransactionID string
	DeclineReason          string
}

// PayoutGateway abstracts the external processor executing the disbursement
// leg.
type PayoutGateway interface {
	Disburse(ctx context.Context, req DisburseRequest) (DisburseResult, error)
	QueryPayout(ctx context.Context, externalPayoutID string) (valueobject.PayoutStatus, error)
}

// GatewayRegistry resolves a connector name to its gateway pair.
type GatewayRegistry interface {
	PaymentGateway(connector string) (PaymentGateway, error)
	PayoutGateway(connector string) (PayoutGateway, error)
}
