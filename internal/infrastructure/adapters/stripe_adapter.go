package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

// Compile-time interface check.
var _ port.PaymentGateway = (*StripeAdapter)(nil)

// StripeAdapter is a stub payment gateway that simulates Stripe's funding API.
// In production this would call the PaymentIntents and Refunds endpoints.
// Tokens prefixed "tok_decline" are declined, "tok_3ds" require customer
// action, everything else succeeds.
type StripeAdapter struct {
	logger        *slog.Logger
	simulateDelay time.Duration
}

func NewStripeAdapter(logger *slog.Logger) *StripeAdapter {
	return &StripeAdapter{
		logger:        logger,
		simulateDelay: 50 * time.Millisecond,
	}
}

func (a *StripeAdapter) Fund(ctx context.Context, req port.FundRequest) (port.FundResult, error) {
	a.logger.Info("stripe: creating payment",
		"remittance_id", req.RemittanceID,
		"amount", req.Amount,
		"currency", req.Currency,
		"funding_kind", req.FundingMethod.Kind,
	)

	select {
	case <-time.After(a.simulateDelay):
	case <-ctx.Done():
		return port.FundResult{}, ctx.Err()
	}

	externalID := "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
	txnID := "txn_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]

	switch {
	case strings.HasPrefix(req.FundingMethod.Token, "tok_decline"):
		return port.FundResult{
			ExternalPaymentID:      externalID,
			Status:                 valueobject.PaymentStatusFailed,
			ConnectorTransactionID: txnID,
			DeclineReason:          "card_declined",
		}, nil
	case strings.HasPrefix(req.FundingMethod.Token, "tok_3ds"):
		return port.FundResult{
			ExternalPaymentID:      externalID,
			Status:                 valueobject.PaymentStatusRequiresAction,
			ConnectorTransactionID: txnID,
		}, nil
	default:
		return port.FundResult{
			ExternalPaymentID:      externalID,
			Status:                 valueobject.PaymentStatusSucceeded,
			ConnectorTransactionID: txnID,
		}, nil
	}
}

func (a *StripeAdapter) Refund(ctx context.Context, externalPaymentID string, amount int64, reason string) (port.RefundResult, error) {
	a.logger.Info("stripe: requesting refund",
		"payment_id", externalPaymentID,
		"amount", amount,
		"reason", reason,
	)

	select {
	case <-time.After(a.simulateDelay):
	case <-ctx.Done():
		return port.RefundResult{}, ctx.Err()
	}

	if externalPaymentID == "" {
		return port.RefundResult{}, fmt.Errorf("stripe: refund requires a payment id")
	}
	return port.RefundResult{Status: valueobject.PaymentStatusSucceeded}, nil
}

func (a *StripeAdapter) QueryPayment(_ context.Context, externalPaymentID string) (valueobject.PaymentStatus, error) {
	a.logger.Debug("stripe: querying payment", "payment_id", externalPaymentID)
	// Stub: a real integration would fetch the PaymentIntent.
	return valueobject.PaymentStatusPending, nil
}
