package adapters

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

// Compile-time interface check.
var _ port.PayoutGateway = (*WiseAdapter)(nil)

// WiseAdapter is a stub payout gateway that simulates Wise's transfer API.
// In production this would create a quote, a recipient and a transfer.
// Bank accounts ending "0000" are rejected, everything else succeeds.
type WiseAdapter struct {
	logger        *slog.Logger
	simulateDelay time.Duration
}

func NewWiseAdapter(logger *slog.Logger) *WiseAdapter {
	return &WiseAdapter{
		logger:        logger,
		simulateDelay: 50 * time.Millisecond,
	}
}

func (a *WiseAdapter) Disburse(ctx context.Context, req port.DisburseRequest) (port.DisburseResult, error) {
	a.logger.Info("wise: creating transfer",
		"remittance_id", req.RemittanceID,
		"amount", req.Amount,
		"currency", req.Currency,
		"method", string(req.PayoutMethod.Kind()),
	)

	select {
	case <-time.After(a.simulateDelay):
	case <-ctx.Done():
		return port.DisburseResult{}, ctx.Err()
	}

	externalID := "po_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
	txnID := "trf_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]

	if bank := req.PayoutMethod.Bank(); bank != nil && strings.HasSuffix(bank.AccountNumber, "0000") {
		return port.DisburseResult{
			ExternalPayoutID:       externalID,
			Status:                 valueobject.PayoutStatusFailed,
			ConnectorTransactionID: txnID,
			DeclineReason:          "account_closed",
		}, nil
	}

	return port.DisburseResult{
		ExternalPayoutID:       externalID,
		Status:                 valueobject.PayoutStatusSuccess,
		ConnectorTransactionID: txnID,
	}, nil
}

func (a *WiseAdapter) QueryPayout(_ context.Context, externalPayoutID string) (valueobject.PayoutStatus, error) {
	a.logger.Debug("wise: querying transfer", "payout_id", externalPayoutID)
	// Stub: a real integration would fetch the transfer status.
	return valueobject.PayoutStatusPending, nil
}
