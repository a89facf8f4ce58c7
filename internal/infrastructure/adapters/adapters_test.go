package adapters

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStripeAdapter_Fund(t *testing.T) {
	adapter := NewStripeAdapter(testLogger())
	adapter.simulateDelay = 0

	tests := []struct {
		token string
		want  valueobject.PaymentStatus
	}{
		{"tok_visa", valueobject.PaymentStatusSucceeded},
		{"tok_decline_insufficient", valueobject.PaymentStatusFailed},
		{"tok_3ds_required", valueobject.PaymentStatusRequiresAction},
	}
	for _, tt := range tests {
		result, err := adapter.Fund(context.Background(), port.FundRequest{
			RemittanceID:  uuid.New(),
			Amount:        100_000,
			Currency:      "USD",
			FundingMethod: valueobject.FundingMethod{Kind: "card", Token: tt.token},
		})
		require.NoError(t, err, tt.token)
		assert.Equal(t, tt.want, result.Status, tt.token)
		assert.NotEmpty(t, result.ExternalPaymentID)
	}
}

func TestStripeAdapter_RefundRequiresPaymentID(t *testing.T) {
	adapter := NewStripeAdapter(testLogger())
	adapter.simulateDelay = 0

	_, err := adapter.Refund(context.Background(), "", 100_000, "remittance cancelled")
	assert.Error(t, err)

	result, err := adapter.Refund(context.Background(), "pay_123", 100_000, "remittance cancelled")
	require.NoError(t, err)
	assert.Equal(t, valueobject.PaymentStatusSucceeded, result.Status)
}

func TestWiseAdapter_Disburse(t *testing.T) {
	adapter := NewWiseAdapter(testLogger())
	adapter.simulateDelay = 0

	method, err := valueobject.NewBankTransferMethod(valueobject.BankTransferDetails{
		AccountNumber: "000123456789",
		RoutingNumber: "110000000",
	})
	require.NoError(t, err)

	result, err := adapter.Disburse(context.Background(), port.DisburseRequest{
		RemittanceID: uuid.New(),
		Amount:       85_000,
		Currency:     "EUR",
		PayoutMethod: method,
	})
	require.NoError(t, err)
	assert.Equal(t, valueobject.PayoutStatusSuccess, result.Status)
	assert.NotEmpty(t, result.ExternalPayoutID)
}

func TestWiseAdapter_ClosedAccountDeclined(t *testing.T) {
	adapter := NewWiseAdapter(testLogger())
	adapter.simulateDelay = 0

	method, err := valueobject.NewBankTransferMethod(valueobject.BankTransferDetails{
		AccountNumber: "000120000",
		RoutingNumber: "110000000",
	})
	require.NoError(t, err)

	result, err := adapter.Disburse(context.Background(), port.DisburseRequest{
		RemittanceID: uuid.New(),
		Amount:       85_000,
		Currency:     "EUR",
		PayoutMethod: method,
	})
	require.NoError(t, err)
	assert.Equal(t, valueobject.PayoutStatusFailed, result.Status)
	assert.Equal(t, "account_closed", result.DeclineReason)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterPayment("stripe", NewStripeAdapter(testLogger()))
	registry.RegisterPayout("wise", NewWiseAdapter(testLogger()))

	_, err := registry.PaymentGateway("stripe")
	assert.NoError(t, err)

	_, err = registry.PayoutGateway("wise")
	assert.NoError(t, err)

	_, err = registry.PaymentGateway("wise")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidRequestData))

	_, err = registry.PayoutGateway("stripe")
	assert.Error(t, err)
}
