package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrpay/remit/internal/application/usecase"
	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/model"
	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/service"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

func newPayoutUsecase(repo *mockRemittanceRepository, registry *mockGatewayRegistry) *usecase.InitiatePayout {
	return usecase.NewInitiatePayout(
		repo, registry, service.NewTransformer(), &mockEventPublisher{}, testLogger(),
	)
}

func TestInitiatePayout_Completes(t *testing.T) {
	rem := fixtureRemittance(t, valueobject.RemittanceStatusPaymentProcessed)
	repo := repoServing(rem)
	gateway := &mockPayoutGateway{
		disburseFunc: func(_ context.Context, req port.DisburseRequest) (port.DisburseResult, error) {
			return port.DisburseResult{
				ExternalPayoutID: "po_456",
				Status:           valueobject.PayoutStatusSuccess,
			}, nil
		},
	}
	uc := newPayoutUsecase(repo, &mockGatewayRegistry{payout: gateway})

	resp, err := uc.Execute(context.Background(), rem.ID())
	require.NoError(t, err)

	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "po_456", resp.PayoutID)

	// disbursement request used destination money
	require.Len(t, gateway.disburseCalls, 1)
	assert.Equal(t, int64(85_000), gateway.disburseCalls[0].Amount)
	assert.Equal(t, "EUR", gateway.disburseCalls[0].Currency)

	require.Len(t, repo.payoutUpdates, 2) // method label + outcome
	assert.Equal(t, "po_456", repo.payoutUpdates[1].ExternalPayoutID())
}

func TestInitiatePayout_ExplicitDecline(t *testing.T) {
	rem := fixtureRemittance(t, valueobject.RemittanceStatusPaymentProcessed)
	gateway := &mockPayoutGateway{
		disburseFunc: func(_ context.Context, _ port.DisburseRequest) (port.DisburseResult, error) {
			return port.DisburseResult{
				ExternalPayoutID: "po_456",
				Status:           valueobject.PayoutStatusFailed,
				DeclineReason:    "account_closed",
			}, nil
		},
	}
	uc := newPayoutUsecase(repoServing(rem), &mockGatewayRegistry{payout: gateway})

	resp, err := uc.Execute(context.Background(), rem.ID())
	require.NoError(t, err)
	assert.Equal(t, "failed", resp.Status)
	assert.Equal(t, "account_closed", resp.FailureReason)
}

func TestInitiatePayout_TransportFailureLeavesPending(t *testing.T) {
	rem := fixtureRemittance(t, valueobject.RemittanceStatusPaymentProcessed)
	gateway := &mockPayoutGateway{
		disburseFunc: func(_ context.Context, _ port.DisburseRequest) (port.DisburseResult, error) {
			return port.DisburseResult{}, fmt.Errorf("gateway 503")
		},
	}
	uc := newPayoutUsecase(repoServing(rem), &mockGatewayRegistry{payout: gateway})

	resp, err := uc.Execute(context.Background(), rem.ID())
	require.NoError(t, err)
	assert.Equal(t, "payout_initiated", resp.Status)
}

func TestInitiatePayout_UnsupportedMethodIsTerminal(t *testing.T) {
	base := fixtureRemittance(t, valueobject.RemittanceStatusPaymentProcessed)
	beneficiary := base.Beneficiary()
	cash := valueobject.NewCashPickupMethod(valueobject.CashPickupDetails{Location: "Lagos"})
	beneficiary.PayoutMethod = &cash
	rem := model.ReconstructRemittance(model.RemittanceState{
		ID:                  base.ID(),
		MerchantID:          base.MerchantID(),
		Amount:              base.Amount(),
		SourceCurrency:      base.SourceCurrency(),
		DestinationCurrency: base.DestinationCurrency(),
		DestinationAmount:   base.DestinationAmount(),
		Connector:           base.Connector(),
		Sender:              base.Sender(),
		Beneficiary:         beneficiary,
		Status:              valueobject.RemittanceStatusPaymentProcessed,
		PaymentID:           base.PaymentID(),
		Version:             base.Version(),
	})
	repo := repoServing(rem)
	gateway := &mockPayoutGateway{}
	uc := newPayoutUsecase(repo, &mockGatewayRegistry{payout: gateway})

	_, err := uc.Execute(context.Background(), rem.ID())
	require.Error(t, err)
	assert.Equal(t, apperr.KindPayoutMethodNotSupported, apperr.KindOf(err))

	// terminally failed, gateway never called
	require.Len(t, repo.statusUpdates, 1)
	assert.Equal(t, valueobject.RemittanceStatusFailed, repo.statusUpdates[0].Status())
	assert.Empty(t, gateway.disburseCalls)
}

func TestInitiatePayout_RequiresPaymentProcessed(t *testing.T) {
	for _, status := range []valueobject.RemittanceStatus{
		valueobject.RemittanceStatusCreated,
		valueobject.RemittanceStatusPaymentInitiated,
		valueobject.RemittanceStatusPayoutInitiated,
		valueobject.RemittanceStatusCompleted,
	} {
		t.Run(status.String(), func(t *testing.T) {
			rem := fixtureRemittance(t, status)
			gateway := &mockPayoutGateway{}
			uc := newPayoutUsecase(repoServing(rem), &mockGatewayRegistry{payout: gateway})

			_, err := uc.Execute(context.Background(), rem.ID())
			require.Error(t, err)
			assert.Contains(t, err.Error(), status.String())
			assert.Empty(t, gateway.disburseCalls)
		})
	}
}

func TestInitiatePayout_ConcurrentLoser(t *testing.T) {
	rem := fixtureRemittance(t, valueobject.RemittanceStatusPaymentProcessed)
	repo := repoServing(rem)
	repo.updateStatusFunc = func(_ context.Context, _ model.Remittance, _ valueobject.RemittanceStatus) error {
		return port.ErrStale
	}
	gateway := &mockPayoutGateway{}
	uc := newPayoutUsecase(repo, &mockGatewayRegistry{payout: gateway})

	_, err := uc.Execute(context.Background(), rem.ID())
	require.Error(t, err)
	assert.Equal(t, apperr.KindConcurrentModification, apperr.KindOf(err))
	assert.Empty(t, gateway.disburseCalls)
}
