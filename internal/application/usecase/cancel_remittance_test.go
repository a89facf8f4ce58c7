package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrpay/remit/internal/application/dto"
	"github.com/zephyrpay/remit/internal/application/usecase"
	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/model"
	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/service"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

func newCancelUsecase(repo *mockRemittanceRepository, gateway *mockPaymentGateway) *usecase.CancelRemittance {
	return usecase.NewCancelRemittance(
		repo, &mockGatewayRegistry{payment: gateway}, service.NewValidator(),
		&mockEventPublisher{}, testLogger(),
	)
}

// succeededPaymentRepo serves a remittance whose funding leg succeeded.
func succeededPaymentRepo(rem model.Remittance) *mockRemittanceRepository {
	repo := repoServing(rem)
	repo.findPaymentFunc = func(_ context.Context, remittanceID uuid.UUID) (model.RemittancePayment, error) {
		now := time.Now().UTC()
		payment := model.NewRemittancePayment(remittanceID, now)
		payment, _ = payment.RecordOutcome("pay_123", "txn_1", valueobject.PaymentStatusSucceeded, now)
		return payment, nil
	}
	return repo
}

func TestCancelRemittance_BeforeFunding(t *testing.T) {
	rem := fixtureRemittance(t, valueobject.RemittanceStatusCreated)
	gateway := &mockPaymentGateway{}
	uc := newCancelUsecase(repoServing(rem), gateway)

	resp, err := uc.Execute(context.Background(), dto.CancelRemittanceRequest{RemittanceID: rem.ID()})
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Remittance.Status)
	assert.Empty(t, resp.RefundWarning)
	// nothing funded, nothing refunded
	assert.Empty(t, gateway.refundCalls)
}

func TestCancelRemittance_RefundAfterFunding(t *testing.T) {
	rem := fixtureRemittance(t, valueobject.RemittanceStatusPaymentProcessed)
	repo := succeededPaymentRepo(rem)
	gateway := &mockPaymentGateway{}
	uc := newCancelUsecase(repo, gateway)

	resp, err := uc.Execute(context.Background(), dto.CancelRemittanceRequest{RemittanceID: rem.ID()})
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Remittance.Status)
	assert.Empty(t, resp.RefundWarning)

	// exactly one full refund request for the funding payment
	require.Len(t, gateway.refundCalls, 1)
	assert.Equal(t, "pay_123", gateway.refundCalls[0])
}

func TestCancelRemittance_RefundFailureIsAdvisory(t *testing.T) {
	rem := fixtureRemittance(t, valueobject.RemittanceStatusPaymentProcessed)
	repo := succeededPaymentRepo(rem)
	gateway := &mockPaymentGateway{
		refundFunc: func(_ context.Context, _ string, _ int64, _ string) (port.RefundResult, error) {
			return port.RefundResult{}, fmt.Errorf("refund endpoint down")
		},
	}
	uc := newCancelUsecase(repo, gateway)

	resp, err := uc.Execute(context.Background(), dto.CancelRemittanceRequest{RemittanceID: rem.ID()})
	require.NoError(t, err)

	// still cancelled, refund surfaced as a warning only
	assert.Equal(t, "cancelled", resp.Remittance.Status)
	assert.Contains(t, resp.RefundWarning, "refund request failed")
	require.Len(t, repo.statusUpdates, 1)
	assert.Equal(t, valueobject.RemittanceStatusCancelled, repo.statusUpdates[0].Status())
}

func TestCancelRemittance_RefundDeclined(t *testing.T) {
	rem := fixtureRemittance(t, valueobject.RemittanceStatusPaymentProcessed)
	repo := succeededPaymentRepo(rem)
	gateway := &mockPaymentGateway{
		refundFunc: func(_ context.Context, _ string, _ int64, _ string) (port.RefundResult, error) {
			return port.RefundResult{Status: valueobject.PaymentStatusFailed}, nil
		},
	}
	uc := newCancelUsecase(repo, gateway)

	resp, err := uc.Execute(context.Background(), dto.CancelRemittanceRequest{RemittanceID: rem.ID()})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Remittance.Status)
	assert.Contains(t, resp.RefundWarning, "refund declined")
}

func TestCancelRemittance_Forbidden(t *testing.T) {
	for _, status := range []valueobject.RemittanceStatus{
		valueobject.RemittanceStatusPayoutInitiated,
		valueobject.RemittanceStatusCompleted,
		valueobject.RemittanceStatusFailed,
		valueobject.RemittanceStatusCancelled,
	} {
		t.Run(status.String(), func(t *testing.T) {
			rem := fixtureRemittance(t, status)
			gateway := &mockPaymentGateway{}
			uc := newCancelUsecase(repoServing(rem), gateway)

			_, err := uc.Execute(context.Background(), dto.CancelRemittanceRequest{RemittanceID: rem.ID()})
			require.Error(t, err)
			assert.Equal(t, apperr.KindCancellationForbidden, apperr.KindOf(err))
			assert.Contains(t, err.Error(), status.String())
			assert.Empty(t, gateway.refundCalls)
		})
	}
}

func TestCancelRemittance_ConcurrentLoser(t *testing.T) {
	rem := fixtureRemittance(t, valueobject.RemittanceStatusCreated)
	repo := repoServing(rem)
	repo.updateStatusFunc = func(_ context.Context, _ model.Remittance, _ valueobject.RemittanceStatus) error {
		return port.ErrStale
	}
	uc := newCancelUsecase(repo, &mockPaymentGateway{})

	_, err := uc.Execute(context.Background(), dto.CancelRemittanceRequest{RemittanceID: rem.ID()})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConcurrentModification, apperr.KindOf(err))
}
