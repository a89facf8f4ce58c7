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

// --- Shared fixtures ---

func bankMethod(t *testing.T) *valueobject.PayoutMethod {
	t.Helper()
	pm, err := valueobject.NewBankTransferMethod(valueobject.BankTransferDetails{
		AccountNumber: "000123456789",
		RoutingNumber: "110000000",
	})
	require.NoError(t, err)
	return &pm
}

func validCreateRequest(t *testing.T) dto.CreateRemittanceRequest {
	t.Helper()
	return dto.CreateRemittanceRequest{
		MerchantID:          "merchant_abc",
		Amount:              100_000,
		SourceCurrency:      "USD",
		DestinationCurrency: "EUR",
		Connector:           "stripe",
		Sender: valueobject.SenderDetails{
			Name:          "Ana Silva",
			FundingMethod: &valueobject.FundingMethod{Kind: "card", Token: "tok_visa"},
		},
		Beneficiary: valueobject.BeneficiaryDetails{
			Name:         "Joao Silva",
			PayoutMethod: bankMethod(t),
		},
		Reference: "REM-001",
	}
}

// fixtureRemittance builds an aggregate at the given status for the
// default merchant, with leg ids attached once the legs are in flight.
func fixtureRemittance(t *testing.T, status valueobject.RemittanceStatus) model.Remittance {
	t.Helper()
	now := time.Now().UTC()
	req := validCreateRequest(t)
	rem, err := model.NewRemittance(model.NewRemittanceParams{
		MerchantID:          req.MerchantID,
		Amount:              req.Amount,
		SourceCurrency:      req.SourceCurrency,
		DestinationCurrency: req.DestinationCurrency,
		DestinationAmount:   85_000,
		Sender:              req.Sender,
		Beneficiary:         req.Beneficiary,
		Connector:           req.Connector,
	}, now)
	require.NoError(t, err)
	_, rem = rem.ClearDomainEvents()
	if status == valueobject.RemittanceStatusCreated {
		return rem
	}

	rem, err = rem.InitiatePayment(now)
	require.NoError(t, err)
	rem, err = rem.AttachPaymentID("pay_123")
	require.NoError(t, err)
	if status == valueobject.RemittanceStatusPaymentInitiated {
		return rem
	}
	if status == valueobject.RemittanceStatusFailed {
		rem, err = rem.FailPayment("card_declined", now)
		require.NoError(t, err)
		return rem
	}

	rem, err = rem.MarkPaymentProcessed(now)
	require.NoError(t, err)
	if status == valueobject.RemittanceStatusPaymentProcessed {
		return rem
	}
	if status == valueobject.RemittanceStatusCancelled {
		rem, err = rem.Cancel(now)
		require.NoError(t, err)
		return rem
	}

	rem, err = rem.InitiatePayout(now)
	require.NoError(t, err)
	rem, err = rem.AttachPayoutID("po_456")
	require.NoError(t, err)
	if status == valueobject.RemittanceStatusPayoutInitiated {
		return rem
	}

	rem, err = rem.Complete(now)
	require.NoError(t, err)
	require.Equal(t, valueobject.RemittanceStatusCompleted, status)
	return rem
}

func repoServing(rem model.Remittance) *mockRemittanceRepository {
	return &mockRemittanceRepository{
		findByIDFunc: func(_ context.Context, id uuid.UUID) (model.Remittance, error) {
			if id == rem.ID() {
				return rem, nil
			}
			return model.Remittance{}, port.ErrNotFound
		},
	}
}

// --- Tests ---

func newCreateUsecase(repo *mockRemittanceRepository, tasks *mockTaskQueue, publisher *mockEventPublisher) *usecase.CreateRemittance {
	return usecase.NewCreateRemittance(
		repo, &mockQuoteService{}, tasks, publisher, service.NewValidator(), testLogger(),
	)
}

func TestCreateRemittance_Success(t *testing.T) {
	repo := &mockRemittanceRepository{}
	tasks := &mockTaskQueue{}
	publisher := &mockEventPublisher{}
	uc := newCreateUsecase(repo, tasks, publisher)

	resp, err := uc.Execute(context.Background(), validCreateRequest(t))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, "created", resp.Status)
	assert.Equal(t, int64(100_000), resp.Amount)
	assert.Equal(t, "0.85", resp.ExchangeRate)
	assert.Equal(t, int64(85_000), resp.DestinationAmount)
	assert.NotEmpty(t, resp.ClientSecret)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "merchant_abc", repo.created[0].MerchantID())

	require.NotEmpty(t, publisher.published)
	assert.Equal(t, "remittance.created", publisher.published[0].EventType())

	// without auto_process nothing is scheduled
	assert.Empty(t, tasks.enqueued)
}

func TestCreateRemittance_AutoProcess(t *testing.T) {
	repo := &mockRemittanceRepository{}
	tasks := &mockTaskQueue{}
	uc := newCreateUsecase(repo, tasks, &mockEventPublisher{})

	req := validCreateRequest(t)
	req.AutoProcess = true

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, tasks.enqueued, 1)
	assert.Equal(t, port.TaskPayRemittance, tasks.enqueued[0].Kind)
	assert.Equal(t, resp.ID, tasks.enqueued[0].RemittanceID)
}

func TestCreateRemittance_AutoProcessWithoutFunding(t *testing.T) {
	tasks := &mockTaskQueue{}
	uc := newCreateUsecase(&mockRemittanceRepository{}, tasks, &mockEventPublisher{})

	req := validCreateRequest(t)
	req.AutoProcess = true
	req.Sender.FundingMethod = nil

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, tasks.enqueued)
}

func TestCreateRemittance_EnqueueFailureNotSurfaced(t *testing.T) {
	tasks := &mockTaskQueue{
		enqueueFunc: func(_ context.Context, _ port.Task) error {
			return fmt.Errorf("queue full")
		},
	}
	uc := newCreateUsecase(&mockRemittanceRepository{}, tasks, &mockEventPublisher{})

	req := validCreateRequest(t)
	req.AutoProcess = true

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestCreateRemittance_Duplicate(t *testing.T) {
	repo := &mockRemittanceRepository{
		createFunc: func(_ context.Context, _ model.Remittance, _ model.RemittancePayment, _ model.RemittancePayout) error {
			return port.ErrDuplicate
		},
	}
	uc := newCreateUsecase(repo, &mockTaskQueue{}, &mockEventPublisher{})

	req := validCreateRequest(t)
	req.ID = uuid.New()

	_, err := uc.Execute(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindDuplicateRequest, apperr.KindOf(err))
}

func TestCreateRemittance_ValidationErrors(t *testing.T) {
	uc := newCreateUsecase(&mockRemittanceRepository{}, &mockTaskQueue{}, &mockEventPublisher{})

	t.Run("same currencies", func(t *testing.T) {
		req := validCreateRequest(t)
		req.DestinationCurrency = "USD"
		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidRequestData, apperr.KindOf(err))
	})

	t.Run("missing sender name", func(t *testing.T) {
		req := validCreateRequest(t)
		req.Sender.Name = ""
		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindMissingRequiredField, apperr.KindOf(err))
	})

	t.Run("future date", func(t *testing.T) {
		req := validCreateRequest(t)
		req.RemittanceDate = time.Now().UTC().Add(72 * time.Hour)
		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidRequestData, apperr.KindOf(err))
	})

	t.Run("unknown purpose", func(t *testing.T) {
		req := validCreateRequest(t)
		req.Purpose = "world_domination"
		_, err := uc.Execute(context.Background(), req)
		require.Error(t, err)
		assert.Equal(t, apperr.KindInvalidRequestData, apperr.KindOf(err))
	})
}

func TestCreateRemittance_QuoteFailure(t *testing.T) {
	quotes := &mockQuoteService{
		rateFunc: func(_ context.Context, _, _ string, _ int64, _ string) (port.RateQuote, error) {
			return port.RateQuote{}, fmt.Errorf("provider unreachable")
		},
	}
	uc := usecase.NewCreateRemittance(
		&mockRemittanceRepository{}, quotes, &mockTaskQueue{}, &mockEventPublisher{},
		service.NewValidator(), testLogger(),
	)

	_, err := uc.Execute(context.Background(), validCreateRequest(t))
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternalServerError, apperr.KindOf(err))
}
