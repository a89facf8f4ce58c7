package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/zephyrpay/remit/internal/application/dto"
	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/model"
	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/service"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

// gatewayTimeout bounds every external gateway call. A timeout leaves the
// leg pending for webhook/sync resolution.
const gatewayTimeout = 30 * time.Second

// PayRemittance starts the funding leg: claims the CREATED slot with a
// conditional write, calls the payment gateway and applies the outcome. On
// funding success the payout continuation is enqueued.
type PayRemittance struct {
	repo        port.RemittanceRepository
	gateways    port.GatewayRegistry
	transformer service.Transformer
	validator   service.Validator
	tasks       port.TaskQueue
	publisher   port.EventPublisher
	logger      *slog.Logger
}

func NewPayRemittance(
	repo port.RemittanceRepository,
	gateways port.GatewayRegistry,
	transformer service.Transformer,
	validator service.Validator,
	tasks port.TaskQueue,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *PayRemittance {
	return &PayRemittance{
		repo:        repo,
		gateways:    gateways,
		transformer: transformer,
		validator:   validator,
		tasks:       tasks,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *PayRemittance) Execute(ctx context.Context, req dto.PayRemittanceRequest) (dto.RemittanceResponse, error) {
	rem, err := loadRemittance(ctx, uc.repo, req.RemittanceID, req.MerchantID)
	if err != nil {
		return dto.RemittanceResponse{}, err
	}

	if err := uc.validator.ValidatePayable(rem); err != nil {
		return dto.RemittanceResponse{}, err
	}
	funding := rem.Sender().FundingMethod
	if req.FundingMethod != nil {
		funding = req.FundingMethod
	}
	if err := uc.validator.ValidateFunding(funding); err != nil {
		return dto.RemittanceResponse{}, err
	}

	gateway, err := uc.gateways.PaymentGateway(rem.Connector())
	if err != nil {
		return dto.RemittanceResponse{}, apperr.InvalidRequest(err.Error())
	}

	now := time.Now().UTC()
	initiated, err := rem.InitiatePayment(now)
	if err != nil {
		return dto.RemittanceResponse{}, err
	}
	// Conditional write claims the slot; a concurrent pay loses here.
	if err := uc.repo.UpdateStatus(ctx, initiated, valueobject.RemittanceStatusCreated); err != nil {
		if errors.Is(err, port.ErrStale) {
			return dto.RemittanceResponse{}, apperr.Conflict(rem.ID().String())
		}
		return dto.RemittanceResponse{}, apperr.Internal("failed to persist payment initiation", err)
	}
	initiated = drainAndPublish(ctx, uc.publisher, uc.logger, initiated)

	fundReq := port.FundRequest{
		RemittanceID:  initiated.ID(),
		Amount:        initiated.Amount(),
		Currency:      initiated.SourceCurrency(),
		FundingMethod: *funding,
		ReturnURL:     initiated.ReturnURL(),
	}

	callCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	result, err := gateway.Fund(callCtx, fundReq)
	if err != nil {
		// Transport failure: outcome unknown, leg stays pending for
		// webhook/sync resolution.
		uc.logger.Warn("payment gateway call failed, leaving leg pending",
			"remittance_id", initiated.ID(), "connector", initiated.Connector(), "error", err)
		return toRemittanceResponse(initiated, false), nil
	}

	final, err := uc.applyFundingOutcome(ctx, initiated, result, now)
	if err != nil {
		return dto.RemittanceResponse{}, err
	}
	return toRemittanceResponse(final, false), nil
}

func (uc *PayRemittance) applyFundingOutcome(ctx context.Context, rem model.Remittance, result port.FundResult, now time.Time) (model.Remittance, error) {
	payment, err := uc.repo.FindPayment(ctx, rem.ID())
	if err != nil {
		return model.Remittance{}, apperr.Internal("failed to load payment leg", err)
	}
	payment, err = payment.RecordOutcome(result.ExternalPaymentID, result.ConnectorTransactionID, result.Status, now)
	if err != nil {
		return model.Remittance{}, err
	}
	if err := uc.repo.UpdatePayment(ctx, payment); err != nil {
		return model.Remittance{}, apperr.Internal("failed to persist payment leg", err)
	}

	if result.ExternalPaymentID != "" {
		rem, err = rem.AttachPaymentID(result.ExternalPaymentID)
		if err != nil {
			return model.Remittance{}, err
		}
	}

	switch {
	case result.Status == valueobject.PaymentStatusSucceeded:
		processed, err := rem.MarkPaymentProcessed(now)
		if err != nil {
			return model.Remittance{}, err
		}
		if err := uc.repo.UpdateStatus(ctx, processed, valueobject.RemittanceStatusPaymentInitiated); err != nil {
			if errors.Is(err, port.ErrStale) {
				return model.Remittance{}, apperr.Conflict(rem.ID().String())
			}
			return model.Remittance{}, apperr.Internal("failed to persist funding success", err)
		}
		processed = drainAndPublish(ctx, uc.publisher, uc.logger, processed)

		task := port.Task{Kind: port.TaskInitiatePayout, RemittanceID: processed.ID()}
		if err := uc.tasks.Enqueue(ctx, task); err != nil {
			uc.logger.Error("failed to enqueue payout continuation",
				"remittance_id", processed.ID(), "error", err)
		}
		return processed, nil

	case result.Status.IsDeclined():
		reason := result.DeclineReason
		if reason == "" {
			reason = "payment declined by connector"
		}
		failed, err := rem.FailPayment(reason, now)
		if err != nil {
			return model.Remittance{}, err
		}
		if err := uc.repo.UpdateStatus(ctx, failed, valueobject.RemittanceStatusPaymentInitiated); err != nil {
			return model.Remittance{}, apperr.Internal("failed to persist funding decline", err)
		}
		failed = drainAndPublish(ctx, uc.publisher, uc.logger, failed)
		return failed, nil

	default:
		// Pending or requires_action: persist the attached payment id, the
		// remittance-level status does not move.
		if err := uc.repo.UpdateStatus(ctx, rem, valueobject.RemittanceStatusPaymentInitiated); err != nil {
			return model.Remittance{}, apperr.Internal("failed to persist pending funding leg", err)
		}
		return rem, nil
	}
}
