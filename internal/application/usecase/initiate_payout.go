package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zephyrpay/remit/internal/application/dto"
	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/model"
	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/service"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

// InitiatePayout runs the disbursement continuation after funding success.
// It requires PAYMENT_PROCESSED, which makes redelivered continuations
// harmless. A transformer failure (unsupported payout method) is terminal,
// not retried.
type InitiatePayout struct {
	repo        port.RemittanceRepository
	gateways    port.GatewayRegistry
	transformer service.Transformer
	publisher   port.EventPublisher
	logger      *slog.Logger
}

func NewInitiatePayout(
	repo port.RemittanceRepository,
	gateways port.GatewayRegistry,
	transformer service.Transformer,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *InitiatePayout {
	return &InitiatePayout{
		repo:        repo,
		gateways:    gateways,
		transformer: transformer,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *InitiatePayout) Execute(ctx context.Context, remittanceID uuid.UUID) (dto.RemittanceResponse, error) {
	rem, err := loadRemittance(ctx, uc.repo, remittanceID, "")
	if err != nil {
		return dto.RemittanceResponse{}, err
	}
	now := time.Now().UTC()

	disburseReq, err := uc.transformer.DisburseRequest(rem)
	if err != nil {
		if apperr.IsKind(err, apperr.KindPayoutMethodNotSupported) ||
			apperr.IsKind(err, apperr.KindMissingRequiredField) {
			return uc.failBeforePayout(ctx, rem, err, now)
		}
		return dto.RemittanceResponse{}, err
	}

	gateway, err := uc.gateways.PayoutGateway(rem.Connector())
	if err != nil {
		return uc.failBeforePayout(ctx, rem, apperr.InvalidRequest(err.Error()), now)
	}

	initiated, err := rem.InitiatePayout(now)
	if err != nil {
		return dto.RemittanceResponse{}, err
	}
	if err := uc.repo.UpdateStatus(ctx, initiated, valueobject.RemittanceStatusPaymentProcessed); err != nil {
		if errors.Is(err, port.ErrStale) {
			return dto.RemittanceResponse{}, apperr.Conflict(rem.ID().String())
		}
		return dto.RemittanceResponse{}, apperr.Internal("failed to persist payout initiation", err)
	}
	initiated = drainAndPublish(ctx, uc.publisher, uc.logger, initiated)

	if pm := initiated.Beneficiary().PayoutMethod; pm != nil {
		payout, perr := uc.repo.FindPayout(ctx, initiated.ID())
		if perr == nil {
			if err := uc.repo.UpdatePayout(ctx, payout.WithMethodType(string(pm.Kind()), now)); err != nil {
				uc.logger.Warn("failed to label payout method",
					"remittance_id", initiated.ID(), "error", err)
			}
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	result, err := gateway.Disburse(callCtx, disburseReq)
	if err != nil {
		// Outcome unknown: stay in PAYOUT_INITIATED for webhook/sync.
		uc.logger.Warn("payout gateway call failed, leaving leg pending",
			"remittance_id", initiated.ID(), "connector", initiated.Connector(), "error", err)
		return toRemittanceResponse(initiated, false), nil
	}

	final, err := uc.applyPayoutOutcome(ctx, initiated, result, now)
	if err != nil {
		return dto.RemittanceResponse{}, err
	}
	return toRemittanceResponse(final, false), nil
}

// failBeforePayout marks the remittance terminally failed when the payout
// request cannot even be built.
func (uc *InitiatePayout) failBeforePayout(ctx context.Context, rem model.Remittance, cause error, now time.Time) (dto.RemittanceResponse, error) {
	prior := rem.Status()
	failed, err := rem.FailPayment(cause.Error(), now)
	if err != nil {
		return dto.RemittanceResponse{}, cause
	}
	if err := uc.repo.UpdateStatus(ctx, failed, prior); err != nil {
		return dto.RemittanceResponse{}, apperr.Internal("failed to persist payout failure", err)
	}
	failed = drainAndPublish(ctx, uc.publisher, uc.logger, failed)
	return toRemittanceResponse(failed, false), cause
}

func (uc *InitiatePayout) applyPayoutOutcome(ctx context.Context, rem model.Remittance, result port.DisburseResult, now time.Time) (model.Remittance, error) {
	payout, err := uc.repo.FindPayout(ctx, rem.ID())
	if err != nil {
		return model.Remittance{}, apperr.Internal("failed to load payout leg", err)
	}
	payout, err = payout.RecordOutcome(result.ExternalPayoutID, result.ConnectorTransactionID, result.Status, now)
	if err != nil {
		return model.Remittance{}, err
	}
	if err := uc.repo.UpdatePayout(ctx, payout); err != nil {
		return model.Remittance{}, apperr.Internal("failed to persist payout leg", err)
	}

	if result.ExternalPayoutID != "" {
		rem, err = rem.AttachPayoutID(result.ExternalPayoutID)
		if err != nil {
			return model.Remittance{}, err
		}
	}

	switch {
	case result.Status == valueobject.PayoutStatusSuccess:
		completed, err := rem.Complete(now)
		if err != nil {
			return model.Remittance{}, err
		}
		if err := uc.repo.UpdateStatus(ctx, completed, valueobject.RemittanceStatusPayoutInitiated); err != nil {
			return model.Remittance{}, apperr.Internal("failed to persist completion", err)
		}
		return drainAndPublish(ctx, uc.publisher, uc.logger, completed), nil

	case result.Status.IsDeclined():
		reason := result.DeclineReason
		if reason == "" {
			reason = "payout declined by connector"
		}
		failed, err := rem.FailPayout(reason, now)
		if err != nil {
			return model.Remittance{}, err
		}
		if err := uc.repo.UpdateStatus(ctx, failed, valueobject.RemittanceStatusPayoutInitiated); err != nil {
			return model.Remittance{}, apperr.Internal("failed to persist payout decline", err)
		}
		return drainAndPublish(ctx, uc.publisher, uc.logger, failed), nil

	default:
		// Pending: persist the attached payout id, await webhook/sync.
		if err := uc.repo.UpdateStatus(ctx, rem, valueobject.RemittanceStatusPayoutInitiated); err != nil {
			return model.Remittance{}, apperr.Internal("failed to persist pending payout leg", err)
		}
		return rem, nil
	}
}
