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
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

// ProcessWebhook applies an inbound connector notification. The owning
// remittance is resolved by the connector-known leg id, never the remittance
// id. Unknown connectors and unparseable payloads are rejected before any
// state is touched. Replayed webhooks are tolerated: a transition the first
// delivery already made is skipped, not errored.
type ProcessWebhook struct {
	repo       port.RemittanceRepository
	translator port.WebhookTranslator
	tasks      port.TaskQueue
	publisher  port.EventPublisher
	logger     *slog.Logger
}

func NewProcessWebhook(
	repo port.RemittanceRepository,
	translator port.WebhookTranslator,
	tasks port.TaskQueue,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *ProcessWebhook {
	return &ProcessWebhook{
		repo:       repo,
		translator: translator,
		tasks:      tasks,
		publisher:  publisher,
		logger:     logger,
	}
}

func (uc *ProcessWebhook) Execute(ctx context.Context, req dto.WebhookRequest) (dto.WebhookResponse, error) {
	event, err := uc.translator.Translate(req.Connector, req.Body)
	if err != nil {
		return dto.WebhookResponse{}, apperr.WebhookFailure("failed to translate webhook", err)
	}
	if event.ReferenceID == "" {
		return dto.WebhookResponse{}, apperr.WebhookFailure("webhook carries no reference id", nil)
	}

	now := time.Now().UTC()
	switch event.Kind {
	case port.WebhookKindPayment:
		return uc.applyPaymentWebhook(ctx, event, now)
	case port.WebhookKindPayout:
		return uc.applyPayoutWebhook(ctx, event, now)
	default:
		return dto.WebhookResponse{}, apperr.WebhookFailure("unknown webhook kind", nil)
	}
}

func (uc *ProcessWebhook) applyPaymentWebhook(ctx context.Context, event port.WebhookEvent, now time.Time) (dto.WebhookResponse, error) {
	status, err := valueobject.NewPaymentStatus(event.Status)
	if err != nil {
		return dto.WebhookResponse{}, apperr.WebhookFailure("unmapped payment status", err)
	}

	rem, err := uc.repo.FindByPaymentID(ctx, event.ReferenceID)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return dto.WebhookResponse{}, apperr.WebhookFailure("no remittance for payment reference", err)
		}
		return dto.WebhookResponse{}, apperr.Internal("failed to resolve webhook", err)
	}

	payment, err := uc.repo.FindPayment(ctx, rem.ID())
	if err != nil {
		return dto.WebhookResponse{}, apperr.Internal("failed to load payment leg", err)
	}
	if payment.Status() != status {
		payment, err = payment.RecordOutcome(event.ReferenceID, event.ConnectorReference, status, now)
		if err != nil {
			return dto.WebhookResponse{}, err
		}
		if err := uc.repo.UpdatePayment(ctx, payment); err != nil {
			return dto.WebhookResponse{}, apperr.Internal("failed to persist payment leg", err)
		}
	}

	switch {
	case status == valueobject.PaymentStatusSucceeded:
		processed, terr := rem.MarkPaymentProcessed(now)
		if terr != nil {
			// replay: the first delivery already advanced the status
			uc.logger.Info("payment webhook replay ignored",
				"remittance_id", rem.ID(), "status", rem.Status().String())
			return dto.WebhookResponse{RemittanceID: rem.ID(), Status: rem.Status().String()}, nil
		}
		if err := uc.repo.UpdateStatus(ctx, processed, valueobject.RemittanceStatusPaymentInitiated); err != nil {
			if errors.Is(err, port.ErrStale) {
				// concurrent sync/pay already applied the same outcome
				return dto.WebhookResponse{RemittanceID: rem.ID(), Status: rem.Status().String()}, nil
			}
			return dto.WebhookResponse{}, apperr.Internal("failed to persist webhook transition", err)
		}
		drainAndPublish(ctx, uc.publisher, uc.logger, processed)

		task := port.Task{Kind: port.TaskInitiatePayout, RemittanceID: rem.ID()}
		if err := uc.tasks.Enqueue(ctx, task); err != nil {
			uc.logger.Error("failed to enqueue payout continuation",
				"remittance_id", rem.ID(), "error", err)
		}
		return dto.WebhookResponse{RemittanceID: rem.ID(), Status: processed.Status().String()}, nil

	case status.IsDeclined():
		failed, terr := rem.FailPayment("payment "+status.String()+" reported by webhook", now)
		if terr != nil {
			uc.logger.Info("payment webhook replay ignored",
				"remittance_id", rem.ID(), "status", rem.Status().String())
			return dto.WebhookResponse{RemittanceID: rem.ID(), Status: rem.Status().String()}, nil
		}
		// A decline can land after funding succeeded, so the conditional
		// write must match the status the remittance was loaded with.
		return uc.persistTransition(ctx, rem, failed, rem.Status())

	default:
		return dto.WebhookResponse{RemittanceID: rem.ID(), Status: rem.Status().String()}, nil
	}
}

func (uc *ProcessWebhook) applyPayoutWebhook(ctx context.Context, event port.WebhookEvent, now time.Time) (dto.WebhookResponse, error) {
	status, err := valueobject.NewPayoutStatus(event.Status)
	if err != nil {
		return dto.WebhookResponse{}, apperr.WebhookFailure("unmapped payout status", err)
	}

	rem, err := uc.repo.FindByPayoutID(ctx, event.ReferenceID)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return dto.WebhookResponse{}, apperr.WebhookFailure("no remittance for payout reference", err)
		}
		return dto.WebhookResponse{}, apperr.Internal("failed to resolve webhook", err)
	}

	payout, err := uc.repo.FindPayout(ctx, rem.ID())
	if err != nil {
		return dto.WebhookResponse{}, apperr.Internal("failed to load payout leg", err)
	}
	if payout.Status() != status {
		payout, err = payout.RecordOutcome(event.ReferenceID, event.ConnectorReference, status, now)
		if err != nil {
			return dto.WebhookResponse{}, err
		}
		if err := uc.repo.UpdatePayout(ctx, payout); err != nil {
			return dto.WebhookResponse{}, apperr.Internal("failed to persist payout leg", err)
		}
	}

	switch {
	case status == valueobject.PayoutStatusSuccess:
		completed, terr := rem.Complete(now)
		if terr != nil {
			uc.logger.Info("payout webhook replay ignored",
				"remittance_id", rem.ID(), "status", rem.Status().String())
			return dto.WebhookResponse{RemittanceID: rem.ID(), Status: rem.Status().String()}, nil
		}
		return uc.persistTransition(ctx, rem, completed, valueobject.RemittanceStatusPayoutInitiated)

	case status.IsDeclined():
		failed, terr := rem.FailPayout("payout "+status.String()+" reported by webhook", now)
		if terr != nil {
			uc.logger.Info("payout webhook replay ignored",
				"remittance_id", rem.ID(), "status", rem.Status().String())
			return dto.WebhookResponse{RemittanceID: rem.ID(), Status: rem.Status().String()}, nil
		}
		return uc.persistTransition(ctx, rem, failed, valueobject.RemittanceStatusPayoutInitiated)

	default:
		return dto.WebhookResponse{RemittanceID: rem.ID(), Status: rem.Status().String()}, nil
	}
}

func (uc *ProcessWebhook) persistTransition(ctx context.Context, prev, next model.Remittance, expected valueobject.RemittanceStatus) (dto.WebhookResponse, error) {
	if err := uc.repo.UpdateStatus(ctx, next, expected); err != nil {
		if errors.Is(err, port.ErrStale) {
			return dto.WebhookResponse{RemittanceID: prev.ID(), Status: prev.Status().String()}, nil
		}
		return dto.WebhookResponse{}, apperr.Internal("failed to persist webhook transition", err)
	}
	next = drainAndPublish(ctx, uc.publisher, uc.logger, next)
	return dto.WebhookResponse{RemittanceID: next.ID(), Status: next.Status().String()}, nil
}
