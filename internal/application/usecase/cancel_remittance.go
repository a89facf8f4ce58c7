package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zephyrpay/remit/internal/application/dto"
	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/model"
	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/service"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

// CancelRemittance cancels before payout initiation. When the funding leg
// already succeeded a compensating refund is requested; the refund outcome
// is advisory and never blocks the transition.
type CancelRemittance struct {
	repo      port.RemittanceRepository
	gateways  port.GatewayRegistry
	validator service.Validator
	publisher port.EventPublisher
	logger    *slog.Logger
}

func NewCancelRemittance(
	repo port.RemittanceRepository,
	gateways port.GatewayRegistry,
	validator service.Validator,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *CancelRemittance {
	return &CancelRemittance{
		repo:      repo,
		gateways:  gateways,
		validator: validator,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *CancelRemittance) Execute(ctx context.Context, req dto.CancelRemittanceRequest) (dto.CancelRemittanceResponse, error) {
	rem, err := loadRemittance(ctx, uc.repo, req.RemittanceID, req.MerchantID)
	if err != nil {
		return dto.CancelRemittanceResponse{}, err
	}

	if err := uc.validator.ValidateCancellable(rem); err != nil {
		return dto.CancelRemittanceResponse{}, err
	}

	refundNeeded := uc.fundingSucceeded(ctx, rem)

	now := time.Now().UTC()
	prior := rem.Status()
	cancelled, err := rem.Cancel(now)
	if err != nil {
		return dto.CancelRemittanceResponse{}, err
	}
	if refundNeeded {
		cancelled = cancelled.RecordRefundRequest(rem.PaymentID())
	}

	if err := uc.repo.UpdateStatus(ctx, cancelled, prior); err != nil {
		if errors.Is(err, port.ErrStale) {
			return dto.CancelRemittanceResponse{}, apperr.Conflict(rem.ID().String())
		}
		return dto.CancelRemittanceResponse{}, apperr.Internal("failed to persist cancellation", err)
	}
	cancelled = drainAndPublish(ctx, uc.publisher, uc.logger, cancelled)

	resp := dto.CancelRemittanceResponse{Remittance: toRemittanceResponse(cancelled, false)}
	if refundNeeded {
		resp.RefundWarning = uc.requestRefund(ctx, cancelled.Connector(), rem.PaymentID(), rem.Amount(), req.Reason)
	}
	return resp, nil
}

// fundingSucceeded reports whether a successful funding payment exists.
func (uc *CancelRemittance) fundingSucceeded(ctx context.Context, rem model.Remittance) bool {
	if rem.PaymentID() == "" {
		return false
	}
	payment, err := uc.repo.FindPayment(ctx, rem.ID())
	if err != nil {
		return false
	}
	return payment.Status() == valueobject.PaymentStatusSucceeded
}

// requestRefund issues the compensating refund. Failures are logged and
// surfaced as a warning only.
func (uc *CancelRemittance) requestRefund(ctx context.Context, connector, externalPaymentID string, amount int64, reason string) string {
	gateway, err := uc.gateways.PaymentGateway(connector)
	if err != nil {
		uc.logger.Error("refund skipped: unknown connector",
			"connector", connector, "error", err)
		return fmt.Sprintf("refund not requested: %v", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	if reason == "" {
		reason = "remittance cancelled"
	}
	result, err := gateway.Refund(callCtx, externalPaymentID, amount, reason)
	if err != nil {
		uc.logger.Error("refund request failed",
			"external_payment_id", externalPaymentID, "error", err)
		return fmt.Sprintf("refund request failed: %v", err)
	}
	if result.Status.IsDeclined() {
		uc.logger.Error("refund declined by connector",
			"external_payment_id", externalPaymentID, "status", result.Status.String())
		return fmt.Sprintf("refund declined with status %s", result.Status.String())
	}
	return ""
}
