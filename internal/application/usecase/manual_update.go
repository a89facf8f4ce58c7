package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/zephyrpay/remit/internal/application/dto"
	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

// ManualUpdate is the privileged operator override. It bypasses every
// transition guard, writes unconditionally and triggers no side effects (no
// refund, no payout) - remediation is the operator's responsibility.
type ManualUpdate struct {
	repo      port.RemittanceRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

func NewManualUpdate(repo port.RemittanceRepository, publisher port.EventPublisher, logger *slog.Logger) *ManualUpdate {
	return &ManualUpdate{repo: repo, publisher: publisher, logger: logger}
}

func (uc *ManualUpdate) Execute(ctx context.Context, req dto.ManualUpdateRequest) (dto.RemittanceResponse, error) {
	status, err := valueobject.NewRemittanceStatus(req.Status)
	if err != nil {
		return dto.RemittanceResponse{}, apperr.InvalidRequest(err.Error())
	}

	rem, err := loadRemittance(ctx, uc.repo, req.RemittanceID, "")
	if err != nil {
		return dto.RemittanceResponse{}, err
	}

	uc.logger.Warn("manual status override",
		"remittance_id", rem.ID(),
		"from", rem.Status().String(),
		"to", status.String(),
		"operator", req.Operator)

	updated := rem.ApplyManualStatus(status, req.FailureReason, req.Operator, time.Now().UTC())
	if err := uc.repo.UpdateStatusUnchecked(ctx, updated); err != nil {
		return dto.RemittanceResponse{}, apperr.Internal("failed to persist manual update", err)
	}
	updated = drainAndPublish(ctx, uc.publisher, uc.logger, updated)

	return toRemittanceResponse(updated, false), nil
}
