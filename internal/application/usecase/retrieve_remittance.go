package usecase

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"github.com/zephyrpay/remit/internal/application/dto"
	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/port"
)

// RetrieveRemittance loads a remittance with both legs. With force_sync the
// gateways are re-queried first so the response reflects their view.
// Customer-facing calls authenticate with the client secret instead of a
// merchant scope.
type RetrieveRemittance struct {
	repo   port.RemittanceRepository
	sync   *SyncRemittance
	logger *slog.Logger
}

func NewRetrieveRemittance(repo port.RemittanceRepository, sync *SyncRemittance, logger *slog.Logger) *RetrieveRemittance {
	return &RetrieveRemittance{repo: repo, sync: sync, logger: logger}
}

func (uc *RetrieveRemittance) Execute(ctx context.Context, req dto.RetrieveRemittanceRequest) (dto.RemittanceResponse, error) {
	if req.ForceSync {
		if _, err := uc.sync.Execute(ctx, req.RemittanceID); err != nil {
			// stale data beats no data; serve the stored state
			uc.logger.Warn("forced sync failed, serving stored state",
				"remittance_id", req.RemittanceID, "error", err)
		}
	}

	rem, err := loadRemittance(ctx, uc.repo, req.RemittanceID, req.MerchantID)
	if err != nil {
		return dto.RemittanceResponse{}, err
	}

	if req.MerchantID == "" {
		if req.ClientSecret == "" ||
			subtle.ConstantTimeCompare([]byte(req.ClientSecret), []byte(rem.ClientSecret())) != 1 {
			return dto.RemittanceResponse{}, apperr.New(apperr.KindUnauthorizedAccess, "client secret mismatch")
		}
	}

	resp := toRemittanceResponse(rem, req.MerchantID != "")

	if payment, err := uc.repo.FindPayment(ctx, rem.ID()); err == nil {
		resp.Payment = toPaymentLegResponse(payment)
	}
	if payout, err := uc.repo.FindPayout(ctx, rem.ID()); err == nil {
		resp.Payout = toPayoutLegResponse(payout)
	}

	return resp, nil
}
