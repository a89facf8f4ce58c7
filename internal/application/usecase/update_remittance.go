package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/zephyrpay/remit/internal/application/dto"
	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/model"
	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/service"
)

// UpdateRemittance patches reference, metadata, return URL or beneficiary
// details while the remittance is still in CREATED.
type UpdateRemittance struct {
	repo      port.RemittanceRepository
	validator service.Validator
}

func NewUpdateRemittance(repo port.RemittanceRepository, validator service.Validator) *UpdateRemittance {
	return &UpdateRemittance{repo: repo, validator: validator}
}

func (uc *UpdateRemittance) Execute(ctx context.Context, req dto.UpdateRemittanceRequest) (dto.RemittanceResponse, error) {
	rem, err := loadRemittance(ctx, uc.repo, req.RemittanceID, req.MerchantID)
	if err != nil {
		return dto.RemittanceResponse{}, err
	}

	if err := uc.validator.ValidateUpdatable(rem); err != nil {
		return dto.RemittanceResponse{}, err
	}

	updated, err := rem.UpdateDetails(model.UpdatePatch{
		Reference:   req.Reference,
		ReturnURL:   req.ReturnURL,
		Metadata:    req.Metadata,
		Beneficiary: req.Beneficiary,
	}, time.Now().UTC())
	if err != nil {
		return dto.RemittanceResponse{}, err
	}

	if err := uc.repo.UpdateDetails(ctx, updated); err != nil {
		if errors.Is(err, port.ErrStale) {
			return dto.RemittanceResponse{}, apperr.Conflict(rem.ID().String())
		}
		return dto.RemittanceResponse{}, apperr.Internal("failed to persist update", err)
	}

	return toRemittanceResponse(updated, false), nil
}
