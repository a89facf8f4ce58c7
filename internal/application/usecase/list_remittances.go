package usecase

import (
	"context"
	"strings"

	"github.com/zephyrpay/remit/internal/application/dto"
	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// ListRemittances pages through a merchant's remittances. The total count is
// fetched independently of the page.
type ListRemittances struct {
	repo port.RemittanceRepository
}

func NewListRemittances(repo port.RemittanceRepository) *ListRemittances {
	return &ListRemittances{repo: repo}
}

func (uc *ListRemittances) Execute(ctx context.Context, req dto.ListRemittancesRequest) (dto.ListRemittancesResponse, error) {
	if req.MerchantID == "" {
		return dto.ListRemittancesResponse{}, apperr.MissingField("merchant_id")
	}

	limit := req.Limit
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	filters := port.ListFilters{
		MerchantID:          req.MerchantID,
		ProfileID:           req.ProfileID,
		Connector:           req.Connector,
		SourceCurrency:      strings.ToUpper(req.SourceCurrency),
		DestinationCurrency: strings.ToUpper(req.DestinationCurrency),
		CreatedAfter:        req.CreatedAfter,
		CreatedBefore:       req.CreatedBefore,
	}
	if req.Status != "" {
		status, err := valueobject.NewRemittanceStatus(req.Status)
		if err != nil {
			return dto.ListRemittancesResponse{}, apperr.InvalidRequest(err.Error())
		}
		filters.Status = &status
	}

	items, err := uc.repo.List(ctx, filters, limit, offset)
	if err != nil {
		return dto.ListRemittancesResponse{}, apperr.Internal("failed to list remittances", err)
	}
	total, err := uc.repo.Count(ctx, filters)
	if err != nil {
		return dto.ListRemittancesResponse{}, apperr.Internal("failed to count remittances", err)
	}

	resp := dto.ListRemittancesResponse{
		Items:      make([]dto.RemittanceResponse, 0, len(items)),
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}
	for _, rem := range items {
		resp.Items = append(resp.Items, toRemittanceResponse(rem, false))
	}
	return resp, nil
}
