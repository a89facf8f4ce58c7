package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zephyrpay/remit/internal/application/dto"
	"github.com/zephyrpay/remit/internal/domain/apperr"
	"github.com/zephyrpay/remit/internal/domain/port"
)

// rateValidity is how long a quoted rate is honored.
const rateValidity = 15 * time.Minute

// estimatedDelivery is the disbursement window advertised with a quote. The
// simulated rails settle in one batch cycle.
const estimatedDelivery = "1-2 business days"

// destinationAmount converts source minor units at the given rate, rounded
// half up.
func destinationAmount(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}

// QuoteRemittance prices a prospective transfer without creating anything.
type QuoteRemittance struct {
	quotes port.QuoteService
}

func NewQuoteRemittance(quotes port.QuoteService) *QuoteRemittance {
	return &QuoteRemittance{quotes: quotes}
}

func (uc *QuoteRemittance) Execute(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error) {
	if req.SourceCurrency == "" || req.DestinationCurrency == "" {
		return dto.QuoteResponse{}, apperr.MissingField("currency")
	}
	if strings.EqualFold(req.SourceCurrency, req.DestinationCurrency) {
		return dto.QuoteResponse{}, apperr.InvalidRequest("source and destination currencies must differ")
	}
	if req.Amount <= 0 {
		return dto.QuoteResponse{}, apperr.InvalidRequest("amount must be positive")
	}

	quote, err := uc.quotes.Rate(ctx, req.SourceCurrency, req.DestinationCurrency, req.Amount, req.Connector)
	if err != nil {
		return dto.QuoteResponse{}, apperr.Internal("quote lookup failed", err)
	}

	return dto.QuoteResponse{
		SourceCurrency:      strings.ToUpper(req.SourceCurrency),
		DestinationCurrency: strings.ToUpper(req.DestinationCurrency),
		Amount:              req.Amount,
		ExchangeRate:        quote.Rate.String(),
		Fee:                 quote.Fee,
		DestinationAmount:   destinationAmount(req.Amount, quote.Rate),
		TotalCost:           req.Amount + quote.Fee,
		RateValidUntil:      time.Now().UTC().Add(rateValidity),
		Connector:           req.Connector,
		EstimatedDelivery:   estimatedDelivery,
	}, nil
}
