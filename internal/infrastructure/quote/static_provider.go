package quote

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zephyrpay/remit/internal/domain/port"
)

// Compile-time interface check.
var _ port.QuoteService = (*StaticProvider)(nil)

// feePercent is the flat service fee, 2% of the source amount.
var feePercent = decimal.NewFromFloat(0.02)

// StaticProvider serves FX rates from a fixed table. It stands in for a live
// rate feed; the currency pairs cover the corridors the service launches with.
type StaticProvider struct {
	rates map[string]decimal.Decimal
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		rates: map[string]decimal.Decimal{
			"USD/EUR": decimal.NewFromFloat(0.85),
			"USD/GBP": decimal.NewFromFloat(0.73),
			"USD/INR": decimal.NewFromFloat(88.20),
			"USD/MXN": decimal.NewFromFloat(18.65),
			"USD/PHP": decimal.NewFromFloat(57.10),
			"EUR/USD": decimal.NewFromFloat(1.18),
			"EUR/GBP": decimal.NewFromFloat(0.86),
			"GBP/USD": decimal.NewFromFloat(1.37),
			"GBP/EUR": decimal.NewFromFloat(1.16),
		},
	}
}

func (p *StaticProvider) Rate(_ context.Context, sourceCurrency, destinationCurrency string, amount int64, _ string) (port.RateQuote, error) {
	pair := fmt.Sprintf("%s/%s", strings.ToUpper(sourceCurrency), strings.ToUpper(destinationCurrency))
	rate, ok := p.rates[pair]
	if !ok {
		return port.RateQuote{}, fmt.Errorf("no rate for currency pair %s", pair)
	}

	fee := decimal.NewFromInt(amount).Mul(feePercent).Round(0).IntPart()
	return port.RateQuote{Rate: rate, Fee: fee}, nil
}
