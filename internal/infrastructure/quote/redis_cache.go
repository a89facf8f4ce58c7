package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/zephyrpay/remit/internal/domain/port"
)

// Compile-time interface check.
var _ port.QuoteService = (*CachedProvider)(nil)

// cacheTTL matches the window a quoted rate is honored for.
const cacheTTL = 15 * time.Minute

type cachedQuote struct {
	Rate decimal.Decimal `json:"rate"`
	Fee  int64           `json:"fee"`
}

// CachedProvider decorates a QuoteService with a Redis cache keyed by
// currency pair and amount bucket. Cache failures fall through to the
// underlying provider.
type CachedProvider struct {
	inner  port.QuoteService
	client *redis.Client
	logger *slog.Logger
}

func NewCachedProvider(inner port.QuoteService, client *redis.Client, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{inner: inner, client: client, logger: logger}
}

func (p *CachedProvider) Rate(ctx context.Context, sourceCurrency, destinationCurrency string, amount int64, connector string) (port.RateQuote, error) {
	key := p.cacheKey(sourceCurrency, destinationCurrency, amount, connector)

	raw, err := p.client.Get(ctx, key).Result()
	if err == nil {
		var cached cachedQuote
		if uerr := json.Unmarshal([]byte(raw), &cached); uerr == nil {
			return port.RateQuote{Rate: cached.Rate, Fee: cached.Fee}, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		p.logger.Warn("quote cache read failed", "key", key, "error", err)
	}

	quote, err := p.inner.Rate(ctx, sourceCurrency, destinationCurrency, amount, connector)
	if err != nil {
		return port.RateQuote{}, err
	}

	payload, err := json.Marshal(cachedQuote{Rate: quote.Rate, Fee: quote.Fee})
	if err == nil {
		if serr := p.client.Set(ctx, key, payload, cacheTTL).Err(); serr != nil {
			p.logger.Warn("quote cache write failed", "key", key, "error", serr)
		}
	}

	return quote, nil
}

func (p *CachedProvider) cacheKey(src, dst string, amount int64, connector string) string {
	return fmt.Sprintf("quote:%s:%s:%d:%s",
		strings.ToUpper(src), strings.ToUpper(dst), amount, connector)
}
