package quote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider_Rate(t *testing.T) {
	provider := NewStaticProvider()

	quote, err := provider.Rate(context.Background(), "USD", "EUR", 100_000, "stripe")
	require.NoError(t, err)

	assert.Equal(t, "0.85", quote.Rate.String())
	// 2% of 100,000 minor units
	assert.Equal(t, int64(2000), quote.Fee)
}

func TestStaticProvider_CaseInsensitive(t *testing.T) {
	provider := NewStaticProvider()

	quote, err := provider.Rate(context.Background(), "usd", "gbp", 1000, "")
	require.NoError(t, err)
	assert.Equal(t, "0.73", quote.Rate.String())
	assert.Equal(t, int64(20), quote.Fee)
}

func TestStaticProvider_UnknownPair(t *testing.T) {
	provider := NewStaticProvider()

	_, err := provider.Rate(context.Background(), "USD", "XYZ", 1000, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USD/XYZ")
}
