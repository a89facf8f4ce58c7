package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrpay/remit/internal/domain/port"
	"github.com/zephyrpay/remit/internal/domain/valueobject"
)

func TestNewRemittanceRepo(t *testing.T) {
	repo := NewRemittanceRepo(nil)
	assert.NotNil(t, repo)
	assert.Nil(t, repo.pool)
}

func TestBuildFilters(t *testing.T) {
	t.Run("empty filters produce no clause", func(t *testing.T) {
		where, args := buildFilters(port.ListFilters{})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("clauses are numbered in order", func(t *testing.T) {
		status := valueobject.RemittanceStatusCompleted
		after := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		where, args := buildFilters(port.ListFilters{
			MerchantID:   "merchant_abc",
			Status:       &status,
			CreatedAfter: &after,
		})

		assert.Equal(t, "WHERE merchant_id = $1 AND status = $2 AND created_at >= $3", where)
		require.Len(t, args, 3)
		assert.Equal(t, "merchant_abc", args[0])
		assert.Equal(t, "completed", args[1])
		assert.Equal(t, after, args[2])
	})
}
