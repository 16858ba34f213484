package stock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synexpos/internal/core/apperror"
	"synexpos/internal/domain/catalogs/item"
)

func TestNewStockBatch_Validation(t *testing.T) {
	code := item.MustItemCode("SKU1")

	_, err := NewStockBatch(1, code, 0, day(0), nil)
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = NewStockBatch(1, code, 5, time.Time{}, nil)
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = NewStockBatch(1, code, 5, day(0), ptr(day(-1)))
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	b, err := NewStockBatch(1, code, 5, day(0), ptr(day(0)))
	require.NoError(t, err)
	assert.Equal(t, 5, b.QuantityRemaining())
	assert.True(t, b.HasExpiry())
}

func TestStockBatch_ReduceStock(t *testing.T) {
	b := batch(t, 1, 5, day(-1), nil)

	require.NoError(t, b.ReduceStock(3))
	assert.Equal(t, 2, b.QuantityRemaining())
	assert.Equal(t, 5, b.QuantityReceived())

	err := b.ReduceStock(3)
	assert.True(t, apperror.Is(err, apperror.CodeInsufficientBatchStock))
	assert.Equal(t, 2, b.QuantityRemaining())

	assert.Error(t, b.ReduceStock(-1))
}

func TestStockBatch_Expiry(t *testing.T) {
	expired := batch(t, 1, 1, day(-10), ptr(day(-1)))
	fresh := batch(t, 2, 1, day(-10), ptr(day(12)))
	none := batch(t, 3, 1, day(-10), nil)

	assert.True(t, expired.IsExpired(today))
	assert.False(t, fresh.IsExpired(today))
	assert.False(t, none.IsExpired(today))

	days, ok := fresh.DaysUntilExpiry(today)
	assert.True(t, ok)
	assert.Equal(t, 12, days)

	days, ok = expired.DaysUntilExpiry(today)
	assert.True(t, ok)
	assert.Equal(t, -1, days)

	_, ok = none.DaysUntilExpiry(today)
	assert.False(t, ok)
}

func TestChannelStock(t *testing.T) {
	cs := NewChannelStock(1, item.MustItemCode("SKU1"), ChannelShelf)
	assert.False(t, cs.IsInStock())

	require.NoError(t, cs.AddStock(5))
	assert.Error(t, cs.AddStock(0))
	assert.True(t, cs.IsInStock())
	assert.True(t, cs.IsBelowReorderLevel(6))
	assert.False(t, cs.IsBelowReorderLevel(5))

	err := cs.ReduceStock(6)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, 5, cs.Quantity())

	require.NoError(t, cs.ReduceStock(5))
	assert.Equal(t, 0, cs.Quantity())

	_, err = RestoreChannelStock(1, "SKU1", ChannelWebsite, -1, time.Time{})
	assert.Error(t, err)
}
