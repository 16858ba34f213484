package stock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synexpos/internal/core/apperror"
	"synexpos/internal/domain/catalogs/item"
)

var today = time.Date(2026, 6, 1, 15, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return DateOnly(today).AddDate(0, 0, offset)
}

func ptr(t time.Time) *time.Time { return &t }

func batch(t *testing.T, id int64, qty int, purchase time.Time, expiry *time.Time) *StockBatch {
	t.Helper()
	b, err := RestoreStockBatch(id, 1, item.MustItemCode("SKU1"), qty, qty, purchase, expiry)
	require.NoError(t, err)
	return b
}

func ids(batches []*StockBatch) []int64 {
	out := make([]int64, 0, len(batches))
	for _, b := range batches {
		out = append(out, b.ID())
	}
	return out
}

func TestSelectBatches_FarExpiryFollowsArrival(t *testing.T) {
	b1 := batch(t, 1, 50, day(-60), ptr(day(90)))
	b2 := batch(t, 2, 50, day(-51), ptr(day(95)))

	selected, err := SelectBatches("SKU1", []*StockBatch{b2, b1}, 20, today)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(selected))
}

func TestSelectBatches_NearExpiryFirstDespiteNewer(t *testing.T) {
	b1 := batch(t, 1, 50, day(-40), ptr(day(150)))
	b2 := batch(t, 2, 10, day(-20), ptr(day(20)))

	selected, err := SelectBatches("SKU1", []*StockBatch{b1, b2}, 5, today)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(selected))

	selected, err = SelectBatches("SKU1", []*StockBatch{b1, b2}, 15, today)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(selected))
}

func TestSelectBatches_NoExpiryIsFIFO(t *testing.T) {
	b1 := batch(t, 1, 10, day(-40), nil)
	b2 := batch(t, 2, 10, day(-21), nil)

	selected, err := SelectBatches("SKU1", []*StockBatch{b2, b1}, 8, today)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(selected))
}

func TestSelectBatches_WindowBoundaryIsExclusive(t *testing.T) {
	onBoundary := batch(t, 1, 10, day(-5), ptr(day(30)))
	noExpiry := batch(t, 2, 10, day(-10), nil)
	inside := batch(t, 3, 10, day(-1), ptr(day(29)))

	selected, err := SelectBatches("SKU1", []*StockBatch{onBoundary, noExpiry, inside}, 25, today)
	require.NoError(t, err)
	// inside window, then no-expiry FIFO, then the boundary batch as leftover
	assert.Equal(t, []int64{3, 2, 1}, ids(selected))
}

func TestSelectBatches_OrderAcrossAllPasses(t *testing.T) {
	near2 := batch(t, 1, 5, day(-30), ptr(day(10)))
	near1 := batch(t, 2, 5, day(-2), ptr(day(3)))
	oldNoExp := batch(t, 3, 5, day(-90), nil)
	newNoExp := batch(t, 4, 5, day(-1), nil)
	far := batch(t, 5, 5, day(-100), ptr(day(200)))
	empty := batch(t, 6, 5, day(-200), nil)
	require.NoError(t, empty.ReduceStock(5))

	all := []*StockBatch{far, newNoExp, empty, near2, oldNoExp, near1}

	selected, err := SelectBatches("SKU1", all, 25, today)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 3, 4, 5}, ids(selected))

	selected, err = SelectBatches("SKU1", all, 11, today)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1, 3}, ids(selected))
}

func TestSelectBatches_Insufficient(t *testing.T) {
	b1 := batch(t, 1, 4, day(-3), nil)
	b2 := batch(t, 2, 3, day(-2), ptr(day(60)))

	_, err := SelectBatches("SKU1", []*StockBatch{b1, b2}, 8, today)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientBatchStock, appErr.Code)
	assert.Equal(t, 7, appErr.Details["available"])
	assert.Equal(t, 4, b1.QuantityRemaining())
}

func TestAllocate_DrainsInSelectedOrder(t *testing.T) {
	b1 := batch(t, 1, 10, day(-40), nil)
	b2 := batch(t, 2, 6, day(-20), ptr(day(7)))
	b3 := batch(t, 3, 10, day(-10), nil)

	draws, err := Allocate("SKU1", []*StockBatch{b1, b2, b3}, 12, today)
	require.NoError(t, err)
	require.Len(t, draws, 2)

	assert.Equal(t, int64(2), draws[0].Batch.ID())
	assert.Equal(t, 6, draws[0].Quantity)
	assert.Equal(t, int64(1), draws[1].Batch.ID())
	assert.Equal(t, 6, draws[1].Quantity)

	assert.Equal(t, 0, b2.QuantityRemaining())
	assert.Equal(t, 4, b1.QuantityRemaining())
	assert.Equal(t, 10, b3.QuantityRemaining())
	assert.Equal(t, 10, b1.QuantityReceived())
}

func TestAllocate_RejectsNonPositive(t *testing.T) {
	_, err := Allocate("SKU1", []*StockBatch{batch(t, 1, 1, day(-1), nil)}, 0, today)
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}
