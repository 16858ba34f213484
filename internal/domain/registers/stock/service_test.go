package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synexpos/internal/core/apperror"
	"synexpos/internal/core/types"
	"synexpos/internal/domain"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/domain/registers/stock"
	"synexpos/internal/infrastructure/storage/memory"
)

var now = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	repo   *memory.StockRepo
	items  *memory.ItemRepo
	events *memory.EventLog
	svc    *stock.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		repo:   memory.NewStockRepo(store),
		items:  memory.NewItemRepo(store),
		events: memory.NewEventLog(store),
	}
	f.svc = stock.NewService(f.repo, f.items, memory.NewTxManager(store), f.events, memory.NewAuditLog(store)).
		WithClock(func() time.Time { return now })

	it, err := item.NewItem(item.MustItemCode("MILK"), "Fresh Milk 1L", types.MustMoney("320.00"), decimal.Zero, 10)
	require.NoError(t, err)
	require.NoError(t, f.items.Create(context.Background(), it))
	return f
}

func (f *fixture) receive(t *testing.T, qty int, purchasedDaysAgo int, expiresInDays *int) *stock.StockBatch {
	t.Helper()
	in := stock.ReceiveInput{
		ItemCode:     "milk",
		Quantity:     qty,
		PurchaseDate: now.AddDate(0, 0, -purchasedDaysAgo),
	}
	if expiresInDays != nil {
		exp := now.AddDate(0, 0, *expiresInDays)
		in.ExpiryDate = &exp
	}
	b, err := f.svc.ReceiveStock(context.Background(), in)
	require.NoError(t, err)
	return b
}

func days(n int) *int { return &n }

func TestReceiveStock(t *testing.T) {
	f := newFixture(t)

	b := f.receive(t, 40, 2, days(60))
	assert.NotZero(t, b.ID())
	assert.Equal(t, 40, b.QuantityRemaining())

	_, err := f.svc.ReceiveStock(context.Background(), stock.ReceiveInput{ItemCode: "BREAD", Quantity: 1})
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.ReceiveStock(context.Background(), stock.ReceiveInput{ItemCode: "MILK", Quantity: 0})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	events := f.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventStockReceived, events[0].EventType)
}

func TestMoveToChannel_NearExpiryFirstThenFIFO(t *testing.T) {
	f := newFixture(t)
	old := f.receive(t, 10, 40, nil)
	fresh := f.receive(t, 10, 5, days(100))
	nearExpiry := f.receive(t, 4, 3, days(7))

	res, err := f.svc.MoveToChannel(context.Background(), stock.MoveInput{ItemCode: "MILK", Quantity: 6, Channel: stock.ChannelShelf})
	require.NoError(t, err)
	assert.Equal(t, 6, res.ChannelQuantity)
	require.Len(t, res.Draws, 2)
	assert.Equal(t, nearExpiry.ID(), res.Draws[0].Batch.ID())
	assert.Equal(t, 4, res.Draws[0].Quantity)
	assert.Equal(t, old.ID(), res.Draws[1].Batch.ID())
	assert.Equal(t, 2, res.Draws[1].Quantity)

	batches, err := f.svc.ListBatches(context.Background(), stock.BatchFilter{})
	require.NoError(t, err)
	remaining := map[int64]int{}
	for _, b := range batches {
		remaining[b.ID()] = b.QuantityRemaining()
	}
	assert.Equal(t, 0, remaining[nearExpiry.ID()])
	assert.Equal(t, 8, remaining[old.ID()])
	assert.Equal(t, 10, remaining[fresh.ID()])

	res, err = f.svc.MoveToChannel(context.Background(), stock.MoveInput{ItemCode: "MILK", Quantity: 3, Channel: stock.ChannelShelf})
	require.NoError(t, err)
	assert.Equal(t, 9, res.ChannelQuantity)

	levels, err := f.svc.ChannelLevels(context.Background(), stock.ChannelShelf)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 9, levels[0].Quantity())
}

func TestMoveToChannel_ShortageRollsBack(t *testing.T) {
	f := newFixture(t)
	b := f.receive(t, 5, 1, nil)

	_, err := f.svc.MoveToChannel(context.Background(), stock.MoveInput{ItemCode: "MILK", Quantity: 6, Channel: stock.ChannelWebsite})
	assert.True(t, apperror.Is(err, apperror.CodeInsufficientBatchStock))

	batches, err := f.svc.ListBatches(context.Background(), stock.BatchFilter{})
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, b.ID(), batches[0].ID())
	assert.Equal(t, 5, batches[0].QuantityRemaining())

	levels, err := f.svc.ChannelLevels(context.Background(), stock.ChannelWebsite)
	require.NoError(t, err)
	assert.Empty(t, levels)
}

func TestMoveToChannel_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.MoveToChannel(context.Background(), stock.MoveInput{ItemCode: "MILK", Quantity: 1, Channel: stock.ChannelShelf})
	assert.True(t, apperror.IsNotFound(err), "no batches")

	_, err = f.svc.MoveToChannel(context.Background(), stock.MoveInput{ItemCode: "MILK", Quantity: 1, Channel: "WAREHOUSE"})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = f.svc.MoveToChannel(context.Background(), stock.MoveInput{ItemCode: "MILK", Quantity: -2, Channel: stock.ChannelShelf})
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}
