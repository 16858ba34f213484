package stock

import (
	"context"
)

// Repository persists batches and channel pools.
type Repository interface {
	// CreateBatch inserts a received batch and assigns its ID.
	CreateBatch(ctx context.Context, b *StockBatch) error

	// ListBatchesForUpdate returns every batch of the item ordered by
	// purchase date and locks them until the unit of work ends.
	ListBatchesForUpdate(ctx context.Context, itemID int64) ([]*StockBatch, error)

	// UpdateBatchRemaining stores the remaining quantity of each batch.
	UpdateBatchRemaining(ctx context.Context, batches []*StockBatch) error

	// ListBatches returns batches for reporting, newest purchase first.
	ListBatches(ctx context.Context, filter BatchFilter) ([]*StockBatch, error)

	// GetChannelStockForUpdate locks and returns the pool row of an item.
	// It returns NOT_FOUND when the item was never moved to the channel.
	GetChannelStockForUpdate(ctx context.Context, itemID int64, channel Channel) (*ChannelStock, error)

	// SaveChannelStock inserts or updates the pool row.
	SaveChannelStock(ctx context.Context, cs *ChannelStock) error

	// ListChannelStock returns all pool rows of a channel.
	ListChannelStock(ctx context.Context, channel Channel) ([]*ChannelStock, error)
}

// BatchFilter narrows ListBatches.
type BatchFilter struct {
	ItemID        *int64
	OnlyRemaining bool
}
