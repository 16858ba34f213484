package memory

import (
	"cmp"
	"context"
	"slices"

	"synexpos/internal/core/apperror"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/domain/registers/stock"
)

// StockRepo implements stock.Repository.
type StockRepo struct {
	store *Store
}

var _ stock.Repository = (*StockRepo)(nil)

func NewStockRepo(store *Store) *StockRepo {
	return &StockRepo{store: store}
}

func toBatchRow(b *stock.StockBatch) batchRow {
	row := batchRow{
		ID:                b.ID(),
		ItemID:            b.ItemID(),
		ItemCode:          b.ItemCode().String(),
		QuantityReceived:  b.QuantityReceived(),
		QuantityRemaining: b.QuantityRemaining(),
		PurchaseDate:      b.PurchaseDate(),
	}
	if exp, ok := b.ExpiryDate(); ok {
		row.ExpiryDate = &exp
	}
	return row
}

func (r batchRow) toDomain() (*stock.StockBatch, error) {
	return stock.RestoreStockBatch(r.ID, r.ItemID, item.ItemCode(r.ItemCode),
		r.QuantityReceived, r.QuantityRemaining, r.PurchaseDate, r.ExpiryDate)
}

func byPurchaseDate(a, b batchRow) int {
	return cmp.Or(a.PurchaseDate.Compare(b.PurchaseDate), cmp.Compare(a.ID, b.ID))
}

func (r *StockRepo) CreateBatch(ctx context.Context, b *stock.StockBatch) error {
	return r.store.view(ctx, func(st *state) error {
		if _, ok := st.items[b.ItemID()]; !ok {
			return apperror.NewNotFound("item", b.ItemID())
		}
		b.AssignID(st.nextID())
		st.batches[b.ID()] = toBatchRow(b)
		return nil
	})
}

// ListBatchesForUpdate relies on the unit-of-work lock held by the caller.
func (r *StockRepo) ListBatchesForUpdate(ctx context.Context, itemID int64) ([]*stock.StockBatch, error) {
	var out []*stock.StockBatch
	err := r.store.view(ctx, func(st *state) error {
		rows := make([]batchRow, 0)
		for _, row := range st.batches {
			if row.ItemID == itemID {
				rows = append(rows, row)
			}
		}
		slices.SortFunc(rows, byPurchaseDate)
		var err error
		out, err = restoreBatches(rows)
		return err
	})
	return out, err
}

func (r *StockRepo) UpdateBatchRemaining(ctx context.Context, batches []*stock.StockBatch) error {
	return r.store.view(ctx, func(st *state) error {
		for _, b := range batches {
			row, ok := st.batches[b.ID()]
			if !ok {
				return apperror.NewConcurrentModification("stock_batch", b.ID())
			}
			row.QuantityRemaining = b.QuantityRemaining()
			st.batches[b.ID()] = row
		}
		return nil
	})
}

func (r *StockRepo) ListBatches(ctx context.Context, filter stock.BatchFilter) ([]*stock.StockBatch, error) {
	var out []*stock.StockBatch
	err := r.store.view(ctx, func(st *state) error {
		rows := make([]batchRow, 0, len(st.batches))
		for _, row := range st.batches {
			if filter.ItemID != nil && row.ItemID != *filter.ItemID {
				continue
			}
			if filter.OnlyRemaining && row.QuantityRemaining == 0 {
				continue
			}
			rows = append(rows, row)
		}
		slices.SortFunc(rows, func(a, b batchRow) int { return byPurchaseDate(b, a) })
		var err error
		out, err = restoreBatches(rows)
		return err
	})
	return out, err
}

func restoreBatches(rows []batchRow) ([]*stock.StockBatch, error) {
	out := make([]*stock.StockBatch, 0, len(rows))
	for _, row := range rows {
		b, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *StockRepo) GetChannelStockForUpdate(ctx context.Context, itemID int64, channel stock.Channel) (*stock.ChannelStock, error) {
	var out *stock.ChannelStock
	err := r.store.view(ctx, func(st *state) error {
		row, ok := st.pools[poolKey{ItemID: itemID, Channel: channel}]
		if !ok {
			return apperror.NewNotFound("channel stock", itemID).WithDetail("channel", string(channel))
		}
		var err error
		out, err = stock.RestoreChannelStock(row.ItemID, item.ItemCode(row.ItemCode), row.Channel, row.Quantity, row.UpdatedAt)
		return err
	})
	return out, err
}

func (r *StockRepo) SaveChannelStock(ctx context.Context, cs *stock.ChannelStock) error {
	return r.store.view(ctx, func(st *state) error {
		st.pools[poolKey{ItemID: cs.ItemID, Channel: cs.Channel}] = poolRow{
			ItemID:    cs.ItemID,
			ItemCode:  cs.ItemCode.String(),
			Channel:   cs.Channel,
			Quantity:  cs.Quantity(),
			UpdatedAt: cs.UpdatedAt,
		}
		return nil
	})
}

func (r *StockRepo) ListChannelStock(ctx context.Context, channel stock.Channel) ([]*stock.ChannelStock, error) {
	out := []*stock.ChannelStock{}
	err := r.store.view(ctx, func(st *state) error {
		rows := make([]poolRow, 0)
		for _, row := range st.pools {
			if row.Channel == channel {
				rows = append(rows, row)
			}
		}
		slices.SortFunc(rows, func(a, b poolRow) int { return cmp.Compare(a.ItemCode, b.ItemCode) })
		for _, row := range rows {
			cs, err := stock.RestoreChannelStock(row.ItemID, item.ItemCode(row.ItemCode), row.Channel, row.Quantity, row.UpdatedAt)
			if err != nil {
				return err
			}
			out = append(out, cs)
		}
		return nil
	})
	return out, err
}
