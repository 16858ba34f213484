// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"synexpos/internal/core/apperror"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/domain/registers/stock"
	"synexpos/internal/infrastructure/storage/postgres"
)

const (
	stockBatchTable   = "stock_batch"
	channelStockTable = "channel_stock"
)

type batchRow struct {
	ID                int64      `db:"id"`
	ItemID            int64      `db:"item_id"`
	ItemCode          string     `db:"item_code"`
	QuantityReceived  int        `db:"quantity_received"`
	QuantityRemaining int        `db:"quantity_remaining"`
	PurchaseDate      time.Time  `db:"purchase_date"`
	ExpiryDate        *time.Time `db:"expiry_date"`
}

func (r batchRow) toDomain() (*stock.StockBatch, error) {
	return stock.RestoreStockBatch(r.ID, r.ItemID, item.ItemCode(r.ItemCode), r.QuantityReceived, r.QuantityRemaining, r.PurchaseDate, r.ExpiryDate)
}

type channelRow struct {
	ItemID    int64     `db:"item_id"`
	ItemCode  string    `db:"item_code"`
	Channel   string    `db:"channel"`
	Quantity  int       `db:"quantity"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r channelRow) toDomain() (*stock.ChannelStock, error) {
	return stock.RestoreChannelStock(r.ItemID, item.ItemCode(r.ItemCode), stock.Channel(r.Channel), r.Quantity, r.UpdatedAt)
}

var batchCols = []string{
	"b.id", "b.item_id", "i.code AS item_code", "b.quantity_received",
	"b.quantity_remaining", "b.purchase_date", "b.expiry_date",
}

var channelCols = []string{
	"c.item_id", "i.code AS item_code", "c.channel", "c.quantity", "c.updated_at",
}

// StockRepo implements stock.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ stock.Repository = (*StockRepo)(nil)

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateBatch inserts a received batch.
func (r *StockRepo) CreateBatch(ctx context.Context, b *stock.StockBatch) error {
	var expiry *time.Time
	if e, ok := b.ExpiryDate(); ok {
		expiry = &e
	}

	sql, args, err := r.builder.Insert(stockBatchTable).
		Columns("item_id", "quantity_received", "quantity_remaining", "purchase_date", "expiry_date").
		Values(b.ItemID(), b.QuantityReceived(), b.QuantityRemaining(), b.PurchaseDate(), expiry).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	var newID int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&newID); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	b.AssignID(newID)
	return nil
}

func (r *StockRepo) batchSelect() squirrel.SelectBuilder {
	return r.builder.Select(batchCols...).
		From(stockBatchTable + " b").
		Join("item i ON i.id = b.item_id")
}

// ListBatchesForUpdate locks the batch rows of the item for the rest of the
// unit of work. Concurrent movements of the same item queue behind it.
func (r *StockRepo) ListBatchesForUpdate(ctx context.Context, itemID int64) ([]*stock.StockBatch, error) {
	q := r.batchSelect().
		Where(squirrel.Eq{"b.item_id": itemID}).
		OrderBy("b.purchase_date", "b.id").
		Suffix("FOR UPDATE OF b")
	return r.selectBatches(ctx, q)
}

// UpdateBatchRemaining writes the remaining quantities in one round-trip.
func (r *StockRepo) UpdateBatchRemaining(ctx context.Context, batches []*stock.StockBatch) error {
	queries := make([]postgres.BatchQuery, 0, len(batches))
	for _, b := range batches {
		sql, args, err := r.builder.Update(stockBatchTable).
			Set("quantity_remaining", b.QuantityRemaining()).
			Where(squirrel.Eq{"id": b.ID()}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		queries = append(queries, postgres.BatchQuery{SQL: sql, Args: args})
	}
	err := postgres.NewBatchExecutor(r.txManager).ExecuteBatch(ctx, queries, true)
	if errors.Is(err, postgres.ErrNoRowsAffected) {
		return apperror.NewConcurrentModification("stock_batch", batches[0].ItemID()).WithCause(err)
	}
	if err != nil {
		return fmt.Errorf("update batches: %w", err)
	}
	return nil
}

// ListBatches returns batches newest purchase first.
func (r *StockRepo) ListBatches(ctx context.Context, filter stock.BatchFilter) ([]*stock.StockBatch, error) {
	q := r.batchSelect().OrderBy("b.purchase_date DESC", "b.id DESC")
	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"b.item_id": *filter.ItemID})
	}
	if filter.OnlyRemaining {
		q = q.Where(squirrel.Gt{"b.quantity_remaining": 0})
	}
	return r.selectBatches(ctx, q)
}

func (r *StockRepo) selectBatches(ctx context.Context, q squirrel.SelectBuilder) ([]*stock.StockBatch, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []batchRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select batches: %w", err)
	}

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

func (r *StockRepo) channelSelect() squirrel.SelectBuilder {
	return r.builder.Select(channelCols...).
		From(channelStockTable + " c").
		Join("item i ON i.id = c.item_id")
}

// GetChannelStockForUpdate locks the pool row. Two checkouts of the same
// item serialize here, so the second one sees the first one's deduction.
func (r *StockRepo) GetChannelStockForUpdate(ctx context.Context, itemID int64, channel stock.Channel) (*stock.ChannelStock, error) {
	sql, args, err := r.channelSelect().
		Where(squirrel.Eq{"c.item_id": itemID, "c.channel": string(channel)}).
		Suffix("FOR UPDATE OF c").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row channelRow
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(channelStockTable, fmt.Sprintf("%d/%s", itemID, channel))
		}
		return nil, fmt.Errorf("get channel stock: %w", err)
	}
	return row.toDomain()
}

// SaveChannelStock upserts the pool row.
func (r *StockRepo) SaveChannelStock(ctx context.Context, cs *stock.ChannelStock) error {
	updatedAt := cs.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	sql, args, err := r.builder.Insert(channelStockTable).
		Columns("item_id", "channel", "quantity", "updated_at").
		Values(cs.ItemID, string(cs.Channel), cs.Quantity(), updatedAt).
		Suffix("ON CONFLICT (item_id, channel) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("save channel stock: %w", err)
	}
	return nil
}

func (r *StockRepo) ListChannelStock(ctx context.Context, channel stock.Channel) ([]*stock.ChannelStock, error) {
	sql, args, err := r.channelSelect().
		Where(squirrel.Eq{"c.channel": string(channel)}).
		OrderBy("i.code").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []channelRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select channel stock: %w", err)
	}

	out := make([]*stock.ChannelStock, 0, len(rows))
	for _, row := range rows {
		cs, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, nil
}
