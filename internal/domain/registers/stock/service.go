package stock

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"synexpos/internal/core/apperror"
	"synexpos/internal/core/tx"
	"synexpos/internal/domain"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/pkg/logger"
)

// ItemFinder resolves item codes. item.Repository satisfies it.
type ItemFinder interface {
	GetByCode(ctx context.Context, code item.ItemCode) (*item.Item, error)
}

// Service receives stock and replenishes the channel pools.
type Service struct {
	repo      Repository
	items     ItemFinder
	txManager tx.Manager
	events    domain.EventPublisher
	audit     domain.AuditRecorder
	now       func() time.Time
}

// NewService creates a new stock service.
func NewService(repo Repository, items ItemFinder, txManager tx.Manager, events domain.EventPublisher, audit domain.AuditRecorder) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		txManager: txManager,
		events:    events,
		audit:     audit,
		now:       time.Now,
	}
}

// WithClock replaces the time source that defines "today" for allocation.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ReceiveInput describes a supplier delivery.
type ReceiveInput struct {
	ItemCode     string
	Quantity     int
	PurchaseDate time.Time
	ExpiryDate   *time.Time
}

// ReceiveStock records a new batch for an existing item.
func (s *Service) ReceiveStock(ctx context.Context, in ReceiveInput) (*StockBatch, error) {
	code, err := item.ParseItemCode(in.ItemCode)
	if err != nil {
		return nil, err
	}
	purchase := in.PurchaseDate
	if purchase.IsZero() {
		purchase = s.now()
	}

	var batch *StockBatch
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.items.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		batch, err = NewStockBatch(it.ID(), it.Code(), in.Quantity, purchase, in.ExpiryDate)
		if err != nil {
			return err
		}
		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}
		return s.events.Publish(ctx, domain.Event{
			AggregateType: "stock_batch",
			AggregateID:   strconv.FormatInt(batch.ID(), 10),
			EventType:     domain.EventStockReceived,
			Payload: map[string]any{
				"item_code": code.String(),
				"quantity":  batch.QuantityReceived(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock received",
		"item_code", code,
		"batch_id", batch.ID(),
		"quantity", batch.QuantityReceived(),
	)
	return batch, nil
}

// MoveInput asks for qty units of an item to be moved into a channel pool.
type MoveInput struct {
	ItemCode string
	Quantity int
	Channel  Channel
}

// MoveResult reports a completed replenishment.
type MoveResult struct {
	ItemCode        item.ItemCode
	Channel         Channel
	Quantity        int
	ChannelQuantity int
	Draws           []Draw
}

// MoveToChannel draws qty units from the item's batches (near-expiry first,
// then oldest) and adds them to the channel pool in one unit of work.
func (s *Service) MoveToChannel(ctx context.Context, in MoveInput) (*MoveResult, error) {
	code, err := item.ParseItemCode(in.ItemCode)
	if err != nil {
		return nil, err
	}
	if !in.Channel.IsValid() {
		return nil, apperror.NewValidation("unknown channel").
			WithDetail("field", "channel").
			WithDetail("value", string(in.Channel))
	}
	if in.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", in.Quantity)
	}

	var result *MoveResult
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.items.GetByCode(ctx, code)
		if err != nil {
			return err
		}

		batches, err := s.repo.ListBatchesForUpdate(ctx, it.ID())
		if err != nil {
			return fmt.Errorf("list batches: %w", err)
		}
		if len(batches) == 0 {
			return apperror.NewNotFound("stock batch", code.String()).
				WithDetail("item_code", code.String())
		}

		draws, err := Allocate(code, batches, in.Quantity, s.now())
		if err != nil {
			return err
		}

		touched := make([]*StockBatch, 0, len(draws))
		for _, d := range draws {
			touched = append(touched, d.Batch)
		}
		if err := s.repo.UpdateBatchRemaining(ctx, touched); err != nil {
			return fmt.Errorf("update batches: %w", err)
		}

		pool, err := s.repo.GetChannelStockForUpdate(ctx, it.ID(), in.Channel)
		if apperror.IsNotFound(err) {
			pool = NewChannelStock(it.ID(), it.Code(), in.Channel)
		} else if err != nil {
			return fmt.Errorf("get channel stock: %w", err)
		}
		if err := pool.AddStock(in.Quantity); err != nil {
			return err
		}
		pool.UpdatedAt = s.now()
		if err := s.repo.SaveChannelStock(ctx, pool); err != nil {
			return fmt.Errorf("save channel stock: %w", err)
		}

		result = &MoveResult{
			ItemCode:        code,
			Channel:         in.Channel,
			Quantity:        in.Quantity,
			ChannelQuantity: pool.Quantity(),
			Draws:           draws,
		}

		drawLog := make([]map[string]any, 0, len(draws))
		for _, d := range draws {
			drawLog = append(drawLog, map[string]any{"batch_id": d.Batch.ID(), "quantity": d.Quantity})
		}
		if err := s.audit.Record(ctx, "channel_stock", code.String()+":"+string(in.Channel), domain.AuditActionMove, map[string]any{
			"quantity": in.Quantity,
			"draws":    drawLog,
		}); err != nil {
			return err
		}
		return s.events.Publish(ctx, domain.Event{
			AggregateType: "channel_stock",
			AggregateID:   code.String(),
			EventType:     domain.EventStockMoved,
			Payload: map[string]any{
				"item_code": code.String(),
				"channel":   string(in.Channel),
				"quantity":  in.Quantity,
				"available": pool.Quantity(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock moved to channel",
		"item_code", code,
		"channel", in.Channel,
		"quantity", in.Quantity,
		"batches", len(result.Draws),
	)
	return result, nil
}

// ReserveForSale locks the channel pool row of the item and checks that qty
// units are available. It must run inside the caller's unit of work; the
// lock holds until that unit of work ends, so a concurrent sale of the same
// item waits instead of passing the same check.
func (s *Service) ReserveForSale(ctx context.Context, it *item.Item, channel Channel, qty int) (*ChannelStock, error) {
	pool, err := s.repo.GetChannelStockForUpdate(ctx, it.ID(), channel)
	if apperror.IsNotFound(err) {
		return nil, apperror.NewInsufficientStock(it.Code().String(), string(channel), qty, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("lock channel stock: %w", err)
	}
	if pool.Quantity() < qty {
		return nil, apperror.NewInsufficientStock(it.Code().String(), string(channel), qty, pool.Quantity())
	}
	return pool, nil
}

// Deduct removes qty units from a pool returned by ReserveForSale.
// It must run inside the same unit of work.
func (s *Service) Deduct(ctx context.Context, pool *ChannelStock, qty int) error {
	if err := pool.ReduceStock(qty); err != nil {
		return err
	}
	pool.UpdatedAt = s.now()
	if err := s.repo.SaveChannelStock(ctx, pool); err != nil {
		return fmt.Errorf("save channel stock: %w", err)
	}
	return nil
}

// ListBatches returns batches for the stock report.
func (s *Service) ListBatches(ctx context.Context, filter BatchFilter) ([]*StockBatch, error) {
	return s.repo.ListBatches(ctx, filter)
}

// ChannelLevels returns every pool row of a channel.
func (s *Service) ChannelLevels(ctx context.Context, channel Channel) ([]*ChannelStock, error) {
	if !channel.IsValid() {
		return nil, apperror.NewValidation("unknown channel").WithDetail("value", string(channel))
	}
	return s.repo.ListChannelStock(ctx, channel)
}
