// Package stock tracks supplier batches and the per-channel sellable pools
// (shelf for counter sales, website for online sales), and moves stock from
// batches into a pool.
package stock

import (
	"time"

	"synexpos/internal/core/apperror"
	"synexpos/internal/domain/catalogs/item"
)

// Channel is an independent sellable pool of an item.
type Channel string

const (
	ChannelShelf   Channel = "SHELF"
	ChannelWebsite Channel = "WEBSITE"
)

func (c Channel) IsValid() bool {
	return c == ChannelShelf || c == ChannelWebsite
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StockBatch is one supplier delivery. The received quantity is fixed; the
// remaining quantity only goes down. Batches are kept at zero remaining.
type StockBatch struct {
	id                int64
	itemID            int64
	itemCode          item.ItemCode
	quantityReceived  int
	quantityRemaining int
	purchaseDate      time.Time
	expiryDate        *time.Time
}

// NewStockBatch creates a received batch with remaining == received.
func NewStockBatch(itemID int64, code item.ItemCode, qty int, purchaseDate time.Time, expiryDate *time.Time) (*StockBatch, error) {
	if qty <= 0 {
		return nil, apperror.NewValidation("batch quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", qty)
	}
	return RestoreStockBatch(0, itemID, code, qty, qty, purchaseDate, expiryDate)
}

// RestoreStockBatch rebuilds a stored batch.
func RestoreStockBatch(id, itemID int64, code item.ItemCode, received, remaining int, purchaseDate time.Time, expiryDate *time.Time) (*StockBatch, error) {
	if purchaseDate.IsZero() {
		return nil, apperror.NewValidation("purchase date is required").
			WithDetail("field", "purchaseDate")
	}
	if remaining < 0 || remaining > received {
		return nil, apperror.NewValidation("remaining quantity out of range").
			WithDetail("field", "quantityRemaining").
			WithDetail("value", remaining)
	}

	purchase := DateOnly(purchaseDate)
	var expiry *time.Time
	if expiryDate != nil {
		e := DateOnly(*expiryDate)
		if e.Before(purchase) {
			return nil, apperror.NewValidation("expiry date cannot be before purchase date").
				WithDetail("field", "expiryDate")
		}
		expiry = &e
	}

	return &StockBatch{
		id:                id,
		itemID:            itemID,
		itemCode:          code,
		quantityReceived:  received,
		quantityRemaining: remaining,
		purchaseDate:      purchase,
		expiryDate:        expiry,
	}, nil
}

func (b *StockBatch) ID() int64               { return b.id }
func (b *StockBatch) ItemID() int64           { return b.itemID }
func (b *StockBatch) ItemCode() item.ItemCode { return b.itemCode }
func (b *StockBatch) QuantityReceived() int   { return b.quantityReceived }
func (b *StockBatch) QuantityRemaining() int  { return b.quantityRemaining }
func (b *StockBatch) PurchaseDate() time.Time { return b.purchaseDate }

// ExpiryDate returns the expiry date, if the batch has one.
func (b *StockBatch) ExpiryDate() (time.Time, bool) {
	if b.expiryDate == nil {
		return time.Time{}, false
	}
	return *b.expiryDate, true
}

func (b *StockBatch) HasExpiry() bool { return b.expiryDate != nil }

// AssignID sets the store identity once.
func (b *StockBatch) AssignID(id int64) {
	if b.id == 0 {
		b.id = id
	}
}

// ReduceStock takes qty units out of the batch.
func (b *StockBatch) ReduceStock(qty int) error {
	if qty <= 0 {
		return apperror.NewValidation("reduction must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", qty)
	}
	if qty > b.quantityRemaining {
		return apperror.NewInsufficientBatchStock(b.itemCode.String(), qty, b.quantityRemaining).
			WithDetail("batch_id", b.id)
	}
	b.quantityRemaining -= qty
	return nil
}

// IsExpired reports whether the expiry date is before today.
func (b *StockBatch) IsExpired(today time.Time) bool {
	return b.expiryDate != nil && b.expiryDate.Before(DateOnly(today))
}

// DaysUntilExpiry returns whole days from today to expiry. It is negative
// for expired batches and false for batches without expiry.
func (b *StockBatch) DaysUntilExpiry(today time.Time) (int, bool) {
	if b.expiryDate == nil {
		return 0, false
	}
	return int(b.expiryDate.Sub(DateOnly(today)).Hours() / 24), true
}

// ChannelStock is the sellable quantity of one item in one channel.
type ChannelStock struct {
	ItemID    int64
	ItemCode  item.ItemCode
	Channel   Channel
	quantity  int
	UpdatedAt time.Time
}

// NewChannelStock creates an empty pool entry.
func NewChannelStock(itemID int64, code item.ItemCode, channel Channel) *ChannelStock {
	return &ChannelStock{ItemID: itemID, ItemCode: code, Channel: channel}
}

// RestoreChannelStock rebuilds a stored pool entry.
func RestoreChannelStock(itemID int64, code item.ItemCode, channel Channel, qty int, updatedAt time.Time) (*ChannelStock, error) {
	if qty < 0 {
		return nil, apperror.NewValidation("channel quantity cannot be negative").
			WithDetail("item_code", code.String()).
			WithDetail("value", qty)
	}
	return &ChannelStock{ItemID: itemID, ItemCode: code, Channel: channel, quantity: qty, UpdatedAt: updatedAt}, nil
}

func (c *ChannelStock) Quantity() int { return c.quantity }

// AddStock increases the pool by a positive quantity.
func (c *ChannelStock) AddStock(qty int) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity to add must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", qty)
	}
	c.quantity += qty
	return nil
}

// ReduceStock removes qty units; more than available is rejected.
func (c *ChannelStock) ReduceStock(qty int) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity to reduce must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", qty)
	}
	if qty > c.quantity {
		return apperror.NewInsufficientStock(c.ItemCode.String(), string(c.Channel), qty, c.quantity)
	}
	c.quantity -= qty
	return nil
}

func (c *ChannelStock) IsInStock() bool { return c.quantity > 0 }

func (c *ChannelStock) IsBelowReorderLevel(level int) bool { return c.quantity < level }
