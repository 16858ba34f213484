// Package sale turns a cart into a priced, persisted, stock-adjusted bill.
package sale

import (
	"context"

	"synexpos/internal/core/types"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/domain/documents/bill"
	"synexpos/internal/domain/registers/stock"
)

// Line is one requested cart entry.
type Line struct {
	ItemCode string `json:"itemCode"`
	Quantity int    `json:"quantity"`
}

// Request is a checkout.
type Request struct {
	Lines           []Line
	TransactionType bill.TransactionType
	CustomerID      *int64
	CustomerName    string
	PaymentMethod   bill.PaymentMethod
	// CashTendered is required for cash payments and ignored otherwise.
	CashTendered *types.Money
	// Discount is the manual bill-level discount. Zero when absent.
	Discount types.Money
	// PaymentDetails are passed through to the gateway for non-cash methods.
	PaymentDetails map[string]string
}

// Result is a committed sale. PrintError is set when the receipt could not
// be produced; the sale stays committed.
type Result struct {
	Bill       *bill.Bill
	PrintError error
}

// PreviewRequest prices a cart without checking stock or taking payment.
type PreviewRequest struct {
	Lines    []Line
	Discount types.Money
}

// Preview is the priced cart shown before checkout.
type Preview struct {
	Items  []bill.BillItem
	Totals bill.Totals
}

// PaymentGateway authorizes non-cash payments.
type PaymentGateway interface {
	ProcessPayment(ctx context.Context, amount types.Money, method bill.PaymentMethod, details map[string]string) (bool, error)
}

// Printer produces the customer receipt. It runs after commit and is not
// transactional.
type Printer interface {
	Print(ctx context.Context, b *bill.Bill) error
	Format(b *bill.Bill) string
}

// ItemFinder resolves item codes.
type ItemFinder interface {
	GetByCode(ctx context.Context, code item.ItemCode) (*item.Item, error)
}

// StockReserver locks and decrements channel pools. *stock.Service
// satisfies it.
type StockReserver interface {
	ReserveForSale(ctx context.Context, it *item.Item, channel stock.Channel, qty int) (*stock.ChannelStock, error)
	Deduct(ctx context.Context, pool *stock.ChannelStock, qty int) error
}

// ChannelFor maps a transaction type to the pool it sells from.
func ChannelFor(t bill.TransactionType) stock.Channel {
	if t == bill.TransactionOnline {
		return stock.ChannelWebsite
	}
	return stock.ChannelShelf
}
