package bill

import (
	"context"
	"time"
)

// Repository is the invoice store.
type Repository interface {
	// Save persists the bill with its lines and assigns the bill ID.
	Save(ctx context.Context, b *Bill) error

	GetByID(ctx context.Context, id int64) (*Bill, error)
	GetBySerialNumber(ctx context.Context, serial string) (*Bill, error)

	// FindByDate returns bills issued on the calendar day of date.
	// A non-empty transaction type narrows the result to one channel.
	FindByDate(ctx context.Context, date time.Time, txType TransactionType) ([]*Bill, error)

	// FindByDateRange returns bills issued between from and to inclusive (by day).
	FindByDateRange(ctx context.Context, from, to time.Time) ([]*Bill, error)
}
