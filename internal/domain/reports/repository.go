package reports

import (
	"context"
	"time"
)

// Repository reads report data.
type Repository interface {
	// DailySales counts the bills of the day, sums their totals and sums
	// their lines per item, best sellers first.
	DailySales(ctx context.Context, filter DailySalesFilter) (*DailySalesReport, error)

	// Batches returns every batch, earliest expiry first.
	Batches(ctx context.Context) ([]BatchRow, error)

	// BelowReorderLevel returns items whose shelf quantity is below their
	// reorder level. Items never shelved count as zero.
	BelowReorderLevel(ctx context.Context) ([]ReorderRow, error)

	// Bills returns bill summaries issued between from and to (by day).
	Bills(ctx context.Context, from, to time.Time) ([]BillSummary, error)
}
