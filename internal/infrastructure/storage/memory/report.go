package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"synexpos/internal/core/types"
	"synexpos/internal/domain/documents/bill"
	"synexpos/internal/domain/registers/stock"
	"synexpos/internal/domain/reports"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	store *Store
}

var _ reports.Repository = (*ReportRepo)(nil)

func NewReportRepo(store *Store) *ReportRepo {
	return &ReportRepo{store: store}
}

func (r *ReportRepo) DailySales(ctx context.Context, filter reports.DailySalesFilter) (*reports.DailySalesReport, error) {
	day := stock.DateOnly(filter.Date)
	report := &reports.DailySalesReport{TotalRevenue: types.ZeroMoney()}

	err := r.store.view(ctx, func(st *state) error {
		rows := st.billRows(func(row billRow) bool {
			return stock.DateOnly(row.DateTime).Equal(day) &&
				(filter.TransactionType == "" || row.TransactionType == bill.TransactionType(filter.TransactionType))
		})

		byCode := make(map[string]*reports.ItemSales)
		for _, row := range rows {
			b, err := row.toDomain()
			if err != nil {
				return err
			}
			report.BillCount++
			report.TotalRevenue = report.TotalRevenue.Add(b.Total())
			for _, l := range row.Lines {
				s, ok := byCode[l.ItemCode]
				if !ok {
					s = &reports.ItemSales{ItemCode: l.ItemCode, ItemName: l.ItemName, Revenue: types.ZeroMoney()}
					byCode[l.ItemCode] = s
				}
				s.Quantity += l.Quantity
				s.Revenue = s.Revenue.Add(l.Total)
			}
		}
		for _, s := range byCode {
			report.Items = append(report.Items, *s)
		}
		slices.SortFunc(report.Items, func(a, b reports.ItemSales) int {
			return cmp.Or(cmp.Compare(b.Quantity, a.Quantity), cmp.Compare(a.ItemCode, b.ItemCode))
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (r *ReportRepo) Batches(ctx context.Context) ([]reports.BatchRow, error) {
	var out []reports.BatchRow
	err := r.store.view(ctx, func(st *state) error {
		for _, b := range st.batches {
			out = append(out, reports.BatchRow{
				BatchID:           b.ID,
				ItemCode:          b.ItemCode,
				ItemName:          st.items[b.ItemID].Name,
				QuantityReceived:  b.QuantityReceived,
				QuantityRemaining: b.QuantityRemaining,
				PurchaseDate:      b.PurchaseDate,
				ExpiryDate:        b.ExpiryDate,
			})
		}
		slices.SortFunc(out, func(a, b reports.BatchRow) int {
			return cmp.Or(compareExpiry(a.ExpiryDate, b.ExpiryDate), a.PurchaseDate.Compare(b.PurchaseDate), cmp.Compare(a.BatchID, b.BatchID))
		})
		return nil
	})
	return out, err
}

// compareExpiry orders dated batches first, like NULLS LAST.
func compareExpiry(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

func (r *ReportRepo) BelowReorderLevel(ctx context.Context) ([]reports.ReorderRow, error) {
	var out []reports.ReorderRow
	err := r.store.view(ctx, func(st *state) error {
		for _, it := range st.items {
			shelf := st.pools[poolKey{ItemID: it.ID, Channel: stock.ChannelShelf}].Quantity
			if shelf >= it.ReorderLevel {
				continue
			}
			out = append(out, reports.ReorderRow{
				ItemCode:        it.Code,
				ItemName:        it.Name,
				ReorderLevel:    it.ReorderLevel,
				ShelfQuantity:   shelf,
				WebsiteQuantity: st.pools[poolKey{ItemID: it.ID, Channel: stock.ChannelWebsite}].Quantity,
			})
		}
		slices.SortFunc(out, func(a, b reports.ReorderRow) int { return cmp.Compare(a.ItemCode, b.ItemCode) })
		return nil
	})
	return out, err
}

func (r *ReportRepo) Bills(ctx context.Context, from, to time.Time) ([]reports.BillSummary, error) {
	lo, hi := stock.DateOnly(from), stock.DateOnly(to)
	var out []reports.BillSummary
	err := r.store.view(ctx, func(st *state) error {
		rows := st.billRows(func(row billRow) bool {
			d := stock.DateOnly(row.DateTime)
			return !d.Before(lo) && !d.After(hi)
		})
		for _, row := range rows {
			b, err := row.toDomain()
			if err != nil {
				return err
			}
			out = append(out, reports.BillSummary{
				ID:              b.ID(),
				SerialNumber:    b.SerialNumber(),
				DateTime:        b.DateTime(),
				TransactionType: string(b.TransactionType()),
				PaymentMethod:   string(b.PaymentMethod()),
				CustomerName:    b.CustomerName(),
				ItemCount:       b.TotalQuantity(),
				Total:           b.Total(),
			})
		}
		return nil
	})
	return out, err
}
