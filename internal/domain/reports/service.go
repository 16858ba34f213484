package reports

import (
	"context"
	"fmt"
	"time"

	"synexpos/internal/core/apperror"
	"synexpos/internal/core/types"
	"synexpos/internal/domain/documents/bill"
	"synexpos/internal/domain/registers/stock"
)

// maxBillRange bounds the bill report.
const maxBillRange = 366 * 24 * time.Hour

// Service provides report generation operations.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the time source used for expiry figures.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// DailySales summarizes the bills of a day.
func (s *Service) DailySales(ctx context.Context, filter DailySalesFilter) (*DailySalesReport, error) {
	if filter.Date.IsZero() {
		filter.Date = s.now()
	}
	filter.Date = stock.DateOnly(filter.Date)
	if filter.TransactionType != "" && !bill.TransactionType(filter.TransactionType).IsValid() {
		return nil, apperror.NewValidation("unknown transaction type").
			WithDetail("field", "transactionType").
			WithDetail("value", filter.TransactionType)
	}

	report, err := s.repo.DailySales(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get daily sales: %w", err)
	}
	report.Date = filter.Date
	report.TransactionType = filter.TransactionType
	if report.Items == nil {
		report.Items = []ItemSales{}
	}
	return report, nil
}

// Stock lists every batch and flags expired ones.
func (s *Service) Stock(ctx context.Context) (*StockReport, error) {
	rows, err := s.repo.Batches(ctx)
	if err != nil {
		return nil, fmt.Errorf("get stock report: %w", err)
	}

	now := s.now()
	today := stock.DateOnly(now)
	report := &StockReport{GeneratedAt: now, Batches: rows}
	if report.Batches == nil {
		report.Batches = []BatchRow{}
	}
	for i := range report.Batches {
		row := &report.Batches[i]
		report.TotalRemaining += row.QuantityRemaining
		if row.ExpiryDate == nil {
			continue
		}
		days := int(stock.DateOnly(*row.ExpiryDate).Sub(today).Hours() / 24)
		row.DaysUntilExpiry = &days
		row.Expired = days < 0
		if row.Expired && row.QuantityRemaining > 0 {
			report.ExpiredBatches++
		}
	}
	return report, nil
}

// Reorder lists items below their reorder level on the shelf.
func (s *Service) Reorder(ctx context.Context) ([]ReorderRow, error) {
	rows, err := s.repo.BelowReorderLevel(ctx)
	if err != nil {
		return nil, fmt.Errorf("get reorder report: %w", err)
	}
	if rows == nil {
		rows = []ReorderRow{}
	}
	return rows, nil
}

// Bills lists bills of a day range.
func (s *Service) Bills(ctx context.Context, filter BillRangeFilter) (*BillReport, error) {
	if filter.From.IsZero() || filter.To.IsZero() {
		return nil, apperror.NewValidation("from and to are required")
	}
	from, to := stock.DateOnly(filter.From), stock.DateOnly(filter.To)
	if from.After(to) {
		return nil, apperror.NewValidation("from must not be after to").
			WithDetail("from", from.Format(time.DateOnly)).
			WithDetail("to", to.Format(time.DateOnly))
	}
	if to.Sub(from) > maxBillRange {
		return nil, apperror.NewValidation("range cannot exceed one year")
	}

	bills, err := s.repo.Bills(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("get bill report: %w", err)
	}

	report := &BillReport{From: from, To: to, Bills: bills, TotalRevenue: types.ZeroMoney()}
	if report.Bills == nil {
		report.Bills = []BillSummary{}
	}
	for _, b := range report.Bills {
		report.TotalRevenue = report.TotalRevenue.Add(b.Total)
	}
	report.BillCount = len(report.Bills)
	return report, nil
}
