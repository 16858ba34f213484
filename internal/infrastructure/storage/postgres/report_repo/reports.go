// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"synexpos/internal/core/types"
	"synexpos/internal/domain/registers/stock"
	"synexpos/internal/domain/reports"
	"synexpos/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// dayRange is the half-open interval [from, to+1 day) over bill.date_time.
func dayRange(from, to time.Time) squirrel.And {
	return squirrel.And{
		squirrel.GtOrEq{"b.date_time": stock.DateOnly(from)},
		squirrel.Lt{"b.date_time": stock.DateOnly(to).AddDate(0, 0, 1)},
	}
}

func (r *ReportRepo) dailyTotalsQuery(filter reports.DailySalesFilter) squirrel.SelectBuilder {
	q := r.builder.
		Select("COUNT(*) AS bill_count", "COALESCE(SUM(b.total), 0) AS total_revenue").
		From("bill b").
		Where(dayRange(filter.Date, filter.Date))
	if filter.TransactionType != "" {
		q = q.Where(squirrel.Eq{"b.transaction_type": filter.TransactionType})
	}
	return q
}

func (r *ReportRepo) dailyItemsQuery(filter reports.DailySalesFilter) squirrel.SelectBuilder {
	q := r.builder.
		Select(
			"bi.item_code",
			"MAX(bi.item_name) AS item_name",
			"SUM(bi.quantity) AS quantity",
			"SUM(bi.total_price) AS revenue",
		).
		From("bill_item bi").
		Join("bill b ON b.id = bi.bill_id").
		Where(dayRange(filter.Date, filter.Date)).
		GroupBy("bi.item_code").
		OrderBy("quantity DESC", "bi.item_code")
	if filter.TransactionType != "" {
		q = q.Where(squirrel.Eq{"b.transaction_type": filter.TransactionType})
	}
	return q
}

// DailySales sums bill totals, so manual bill discounts are reflected in the
// revenue; item revenue is the sum of line totals.
func (r *ReportRepo) DailySales(ctx context.Context, filter reports.DailySalesFilter) (*reports.DailySalesReport, error) {
	querier := r.txManager.GetQuerier(ctx)

	sql, args, err := r.dailyTotalsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build totals query: %w", err)
	}

	var totals struct {
		BillCount    int         `db:"bill_count"`
		TotalRevenue types.Money `db:"total_revenue"`
	}
	if err := pgxscan.Get(ctx, querier, &totals, sql, args...); err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}

	sql, args, err = r.dailyItemsQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items query: %w", err)
	}

	items := []reports.ItemSales{}
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("daily items: %w", err)
	}

	return &reports.DailySalesReport{
		BillCount:    totals.BillCount,
		TotalRevenue: totals.TotalRevenue,
		Items:        items,
	}, nil
}

// Batches lists every batch, earliest expiry first.
func (r *ReportRepo) Batches(ctx context.Context) ([]reports.BatchRow, error) {
	sql, args, err := r.builder.
		Select(
			"b.id AS batch_id", "i.code AS item_code", "i.name AS item_name",
			"b.quantity_received", "b.quantity_remaining", "b.purchase_date", "b.expiry_date",
		).
		From("stock_batch b").
		Join("item i ON i.id = b.item_id").
		OrderBy("b.expiry_date NULLS LAST", "b.purchase_date", "b.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.BatchRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("batch report: %w", err)
	}
	return rows, nil
}

func (r *ReportRepo) reorderQuery() squirrel.SelectBuilder {
	return r.builder.
		Select(
			"i.code AS item_code", "i.name AS item_name", "i.reorder_level",
			"COALESCE(s.quantity, 0) AS shelf_quantity",
			"COALESCE(w.quantity, 0) AS website_quantity",
		).
		From("item i").
		LeftJoin("channel_stock s ON s.item_id = i.id AND s.channel = 'SHELF'").
		LeftJoin("channel_stock w ON w.item_id = i.id AND w.channel = 'WEBSITE'").
		Where("COALESCE(s.quantity, 0) < i.reorder_level").
		OrderBy("i.code")
}

func (r *ReportRepo) BelowReorderLevel(ctx context.Context) ([]reports.ReorderRow, error) {
	sql, args, err := r.reorderQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.ReorderRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("reorder report: %w", err)
	}
	return rows, nil
}

func (r *ReportRepo) Bills(ctx context.Context, from, to time.Time) ([]reports.BillSummary, error) {
	sql, args, err := r.builder.
		Select(
			"b.id", "b.serial_number", "b.date_time", "b.transaction_type", "b.payment_method",
			"COALESCE(b.customer_name, '') AS customer_name", "COALESCE(SUM(bi.quantity), 0) AS item_count", "b.total",
		).
		From("bill b").
		LeftJoin("bill_item bi ON bi.bill_id = b.id").
		Where(dayRange(from, to)).
		GroupBy("b.id").
		OrderBy("b.date_time", "b.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.BillSummary
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("bill report: %w", err)
	}
	return rows, nil
}
