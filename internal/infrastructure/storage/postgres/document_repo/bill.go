// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"synexpos/internal/core/apperror"
	"synexpos/internal/core/types"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/domain/documents/bill"
	"synexpos/internal/domain/registers/stock"
	"synexpos/internal/infrastructure/storage/postgres"
)

const (
	billTable     = "bill"
	billItemTable = "bill_item"
)

var billItemColumns = []string{
	"bill_id", "line_no", "item_id", "item_code", "item_name",
	"quantity", "unit_price", "discount", "total_price",
}

type billRow struct {
	ID              int64        `db:"id"`
	SerialNumber    string       `db:"serial_number"`
	DateTime        time.Time    `db:"date_time"`
	TransactionType string       `db:"transaction_type"`
	CustomerID      *int64       `db:"customer_id"`
	CustomerName    *string      `db:"customer_name"`
	PaymentMethod   string       `db:"payment_method"`
	CashTendered    *types.Money `db:"cash_tendered"`
	Subtotal        types.Money  `db:"subtotal"`
	Discount        types.Money  `db:"discount"`
	Total           types.Money  `db:"total"`
	ChangeAmount    *types.Money `db:"change_amount"`
}

type billItemRow struct {
	BillID     int64           `db:"bill_id"`
	LineNo     int             `db:"line_no"`
	ItemID     int64           `db:"item_id"`
	ItemCode   string          `db:"item_code"`
	ItemName   string          `db:"item_name"`
	Quantity   int             `db:"quantity"`
	UnitPrice  types.Money     `db:"unit_price"`
	Discount   decimal.Decimal `db:"discount"`
	TotalPrice types.Money     `db:"total_price"`
}

// BillRepo implements bill.Repository. A bill and its lines are written in
// the caller's unit of work and never updated afterwards.
type BillRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
	billCols  []string
}

var _ bill.Repository = (*BillRepo)(nil)

// NewBillRepo creates a new bill repository.
func NewBillRepo(txManager *postgres.TxManager) *BillRepo {
	return &BillRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		billCols:  postgres.ExtractDBColumns[billRow](),
	}
}

func toBillRow(b *bill.Bill) billRow {
	row := billRow{
		SerialNumber:    b.SerialNumber(),
		DateTime:        b.DateTime(),
		TransactionType: string(b.TransactionType()),
		PaymentMethod:   string(b.PaymentMethod()),
		Subtotal:        b.Subtotal(),
		Discount:        b.Discount(),
		Total:           b.Total(),
	}
	if id, ok := b.CustomerID(); ok {
		row.CustomerID = &id
	}
	if name := b.CustomerName(); name != "" {
		row.CustomerName = &name
	}
	if cash, ok := b.CashTendered(); ok {
		row.CashTendered = &cash
	}
	if change, ok := b.Change(); ok {
		row.ChangeAmount = &change
	}
	return row
}

// Save inserts the header and copies the lines. It must run inside a
// transaction.
func (r *BillRepo) Save(ctx context.Context, b *bill.Bill) error {
	if r.txManager.GetTx(ctx) == nil {
		return fmt.Errorf("save bill requires transaction context")
	}

	sql, args, err := r.builder.
		Insert(billTable).
		SetMap(postgres.StructToMap(toBillRow(b), "id")).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	var billID int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&billID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("bill", "serial_number", b.SerialNumber())
		}
		return fmt.Errorf("insert bill: %w", err)
	}

	items := b.Items()
	rows := make([][]any, 0, len(items))
	for i, bi := range items {
		rows = append(rows, []any{
			billID, i + 1, bi.ItemID(), bi.ItemCode().String(), bi.ItemName(),
			bi.Quantity(), bi.UnitPrice(), bi.Discount(), bi.TotalPrice(),
		})
	}
	if _, err := postgres.NewBatchInserter(r.txManager).CopyFromSlice(ctx, billItemTable, billItemColumns, rows); err != nil {
		return fmt.Errorf("copy bill items: %w", err)
	}

	b.AssignID(billID)
	return nil
}

func (r *BillRepo) GetByID(ctx context.Context, id int64) (*bill.Bill, error) {
	bills, err := r.find(ctx, squirrel.Eq{"id": id})
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, apperror.NewNotFound(billTable, id)
	}
	return bills[0], nil
}

func (r *BillRepo) GetBySerialNumber(ctx context.Context, serial string) (*bill.Bill, error) {
	bills, err := r.find(ctx, squirrel.Eq{"serial_number": serial})
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, apperror.NewNotFound(billTable, serial)
	}
	return bills[0], nil
}

func (r *BillRepo) FindByDate(ctx context.Context, date time.Time, txType bill.TransactionType) ([]*bill.Bill, error) {
	where := squirrel.And{dayRange(date, date)}
	if txType != "" {
		where = append(where, squirrel.Eq{"transaction_type": string(txType)})
	}
	return r.find(ctx, where)
}

func (r *BillRepo) FindByDateRange(ctx context.Context, from, to time.Time) ([]*bill.Bill, error) {
	return r.find(ctx, dayRange(from, to))
}

func dayRange(from, to time.Time) squirrel.And {
	return squirrel.And{
		squirrel.GtOrEq{"date_time": stock.DateOnly(from)},
		squirrel.Lt{"date_time": stock.DateOnly(to).AddDate(0, 0, 1)},
	}
}

func (r *BillRepo) headerQuery(where squirrel.Sqlizer) squirrel.SelectBuilder {
	return r.builder.
		Select(r.billCols...).
		From(billTable).
		Where(where).
		OrderBy("date_time", "id")
}

// find loads the matching headers and then all their lines in one query.
func (r *BillRepo) find(ctx context.Context, where squirrel.Sqlizer) ([]*bill.Bill, error) {
	querier := r.txManager.GetQuerier(ctx)

	sql, args, err := r.headerQuery(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var headers []billRow
	if err := pgxscan.Select(ctx, querier, &headers, sql, args...); err != nil {
		return nil, fmt.Errorf("select bills: %w", err)
	}
	if len(headers) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(headers))
	for _, h := range headers {
		ids = append(ids, h.ID)
	}

	sql, args, err = r.builder.
		Select(billItemColumns...).
		From(billItemTable).
		Where(squirrel.Eq{"bill_id": ids}).
		OrderBy("bill_id", "line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}

	var lines []billItemRow
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select bill items: %w", err)
	}

	byBill := make(map[int64][]billItemRow, len(headers))
	for _, l := range lines {
		byBill[l.BillID] = append(byBill[l.BillID], l)
	}

	out := make([]*bill.Bill, 0, len(headers))
	for _, h := range headers {
		b, err := h.toDomain(byBill[h.ID])
		if err != nil {
			return nil, fmt.Errorf("restore bill %s: %w", h.SerialNumber, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// toDomain rebuilds the bill through the builder, so stored totals are
// re-derived from the frozen lines.
func (h billRow) toDomain(lines []billItemRow) (*bill.Bill, error) {
	customerName := ""
	if h.CustomerName != nil {
		customerName = *h.CustomerName
	}

	bld := bill.NewBuilder().
		SerialNumber(h.SerialNumber).
		DateTime(h.DateTime).
		TransactionType(bill.TransactionType(h.TransactionType)).
		Customer(h.CustomerID, customerName).
		PaymentMethod(bill.PaymentMethod(h.PaymentMethod)).
		Discount(h.Discount)
	if h.CashTendered != nil {
		bld.CashTendered(*h.CashTendered)
	}
	for _, l := range lines {
		bld.AddItem(bill.RestoreBillItem(l.ItemID, item.ItemCode(l.ItemCode), l.ItemName, l.Quantity, l.UnitPrice, l.Discount, l.TotalPrice))
	}

	b, err := bld.Build()
	if err != nil {
		return nil, err
	}
	b.AssignID(h.ID)
	return b, nil
}
