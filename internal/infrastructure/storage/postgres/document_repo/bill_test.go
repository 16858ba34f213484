package document_repo

import (
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synexpos/internal/core/types"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/domain/documents/bill"
)

func sampleBill(t *testing.T) *bill.Bill {
	t.Helper()
	rice, err := item.Restore(1, "RICE", "Basmati Rice", types.MustMoney("100"), decimal.NewFromInt(10), 5)
	require.NoError(t, err)
	line, err := bill.NewBillItem(rice, 2)
	require.NoError(t, err)

	customerID := int64(9)
	b, err := bill.NewBuilder().
		SerialNumber("20260601-000001").
		DateTime(time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)).
		TransactionType(bill.TransactionCounter).
		Customer(&customerID, "Saman").
		AddItem(line).
		PaymentMethod(bill.PaymentCash).
		CashTendered(types.MustMoney("200")).
		Build()
	require.NoError(t, err)
	return b
}

func TestBillRow_RestoresSameBill(t *testing.T) {
	b := sampleBill(t)
	row := toBillRow(b)
	row.ID = 77

	assert.Equal(t, "180.00", row.Total.Fixed())
	require.NotNil(t, row.ChangeAmount)
	assert.Equal(t, "20.00", row.ChangeAmount.Fixed())

	lines := []billItemRow{{
		BillID: 77, LineNo: 1, ItemID: 1, ItemCode: "RICE", ItemName: "Basmati Rice",
		Quantity: 2, UnitPrice: types.MustMoney("100"), Discount: decimal.NewFromInt(10), TotalPrice: types.MustMoney("180"),
	}}
	got, err := row.toDomain(lines)
	require.NoError(t, err)

	assert.Equal(t, int64(77), got.ID())
	assert.Equal(t, b.SerialNumber(), got.SerialNumber())
	assert.True(t, b.Total().Equal(got.Total()))
	change, ok := got.Change()
	require.True(t, ok)
	assert.Equal(t, "20.00", change.Fixed())
	cid, ok := got.CustomerID()
	require.True(t, ok)
	assert.Equal(t, int64(9), cid)
	assert.Equal(t, 2, got.TotalQuantity())
}

func TestHeaderQuery_DayRange(t *testing.T) {
	repo := NewBillRepo(nil)
	day := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

	sql, args, err := repo.headerQuery(squirrel.And{dayRange(day, day), squirrel.Eq{"transaction_type": "COUNTER"}}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, serial_number, date_time, transaction_type, customer_id, customer_name, payment_method, "+
			"cash_tendered, subtotal, discount, total, change_amount FROM bill "+
			"WHERE ((date_time >= $1 AND date_time < $2) AND transaction_type = $3) ORDER BY date_time, id",
		sql)
	assert.Equal(t, []any{
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
		"COUNTER",
	}, args)
}
