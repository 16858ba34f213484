package printer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synexpos/internal/core/types"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/domain/documents/bill"
)

func sampleBill(t *testing.T, cash bool) *bill.Bill {
	t.Helper()
	it, err := item.NewItem(item.MustItemCode("SKU1"), "Basmati Rice Premium Long Grain 5kg",
		types.MustMoney("100.00"), decimal.NewFromInt(10), 5)
	require.NoError(t, err)
	bi, err := bill.NewBillItem(it, 2)
	require.NoError(t, err)

	b := bill.NewBuilder().
		SerialNumber("20260601-000001").
		DateTime(time.Date(2026, 6, 1, 14, 5, 9, 0, time.UTC)).
		TransactionType(bill.TransactionCounter).
		Customer(nil, "Nimal").
		AddItem(bi)
	if cash {
		b.PaymentMethod(bill.PaymentCash).CashTendered(types.MustMoney("200.00"))
	} else {
		b.PaymentMethod(bill.PaymentCreditCard).Discount(types.MustMoney("5.00"))
	}
	built, err := b.Build()
	require.NoError(t, err)
	return built
}

func TestFormat_CashReceipt(t *testing.T) {
	p := New(Config{StoreName: "SYNEX OUTLET STORE"}, &bytes.Buffer{})
	text := p.Format(sampleBill(t, true))

	assert.Contains(t, text, "SYNEX OUTLET STORE")
	assert.Contains(t, text, "Bill Serial No: 20260601-000001")
	assert.Contains(t, text, "Date: 2026-06-01 14:05:09")
	assert.Contains(t, text, "Customer: Nimal")
	assert.Contains(t, text, "Basmati Rice Prem...     2  Rs 100.00    Rs 180.00\n")
	assert.Contains(t, text, "TOTAL:")
	assert.Contains(t, text, "Rs 180.00")
	assert.Contains(t, text, "Change:")
	assert.Contains(t, text, "Rs 20.00")
	assert.NotContains(t, text, "Discount:")
}

func TestFormat_CardReceiptShowsDiscount(t *testing.T) {
	p := New(Config{StoreName: "SYNEX"}, &bytes.Buffer{})
	text := p.Format(sampleBill(t, false))

	assert.Contains(t, text, "Discount:")
	assert.Contains(t, text, "Rs 175.00")
	assert.Contains(t, text, "Payment Method: Credit Card")
	assert.NotContains(t, text, "Cash Tendered:")
}

func TestPrint_WritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	p := New(Config{StoreName: "SYNEX", Dir: dir}, &out)
	b := sampleBill(t, true)

	require.NoError(t, p.Print(context.Background(), b))
	assert.Contains(t, out.String(), "20260601-000001")

	data, err := os.ReadFile(filepath.Join(dir, "BILL_20260601-000001_2026-06-01.txt"))
	require.NoError(t, err)
	assert.Equal(t, out.String(), string(data))
}

func TestPrint_FailsOnUnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	p := New(Config{StoreName: "SYNEX", Dir: file}, &bytes.Buffer{})
	err := p.Print(context.Background(), sampleBill(t, true))
	assert.Error(t, err)
}
