package bill

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synexpos/internal/core/apperror"
	"synexpos/internal/core/types"
	"synexpos/internal/domain/catalogs/item"
)

func newItem(t *testing.T, code, price string, discount int64) *item.Item {
	t.Helper()
	it, err := item.NewItem(item.MustItemCode(code), "Item "+code, types.MustMoney(price), decimal.NewFromInt(discount), 0)
	require.NoError(t, err)
	it.AssignID(1)
	return it
}

func line(t *testing.T, it *item.Item, qty int) BillItem {
	t.Helper()
	bi, err := NewBillItem(it, qty)
	require.NoError(t, err)
	return bi
}

func TestNewBillItem_Snapshot(t *testing.T) {
	it := newItem(t, "SKU1", "100.00", 10)
	bi := line(t, it, 2)

	require.NoError(t, it.SetUnitPrice(types.MustMoney("500")))
	require.NoError(t, it.SetDiscount(decimal.Zero))

	assert.Equal(t, "100.00", bi.UnitPrice().Fixed())
	assert.Equal(t, "180.00", bi.TotalPrice().Fixed())
	assert.True(t, bi.Discount().Equal(decimal.NewFromInt(10)))
}

func TestNewBillItem_Rejects(t *testing.T) {
	_, err := NewBillItem(nil, 1)
	assert.True(t, apperror.Is(err, apperror.CodeValidation))

	_, err = NewBillItem(newItem(t, "SKU1", "1", 0), 0)
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}

func TestBuilder_RequiredFields(t *testing.T) {
	bi := line(t, newItem(t, "SKU1", "10", 0), 1)

	tests := []struct {
		name  string
		build func() *Builder
		field string
	}{
		{"missing serial", func() *Builder {
			return NewBuilder().TransactionType(TransactionCounter).AddItem(bi)
		}, "serialNumber"},
		{"missing transaction type", func() *Builder {
			return NewBuilder().SerialNumber("20260101-000001").AddItem(bi)
		}, "transactionType"},
		{"empty items", func() *Builder {
			return NewBuilder().SerialNumber("20260101-000001").TransactionType(TransactionOnline)
		}, "items"},
		{"negative discount", func() *Builder {
			return NewBuilder().SerialNumber("S").TransactionType(TransactionOnline).AddItem(bi).Discount(types.MustMoney("-1"))
		}, "discount"},
		{"bad payment method", func() *Builder {
			return NewBuilder().SerialNumber("S").TransactionType(TransactionOnline).AddItem(bi).PaymentMethod("BARTER")
		}, "paymentMethod"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.build().Build()
			assert.Nil(t, b)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

func TestBuilder_ComputesTotalsAndChange(t *testing.T) {
	sku1 := newItem(t, "SKU1", "100.00", 10)
	sku2 := newItem(t, "SKU2", "19.99", 0)
	fixed := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	b, err := NewBuilder().
		SerialNumber("20260304-000001").
		TransactionType(TransactionCounter).
		Customer(nil, "Walk-in").
		AddItem(line(t, sku1, 2)).
		AddItem(line(t, sku2, 3)).
		PaymentMethod(PaymentCash).
		CashTendered(types.MustMoney("300")).
		Discount(types.MustMoney("5")).
		Clock(func() time.Time { return fixed }).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "239.97", b.Subtotal().Fixed())
	assert.Equal(t, "5.00", b.Discount().Fixed())
	assert.Equal(t, "234.97", b.Total().Fixed())
	assert.True(t, b.Total().Equal(b.Subtotal().Subtract(b.Discount())))

	change, ok := b.Change()
	require.True(t, ok)
	assert.Equal(t, "65.03", change.Fixed())

	assert.Equal(t, fixed, b.DateTime())
	assert.Equal(t, 5, b.TotalQuantity())
	assert.Len(t, b.Items(), 2)
	assert.Equal(t, int64(0), b.ID())
}

func TestBuilder_DefaultsAndOptionalCash(t *testing.T) {
	b, err := NewBuilder().
		SerialNumber("S-1").
		TransactionType(TransactionOnline).
		AddItem(line(t, newItem(t, "SKU1", "10", 0), 1)).
		PaymentMethod(PaymentPayPal).
		Build()
	require.NoError(t, err)

	assert.True(t, b.Discount().IsZero())
	assert.False(t, b.DateTime().IsZero())
	_, hasCash := b.CashTendered()
	_, hasChange := b.Change()
	assert.False(t, hasCash)
	assert.False(t, hasChange)
	_, hasCustomer := b.CustomerID()
	assert.False(t, hasCustomer)
}

func TestBuilder_DiscountAboveSubtotalIsNotClamped(t *testing.T) {
	b, err := NewBuilder().
		SerialNumber("S-2").
		TransactionType(TransactionCounter).
		AddItem(line(t, newItem(t, "SKU1", "10", 0), 1)).
		Discount(types.MustMoney("15")).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "-5.00", b.Total().Fixed())
}

func TestBill_ItemsIsACopy(t *testing.T) {
	b, err := NewBuilder().
		SerialNumber("S-3").
		TransactionType(TransactionCounter).
		AddItem(line(t, newItem(t, "SKU1", "10", 0), 1)).
		Build()
	require.NoError(t, err)

	items := b.Items()
	items[0] = BillItem{}
	assert.Equal(t, item.ItemCode("SKU1"), b.Items()[0].ItemCode())

	b.AssignID(42)
	b.AssignID(43)
	assert.Equal(t, int64(42), b.ID())
}

func TestEnums(t *testing.T) {
	assert.Equal(t, "Credit Card", PaymentCreditCard.DisplayName())
	assert.Equal(t, "PayPal", PaymentPayPal.DisplayName())
	assert.Equal(t, "Counter", TransactionCounter.DisplayName())
	assert.False(t, TransactionType("X").IsValid())
}
