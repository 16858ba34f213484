package item

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synexpos/internal/core/apperror"
	"synexpos/internal/core/types"
)

func TestParseItemCode(t *testing.T) {
	code, err := ParseItemCode("  sku-1 ")
	require.NoError(t, err)
	assert.Equal(t, ItemCode("SKU-1"), code)

	_, err = ParseItemCode("   ")
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
}

func TestNewItem_Validation(t *testing.T) {
	price := types.MustMoney("100")
	code := MustItemCode("SKU1")

	tests := []struct {
		name     string
		itemName string
		price    types.Money
		discount decimal.Decimal
		reorder  int
		field    string
	}{
		{"empty name", " ", price, decimal.Zero, 0, "name"},
		{"negative price", "Rice", types.MustMoney("-0.01"), decimal.Zero, 0, "unitPrice"},
		{"discount below zero", "Rice", price, decimal.NewFromInt(-1), 0, "discount"},
		{"discount above hundred", "Rice", price, decimal.RequireFromString("100.01"), 0, "discount"},
		{"discount with three decimals", "Rice", price, decimal.RequireFromString("12.345"), 0, "discount"},
		{"negative reorder level", "Rice", price, decimal.Zero, -1, "reorderLevel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewItem(code, tt.itemName, tt.price, tt.discount, tt.reorder)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

func TestNewItem_Boundaries(t *testing.T) {
	it, err := NewItem(MustItemCode("free"), "Sample", types.ZeroMoney(), decimal.NewFromInt(100), 0)
	require.NoError(t, err)
	assert.Equal(t, ItemCode("FREE"), it.Code())
	assert.True(t, it.CalculateTotalPrice(3).IsZero())
}

func TestItem_SetDiscountScale(t *testing.T) {
	it, err := NewItem(MustItemCode("TEA"), "Tea", types.MustMoney("950"), decimal.Zero, 0)
	require.NoError(t, err)

	require.NoError(t, it.SetDiscount(decimal.RequireFromString("12.35")))
	require.NoError(t, it.SetDiscount(decimal.RequireFromString("2.500")))
	assert.Equal(t, "2.5", it.Discount().String())

	err = it.SetDiscount(decimal.RequireFromString("12.345"))
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
	assert.Equal(t, "2.5", it.Discount().String())
}

func TestItem_SetterKeepsOldValueOnError(t *testing.T) {
	it, err := NewItem(MustItemCode("SKU1"), "Rice", types.MustMoney("100"), decimal.NewFromInt(10), 5)
	require.NoError(t, err)

	assert.Error(t, it.SetDiscount(decimal.NewFromInt(101)))
	assert.True(t, it.Discount().Equal(decimal.NewFromInt(10)))

	assert.Error(t, it.SetUnitPrice(types.MustMoney("-1")))
	assert.True(t, it.UnitPrice().Equal(types.MustMoney("100")))
}

func TestItem_CalculateTotalPrice(t *testing.T) {
	it, err := NewItem(MustItemCode("SKU1"), "Rice", types.MustMoney("100.00"), decimal.NewFromInt(10), 5)
	require.NoError(t, err)

	assert.Equal(t, "180.00", it.CalculateTotalPrice(2).Fixed())

	odd, err := NewItem(MustItemCode("SKU2"), "Tea", types.MustMoney("0.35"), decimal.RequireFromString("12.5"), 0)
	require.NoError(t, err)
	// 0.35*3 = 1.05, discount 0.13125 -> 0.13, total 0.92
	assert.Equal(t, "0.92", odd.CalculateTotalPrice(3).Fixed())
}

func TestItem_NeedsReorder(t *testing.T) {
	it, err := NewItem(MustItemCode("SKU1"), "Rice", types.MustMoney("1"), decimal.Zero, 5)
	require.NoError(t, err)

	assert.True(t, it.NeedsReorder(4))
	assert.False(t, it.NeedsReorder(5))
}

func TestItem_AssignIDOnce(t *testing.T) {
	it, err := NewItem(MustItemCode("SKU1"), "Rice", types.MustMoney("1"), decimal.Zero, 0)
	require.NoError(t, err)

	it.AssignID(7)
	it.AssignID(9)
	assert.Equal(t, int64(7), it.ID())
}
