package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyFromString_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.5", "10.50"},
		{"10.005", "10.01"},
		{"10.004", "10.00"},
		{"-10.005", "-10.01"},
		{"0", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := NewMoneyFromString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Fixed())
		})
	}
}

func TestNewMoneyFromString_Absent(t *testing.T) {
	_, err := NewMoneyFromString("  ")
	assert.ErrorIs(t, err, ErrMoneyAbsent)

	_, err = NewMoneyFromString("abc")
	assert.Error(t, err)
}

func TestMoney_EqualIgnoresScale(t *testing.T) {
	assert.True(t, MustMoney("10.5").Equal(MustMoney("10.50")))
	assert.False(t, MustMoney("10.5").Equal(MustMoney("10.51")))
}

func TestMoney_AddIdentityAndCommutativity(t *testing.T) {
	a := MustMoney("12.34")
	b := MustMoney("0.66")
	c := MustMoney("100.01")

	assert.True(t, a.Add(ZeroMoney()).Equal(a))
	assert.True(t, a.Add(b).Equal(b.Add(a)))
	assert.True(t, a.Add(b).Add(c).Equal(a.Add(b.Add(c))))
}

func TestMoney_Arithmetic(t *testing.T) {
	m := MustMoney("100.00")

	assert.Equal(t, "80.00", m.Subtract(MustMoney("20")).Fixed())
	assert.Equal(t, "300.00", m.MultiplyQty(3).Fixed())
	assert.Equal(t, "33.33", m.Multiply(decimal.RequireFromString("0.33333")).Fixed())
	assert.True(t, MustMoney("1").Subtract(MustMoney("2")).IsNegative())
	assert.True(t, m.GreaterThan(MustMoney("99.99")))
	assert.True(t, m.LessThan(MustMoney("100.01")))
	assert.True(t, m.GreaterThanOrEqual(MustMoney("100")))
	assert.True(t, ZeroMoney().IsZero())
}

func TestMoney_ApplyDiscountRoundsDiscountFirst(t *testing.T) {
	// 0.15 * 10% = 0.015, rounded to 0.02 before subtracting.
	m := MustMoney("0.15")
	assert.Equal(t, "0.02", m.DiscountAmount(decimal.NewFromInt(10)).Fixed())
	assert.Equal(t, "0.13", m.ApplyDiscount(decimal.NewFromInt(10)).Fixed())

	assert.Equal(t, "180.00", MustMoney("200").ApplyDiscount(decimal.NewFromInt(10)).Fixed())
	assert.Equal(t, "200.00", MustMoney("200").ApplyDiscount(decimal.Zero).Fixed())
	assert.Equal(t, "0.00", MustMoney("200").ApplyDiscount(decimal.NewFromInt(100)).Fixed())
}

func TestMoney_ExtendedPriceProperty(t *testing.T) {
	prices := []string{"0.01", "0.99", "1.05", "19.99", "333.33", "1000"}
	discounts := []string{"0", "2.5", "10", "12.5", "33.333", "100"}
	for _, p := range prices {
		for _, d := range discounts {
			for q := 1; q <= 7; q++ {
				pd := decimal.RequireFromString(p)
				dd := decimal.RequireFromString(d)

				ext := pd.Mul(decimal.NewFromInt(int64(q))).Round(2)
				want := ext.Sub(ext.Mul(dd).Div(decimal.NewFromInt(100)).Round(2)).Round(2)

				got := MustMoney(p).MultiplyQty(q).ApplyDiscount(dd)
				assert.True(t, want.Equal(got.Amount()), "p=%s d=%s q=%d got=%s want=%s", p, d, q, got.Fixed(), want.StringFixed(2))
			}
		}
	}
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "Rs 10.50", MustMoney("10.5").String())
	assert.Equal(t, "Rs 0.00", ZeroMoney().String())
}

func TestMoney_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Total Money `json:"total"`
	}{Total: MustMoney("180")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":180.00}`, string(b))

	var v struct {
		A Money `json:"a"`
		B Money `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12.345,"b":"7.1"}`), &v))
	assert.Equal(t, "12.35", v.A.Fixed())
	assert.Equal(t, "7.10", v.B.Fixed())
}

func TestMoney_ScanValue(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("42.5"))
	assert.Equal(t, "42.50", m.Fixed())

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "42.50", v)
}
