// Package types provides common value types shared by the domain packages.
package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyLabel is the display prefix for every amount. It is not a convertible unit.
const CurrencyLabel = "Rs"

// MoneyScale is the number of fractional digits every Money carries.
const MoneyScale int32 = 2

var hundred = decimal.NewFromInt(100)

// ErrMoneyAbsent is returned when a Money is constructed from an empty value.
var ErrMoneyAbsent = errors.New("money amount is required")

// Money is an immutable monetary amount rounded to two fractional digits.
// Rounding is half-up (away from zero) and happens after every operation,
// so intermediate results are already rounded when they feed the next step.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates Money from a decimal, rounding it to two digits.
func NewMoney(d decimal.Decimal) Money {
	return Money{amount: d.Round(MoneyScale)}
}

// NewMoneyFromString parses an amount such as "10.5" or "100.00".
func NewMoneyFromString(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrMoneyAbsent
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return NewMoney(d), nil
}

// MustMoney creates Money from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	m, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns Rs 0.00.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the underlying decimal value.
func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) Add(other Money) Money {
	return NewMoney(m.amount.Add(other.amount))
}

func (m Money) Subtract(other Money) Money {
	return NewMoney(m.amount.Sub(other.amount))
}

// MultiplyQty multiplies by an integer quantity.
func (m Money) MultiplyQty(qty int) Money {
	return NewMoney(m.amount.Mul(decimal.NewFromInt(int64(qty))))
}

// Multiply multiplies by an arbitrary decimal factor.
func (m Money) Multiply(factor decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(factor))
}

// DiscountAmount returns amount * pct / 100 rounded to two digits.
func (m Money) DiscountAmount(pct decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(pct).Div(hundred))
}

// ApplyDiscount subtracts the rounded discount amount for pct percent.
// The discount is rounded before the subtraction, not after.
func (m Money) ApplyDiscount(pct decimal.Decimal) Money {
	return m.Subtract(m.DiscountAmount(pct))
}

func (m Money) GreaterThan(other Money) bool        { return m.amount.GreaterThan(other.amount) }
func (m Money) GreaterThanOrEqual(other Money) bool { return m.amount.GreaterThanOrEqual(other.amount) }
func (m Money) LessThan(other Money) bool           { return m.amount.LessThan(other.amount) }
func (m Money) IsZero() bool                        { return m.amount.IsZero() }
func (m Money) IsNegative() bool                    { return m.amount.IsNegative() }

// Equal compares by value, so 10.5 and 10.50 are equal.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Fixed returns the amount with exactly two fractional digits, e.g. "10.50".
func (m Money) Fixed() string {
	return m.amount.StringFixed(MoneyScale)
}

// String returns the display form, e.g. "Rs 10.50".
func (m Money) String() string {
	return CurrencyLabel + " " + m.Fixed()
}

// MarshalJSON encodes Money as a JSON number with two fractional digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Fixed()), nil
}

// UnmarshalJSON accepts either a JSON number or a string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ErrMoneyAbsent
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	parsed, err := NewMoneyFromString(string(data))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scan money: %w", err)
	}
	*m = NewMoney(d)
	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.Fixed(), nil
}
