// Package item provides the Item catalog: the priced products sold at the
// counter and online.
package item

import (
	"strings"

	"github.com/shopspring/decimal"

	"synexpos/internal/core/apperror"
	"synexpos/internal/core/types"
)

var maxDiscount = decimal.NewFromInt(100)

// ItemCode is the normalized catalog identifier: trimmed and upper-cased.
type ItemCode string

// ParseItemCode normalizes raw input into an ItemCode.
func ParseItemCode(raw string) (ItemCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", apperror.NewValidation("item code cannot be empty").
			WithDetail("field", "code")
	}
	return ItemCode(code), nil
}

// MustItemCode parses code and panics on error. Tests and seed data only.
func MustItemCode(raw string) ItemCode {
	c, err := ParseItemCode(raw)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ItemCode) String() string { return string(c) }

// Item is a catalog entry. The code never changes after creation; the other
// fields change only through setters that re-validate.
type Item struct {
	id           int64
	code         ItemCode
	name         string
	unitPrice    types.Money
	discount     decimal.Decimal
	reorderLevel int
}

// NewItem creates a validated item that has not been persisted yet.
func NewItem(code ItemCode, name string, unitPrice types.Money, discount decimal.Decimal, reorderLevel int) (*Item, error) {
	return Restore(0, string(code), name, unitPrice, discount, reorderLevel)
}

// Restore rebuilds an item from stored fields. Stored rows are validated
// like new ones so a bad row cannot reach a bill.
func Restore(id int64, code, name string, unitPrice types.Money, discount decimal.Decimal, reorderLevel int) (*Item, error) {
	parsed, err := ParseItemCode(code)
	if err != nil {
		return nil, err
	}

	it := &Item{id: id, code: parsed}
	if err := it.SetName(name); err != nil {
		return nil, err
	}
	if err := it.SetUnitPrice(unitPrice); err != nil {
		return nil, err
	}
	if err := it.SetDiscount(discount); err != nil {
		return nil, err
	}
	if err := it.SetReorderLevel(reorderLevel); err != nil {
		return nil, err
	}
	return it, nil
}

func (i *Item) ID() int64                 { return i.id }
func (i *Item) Code() ItemCode            { return i.code }
func (i *Item) Name() string              { return i.name }
func (i *Item) UnitPrice() types.Money    { return i.unitPrice }
func (i *Item) Discount() decimal.Decimal { return i.discount }
func (i *Item) ReorderLevel() int         { return i.reorderLevel }

// AssignID sets the store identity once.
func (i *Item) AssignID(id int64) {
	if i.id == 0 {
		i.id = id
	}
}

func (i *Item) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperror.NewValidation("item name cannot be empty").
			WithDetail("field", "name")
	}
	i.name = name
	return nil
}

func (i *Item) SetUnitPrice(price types.Money) error {
	if price.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice").
			WithDetail("value", price.Fixed())
	}
	i.unitPrice = price
	return nil
}

// SetDiscount sets the discount percentage, 0 to 100 inclusive, with at
// most two decimal places as stored.
func (i *Item) SetDiscount(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(maxDiscount) {
		return apperror.NewValidation("discount must be between 0 and 100").
			WithDetail("field", "discount").
			WithDetail("value", pct.String())
	}
	if !pct.Equal(pct.Round(2)) {
		return apperror.NewValidation("discount allows at most two decimal places").
			WithDetail("field", "discount").
			WithDetail("value", pct.String())
	}
	i.discount = pct
	return nil
}

func (i *Item) SetReorderLevel(level int) error {
	if level < 0 {
		return apperror.NewValidation("reorder level cannot be negative").
			WithDetail("field", "reorderLevel").
			WithDetail("value", level)
	}
	i.reorderLevel = level
	return nil
}

// CalculateTotalPrice returns the extended price for qty units after the
// item discount: round2(price*qty) minus round2(that*discount/100).
func (i *Item) CalculateTotalPrice(qty int) types.Money {
	return i.unitPrice.MultiplyQty(qty).ApplyDiscount(i.discount)
}

// NeedsReorder reports whether the given stock is below the reorder level.
func (i *Item) NeedsReorder(stock int) bool {
	return stock < i.reorderLevel
}

// Snapshot returns the mutable fields for audit diffs.
func (i *Item) Snapshot() map[string]any {
	return map[string]any{
		"name":          i.name,
		"unit_price":    i.unitPrice.Fixed(),
		"discount":      i.discount.String(),
		"reorder_level": i.reorderLevel,
	}
}
