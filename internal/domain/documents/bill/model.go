// Package bill provides the Bill document: the immutable priced invoice
// produced by a sale.
package bill

import (
	"time"

	"github.com/shopspring/decimal"

	"synexpos/internal/core/apperror"
	"synexpos/internal/core/types"
	"synexpos/internal/domain/catalogs/item"
)

// TransactionType is the sales channel a bill was issued through.
type TransactionType string

const (
	TransactionCounter TransactionType = "COUNTER"
	TransactionOnline  TransactionType = "ONLINE"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == TransactionCounter || t == TransactionOnline
}

// DisplayName returns the label printed on receipts.
func (t TransactionType) DisplayName() string {
	switch t {
	case TransactionCounter:
		return "Counter"
	case TransactionOnline:
		return "Online"
	}
	return string(t)
}

// PaymentMethod is how a bill was paid.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentPayPal     PaymentMethod = "PAYPAL"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentPayPal:
		return true
	}
	return false
}

func (m PaymentMethod) DisplayName() string {
	switch m {
	case PaymentCash:
		return "Cash"
	case PaymentCreditCard:
		return "Credit Card"
	case PaymentPayPal:
		return "PayPal"
	}
	return string(m)
}

// BillItem is a priced snapshot of one cart line. Unit price, discount and
// total are frozen at construction so later catalog edits never change a
// historical bill.
type BillItem struct {
	itemID     int64
	itemCode   item.ItemCode
	itemName   string
	quantity   int
	unitPrice  types.Money
	discount   decimal.Decimal
	totalPrice types.Money
}

// NewBillItem prices qty units of it.
func NewBillItem(it *item.Item, qty int) (BillItem, error) {
	if it == nil {
		return BillItem{}, apperror.NewValidation("bill item requires an item").
			WithDetail("field", "item")
	}
	if qty <= 0 {
		return BillItem{}, apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("item_code", it.Code().String()).
			WithDetail("value", qty)
	}
	return BillItem{
		itemID:     it.ID(),
		itemCode:   it.Code(),
		itemName:   it.Name(),
		quantity:   qty,
		unitPrice:  it.UnitPrice(),
		discount:   it.Discount(),
		totalPrice: it.CalculateTotalPrice(qty),
	}, nil
}

// RestoreBillItem rebuilds a stored line without re-pricing it.
func RestoreBillItem(itemID int64, code item.ItemCode, name string, qty int, unitPrice types.Money, discount decimal.Decimal, total types.Money) BillItem {
	return BillItem{
		itemID:     itemID,
		itemCode:   code,
		itemName:   name,
		quantity:   qty,
		unitPrice:  unitPrice,
		discount:   discount,
		totalPrice: total,
	}
}

func (bi BillItem) ItemID() int64             { return bi.itemID }
func (bi BillItem) ItemCode() item.ItemCode   { return bi.itemCode }
func (bi BillItem) ItemName() string          { return bi.itemName }
func (bi BillItem) Quantity() int             { return bi.quantity }
func (bi BillItem) UnitPrice() types.Money    { return bi.unitPrice }
func (bi BillItem) Discount() decimal.Decimal { return bi.discount }
func (bi BillItem) TotalPrice() types.Money   { return bi.totalPrice }

// Totals are the derived amounts of a bill.
type Totals struct {
	Subtotal types.Money
	Discount types.Money
	Total    types.Money
}

// ComputeTotals sums line totals and subtracts the manual bill discount.
// The total is not clamped at zero.
func ComputeTotals(items []BillItem, discount types.Money) Totals {
	subtotal := types.ZeroMoney()
	for _, bi := range items {
		subtotal = subtotal.Add(bi.totalPrice)
	}
	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Subtract(discount),
	}
}

// Bill is an issued invoice. Only the store identity can change after Build.
type Bill struct {
	id              int64
	serialNumber    string
	dateTime        time.Time
	transactionType TransactionType
	customerID      *int64
	customerName    string
	items           []BillItem
	paymentMethod   PaymentMethod
	cashTendered    *types.Money
	totals          Totals
	change          *types.Money
}

func (b *Bill) ID() int64                        { return b.id }
func (b *Bill) SerialNumber() string             { return b.serialNumber }
func (b *Bill) DateTime() time.Time              { return b.dateTime }
func (b *Bill) TransactionType() TransactionType { return b.transactionType }
func (b *Bill) CustomerName() string             { return b.customerName }
func (b *Bill) PaymentMethod() PaymentMethod     { return b.paymentMethod }
func (b *Bill) Subtotal() types.Money            { return b.totals.Subtotal }
func (b *Bill) Discount() types.Money            { return b.totals.Discount }
func (b *Bill) Total() types.Money               { return b.totals.Total }

// CustomerID returns the customer reference, if any.
func (b *Bill) CustomerID() (int64, bool) {
	if b.customerID == nil {
		return 0, false
	}
	return *b.customerID, true
}

// CashTendered returns the cash handed over, if any.
func (b *Bill) CashTendered() (types.Money, bool) {
	if b.cashTendered == nil {
		return types.Money{}, false
	}
	return *b.cashTendered, true
}

// Change is cash tendered minus total; present only with cash tendered.
func (b *Bill) Change() (types.Money, bool) {
	if b.change == nil {
		return types.Money{}, false
	}
	return *b.change, true
}

// Items returns a copy of the bill lines.
func (b *Bill) Items() []BillItem {
	out := make([]BillItem, len(b.items))
	copy(out, b.items)
	return out
}

// TotalQuantity is the number of units over all lines.
func (b *Bill) TotalQuantity() int {
	n := 0
	for _, bi := range b.items {
		n += bi.quantity
	}
	return n
}

// AssignID sets the identity assigned by the store. It only takes effect once.
func (b *Bill) AssignID(id int64) {
	if b.id == 0 {
		b.id = id
	}
}

// Snapshot is the audit form of the bill.
func (b *Bill) Snapshot() map[string]any {
	lines := make([]map[string]any, 0, len(b.items))
	for _, bi := range b.items {
		lines = append(lines, map[string]any{
			"item_code":   bi.itemCode.String(),
			"quantity":    bi.quantity,
			"unit_price":  bi.unitPrice.Fixed(),
			"discount":    bi.discount.String(),
			"total_price": bi.totalPrice.Fixed(),
		})
	}
	snap := map[string]any{
		"serial_number":    b.serialNumber,
		"date_time":        b.dateTime,
		"transaction_type": string(b.transactionType),
		"payment_method":   string(b.paymentMethod),
		"subtotal":         b.totals.Subtotal.Fixed(),
		"discount":         b.totals.Discount.Fixed(),
		"total":            b.totals.Total.Fixed(),
		"items":            lines,
	}
	if b.customerID != nil {
		snap["customer_id"] = *b.customerID
	}
	if b.customerName != "" {
		snap["customer_name"] = b.customerName
	}
	if b.cashTendered != nil {
		snap["cash_tendered"] = b.cashTendered.Fixed()
		snap["change"] = b.change.Fixed()
	}
	return snap
}
