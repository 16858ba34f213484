package bill

import (
	"strings"
	"time"

	"synexpos/internal/core/apperror"
	"synexpos/internal/core/types"
)

// Builder collects bill fields and validates them in Build.
// It has no side effects and needs no store.
type Builder struct {
	serialNumber    string
	dateTime        time.Time
	transactionType TransactionType
	customerID      *int64
	customerName    string
	items           []BillItem
	paymentMethod   PaymentMethod
	cashTendered    *types.Money
	discount        types.Money
	now             func() time.Time
}

// NewBuilder starts an empty bill.
func NewBuilder() *Builder {
	return &Builder{
		discount: types.ZeroMoney(),
		now:      time.Now,
	}
}

func (b *Builder) SerialNumber(serial string) *Builder {
	b.serialNumber = strings.TrimSpace(serial)
	return b
}

// DateTime sets the issue time. Build uses the current time when unset.
func (b *Builder) DateTime(t time.Time) *Builder {
	b.dateTime = t
	return b
}

func (b *Builder) TransactionType(t TransactionType) *Builder {
	b.transactionType = t
	return b
}

// Customer attaches an optional customer reference and display name.
func (b *Builder) Customer(id *int64, name string) *Builder {
	b.customerID = id
	b.customerName = strings.TrimSpace(name)
	return b
}

func (b *Builder) AddItem(bi BillItem) *Builder {
	b.items = append(b.items, bi)
	return b
}

func (b *Builder) Items(items []BillItem) *Builder {
	b.items = append(b.items[:0:0], items...)
	return b
}

func (b *Builder) PaymentMethod(m PaymentMethod) *Builder {
	b.paymentMethod = m
	return b
}

func (b *Builder) CashTendered(cash types.Money) *Builder {
	b.cashTendered = &cash
	return b
}

// Discount sets the manual bill-level discount amount. Defaults to zero.
func (b *Builder) Discount(d types.Money) *Builder {
	b.discount = d
	return b
}

// Clock replaces the time source used for the default timestamp.
func (b *Builder) Clock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the collected fields and computes the derived amounts.
func (b *Builder) Build() (*Bill, error) {
	if b.serialNumber == "" {
		return nil, apperror.NewValidation("serial number is required").
			WithDetail("field", "serialNumber")
	}
	if b.transactionType == "" {
		return nil, apperror.NewValidation("transaction type is required").
			WithDetail("field", "transactionType")
	}
	if !b.transactionType.IsValid() {
		return nil, apperror.NewValidation("unknown transaction type").
			WithDetail("field", "transactionType").
			WithDetail("value", string(b.transactionType))
	}
	if len(b.items) == 0 {
		return nil, apperror.NewValidation("bill must contain at least one item").
			WithDetail("field", "items")
	}
	if b.paymentMethod != "" && !b.paymentMethod.IsValid() {
		return nil, apperror.NewValidation("unknown payment method").
			WithDetail("field", "paymentMethod").
			WithDetail("value", string(b.paymentMethod))
	}
	if b.discount.IsNegative() {
		return nil, apperror.NewValidation("discount cannot be negative").
			WithDetail("field", "discount").
			WithDetail("value", b.discount.Fixed())
	}

	dateTime := b.dateTime
	if dateTime.IsZero() {
		dateTime = b.now()
	}

	bl := &Bill{
		serialNumber:    b.serialNumber,
		dateTime:        dateTime,
		transactionType: b.transactionType,
		customerID:      b.customerID,
		customerName:    b.customerName,
		items:           append([]BillItem(nil), b.items...),
		paymentMethod:   b.paymentMethod,
		totals:          ComputeTotals(b.items, b.discount),
	}

	if b.cashTendered != nil {
		cash := *b.cashTendered
		change := cash.Subtract(bl.totals.Total)
		bl.cashTendered = &cash
		bl.change = &change
	}

	return bl, nil
}
