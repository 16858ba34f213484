package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"synexpos/internal/core/apperror"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/domain/documents/bill"
	"synexpos/internal/domain/registers/stock"
)

// BillRepo implements bill.Repository.
type BillRepo struct {
	store *Store
}

var _ bill.Repository = (*BillRepo)(nil)

func NewBillRepo(store *Store) *BillRepo {
	return &BillRepo{store: store}
}

func toBillRow(b *bill.Bill) billRow {
	row := billRow{
		ID:              b.ID(),
		SerialNumber:    b.SerialNumber(),
		DateTime:        b.DateTime(),
		TransactionType: b.TransactionType(),
		CustomerName:    b.CustomerName(),
		PaymentMethod:   b.PaymentMethod(),
		Discount:        b.Discount(),
	}
	if id, ok := b.CustomerID(); ok {
		row.CustomerID = &id
	}
	if cash, ok := b.CashTendered(); ok {
		row.CashTendered = &cash
	}
	for _, bi := range b.Items() {
		row.Lines = append(row.Lines, billLineRow{
			ItemID:    bi.ItemID(),
			ItemCode:  bi.ItemCode().String(),
			ItemName:  bi.ItemName(),
			Quantity:  bi.Quantity(),
			UnitPrice: bi.UnitPrice(),
			Discount:  bi.Discount(),
			Total:     bi.TotalPrice(),
		})
	}
	return row
}

func (r billRow) toDomain() (*bill.Bill, error) {
	bld := bill.NewBuilder().
		SerialNumber(r.SerialNumber).
		DateTime(r.DateTime).
		TransactionType(r.TransactionType).
		Customer(r.CustomerID, r.CustomerName).
		PaymentMethod(r.PaymentMethod).
		Discount(r.Discount)
	if r.CashTendered != nil {
		bld.CashTendered(*r.CashTendered)
	}
	for _, l := range r.Lines {
		bld.AddItem(bill.RestoreBillItem(l.ItemID, item.ItemCode(l.ItemCode), l.ItemName, l.Quantity, l.UnitPrice, l.Discount, l.Total))
	}
	b, err := bld.Build()
	if err != nil {
		return nil, err
	}
	b.AssignID(r.ID)
	return b, nil
}

func (r *BillRepo) Save(ctx context.Context, b *bill.Bill) error {
	return r.store.view(ctx, func(st *state) error {
		for _, existing := range st.bills {
			if existing.SerialNumber == b.SerialNumber() {
				return apperror.NewDuplicate("bill", "serial_number", b.SerialNumber())
			}
		}
		b.AssignID(st.nextID())
		st.bills[b.ID()] = toBillRow(b)
		return nil
	})
}

func (r *BillRepo) GetByID(ctx context.Context, id int64) (*bill.Bill, error) {
	var out *bill.Bill
	err := r.store.view(ctx, func(st *state) error {
		row, ok := st.bills[id]
		if !ok {
			return apperror.NewNotFound("bill", id)
		}
		var err error
		out, err = row.toDomain()
		return err
	})
	return out, err
}

func (r *BillRepo) GetBySerialNumber(ctx context.Context, serial string) (*bill.Bill, error) {
	var out *bill.Bill
	err := r.store.view(ctx, func(st *state) error {
		for _, row := range st.bills {
			if row.SerialNumber == serial {
				var err error
				out, err = row.toDomain()
				return err
			}
		}
		return apperror.NewNotFound("bill", serial)
	})
	return out, err
}

func (r *BillRepo) FindByDate(ctx context.Context, date time.Time, txType bill.TransactionType) ([]*bill.Bill, error) {
	day := stock.DateOnly(date)
	return r.find(ctx, func(row billRow) bool {
		return stock.DateOnly(row.DateTime).Equal(day) && (txType == "" || row.TransactionType == txType)
	})
}

func (r *BillRepo) FindByDateRange(ctx context.Context, from, to time.Time) ([]*bill.Bill, error) {
	lo, hi := stock.DateOnly(from), stock.DateOnly(to)
	return r.find(ctx, func(row billRow) bool {
		d := stock.DateOnly(row.DateTime)
		return !d.Before(lo) && !d.After(hi)
	})
}

func (r *BillRepo) find(ctx context.Context, match func(billRow) bool) ([]*bill.Bill, error) {
	out := []*bill.Bill{}
	err := r.store.view(ctx, func(st *state) error {
		rows := st.billRows(match)
		for _, row := range rows {
			b, err := row.toDomain()
			if err != nil {
				return err
			}
			out = append(out, b)
		}
		return nil
	})
	return out, err
}

// billRows returns matching bills ordered by issue time.
func (st *state) billRows(match func(billRow) bool) []billRow {
	rows := make([]billRow, 0)
	for _, row := range st.bills {
		if match(row) {
			rows = append(rows, row)
		}
	}
	slices.SortFunc(rows, func(a, b billRow) int {
		return cmp.Or(a.DateTime.Compare(b.DateTime), cmp.Compare(a.ID, b.ID))
	})
	return rows
}
