package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"synexpos/internal/core/apperror"
	"synexpos/internal/domain"
	"synexpos/internal/domain/catalogs/customer"
	"synexpos/internal/domain/catalogs/item"
)

// ItemRepo implements item.Repository.
type ItemRepo struct {
	store *Store
}

var _ item.Repository = (*ItemRepo)(nil)

func NewItemRepo(store *Store) *ItemRepo {
	return &ItemRepo{store: store}
}

func toItemRow(it *item.Item) itemRow {
	return itemRow{
		ID:           it.ID(),
		Code:         it.Code().String(),
		Name:         it.Name(),
		UnitPrice:    it.UnitPrice(),
		Discount:     it.Discount(),
		ReorderLevel: it.ReorderLevel(),
	}
}

func (r itemRow) toDomain() (*item.Item, error) {
	return item.Restore(r.ID, r.Code, r.Name, r.UnitPrice, r.Discount, r.ReorderLevel)
}

func (st *state) itemByCode(code item.ItemCode) (itemRow, bool) {
	for _, row := range st.items {
		if row.Code == code.String() {
			return row, true
		}
	}
	return itemRow{}, false
}

func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	return r.store.view(ctx, func(st *state) error {
		if _, exists := st.itemByCode(it.Code()); exists {
			return apperror.NewDuplicate("item", "code", it.Code().String())
		}
		it.AssignID(st.nextID())
		st.items[it.ID()] = toItemRow(it)
		return nil
	})
}

func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	return r.store.view(ctx, func(st *state) error {
		if _, ok := st.items[it.ID()]; !ok {
			return apperror.NewNotFound("item", it.Code().String())
		}
		st.items[it.ID()] = toItemRow(it)
		return nil
	})
}

func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*item.Item, error) {
	var out *item.Item
	err := r.store.view(ctx, func(st *state) error {
		row, ok := st.items[id]
		if !ok {
			return apperror.NewNotFound("item", id)
		}
		var err error
		out, err = row.toDomain()
		return err
	})
	return out, err
}

func (r *ItemRepo) GetByCode(ctx context.Context, code item.ItemCode) (*item.Item, error) {
	var out *item.Item
	err := r.store.view(ctx, func(st *state) error {
		row, ok := st.itemByCode(code)
		if !ok {
			return apperror.NewNotFound("item", code.String())
		}
		var err error
		out, err = row.toDomain()
		return err
	})
	return out, err
}

func (r *ItemRepo) ExistsByCode(ctx context.Context, code item.ItemCode) (bool, error) {
	var exists bool
	err := r.store.view(ctx, func(st *state) error {
		_, exists = st.itemByCode(code)
		return nil
	})
	return exists, err
}

func (r *ItemRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*item.Item], error) {
	filter = filter.Normalize()
	result := domain.ListResult[*item.Item]{Limit: filter.Limit, Offset: filter.Offset, Items: []*item.Item{}}

	err := r.store.view(ctx, func(st *state) error {
		search := strings.ToLower(strings.TrimSpace(filter.Search))
		rows := make([]itemRow, 0, len(st.items))
		for _, row := range st.items {
			if search != "" &&
				!strings.Contains(strings.ToLower(row.Name), search) &&
				!strings.Contains(strings.ToLower(row.Code), search) {
				continue
			}
			rows = append(rows, row)
		}
		slices.SortFunc(rows, func(a, b itemRow) int { return cmp.Compare(a.Code, b.Code) })

		result.TotalCount = int64(len(rows))
		for _, row := range page(rows, filter.Offset, filter.Limit) {
			it, err := row.toDomain()
			if err != nil {
				return err
			}
			result.Items = append(result.Items, it)
		}
		return nil
	})
	return result, err
}

func page[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return nil
	}
	end := min(offset+limit, len(rows))
	return rows[offset:end]
}

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	store *Store
}

var _ customer.Repository = (*CustomerRepo)(nil)

func NewCustomerRepo(store *Store) *CustomerRepo {
	return &CustomerRepo{store: store}
}

func (r *CustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	return r.store.view(ctx, func(st *state) error {
		for _, existing := range st.customers {
			if existing.Phone == c.Phone {
				return apperror.NewDuplicate("customer", "phone", c.Phone)
			}
		}
		c.ID = st.nextID()
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now()
		}
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	var out *customer.Customer
	err := r.store.view(ctx, func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return apperror.NewNotFound("customer", id)
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *CustomerRepo) FindByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	var out *customer.Customer
	err := r.store.view(ctx, func(st *state) error {
		for _, c := range st.customers {
			if c.Phone == phone {
				out = &c
				return nil
			}
		}
		return apperror.NewNotFound("customer", phone)
	})
	return out, err
}

func (r *CustomerRepo) SearchByName(ctx context.Context, query string, limit int) ([]*customer.Customer, error) {
	out := []*customer.Customer{}
	err := r.store.view(ctx, func(st *state) error {
		q := strings.ToLower(strings.TrimSpace(query))
		for _, c := range st.customers {
			if strings.Contains(strings.ToLower(c.Name), q) {
				out = append(out, &c)
			}
		}
		slices.SortFunc(out, func(a, b *customer.Customer) int {
			return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
		})
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

// OnlineCustomerRepo implements customer.OnlineRepository.
type OnlineCustomerRepo struct {
	store *Store
}

var _ customer.OnlineRepository = (*OnlineCustomerRepo)(nil)

func NewOnlineCustomerRepo(store *Store) *OnlineCustomerRepo {
	return &OnlineCustomerRepo{store: store}
}

func (r *OnlineCustomerRepo) Create(ctx context.Context, c *customer.OnlineCustomer) error {
	return r.store.view(ctx, func(st *state) error {
		for _, existing := range st.online {
			if strings.EqualFold(existing.Email, c.Email) {
				return apperror.NewDuplicate("online customer", "email", c.Email)
			}
		}
		c.ID = st.nextID()
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now()
		}
		st.online[c.ID] = *c
		return nil
	})
}

func (r *OnlineCustomerRepo) GetByID(ctx context.Context, id int64) (*customer.OnlineCustomer, error) {
	var out *customer.OnlineCustomer
	err := r.store.view(ctx, func(st *state) error {
		c, ok := st.online[id]
		if !ok {
			return apperror.NewNotFound("online customer", id)
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *OnlineCustomerRepo) FindByEmail(ctx context.Context, email string) (*customer.OnlineCustomer, error) {
	var out *customer.OnlineCustomer
	err := r.store.view(ctx, func(st *state) error {
		for _, c := range st.online {
			if strings.EqualFold(c.Email, email) {
				out = &c
				return nil
			}
		}
		return apperror.NewNotFound("online customer", email)
	})
	return out, err
}
