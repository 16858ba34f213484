package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"synexpos/internal/domain/catalogs/customer"
	"synexpos/internal/infrastructure/storage/postgres"
)

const (
	customerTable       = "customer"
	onlineCustomerTable = "online_customer"
)

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	baseRepo
}

var _ customer.Repository = (*CustomerRepo)(nil)

func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		baseRepo: newBaseRepo(txManager, customerTable, postgres.ExtractDBColumns[customer.Customer]()),
	}
}

func (r *CustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	newID, err := r.insert(ctx, postgres.StructToMap(c, "id"))
	if err != nil {
		return err
	}
	c.ID = newID
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.getOne(ctx, &c, r.baseSelect().Where(squirrel.Eq{"id": id}), id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) FindByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.getOne(ctx, &c, r.baseSelect().Where(squirrel.Eq{"phone": phone}), phone); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) SearchByName(ctx context.Context, query string, limit int) ([]*customer.Customer, error) {
	q := r.baseSelect().
		Where(squirrel.ILike{"name": "%" + query + "%"}).
		OrderBy("name", "id")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	out := []*customer.Customer{}
	if err := pgxscan.Select(ctx, r.querier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return out, nil
}

// OnlineCustomerRepo implements customer.OnlineRepository.
type OnlineCustomerRepo struct {
	baseRepo
}

var _ customer.OnlineRepository = (*OnlineCustomerRepo)(nil)

func NewOnlineCustomerRepo(txManager *postgres.TxManager) *OnlineCustomerRepo {
	return &OnlineCustomerRepo{
		baseRepo: newBaseRepo(txManager, onlineCustomerTable, postgres.ExtractDBColumns[customer.OnlineCustomer]()),
	}
}

func (r *OnlineCustomerRepo) Create(ctx context.Context, c *customer.OnlineCustomer) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	newID, err := r.insert(ctx, postgres.StructToMap(c, "id"))
	if err != nil {
		return err
	}
	c.ID = newID
	return nil
}

func (r *OnlineCustomerRepo) GetByID(ctx context.Context, id int64) (*customer.OnlineCustomer, error) {
	var c customer.OnlineCustomer
	if err := r.getOne(ctx, &c, r.baseSelect().Where(squirrel.Eq{"id": id}), id); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByEmail matches the address case-insensitively.
func (r *OnlineCustomerRepo) FindByEmail(ctx context.Context, email string) (*customer.OnlineCustomer, error) {
	var c customer.OnlineCustomer
	q := r.baseSelect().Where(squirrel.Expr("lower(email) = lower(?)", email))
	if err := r.getOne(ctx, &c, q, email); err != nil {
		return nil, err
	}
	return &c, nil
}
