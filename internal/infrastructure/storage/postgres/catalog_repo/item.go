package catalog_repo

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"synexpos/internal/core/types"
	"synexpos/internal/domain"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/infrastructure/storage/postgres"
)

const itemTable = "item"

type itemRow struct {
	ID           int64           `db:"id"`
	Code         string          `db:"code"`
	Name         string          `db:"name"`
	UnitPrice    types.Money     `db:"unit_price"`
	Discount     decimal.Decimal `db:"discount"`
	ReorderLevel int             `db:"reorder_level"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (r itemRow) toDomain() (*item.Item, error) {
	return item.Restore(r.ID, r.Code, r.Name, r.UnitPrice, r.Discount, r.ReorderLevel)
}

// ItemRepo implements item.Repository.
type ItemRepo struct {
	baseRepo
	now func() time.Time
}

var _ item.Repository = (*ItemRepo)(nil)

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		baseRepo: newBaseRepo(txManager, itemTable, postgres.ExtractDBColumns[itemRow]()),
		now:      time.Now,
	}
}

func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	now := r.now()
	newID, err := r.insert(ctx, map[string]any{
		"code":          it.Code().String(),
		"name":          it.Name(),
		"unit_price":    it.UnitPrice(),
		"discount":      it.Discount(),
		"reorder_level": it.ReorderLevel(),
		"created_at":    now,
		"updated_at":    now,
	})
	if err != nil {
		return err
	}
	it.AssignID(newID)
	return nil
}

func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	return r.update(ctx, it.ID(), map[string]any{
		"name":          it.Name(),
		"unit_price":    it.UnitPrice(),
		"discount":      it.Discount(),
		"reorder_level": it.ReorderLevel(),
		"updated_at":    r.now(),
	})
}

func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*item.Item, error) {
	var row itemRow
	if err := r.getOne(ctx, &row, r.baseSelect().Where(squirrel.Eq{"id": id}), id); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *ItemRepo) GetByCode(ctx context.Context, code item.ItemCode) (*item.Item, error) {
	var row itemRow
	if err := r.getOne(ctx, &row, r.baseSelect().Where(squirrel.Eq{"code": code.String()}), code.String()); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *ItemRepo) ExistsByCode(ctx context.Context, code item.ItemCode) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"code": code.String()})
}

func (r *ItemRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*item.Item], error) {
	filter = filter.Normalize()
	result := domain.ListResult[*item.Item]{Limit: filter.Limit, Offset: filter.Offset}

	var rows []itemRow
	total, err := r.list(ctx, r.listQuery(filter, "name", "code"), filter, "code", &rows)
	if err != nil {
		return result, err
	}

	result.TotalCount = total
	result.Items = make([]*item.Item, 0, len(rows))
	for _, row := range rows {
		it, err := row.toDomain()
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, it)
	}
	return result, nil
}
