// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"synexpos/internal/core/apperror"
	"synexpos/internal/domain"
	"synexpos/internal/infrastructure/storage/postgres"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// baseRepo holds what every catalog table needs: the unit of work, the
// statement builder and the column list.
type baseRepo struct {
	txManager  *postgres.TxManager
	builder    squirrel.StatementBuilderType
	tableName  string
	selectCols []string
}

func newBaseRepo(txManager *postgres.TxManager, tableName string, selectCols []string) baseRepo {
	return baseRepo{
		txManager:  txManager,
		builder:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		tableName:  tableName,
		selectCols: selectCols,
	}
}

func (r *baseRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *baseRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.Select(r.selectCols...).From(r.tableName)
}

// insert writes data and returns the generated id.
func (r *baseRepo) insert(ctx context.Context, data map[string]any) (int64, error) {
	sql, args, err := r.builder.
		Insert(r.tableName).
		SetMap(data).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var newID int64
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&newID); err != nil {
		return 0, r.writeError(err)
	}
	return newID, nil
}

// update sets data on the row with the id.
func (r *baseRepo) update(ctx context.Context, rowID int64, data map[string]any) error {
	sql, args, err := r.builder.
		Update(r.tableName).
		SetMap(data).
		Where(squirrel.Eq{"id": rowID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.writeError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, rowID)
	}
	return nil
}

// getOne scans the first row of q into dst. key names the lookup in the
// NOT_FOUND error.
func (r *baseRepo) getOne(ctx context.Context, dst any, q squirrel.SelectBuilder, key any) error {
	sql, args, err := q.Limit(1).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Get(ctx, r.querier(ctx), dst, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return apperror.NewNotFound(r.tableName, key)
		}
		return fmt.Errorf("get %s: %w", r.tableName, err)
	}
	return nil
}

// exists reports whether any row matches where.
func (r *baseRepo) exists(ctx context.Context, where squirrel.Sqlizer) (bool, error) {
	sql, args, err := r.builder.
		Select("1").
		Prefix("SELECT EXISTS (").
		From(r.tableName).
		Where(where).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}

	var found bool
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&found); err != nil {
		return false, fmt.Errorf("exists %s: %w", r.tableName, err)
	}
	return found, nil
}

// listQuery applies search to the base select. The search matches name or
// code case-insensitively.
func (r *baseRepo) listQuery(filter domain.ListFilter, searchCols ...string) squirrel.SelectBuilder {
	q := r.baseSelect()
	if filter.Search != "" && len(searchCols) > 0 {
		pattern := "%" + filter.Search + "%"
		or := squirrel.Or{}
		for _, col := range searchCols {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}
	return q
}

// list counts the rows of q, then scans one page of them into dst.
func (r *baseRepo) list(ctx context.Context, q squirrel.SelectBuilder, filter domain.ListFilter, orderBy string, dst any) (int64, error) {
	countSQL, countArgs, err := r.builder.Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy(orderBy)
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, dst, sql, args...); err != nil {
		return 0, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return total, nil
}

// writeError maps constraint violations to domain errors.
func (r *baseRepo) writeError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.NewConflict("record already exists").
				WithDetail("entity", r.tableName).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgForeignKeyViolation:
			return apperror.NewConflict("referenced record does not exist").
				WithDetail("entity", r.tableName).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
	}
	return fmt.Errorf("write %s: %w", r.tableName, err)
}
