package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"synexpos/internal/core/apperror"
	"synexpos/internal/core/tx"
	"synexpos/internal/core/types"
	"synexpos/internal/domain"
	"synexpos/pkg/logger"
)

// CreateInput carries the fields of a new catalog item.
type CreateInput struct {
	Code         string
	Name         string
	UnitPrice    types.Money
	Discount     decimal.Decimal
	ReorderLevel int
}

// UpdateInput changes only the non-nil fields.
type UpdateInput struct {
	Name         *string
	UnitPrice    *types.Money
	Discount     *decimal.Decimal
	ReorderLevel *int
}

// Service manages the item catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
	audit     domain.AuditRecorder
	history   domain.AuditReader
}

// NewService creates a new item service.
func NewService(repo Repository, txManager tx.Manager, audit domain.AuditRecorder) *Service {
	return &Service{repo: repo, txManager: txManager, audit: audit}
}

// WithHistory enables History over the given audit trail.
func (s *Service) WithHistory(history domain.AuditReader) *Service {
	s.history = history
	return s
}

// Create validates and stores a new item. Codes are unique after normalization.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Item, error) {
	code, err := ParseItemCode(in.Code)
	if err != nil {
		return nil, err
	}
	it, err := NewItem(code, in.Name, in.UnitPrice, in.Discount, in.ReorderLevel)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("check item code: %w", err)
		}
		if exists {
			return apperror.NewDuplicate("item", "code", code.String())
		}
		if err := s.repo.Create(ctx, it); err != nil {
			return fmt.Errorf("create item: %w", err)
		}
		return s.audit.Record(ctx, "item", code.String(), domain.AuditActionCreate, it.Snapshot())
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "item created", "code", code, "id", it.ID())
	return it, nil
}

// Update applies the given changes through the validating setters.
func (s *Service) Update(ctx context.Context, rawCode string, in UpdateInput) (*Item, error) {
	code, err := ParseItemCode(rawCode)
	if err != nil {
		return nil, err
	}

	var updated *Item
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.repo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		before := it.Snapshot()

		if in.Name != nil {
			if err := it.SetName(*in.Name); err != nil {
				return err
			}
		}
		if in.UnitPrice != nil {
			if err := it.SetUnitPrice(*in.UnitPrice); err != nil {
				return err
			}
		}
		if in.Discount != nil {
			if err := it.SetDiscount(*in.Discount); err != nil {
				return err
			}
		}
		if in.ReorderLevel != nil {
			if err := it.SetReorderLevel(*in.ReorderLevel); err != nil {
				return err
			}
		}

		changes := domain.Diff(before, it.Snapshot())
		if len(changes) == 0 {
			updated = it
			return nil
		}
		if err := s.repo.Update(ctx, it); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		updated = it
		return s.audit.Record(ctx, "item", code.String(), domain.AuditActionUpdate, changes)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetByCode resolves a raw code to an item.
func (s *Service) GetByCode(ctx context.Context, rawCode string) (*Item, error) {
	code, err := ParseItemCode(rawCode)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByCode(ctx, code)
}

// History returns the recorded changes of an item, newest first.
func (s *Service) History(ctx context.Context, rawCode string, limit int) ([]domain.AuditRecord, error) {
	if s.history == nil {
		return nil, apperror.NewInternal(errors.New("item history is not configured"))
	}
	it, err := s.GetByCode(ctx, rawCode)
	if err != nil {
		return nil, err
	}
	return s.history.History(ctx, "item", it.Code().String(), limit)
}

// List returns a page of items ordered by code.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Item], error) {
	return s.repo.List(ctx, filter.Normalize())
}
