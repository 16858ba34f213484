package item

import (
	"context"

	"synexpos/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	// Create inserts the item and assigns its ID.
	Create(ctx context.Context, it *Item) error

	// Update stores name, price, discount and reorder level.
	Update(ctx context.Context, it *Item) error

	GetByID(ctx context.Context, id int64) (*Item, error)

	// GetByCode returns apperror NOT_FOUND when no item has the code.
	GetByCode(ctx context.Context, code ItemCode) (*Item, error)

	ExistsByCode(ctx context.Context, code ItemCode) (bool, error)

	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Item], error)
}
