package customer

import (
	"context"
)

// Repository persists walk-in customers.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id int64) (*Customer, error)
	// FindByPhone returns NOT_FOUND when nobody is registered with the phone.
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	SearchByName(ctx context.Context, query string, limit int) ([]*Customer, error)
}

// OnlineRepository persists online customers.
type OnlineRepository interface {
	Create(ctx context.Context, c *OnlineCustomer) error
	GetByID(ctx context.Context, id int64) (*OnlineCustomer, error)
	// FindByEmail returns NOT_FOUND for unknown addresses.
	FindByEmail(ctx context.Context, email string) (*OnlineCustomer, error)
}
