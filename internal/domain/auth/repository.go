package auth

import (
	"context"
)

// UserRepository defines staff user storage operations.
type UserRepository interface {
	// Create inserts the user and assigns its ID.
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByUsername returns NOT_FOUND for unknown usernames.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Update stores login bookkeeping and profile fields.
	Update(ctx context.Context, user *User) error

	Exists(ctx context.Context, username string) (bool, error)
}
