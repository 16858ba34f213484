// Package tx defines the unit-of-work boundary used by domain services.
// Services depend on these interfaces; the PostgreSQL and in-memory stores
// provide the implementations.
package tx

import (
	"context"
	"errors"
)

// ErrNestedTransaction is returned when RunInTransaction is called with a
// context that already carries an active unit of work.
var ErrNestedTransaction = errors.New("nested unit of work is not supported")

// Manager runs a closure as one atomic unit of work.
//
// The implementation begins a transaction, calls fn with a context that
// carries it, commits when fn returns nil and rolls back otherwise. The error
// returned by fn is propagated unchanged after the rollback. The underlying
// connection is released on every path, including a failed rollback and a
// panic inside fn.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transaction support.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
