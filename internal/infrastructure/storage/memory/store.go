// Package memory is an in-process store with the same unit-of-work
// semantics as the PostgreSQL store. It backs tests and the demo mode of the
// server.
//
// A unit of work holds a store-wide lock for its whole duration, which is
// the in-memory equivalent of the row locks the PostgreSQL store takes, and
// works on a copy of the state that replaces the live state on commit.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"synexpos/internal/core/tx"
	"synexpos/internal/core/types"
	"synexpos/internal/domain"
	"synexpos/internal/domain/auth"
	"synexpos/internal/domain/catalogs/customer"
	"synexpos/internal/domain/documents/bill"
	"synexpos/internal/domain/registers/stock"
)

type itemRow struct {
	ID           int64
	Code         string
	Name         string
	UnitPrice    types.Money
	Discount     decimal.Decimal
	ReorderLevel int
}

type batchRow struct {
	ID                int64
	ItemID            int64
	ItemCode          string
	QuantityReceived  int
	QuantityRemaining int
	PurchaseDate      time.Time
	ExpiryDate        *time.Time
}

type poolKey struct {
	ItemID  int64
	Channel stock.Channel
}

type poolRow struct {
	ItemID    int64
	ItemCode  string
	Channel   stock.Channel
	Quantity  int
	UpdatedAt time.Time
}

type billLineRow struct {
	ItemID    int64
	ItemCode  string
	ItemName  string
	Quantity  int
	UnitPrice types.Money
	Discount  decimal.Decimal
	Total     types.Money
}

// Stored bills are never modified, so clones share their line slices.
type billRow struct {
	ID              int64
	SerialNumber    string
	DateTime        time.Time
	TransactionType bill.TransactionType
	CustomerID      *int64
	CustomerName    string
	PaymentMethod   bill.PaymentMethod
	CashTendered    *types.Money
	Discount        types.Money
	Lines           []billLineRow
}

type state struct {
	seq int64

	items     map[int64]itemRow
	customers map[int64]customer.Customer
	online    map[int64]customer.OnlineCustomer
	users     map[int64]auth.User
	batches   map[int64]batchRow
	pools     map[poolKey]poolRow
	bills     map[int64]billRow
	counters  map[string]int64

	events []domain.Event
	audits []domain.AuditRecord
}

func newState() *state {
	return &state{
		items:     make(map[int64]itemRow),
		customers: make(map[int64]customer.Customer),
		online:    make(map[int64]customer.OnlineCustomer),
		users:     make(map[int64]auth.User),
		batches:   make(map[int64]batchRow),
		pools:     make(map[poolKey]poolRow),
		bills:     make(map[int64]billRow),
		counters:  make(map[string]int64),
	}
}

func (s *state) clone() *state {
	return &state{
		seq:       s.seq,
		items:     maps.Clone(s.items),
		customers: maps.Clone(s.customers),
		online:    maps.Clone(s.online),
		users:     maps.Clone(s.users),
		batches:   maps.Clone(s.batches),
		pools:     maps.Clone(s.pools),
		bills:     maps.Clone(s.bills),
		counters:  maps.Clone(s.counters),
		events:    append([]domain.Event(nil), s.events...),
		audits:    append([]domain.AuditRecord(nil), s.audits...),
	}
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

// Store owns the state and serializes access to it.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{state: newState(), now: time.Now}
}

// WithClock replaces the time source used for audit timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

type txKey struct{}

type memTx struct {
	st *state
}

// view runs fn against the working copy of the unit of work in ctx, or
// against the live state under the lock when ctx carries none.
func (s *Store) view(ctx context.Context, fn func(st *state) error) error {
	if t, ok := ctx.Value(txKey{}).(*memTx); ok {
		return fn(t.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// TxManager is the unit of work of the memory store.
type TxManager struct {
	store *Store
}

var _ tx.ReadOnlyManager = (*TxManager)(nil)

// NewTxManager creates a transaction manager for the store.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// RunInTransaction runs fn on a copy of the state and publishes the copy
// only when fn returns nil. A panic in fn leaves the state untouched.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*memTx); ok {
		return tx.ErrNestedTransaction
	}

	txCtx, afterCommit := tx.WithCommitHooks(ctx)
	if err := m.commit(txCtx, fn); err != nil {
		return err
	}
	afterCommit(ctx)
	return nil
}

// commit holds the store lock only while fn runs and the copy is published;
// commit hooks run after it is released.
func (m *TxManager) commit(ctx context.Context, fn func(ctx context.Context) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	work := &memTx{st: m.store.state.clone()}
	if err := fn(context.WithValue(ctx, txKey{}, work)); err != nil {
		return err
	}
	m.store.state = work.st
	return nil
}

// ReadOnly runs fn in a unit of work whose changes are always discarded.
func (m *TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*memTx); ok {
		return tx.ErrNestedTransaction
	}

	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	// Read-only work never commits, so its hooks are dropped.
	roCtx, _ := tx.WithCommitHooks(ctx)
	return fn(context.WithValue(roCtx, txKey{}, &memTx{st: m.store.state.clone()}))
}
