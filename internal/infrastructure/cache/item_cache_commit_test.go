package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synexpos/internal/core/tx"
	"synexpos/internal/core/types"
	"synexpos/internal/domain"
	"synexpos/internal/domain/catalogs/item"
)

// readCommittedRepo only exposes a write to readers once the surrounding
// unit of work commits, the way PostgreSQL behaves under READ COMMITTED.
type readCommittedRepo struct {
	item.Repository
	committed *item.Item
	pending   *item.Item
}

func copyItem(it *item.Item) *item.Item {
	c, err := item.Restore(it.ID(), it.Code().String(), it.Name(), it.UnitPrice(), it.Discount(), it.ReorderLevel())
	if err != nil {
		panic(err)
	}
	return c
}

func (r *readCommittedRepo) GetByCode(_ context.Context, code item.ItemCode) (*item.Item, error) {
	return copyItem(r.committed), nil
}

func (r *readCommittedRepo) Update(_ context.Context, it *item.Item) error {
	r.pending = copyItem(it)
	return nil
}

type readCommittedTx struct {
	repo *readCommittedRepo
}

func (m readCommittedTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, afterCommit := tx.WithCommitHooks(ctx)
	if err := fn(txCtx); err != nil {
		m.repo.pending = nil
		return err
	}
	if m.repo.pending != nil {
		m.repo.committed = m.repo.pending
		m.repo.pending = nil
	}
	afterCommit(ctx)
	return nil
}

// auditFunc lets a test act while the update is still uncommitted.
type auditFunc func(ctx context.Context)

func (f auditFunc) Record(ctx context.Context, _, _ string, _ domain.AuditAction, _ map[string]any) error {
	f(ctx)
	return nil
}

func newMiniRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestItemRepo_ConcurrentReadDuringUpdateIsEvicted(t *testing.T) {
	client := newMiniRedis(t)
	ctx := context.Background()

	code := item.MustItemCode("MILK")
	milk, err := item.Restore(1, code.String(), "Milk", types.MustMoney("100.00"), decimal.Zero, 0)
	require.NoError(t, err)

	backing := &readCommittedRepo{committed: milk}
	repo := NewItemRepo(backing, client, time.Hour)

	// A checkout on another connection reads the item before the price
	// change commits and caches the old row.
	checkout := auditFunc(func(context.Context) {
		got, err := repo.GetByCode(ctx, code)
		require.NoError(t, err)
		assert.Equal(t, "100.00", got.UnitPrice().Fixed())
	})
	svc := item.NewService(repo, readCommittedTx{repo: backing}, checkout)

	price := types.MustMoney("150.00")
	_, err = svc.Update(ctx, code.String(), item.UpdateInput{UnitPrice: &price})
	require.NoError(t, err)

	got, err := repo.GetByCode(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "150.00", got.UnitPrice().Fixed())
}

func TestItemRepo_RolledBackUpdateKeepsCache(t *testing.T) {
	client := newMiniRedis(t)
	ctx := context.Background()

	code := item.MustItemCode("BREAD")
	bread, err := item.Restore(2, code.String(), "Bread", types.MustMoney("180.00"), decimal.Zero, 0)
	require.NoError(t, err)

	backing := &readCommittedRepo{committed: bread}
	repo := NewItemRepo(backing, client, time.Hour)

	_, err = repo.GetByCode(ctx, code)
	require.NoError(t, err)
	require.NoError(t, client.Get(ctx, codeKey(code)).Err())

	err = readCommittedTx{repo: backing}.RunInTransaction(ctx, func(ctx context.Context) error {
		changed := copyItem(bread)
		require.NoError(t, changed.SetName("Rye Bread"))
		require.NoError(t, repo.Update(ctx, changed))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	assert.NoError(t, client.Get(ctx, codeKey(code)).Err(), "rollback must not evict")
}

func TestItemRepo_UnitOfWorkReadsBypassCache(t *testing.T) {
	client := newMiniRedis(t)
	ctx := context.Background()

	code := item.MustItemCode("SOAP")
	soap, err := item.Restore(3, code.String(), "Soap", types.MustMoney("120.00"), decimal.Zero, 0)
	require.NoError(t, err)

	backing := &readCommittedRepo{committed: soap}
	repo := NewItemRepo(backing, client, time.Hour)

	err = readCommittedTx{repo: backing}.RunInTransaction(ctx, func(ctx context.Context) error {
		_, err := repo.GetByCode(ctx, code)
		return err
	})
	require.NoError(t, err)
	assert.ErrorIs(t, client.Get(ctx, codeKey(code)).Err(), redis.Nil)

	_, err = repo.GetByCode(ctx, code)
	require.NoError(t, err)
	assert.NoError(t, client.Get(ctx, codeKey(code)).Err())
}
