package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synexpos/internal/core/types"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/infrastructure/storage/memory"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestItemCodec(t *testing.T) {
	it, err := item.Restore(3, "RICE", "Basmati Rice", types.MustMoney("100.5"), decimal.RequireFromString("12.5"), 4)
	require.NoError(t, err)

	data, err := encodeItem(it)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"code":"RICE","name":"Basmati Rice","unitPrice":"100.50","discount":"12.5","reorderLevel":4}`, string(data))

	got, err := decodeItem(data)
	require.NoError(t, err)
	assert.Equal(t, it.ID(), got.ID())
	assert.True(t, it.UnitPrice().Equal(got.UnitPrice()))
	assert.True(t, it.Discount().Equal(got.Discount()))
	assert.Equal(t, it.ReorderLevel(), got.ReorderLevel())

	_, err = decodeItem([]byte(`{"code":"","unitPrice":"1","discount":"0"}`))
	assert.Error(t, err)
}

func TestItemRepo_ReadThroughAndEvict(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()
	ctx := context.Background()

	store := memory.NewStore()
	backing := memory.NewItemRepo(store)
	repo := NewItemRepo(backing, client, time.Minute)

	code := item.MustItemCode("cache-test-milk")
	client.Del(ctx, codeKey(code))

	milk, err := item.NewItem(code, "Milk", types.MustMoney("250"), decimal.Zero, 2)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, milk))

	got, err := repo.GetByCode(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "Milk", got.Name())

	cached, err := client.Get(ctx, codeKey(code)).Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(cached), `"name":"Milk"`)

	require.NoError(t, milk.SetName("Fresh Milk"))
	require.NoError(t, repo.Update(ctx, milk))
	assert.ErrorIs(t, client.Get(ctx, codeKey(code)).Err(), redis.Nil)

	got, err = repo.GetByCode(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "Fresh Milk", got.Name())

	client.Del(ctx, codeKey(code))
}
