// Package cache provides a Redis read-through cache for the item catalog.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"synexpos/internal/core/tx"
	"synexpos/internal/core/types"
	"synexpos/internal/domain"
	"synexpos/internal/domain/catalogs/item"
	"synexpos/pkg/logger"
)

const keyPrefix = "synexpos:item:"

// Config holds the Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewClient opens a Redis client and checks the connection.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// cachedItem is the JSON form of an item in Redis.
type cachedItem struct {
	ID           int64  `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	UnitPrice    string `json:"unitPrice"`
	Discount     string `json:"discount"`
	ReorderLevel int    `json:"reorderLevel"`
}

func encodeItem(it *item.Item) ([]byte, error) {
	return json.Marshal(cachedItem{
		ID:           it.ID(),
		Code:         it.Code().String(),
		Name:         it.Name(),
		UnitPrice:    it.UnitPrice().Fixed(),
		Discount:     it.Discount().String(),
		ReorderLevel: it.ReorderLevel(),
	})
}

func decodeItem(data []byte) (*item.Item, error) {
	var c cachedItem
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	price, err := types.NewMoneyFromString(c.UnitPrice)
	if err != nil {
		return nil, err
	}
	discount, err := decimal.NewFromString(c.Discount)
	if err != nil {
		return nil, err
	}
	return item.Restore(c.ID, c.Code, c.Name, price, discount, c.ReorderLevel)
}

func codeKey(code item.ItemCode) string { return keyPrefix + "code:" + code.String() }

// ItemRepo decorates an item.Repository with a read-through cache of
// GetByCode outside a unit of work, which serves previews and catalog reads.
// Writes go to the wrapped repository and evict the cached entry after commit.
//
// Redis failures never fail a request: the decorator logs them and falls
// back to the wrapped repository.
type ItemRepo struct {
	next   item.Repository
	client redis.UniversalClient
	ttl    time.Duration
}

var _ item.Repository = (*ItemRepo)(nil)

// NewItemRepo wraps next. A zero ttl defaults to ten minutes.
func NewItemRepo(next item.Repository, client redis.UniversalClient, ttl time.Duration) *ItemRepo {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ItemRepo{next: next, client: client, ttl: ttl}
}

func (r *ItemRepo) GetByCode(ctx context.Context, code item.ItemCode) (*item.Item, error) {
	// A unit of work reads what it is about to write or charge for, so it
	// always sees the row and never repopulates the cache from it.
	if tx.InUnitOfWork(ctx) {
		return r.next.GetByCode(ctx, code)
	}
	key := codeKey(code)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		it, decodeErr := decodeItem(data)
		if decodeErr == nil {
			return it, nil
		}
		logger.Warn(ctx, "dropping unreadable cached item", "key", key, "error", decodeErr)
		r.evict(ctx, code)
	case !errors.Is(err, redis.Nil):
		logger.Warn(ctx, "item cache read failed", "key", key, "error", err)
	}

	it, err := r.next.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if payload, err := encodeItem(it); err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			logger.Warn(ctx, "item cache write failed", "key", key, "error", err)
		}
	}
	return it, nil
}

func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	if err := r.next.Create(ctx, it); err != nil {
		return err
	}
	r.evictAfterCommit(ctx, it.Code())
	return nil
}

func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	if err := r.next.Update(ctx, it); err != nil {
		return err
	}
	r.evictAfterCommit(ctx, it.Code())
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*item.Item, error) {
	return r.next.GetByID(ctx, id)
}

func (r *ItemRepo) ExistsByCode(ctx context.Context, code item.ItemCode) (bool, error) {
	return r.next.ExistsByCode(ctx, code)
}

func (r *ItemRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*item.Item], error) {
	return r.next.List(ctx, filter)
}

// evictAfterCommit drops the entry once the write is visible to other
// readers. Evicting earlier lets a concurrent reader cache the old row.
func (r *ItemRepo) evictAfterCommit(ctx context.Context, code item.ItemCode) {
	tx.AfterCommit(ctx, func(ctx context.Context) {
		r.evict(ctx, code)
	})
}

func (r *ItemRepo) evict(ctx context.Context, code item.ItemCode) {
	if err := r.client.Del(ctx, codeKey(code)).Err(); err != nil {
		logger.Warn(ctx, "item cache evict failed", "item_code", code.String(), "error", err)
	}
}
