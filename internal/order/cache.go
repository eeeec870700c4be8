package order

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const userOrdersPrefix = "user_orders:"

// ListCache caches per-user order listings. A nil slice with a nil error
// means cache miss.
type ListCache interface {
	GetByUser(ctx context.Context, userID string) ([]Order, error)
	SetByUser(ctx context.Context, userID string, orders []Order) error
	InvalidateByUser(ctx context.Context, userID string) error
}

// RedisListCache implements ListCache on Redis.
type RedisListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisListCache(addr string, ttl time.Duration) *RedisListCache {
	return &RedisListCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func (c *RedisListCache) GetByUser(ctx context.Context, userID string) ([]Order, error) {
	data, err := c.client.Get(ctx, userOrdersPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var orders []Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *RedisListCache) SetByUser(ctx context.Context, userID string, orders []Order) error {
	data, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, userOrdersPrefix+userID, data, c.ttl).Err()
}

func (c *RedisListCache) InvalidateByUser(ctx context.Context, userID string) error {
	return c.client.Del(ctx, userOrdersPrefix+userID).Err()
}

func (c *RedisListCache) Close() error {
	return c.client.Close()
}

type cachedRepository struct {
	inner  Repository
	cache  ListCache
	logger *log.Logger
}

// NewCachedRepository wraps a Repository with a read-through listing cache.
// Cache failures degrade to the database and never fail the request.
func NewCachedRepository(inner Repository, cache ListCache, logger *log.Logger) Repository {
	return &cachedRepository{inner: inner, cache: cache, logger: logger}
}

func (r *cachedRepository) CreateFromCart(ctx context.Context, userID string, total float64) (*Order, error) {
	o, err := r.inner.CreateFromCart(ctx, userID, total)
	if err != nil {
		return nil, err
	}

	if err := r.cache.InvalidateByUser(ctx, userID); err != nil {
		r.logger.Printf("invalidate order cache for user %s: %v", userID, err)
	}
	return o, nil
}

func (r *cachedRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	cached, err := r.cache.GetByUser(ctx, userID)
	if err != nil {
		r.logger.Printf("order cache get for user %s: %v", userID, err)
	} else if cached != nil {
		return cached, nil
	}

	orders, err := r.inner.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetByUser(ctx, userID, orders); err != nil {
		r.logger.Printf("order cache set for user %s: %v", userID, err)
	}
	return orders, nil
}
