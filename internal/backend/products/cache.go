package products

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores search results keyed by search terms and limit.
type Cache interface {
	Get(ctx context.Context, key string) ([]Product, bool)
	Set(ctx context.Context, key string, products []Product)
}

const cacheKeyPrefix = "products:search:"

// RedisCache keeps search results in Redis for a fixed TTL.
// Cache failures are logged and treated as misses.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Product, bool) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("product cache read failed", "error", err)
		}
		return nil, false
	}
	var cached []Product
	if err := json.Unmarshal(raw, &cached); err != nil {
		slog.Warn("product cache entry is corrupt", "error", err)
		return nil, false
	}
	return cached, true
}

func (c *RedisCache) Set(ctx context.Context, key string, products []Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		slog.Warn("product cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		slog.Warn("product cache write failed", "error", err)
	}
}
