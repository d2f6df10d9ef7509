package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// JSONCache is a read-through cache storing values as JSON in Redis.
// Concurrent misses for the same key share one load. A nil client
// disables Redis and every call loads directly.
type JSONCache[T any] struct {
	rdb redis.Cmdable
	ttl time.Duration
	sf  singleflight.Group
}

func NewJSONCache[T any](rdb redis.Cmdable, ttl time.Duration) *JSONCache[T] {
	return &JSONCache[T]{rdb: rdb, ttl: ttl}
}

// GetOrLoad returns the cached value for key, calling load on a miss.
// Redis failures are logged and fall back to load.
func (c *JSONCache[T]) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, key).Result()
		switch {
		case err == nil:
			var v T
			if json.Unmarshal([]byte(cached), &v) == nil {
				return v, nil
			}
			slog.Warn("Discarding undecodable cache entry", "key", key)
		case !errors.Is(err, redis.Nil):
			slog.Warn("Cache read failed", "key", key, "error", err)
		}
	}

	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate removes key so the next GetOrLoad reads through to the loader.
func (c *JSONCache[T]) Invalidate(ctx context.Context, key string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		slog.Warn("Cache invalidation failed", "key", key, "error", err)
	}
}

func (c *JSONCache[T]) store(ctx context.Context, key string, v T) {
	if c.rdb == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Warn("Cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, string(payload), c.ttl).Err(); err != nil {
		slog.Warn("Cache write failed", "key", key, "error", err)
	}
}
