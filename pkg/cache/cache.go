// Package cache is a JSON read-through cache on Redis.
//
// Every function is a no-op when Redis is not configured or unreachable, so
// callers never need to branch on cache availability.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/beautydb/backoffice/config"
	"github.com/beautydb/backoffice/pkg/logger"
	"github.com/beautydb/backoffice/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

// RDB is nil when the cache is disabled.
var RDB *redis.Client

// Connect initialises the Redis client from REDIS_ADDR and pings it. An
// empty address disables the cache without error.
func Connect(ctx context.Context) error {
	addr := config.RedisAddr()
	if addr == "" {
		RDB = nil
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		RDB = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Close releases the client.
func Close() error {
	if RDB == nil {
		return nil
	}
	err := RDB.Close()
	RDB = nil
	return err
}

// Get unmarshals the value under key into dest. It reports a hit.
func Get(ctx context.Context, key string, dest any) bool {
	if RDB == nil {
		return false
	}

	val, err := RDB.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithCtx(ctx).Warn("cache: get failed", "key", key, "error", err)
		}
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}

	if err := json.Unmarshal(val, dest); err != nil {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues(key).Inc()
	return true
}

// Set stores value under key for ttl.
func Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return RDB.Set(ctx, key, data, ttl).Err()
}

// Forget removes keys and bumps their versions, so a Remember that loaded
// before the call does not store what it read.
func Forget(ctx context.Context, keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	_, err := RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			p.Incr(ctx, versionKey(k))
		}
		p.Del(ctx, keys...)
		return nil
	})
	return err
}

func versionKey(key string) string { return key + ":version" }

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func version(ctx context.Context, c getter, key string) (int64, error) {
	v, err := c.Get(ctx, versionKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Remember returns the cached value under key, or calls fn and caches its
// result. Errors from fn are returned and nothing is cached. The result is
// dropped instead of cached when key was forgotten while fn ran.
func Remember[T any](ctx context.Context, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var cached T
	if Get(ctx, key, &cached) {
		return cached, nil
	}

	store := RDB != nil
	var before int64
	if store {
		var err error
		if before, err = version(ctx, RDB, key); err != nil {
			logger.WithCtx(ctx).Warn("cache: version read failed", "key", key, "error", err)
			store = false
		}
	}

	v, err := fn()
	if err != nil || !store || RDB == nil {
		return v, err
	}

	if err := setIfVersion(ctx, key, before, v, ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache: set failed", "key", key, "error", err)
	}
	return v, nil
}

func setIfVersion(ctx context.Context, key string, want int64, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	err = RDB.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := version(ctx, tx, key)
		if err != nil {
			return err
		}
		if cur != want {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}, versionKey(key))
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}
