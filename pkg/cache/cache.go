// Package cache is a JSON read-through cache over Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"busly/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

var lookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "busly",
		Name:      "cache_lookups_total",
		Help:      "Read-through cache lookups by outcome",
	},
	[]string{"result"}, // hit | miss | error
)

// Store holds encoded values under string keys
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// RedisStore is the production Store
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Fetch returns the value cached under key, calling load on a miss and
// storing what it returns. A nil store always loads.
//
// Cache failures are logged and never fail the call; only load errors are
// returned, and they are not cached.
func Fetch[T any](ctx context.Context, store Store, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if store == nil {
		return load(ctx)
	}
	log := logger.GetDefault()

	raw, err := store.Get(ctx, key)
	switch {
	case err == nil:
		var cached T
		decodeErr := json.Unmarshal(raw, &cached)
		if decodeErr == nil {
			lookups.WithLabelValues("hit").Inc()
			return cached, nil
		}
		lookups.WithLabelValues("error").Inc()
		log.WarnContext(ctx, "Dropping undecodable cache entry", "key", key, "error", decodeErr)
		_ = store.Delete(ctx, key)
	case errors.Is(err, ErrCacheMiss):
		lookups.WithLabelValues("miss").Inc()
	default:
		lookups.WithLabelValues("error").Inc()
		log.WarnContext(ctx, "Cache read failed, falling back to source", "key", key, "error", err)
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if encoded, encErr := json.Marshal(value); encErr != nil {
		log.WarnContext(ctx, "Cache encode failed", "key", key, "error", encErr)
	} else if setErr := store.Set(ctx, key, encoded, ttl); setErr != nil {
		log.WarnContext(ctx, "Cache write failed", "key", key, "error", setErr)
	}
	return value, nil
}
