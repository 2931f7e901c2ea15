package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache is a best-effort byte cache. Implementations never fail a request:
// a miss and a broken backend look the same to callers.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// Noop satisfies Cache with no storage; used when REDIS_URL is not set.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (Noop) Set(context.Context, string, []byte, time.Duration) {}
func (Noop) Delete(context.Context, string)                     {}

type redisCache struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedis connects to redisURL and returns a Redis-backed cache.
func NewRedis(ctx context.Context, redisURL string, logger zerolog.Logger) (Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &redisCache{client: client, logger: logger}, nil
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		return nil, false
	}
	return val, true
}

func (r *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (r *redisCache) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("cache delete failed")
	}
}
