package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// RedisCache shares cached responses between server replicas. Redis expiry
// takes the place of the age check, so ttl is applied on Set.
type RedisCache struct {
	client redis.Cmdable
	prefix string
	log    zerolog.Logger
}

// NewRedisCache wraps an existing client. Keys are namespaced with prefix.
func NewRedisCache(client redis.Cmdable, prefix string, log zerolog.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: prefix,
		log:    log.With().Str("component", "redis_cache").Logger(),
	}
}

// Get treats any redis failure as a miss so the caller refetches upstream.
func (c *RedisCache) Get(ctx context.Context, key string, _ time.Duration) ([]byte, bool) {
	value, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil, false
	}
	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
