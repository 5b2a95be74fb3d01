package proxy

import (
	"context"
	"errors"
	"time"

	"github.com/masterdex/card-search-go/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache stores upstream responses keyed by query. A nil Cache on the
// server disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// NewRedisCache returns nil when no cache addr is configured. Cache
// failures never fail a request, they only cost the upstream round trip.
func NewRedisCache(cfg config.Cache) Cache {
	if !cfg.Enabled() {
		return nil
	}

	return &redisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		ttl: cfg.TTLOrDefault(),
	}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Debug().Err(err).Str("key", key).Msg("cache get failed")
		}

		return nil, false
	}

	return value, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}
