package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/shopkite/catalog/config"
	"github.com/shopkite/catalog/internal/domain"
)

// RedisCache implements Cache on a single Redis instance.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return errors.Wrapf(c.rdb.Set(ctx, key, value, ttl).Err(), "cache set %s", key)
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, errors.Wrapf(domain.ErrNotFound, "cache key %s", key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cache get %s", key)
	}
	return b, nil
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return errors.Wrapf(c.rdb.Del(ctx, key).Err(), "cache del %s", key)
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
