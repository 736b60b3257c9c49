package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conferencecentral/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

// NewRedisClient connects to addr/db and pings the server before returning.
func NewRedisClient(ctx context.Context, addr string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

type redisCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisCache returns a domain.Cache storing values in rdb. A zero ttl keeps
// entries until they are replaced or deleted.
func NewRedisCache(rdb *goredis.Client, ttl time.Duration) domain.Cache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

func (c *redisCache) Set(ctx context.Context, key, value string) error {
	if err := c.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", domain.ErrCacheMiss
		}
		return "", fmt.Errorf("cache get %s: %w", key, err)
	}
	return v, nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}
