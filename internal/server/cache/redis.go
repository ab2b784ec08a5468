package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisInvalidator clears the redis database backing the shared read cache.
// A full flush is coarse but bootstrap happens at most once per deployment,
// so entity-scoped invalidation is not worth its complexity here.
type RedisInvalidator struct {
	client *redis.Client
}

func NewRedisInvalidator(client *redis.Client) *RedisInvalidator {
	return &RedisInvalidator{client: client}
}

func (r *RedisInvalidator) Clear(ctx context.Context) error {
	return r.client.FlushDB(ctx).Err()
}
