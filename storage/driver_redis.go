package storage

import (
	"context"
	"fmt"
)

type RedisDriver struct {
	a *RedisAdapter
}

func newRedisDriver(adapter Adapter) (Driver, error) {
	a, ok := adapter.(*RedisAdapter)
	if !ok {
		return nil, fmt.Errorf("redis driver expects *RedisAdapter, got %T", adapter)
	}
	return &RedisDriver{a: a}, nil
}

func (d *RedisDriver) Dialect() string { return DialectRedis }

// Migrate only checks connectivity; redis has no schema.
func (d *RedisDriver) Migrate(ctx context.Context) error {
	if d.a == nil || d.a.Client == nil {
		return nil
	}
	if err := d.a.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

func (d *RedisDriver) Memory() MemoryRepo {
	return &redisMemoryRepo{client: d.a.Client}
}
