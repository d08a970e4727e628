package storage

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisAdapter struct {
	Client *redis.Client
}

func (a *RedisAdapter) Dialect() string { return DialectRedis }

func isRedisClient(conn any) bool {
	_, ok := conn.(*redis.Client)
	return ok
}

func newRedisAdapter(conn any) (Adapter, error) {
	c := conn.(*redis.Client)
	if c == nil {
		return nil, fmt.Errorf("redis adapter: nil *redis.Client")
	}
	return &RedisAdapter{Client: c}, nil
}
