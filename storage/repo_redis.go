package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisMemoryRepo struct {
	client *redis.Client
}

func redisItemKey(key string) string     { return collection + ":" + key }
func redisUserKey(userID string) string { return collection + ":user:" + userID }

func (r *redisMemoryRepo) Get(ctx context.Context, key string) (*MemoryItem, error) {
	data, err := r.client.Get(ctx, redisItemKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get memory item: %w", err)
	}

	var item MemoryItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal memory item: %w", err)
	}
	return &item, nil
}

func (r *redisMemoryRepo) Set(ctx context.Context, key string, item MemoryItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal memory item: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisItemKey(key), data, 0)
		pipe.SAdd(ctx, redisUserKey(item.UserID), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save memory item: %w", err)
	}
	return nil
}

func (r *redisMemoryRepo) ListByUser(ctx context.Context, userID string) ([]MemoryItem, error) {
	keys, err := r.client.SMembers(ctx, redisUserKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list memory items: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = redisItemKey(k)
	}
	values, err := r.client.MGet(ctx, full...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load memory items: %w", err)
	}

	items := make([]MemoryItem, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// key listed in the user set but missing
			continue
		}
		var item MemoryItem
		if err := json.Unmarshal([]byte(s), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal memory item %s: %w", keys[i], err)
		}
		if item.UserID != userID {
			continue
		}
		items = append(items, item)
	}

	sortByRecency(items)
	return items, nil
}
