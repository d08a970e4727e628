package storage

import (
	"context"
	"encoding/json"
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"
)

const etcdPrefix = "/" + collection + "/"

type etcdMemoryRepo struct {
	client *clientv3.Client
}

func (r *etcdMemoryRepo) Get(ctx context.Context, key string) (*MemoryItem, error) {
	resp, err := r.client.Get(ctx, etcdPrefix+key)
	if err != nil {
		return nil, fmt.Errorf("failed to get memory item: %w", err)
	}
	if len(resp.Kvs) == 0 {
		return nil, ErrNotFound
	}

	var item MemoryItem
	if err := json.Unmarshal(resp.Kvs[0].Value, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal memory item: %w", err)
	}
	return &item, nil
}

func (r *etcdMemoryRepo) Set(ctx context.Context, key string, item MemoryItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal memory item: %w", err)
	}
	if _, err := r.client.Put(ctx, etcdPrefix+key, string(data)); err != nil {
		return fmt.Errorf("failed to save memory item: %w", err)
	}
	return nil
}

// ListByUser scans the user's key prefix. Another user whose id extends this
// one ("bob" vs "bob_smith") shares the prefix, so entries are filtered on the
// stored user id.
func (r *etcdMemoryRepo) ListByUser(ctx context.Context, userID string) ([]MemoryItem, error) {
	resp, err := r.client.Get(ctx, etcdPrefix+userID+"_", clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to list memory items: %w", err)
	}

	items := make([]MemoryItem, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var item MemoryItem
		if err := json.Unmarshal(kv.Value, &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal memory item %s: %w", kv.Key, err)
		}
		if item.UserID != userID {
			continue
		}
		items = append(items, item)
	}

	sortByRecency(items)
	return items, nil
}
