package memory

import (
	"context"
	"errors"
	"fmt"

	"elderease/storage"
)

type Recall struct {
	m *Memory
}

func NewRecall(m *Memory) *Recall { return &Recall{m: m} }

func (r *Recall) Lookup(ctx context.Context, userID, item string) (*Record, error) {
	if !r.m.Configured() {
		return nil, ErrNotConfigured
	}
	if userID == "" || item == "" {
		return nil, ErrMissingFields
	}

	repos, err := r.m.Storage.Repos()
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.m.withTimeout(ctx)
	defer cancel()

	item = NormalizeItem(item)
	it, err := repos.Memory().Get(ctx, Key(userID, item))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, item)
	}
	if err != nil {
		return nil, fmt.Errorf("load memory item: %w", err)
	}

	rec := recordFromItem(*it)
	return &rec, nil
}

func (r *Recall) List(ctx context.Context, userID string) ([]Record, error) {
	if !r.m.Configured() {
		return nil, ErrNotConfigured
	}
	if userID == "" {
		return nil, ErrMissingFields
	}

	repos, err := r.m.Storage.Repos()
	if err != nil {
		return nil, err
	}

	ctx, cancel := r.m.withTimeout(ctx)
	defer cancel()

	items, err := repos.Memory().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memory items: %w", err)
	}

	out := make([]Record, 0, len(items))
	for _, it := range items {
		out = append(out, recordFromItem(it))
	}
	return out, nil
}
