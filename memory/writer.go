package memory

import (
	"context"
	"fmt"
)

type Writer struct {
	m *Memory
}

func NewWriter(m *Memory) *Writer {
	return &Writer{m: m}
}

func (w *Writer) Execute(ctx context.Context, userID, text string) (Record, error) {
	if !w.m.Configured() {
		return Record{}, ErrNotConfigured
	}
	if userID == "" || text == "" {
		return Record{}, ErrMissingFields
	}

	repos, err := w.m.Storage.Repos()
	if err != nil {
		return Record{}, err
	}

	ctx, cancel := w.m.withTimeout(ctx)
	defer cancel()

	ext, ok, err := w.m.Extractor.Extract(ctx, text)
	if err != nil {
		return Record{}, err
	}
	if !ok {
		return Record{}, ErrNotUnderstood
	}

	rec := Record{
		UserID:        userID,
		ItemKey:       ext.Item,
		ItemValue:     ext.Value,
		OriginalQuery: text,
		LastUpdatedAt: w.m.now().UTC(),
	}
	if err := repos.Memory().Set(ctx, Key(userID, rec.ItemKey), rec.item()); err != nil {
		return Record{}, fmt.Errorf("save memory item: %w", err)
	}
	return rec, nil
}
