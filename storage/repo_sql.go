package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type sqlMemoryRepo struct {
	db      *sql.DB
	dialect string
}

func (r *sqlMemoryRepo) placeholder(n int) string {
	if r.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// timeArg keeps SQLite timestamps as sortable RFC 3339 text; Postgres gets a
// native TIMESTAMPTZ.
func (r *sqlMemoryRepo) timeArg(t time.Time) any {
	if r.dialect == DialectPostgres {
		return t.UTC()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func (r *sqlMemoryRepo) Get(ctx context.Context, key string) (*MemoryItem, error) {
	query := "SELECT user_id, item_key, item_value, original_query, last_updated_at FROM memory_items WHERE id = " + r.placeholder(1)

	var item MemoryItem
	var updatedAny any
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&item.UserID, &item.ItemKey, &item.ItemValue, &item.OriginalQuery, &updatedAny,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get memory item: %w", err)
	}
	item.LastUpdatedAt, _ = decodeAnyTime(updatedAny)
	return &item, nil
}

func (r *sqlMemoryRepo) Set(ctx context.Context, key string, item MemoryItem) error {
	now := time.Now()
	var query string
	if r.dialect == DialectPostgres {
		query = `INSERT INTO memory_items (id, uuid, user_id, item_key, item_value, original_query, last_updated_at, date_created)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			item_key = excluded.item_key,
			item_value = excluded.item_value,
			original_query = excluded.original_query,
			last_updated_at = excluded.last_updated_at`
	} else {
		query = `INSERT INTO memory_items (id, uuid, user_id, item_key, item_value, original_query, last_updated_at, date_created)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			item_key = excluded.item_key,
			item_value = excluded.item_value,
			original_query = excluded.original_query,
			last_updated_at = excluded.last_updated_at`
	}
	_, err := r.db.ExecContext(ctx, query,
		key, uuid.New().String(), item.UserID, item.ItemKey, item.ItemValue, item.OriginalQuery,
		r.timeArg(item.LastUpdatedAt), r.timeArg(now),
	)
	if err != nil {
		return fmt.Errorf("failed to save memory item: %w", err)
	}
	return nil
}

func (r *sqlMemoryRepo) ListByUser(ctx context.Context, userID string) ([]MemoryItem, error) {
	query := "SELECT user_id, item_key, item_value, original_query, last_updated_at FROM memory_items WHERE user_id = " + r.placeholder(1)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query memory items: %w", err)
	}
	defer rows.Close()

	var items []MemoryItem
	for rows.Next() {
		var item MemoryItem
		var updatedAny any
		if err := rows.Scan(&item.UserID, &item.ItemKey, &item.ItemValue, &item.OriginalQuery, &updatedAny); err != nil {
			return nil, fmt.Errorf("failed to scan memory item: %w", err)
		}
		item.LastUpdatedAt, _ = decodeAnyTime(updatedAny)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortByRecency(items)
	return items, nil
}
