package storage

import (
	"context"
	"sort"
	"strings"
	"time"
)

func decodeAnyTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), true
	case string:
		return parseTimeString(x)
	case []byte:
		return parseTimeString(string(x))
	default:
		return time.Time{}, false
	}
}

func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05", // SQLite datetime('now')
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05.999999999-07:00",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Repos is implemented by every driver.
type Repos interface {
	Memory() MemoryRepo
}

// MemoryRepo stores one document per key. Set overwrites whatever is stored
// under the key; Get returns ErrNotFound for unknown keys.
type MemoryRepo interface {
	Get(ctx context.Context, key string) (*MemoryItem, error)
	Set(ctx context.Context, key string, item MemoryItem) error
	ListByUser(ctx context.Context, userID string) ([]MemoryItem, error)
}

type MemoryItem struct {
	UserID        string    `json:"userId" bson:"userId"`
	ItemKey       string    `json:"itemKey" bson:"itemKey"`
	ItemValue     string    `json:"itemValue" bson:"itemValue"`
	OriginalQuery string    `json:"originalQuery" bson:"originalQuery"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt" bson:"lastUpdatedAt"`
}

// sortByRecency orders items newest first, item key as tie-breaker.
func sortByRecency(items []MemoryItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].LastUpdatedAt.Equal(items[j].LastUpdatedAt) {
			return items[i].ItemKey < items[j].ItemKey
		}
		return items[i].LastUpdatedAt.After(items[j].LastUpdatedAt)
	})
}
