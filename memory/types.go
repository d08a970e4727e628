package memory

import (
	"strings"
	"time"

	"elderease/storage"
)

// Record is what the service remembers about one item of one user.
type Record struct {
	UserID        string    `json:"userId"`
	ItemKey       string    `json:"itemKey"`
	ItemValue     string    `json:"itemValue"`
	OriginalQuery string    `json:"originalQuery"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// Key is the storage key of a user's item.
func Key(userID, item string) string {
	return userID + "_" + item
}

// NormalizeItem lowercases and trims an item name given in a lookup. It does
// not lemmatise, so "Keys" does not find "key".
func NormalizeItem(item string) string {
	return strings.TrimSpace(strings.ToLower(item))
}

func recordFromItem(it storage.MemoryItem) Record {
	return Record{
		UserID:        it.UserID,
		ItemKey:       it.ItemKey,
		ItemValue:     it.ItemValue,
		OriginalQuery: it.OriginalQuery,
		LastUpdatedAt: it.LastUpdatedAt.UTC(),
	}
}

func (r Record) item() storage.MemoryItem {
	return storage.MemoryItem{
		UserID:        r.UserID,
		ItemKey:       r.ItemKey,
		ItemValue:     r.ItemValue,
		OriginalQuery: r.OriginalQuery,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}
