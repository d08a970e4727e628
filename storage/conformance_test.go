package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runMemoryRepoSuite exercises the MemoryRepo contract against a started
// manager. Every backend test calls it with a fresh, migrated store.
func runMemoryRepoSuite(t *testing.T, m *Manager) {
	t.Helper()
	ctx := context.Background()

	repos, err := m.Repos()
	require.NoError(t, err)
	repo := repos.Memory()

	t1 := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	t.Run("missing key", func(t *testing.T) {
		_, err := repo.Get(ctx, "nobody_nothing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		item := MemoryItem{
			UserID:        "u1",
			ItemKey:       "key",
			ItemValue:     "on the table",
			OriginalQuery: "My keys are on the table",
			LastUpdatedAt: t1,
		}
		require.NoError(t, repo.Set(ctx, "u1_key", item))

		got, err := repo.Get(ctx, "u1_key")
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)
		assert.Equal(t, "key", got.ItemKey)
		assert.Equal(t, "on the table", got.ItemValue)
		assert.Equal(t, "My keys are on the table", got.OriginalQuery)
		assert.True(t, t1.Equal(got.LastUpdatedAt), "got %v", got.LastUpdatedAt)
	})

	t.Run("set overwrites", func(t *testing.T) {
		item := MemoryItem{
			UserID:        "u1",
			ItemKey:       "key",
			ItemValue:     "in the drawer",
			OriginalQuery: "my keys are in the drawer",
			LastUpdatedAt: t2,
		}
		require.NoError(t, repo.Set(ctx, "u1_key", item))

		got, err := repo.Get(ctx, "u1_key")
		require.NoError(t, err)
		assert.Equal(t, "in the drawer", got.ItemValue)
		assert.True(t, t2.Equal(got.LastUpdatedAt))

		items, err := repo.ListByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, items, 1)
	})

	t.Run("list by user", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "u1_wallet", MemoryItem{
			UserID: "u1", ItemKey: "wallet", ItemValue: "in the car",
			OriginalQuery: "my wallet is in the car", LastUpdatedAt: t2.Add(time.Minute),
		}))
		// shares the "u1_" key prefix but belongs to someone else
		require.NoError(t, repo.Set(ctx, "u1_x_key", MemoryItem{
			UserID: "u1_x", ItemKey: "key", ItemValue: "at work",
			OriginalQuery: "my keys are at work", LastUpdatedAt: t2,
		}))

		items, err := repo.ListByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "wallet", items[0].ItemKey)
		assert.Equal(t, "key", items[1].ItemKey)

		none, err := repo.ListByUser(ctx, "stranger")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
