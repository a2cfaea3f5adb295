package ports

import (
	"context"
	"testing"
	"time"

	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		s := domain.NewSession(sessionID)
		s.Phase = domain.PhaseAtQuestion
		s.CurrentID = "Q2"
		s.Path = append(s.Path, domain.Decision{QuestionID: "Q1", OptionIndex: 1, NextID: "Q2"})

		require.NoError(t, store.Save(ctx, s), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, s.Phase, loaded.Phase)
		assert.Equal(t, "Q2", loaded.CurrentID)
		assert.Equal(t, s.Path, loaded.Path)
	})

	t.Run("Load Returns Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Path = append(loaded.Path, domain.Decision{QuestionID: "Q2", NextID: "End_A"})

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Len(t, again.Path, 1, "mutating a loaded session must not leak into the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewSession(sessionID)))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, domain.NewSession(id1)))
		require.NoError(t, store.Save(ctx, domain.NewSession(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunVideoCacheContract verifies a VideoCache implementation.
func RunVideoCacheContract(t *testing.T, cache VideoCache) {
	ctx := context.Background()
	key := "contract-" + domain.VideoCacheKey
	published := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

	t.Run("Miss", func(t *testing.T) {
		_, err := cache.Get(ctx, key+"-missing")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Set and Get", func(t *testing.T) {
		entry := domain.CacheEntry{
			Data: []domain.Video{
				{ID: "v1", Title: "first", Thumbnail: "https://i.ytimg.com/vi/v1/mqdefault.jpg", PublishedAt: published},
				{ID: "v2", Title: "second", PublishedAt: published.Add(time.Hour)},
			},
			Timestamp: 1734137000000,
		}
		require.NoError(t, cache.Set(ctx, key, entry))

		got, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, entry.Timestamp, got.Timestamp)
		require.Len(t, got.Data, 2)
		assert.Equal(t, "v1", got.Data[0].ID)
		assert.Empty(t, got.Data[1].Thumbnail)
		assert.True(t, published.Equal(got.Data[0].PublishedAt))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Delete(ctx, key))
		_, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.NoError(t, cache.Delete(ctx, key))
	})
}
