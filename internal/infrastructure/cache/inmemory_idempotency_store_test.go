package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("marks new key", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("returns false for a repeated key", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "key-2", time.Hour)
		require.NoError(t, err)

		isNew, err := store.MarkProcessed(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("accepts the key again after expiration", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "key-3", 10*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		isNew, err := store.MarkProcessed(ctx, "key-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})
}

func TestInMemoryIdempotencyStore_Forget(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "failed-request", time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Forget(ctx, "failed-request"))

	processed, err := store.IsProcessed(ctx, "failed-request")
	require.NoError(t, err)
	assert.False(t, processed)

	isNew, err := store.MarkProcessed(ctx, "failed-request", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew, "a forgotten key can be retried")
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	store.MarkProcessed(ctx, "short-lived", 10*time.Millisecond)
	store.MarkProcessed(ctx, "long-lived", time.Hour)
	assert.Equal(t, 2, store.Size())

	time.Sleep(20 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.Size())
	processed, err := store.IsProcessed(ctx, "long-lived")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_ConcurrentAccess(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	const n = 100
	results := make(chan bool, n)

	for i := 0; i < n; i++ {
		go func() {
			isNew, err := store.MarkProcessed(ctx, "concurrent", time.Hour)
			results <- err == nil && isNew
		}()
	}

	winners := 0
	for i := 0; i < n; i++ {
		if <-results {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one caller wins a key")
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
