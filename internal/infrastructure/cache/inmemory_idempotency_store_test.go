package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("reserve then complete", func(t *testing.T) {
		ok, err := store.Reserve(ctx, "key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)

		_, done, found, err := store.Lookup(ctx, "key-1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.False(t, done)

		ok, err = store.Reserve(ctx, "key-1", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok, "second reservation must lose")

		require.NoError(t, store.Complete(ctx, "key-1", "payment-1", time.Hour))
		result, done, found, err := store.Lookup(ctx, "key-1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, done)
		assert.Equal(t, "payment-1", result)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, _, found, err := store.Lookup(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("release allows retry", func(t *testing.T) {
		ok, err := store.Reserve(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, store.Release(ctx, "key-2"))

		ok, err = store.Reserve(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired reservation can be reclaimed", func(t *testing.T) {
		ok, err := store.Reserve(ctx, "key-3", 10*time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)

		time.Sleep(20 * time.Millisecond)

		_, _, found, err := store.Lookup(ctx, "key-3")
		require.NoError(t, err)
		assert.False(t, found)

		ok, err = store.Reserve(ctx, "key-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryIdempotencyStore_ConcurrentReserve(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Reserve(context.Background(), "contended", time.Hour)
			if err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()
	_, _ = store.Reserve(ctx, "short", time.Millisecond)
	_, _ = store.Reserve(ctx, "long", time.Hour)
	time.Sleep(5 * time.Millisecond)

	store.cleanup()
	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
