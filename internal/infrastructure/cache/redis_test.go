package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bizline/backoffice/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisIdempotencyStore(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisIdempotencyStore(client, "")
	ctx := context.Background()

	ok, err := store.Reserve(ctx, "abc", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists(defaultIdempotencyPrefix+"abc"))

	ok, err = store.Reserve(ctx, "abc", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	_, done, found, err := store.Lookup(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, done)

	require.NoError(t, store.Complete(ctx, "abc", "pay-42", time.Hour))
	result, done, found, err := store.Lookup(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, done)
	assert.Equal(t, "pay-42", result)

	mr.FastForward(2 * time.Hour)
	_, _, found, err = store.Lookup(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)

	ok, err = store.Reserve(ctx, "retry", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, store.Release(ctx, "retry"))
	assert.False(t, mr.Exists(defaultIdempotencyPrefix+"retry"))
}

func TestRedisIdempotencyStore_ConnectionError(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisIdempotencyStore(client, "test:")
	mr.Close()

	_, err := store.Reserve(context.Background(), "k", time.Minute)
	assert.Error(t, err)
	_, _, _, err = store.Lookup(context.Background(), "k")
	assert.Error(t, err)
}

type cachedReport struct {
	Total string `json:"total"`
	Count int    `json:"count"`
}

func testReportStore(t *testing.T, store ReportStore) {
	t.Helper()
	ctx := context.Background()
	lineA, lineB := uuid.New(), uuid.New()

	keyA := ReportKey(lineA, "sales-summary", "20240101-20240131")
	keyA2 := ReportKey(lineA, "stock-valuation")
	keyB := ReportKey(lineB, "stock-valuation")

	var got cachedReport
	found, err := store.Get(ctx, keyA, &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, keyA, cachedReport{Total: "10.50", Count: 3}, time.Minute))
	require.NoError(t, store.Set(ctx, keyA2, cachedReport{Count: 1}, time.Minute))
	require.NoError(t, store.Set(ctx, keyB, cachedReport{Count: 2}, time.Minute))

	found, err = store.Get(ctx, keyA, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedReport{Total: "10.50", Count: 3}, got)

	require.NoError(t, store.InvalidateBusinessLine(ctx, lineA))

	found, err = store.Get(ctx, keyA, &got)
	require.NoError(t, err)
	assert.False(t, found)
	found, err = store.Get(ctx, keyA2, &got)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = store.Get(ctx, keyB, &got)
	require.NoError(t, err)
	assert.True(t, found, "other business lines keep their entries")
	assert.Equal(t, 2, got.Count)
}

func TestReportCaches(t *testing.T) {
	t.Run("redis", func(t *testing.T) {
		_, client := newTestRedis(t)
		testReportStore(t, NewRedisReportCache(client, ""))
	})

	t.Run("memory", func(t *testing.T) {
		testReportStore(t, NewInMemoryReportCache())
	})

	t.Run("memory entries expire", func(t *testing.T) {
		store := NewInMemoryReportCache()
		key := ReportKey(uuid.New(), "receivables")
		require.NoError(t, store.Set(context.Background(), key, cachedReport{Count: 1}, time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		var got cachedReport
		found, err := store.Get(context.Background(), key, &got)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestReportKey(t *testing.T) {
	line := uuid.MustParse("6f1c2b8e-0000-4000-8000-000000000001")
	assert.Equal(t, "6f1c2b8e-0000-4000-8000-000000000001:sales-summary:20240101-20240131",
		ReportKey(line, "sales-summary", "20240101-20240131"))
	assert.Equal(t, "6f1c2b8e-0000-4000-8000-000000000001:dashboard", ReportKey(line, "dashboard"))
}

func TestFactory_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("memory when redis disabled", func(t *testing.T) {
		stores, err := NewFactory(config.RedisConfig{Enabled: false}).Create(ctx)
		require.NoError(t, err)
		defer stores.Close()

		assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
		assert.IsType(t, &InMemoryReportCache{}, stores.Reports)
		assert.NoError(t, stores.Ping(ctx))
	})

	t.Run("redis when reachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.RedisConfig{Enabled: true, Host: mr.Host(), Port: portOf(t, mr)}

		stores, err := NewFactory(cfg, WithLogger(zap.NewNop())).Create(ctx)
		require.NoError(t, err)
		defer stores.Close()

		assert.IsType(t, &RedisIdempotencyStore{}, stores.Idempotency)
		assert.IsType(t, &RedisReportCache{}, stores.Reports)
		assert.NoError(t, stores.Ping(ctx))
	})

	t.Run("fallback when unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.RedisConfig{Enabled: true, Host: mr.Host(), Port: portOf(t, mr)}
		mr.Close()

		stores, err := NewFactory(cfg).Create(ctx)
		require.NoError(t, err)
		defer stores.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
	})

	t.Run("error when fallback disabled", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.RedisConfig{Enabled: true, Host: mr.Host(), Port: portOf(t, mr)}
		mr.Close()

		_, err := NewFactory(cfg, WithInMemoryFallback(false)).Create(ctx)
		assert.Error(t, err)
	})
}

func portOf(t *testing.T, mr *miniredis.Miniredis) int {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return port
}
