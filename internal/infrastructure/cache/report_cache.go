package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultReportPrefix = "backoffice:report:"

// Report cache keys are "<business line id>:<report>[:<period>]" so that every
// entry of a line shares the line's prefix.
func lineKeyPrefix(businessLineID uuid.UUID) string {
	return businessLineID.String() + ":"
}

// RedisReportCache stores report results as JSON in Redis
type RedisReportCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisReportCache creates a report cache on an existing Redis client
func NewRedisReportCache(client redis.UniversalClient, keyPrefix string) *RedisReportCache {
	if keyPrefix == "" {
		keyPrefix = defaultReportPrefix
	}
	return &RedisReportCache{client: client, keyPrefix: keyPrefix}
}

// Get decodes the cached value into dest and reports whether it was found
func (c *RedisReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read report cache: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return true, nil
}

// Set stores value under key
func (c *RedisReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write report cache: %w", err)
	}
	return nil
}

// InvalidateBusinessLine drops every cached report of the line
func (c *RedisReportCache) InvalidateBusinessLine(ctx context.Context, businessLineID uuid.UUID) error {
	pattern := c.keyPrefix + lineKeyPrefix(businessLineID) + "*"
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan report cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate report cache: %w", err)
	}
	return nil
}

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

// InMemoryReportCache is the single-instance fallback used when Redis is disabled
type InMemoryReportCache struct {
	mu      sync.RWMutex
	entries map[string]memEntry
}

// NewInMemoryReportCache creates an empty in-memory report cache
func NewInMemoryReportCache() *InMemoryReportCache {
	return &InMemoryReportCache{entries: make(map[string]memEntry)}
}

func (c *InMemoryReportCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !time.Now().Before(e.expiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return true, nil
}

func (c *InMemoryReportCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memEntry{data: data, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *InMemoryReportCache) InvalidateBusinessLine(_ context.Context, businessLineID uuid.UUID) error {
	prefix := lineKeyPrefix(businessLineID)
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// ReportKey builds the cache key of a report for a business line
func ReportKey(businessLineID uuid.UUID, report string, parts ...string) string {
	return lineKeyPrefix(businessLineID) + strings.Join(append([]string{report}, parts...), ":")
}
