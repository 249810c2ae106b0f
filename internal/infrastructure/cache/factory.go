package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bizline/backoffice/internal/domain/shared"
	"github.com/bizline/backoffice/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the caches used by the application layer
type Stores struct {
	Idempotency shared.IdempotencyStore
	Reports     ReportStore
	client      *redis.Client
	closers     []func() error
}

// ReportStore is implemented by RedisReportCache and InMemoryReportCache
type ReportStore interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	InvalidateBusinessLine(ctx context.Context, businessLineID uuid.UUID) error
}

// Option is a functional option for configuring the factory
type Option func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to memory when Redis is unreachable.
// Default is true
func WithInMemoryFallback(allow bool) Option {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// Factory creates the cache stores based on configuration
type Factory struct {
	cfg                   config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...Option) *Factory {
	f := &Factory{
		cfg:                   cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Create builds the stores. Redis is used when enabled and reachable; otherwise
// in-memory stores are returned if fallback is allowed.
func (f *Factory) Create(ctx context.Context) (*Stores, error) {
	if f.cfg.Enabled {
		client, err := NewRedisClient(ctx, f.cfg)
		if err == nil {
			f.logger.Info("using Redis cache stores", zap.String("addr", f.cfg.Addr()))
			return &Stores{
				Idempotency: NewRedisIdempotencyStore(client, ""),
				Reports:     NewRedisReportCache(client, ""),
				client:      client,
				closers:     []func() error{client.Close},
			}, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory cache stores. "+
			"Idempotency keys are not shared across instances.",
			zap.Error(err),
		)
	}

	idem := NewInMemoryIdempotencyStore()
	return &Stores{
		Idempotency: idem,
		Reports:     NewInMemoryReportCache(),
		closers:     []func() error{idem.Close},
	}, nil
}

// Ping checks the Redis connection when one is used
func (s *Stores) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying resources
func (s *Stores) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
