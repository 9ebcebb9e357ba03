package cache

import (
	"github.com/gadgetstock/backend/internal/domain/report"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the Redis-backed components with their in-memory fallbacks
type Stores struct {
	Client      *redis.Client // nil when running on the in-memory fallback
	Idempotency shared.IdempotencyStore
	Dashboards  report.DashboardCache
}

// StoresOption is a functional option for configuring the factory
type StoresOption func(*storesOptions)

type storesOptions struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoresOption {
	return func(o *storesOptions) {
		o.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) StoresOption {
	return func(o *storesOptions) {
		o.allowInMemoryFallback = allow
	}
}

// NewStores connects to Redis when enabled and falls back to in-memory stores otherwise.
// In-memory stores are not shared between instances.
func NewStores(cfg config.RedisConfig, opts ...StoresOption) (*Stores, error) {
	o := &storesOptions{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(o)
	}

	if cfg.Enabled {
		client, err := NewRedisClient(cfg)
		if err == nil {
			o.logger.Info("Using Redis for idempotency keys and dashboards", zap.String("addr", cfg.Addr()))
			return &Stores{
				Client:      client,
				Idempotency: NewRedisIdempotencyStore(client, ""),
				Dashboards:  NewRedisDashboardCache(client, o.logger),
			}, nil
		}
		if !o.allowInMemoryFallback {
			return nil, err
		}
		o.logger.Warn("Redis unavailable, falling back to in-memory stores", zap.Error(err))
	}

	return &Stores{
		Idempotency: NewInMemoryIdempotencyStore(),
		Dashboards:  NewInMemoryDashboardCache(),
	}, nil
}

// Close releases the idempotency cleanup loop and the Redis client
func (s *Stores) Close() error {
	if err := s.Idempotency.Close(); err != nil {
		return err
	}
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}
