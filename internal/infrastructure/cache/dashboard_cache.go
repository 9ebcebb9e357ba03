package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gadgetstock/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisDashboardCache implements report.DashboardCache using Redis
type RedisDashboardCache struct {
	client    redis.UniversalClient
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisDashboardCache creates a cache on an existing client
func NewRedisDashboardCache(client redis.UniversalClient, logger *zap.Logger) *RedisDashboardCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisDashboardCache{client: client, keyPrefix: "gstock:dashboard:", logger: logger}
}

func (c *RedisDashboardCache) Get(ctx context.Context, key string) (*report.Dashboard, error) {
	cacheKey := c.keyPrefix + key
	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard from cache: %w", err)
	}

	var d report.Dashboard
	if err := json.Unmarshal(data, &d); err != nil {
		c.logger.Warn("Dropping corrupted dashboard cache entry", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, cacheKey)
		return nil, nil
	}
	return &d, nil
}

func (c *RedisDashboardCache) Set(ctx context.Context, key string, d *report.Dashboard, ttl time.Duration) error {
	if d == nil {
		return nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard: %w", err)
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set dashboard in cache: %w", err)
	}
	return nil
}

func (c *RedisDashboardCache) Invalidate(ctx context.Context, branchIDs ...uuid.UUID) error {
	keys := make([]string, 0, len(branchIDs)+1)
	keys = append(keys, c.keyPrefix+report.AllBranchesKey)
	for _, id := range branchIDs {
		keys = append(keys, c.keyPrefix+report.BranchKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate dashboards: %w", err)
	}
	c.logger.Debug("Invalidated dashboards", zap.Int("keys", len(keys)))
	return nil
}

type dashboardEntry struct {
	value     report.Dashboard
	expiresAt time.Time
}

// InMemoryDashboardCache implements report.DashboardCache with a map
type InMemoryDashboardCache struct {
	mu      sync.RWMutex
	entries map[string]dashboardEntry
}

func NewInMemoryDashboardCache() *InMemoryDashboardCache {
	return &InMemoryDashboardCache{entries: make(map[string]dashboardEntry)}
}

func (c *InMemoryDashboardCache) Get(_ context.Context, key string) (*report.Dashboard, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, nil
	}
	d := e.value
	return &d, nil
}

func (c *InMemoryDashboardCache) Set(_ context.Context, key string, d *report.Dashboard, ttl time.Duration) error {
	if d == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = dashboardEntry{value: *d, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *InMemoryDashboardCache) Invalidate(_ context.Context, branchIDs ...uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, report.AllBranchesKey)
	for _, id := range branchIDs {
		delete(c.entries, report.BranchKey(id))
	}
	return nil
}

var (
	_ report.DashboardCache = (*RedisDashboardCache)(nil)
	_ report.DashboardCache = (*InMemoryDashboardCache)(nil)
)
