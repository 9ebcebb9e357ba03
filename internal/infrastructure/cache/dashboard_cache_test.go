package cache

import (
	"context"
	"testing"
	"time"

	"github.com/gadgetstock/backend/internal/domain/report"
	"github.com/gadgetstock/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDashboardCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryDashboardCache()
	branchA, branchB := uuid.New(), uuid.New()

	d := report.NewDashboard(time.Now(), []report.BranchSummary{{BranchID: branchA, AvailableUnits: 2}})
	require.NoError(t, c.Set(ctx, report.BranchKey(branchA), d, time.Minute))
	require.NoError(t, c.Set(ctx, report.BranchKey(branchB), d, time.Minute))
	require.NoError(t, c.Set(ctx, report.AllBranchesKey, d, time.Minute))

	got, err := c.Get(ctx, report.BranchKey(branchA))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.Totals.AvailableUnits)

	require.NoError(t, c.Invalidate(ctx, branchA))

	got, err = c.Get(ctx, report.BranchKey(branchA))
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = c.Get(ctx, report.AllBranchesKey)
	require.NoError(t, err)
	assert.Nil(t, got, "the admin view is dropped with any branch")
	got, err = c.Get(ctx, report.BranchKey(branchB))
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestInMemoryDashboardCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryDashboardCache()

	require.NoError(t, c.Set(ctx, "k", report.NewDashboard(time.Now(), nil), 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewStores_FallsBackWhenRedisDisabled(t *testing.T) {
	stores, err := NewStores(config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	defer stores.Close()

	assert.Nil(t, stores.Client)
	assert.IsType(t, &InMemoryIdempotencyStore{}, stores.Idempotency)
	assert.IsType(t, &InMemoryDashboardCache{}, stores.Dashboards)
}

func TestNewStores_NoFallback(t *testing.T) {
	_, err := NewStores(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, WithInMemoryFallback(false))
	assert.Error(t, err)
}
