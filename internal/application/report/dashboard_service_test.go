package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/report"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"github.com/gadgetstock/backend/internal/infrastructure/cache"
	"github.com/gadgetstock/backend/internal/infrastructure/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	mu        sync.Mutex
	calls     int
	lastIDs   []uuid.UUID
	lastSince time.Time
	lines     []report.BranchSummary
	err       error
}

func (r *stubReader) Summaries(_ context.Context, branchIDs []uuid.UUID, soldSince time.Time) ([]report.BranchSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.lastIDs = branchIDs
	r.lastSince = soldSince
	return r.lines, r.err
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) (*report.Dashboard, error) {
	return nil, errors.New("redis down")
}
func (failingCache) Set(context.Context, string, *report.Dashboard, time.Duration) error {
	return errors.New("redis down")
}
func (failingCache) Invalidate(context.Context, ...uuid.UUID) error { return errors.New("redis down") }

var (
	shopA = uuid.New()
	shopB = uuid.New()
)

func TestDashboard_BranchScopeAndCaching(t *testing.T) {
	reader := &stubReader{lines: []report.BranchSummary{{BranchID: shopA, AvailableUnits: 4, UnitsSoldToday: 1}}}
	svc := NewDashboardService(reader, cache.NewInMemoryDashboardCache(), time.Minute, nil)
	svc.now = func() time.Time { return time.Date(2026, 5, 2, 15, 30, 0, 0, time.UTC) }
	actor := access.NewActor(uuid.New(), shopA, false)

	d, err := svc.Dashboard(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, int64(4), d.Totals.AvailableUnits)
	assert.Equal(t, []uuid.UUID{shopA}, reader.lastIDs)
	assert.Equal(t, time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), reader.lastSince)

	_, err = svc.Dashboard(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, 1, reader.calls, "second read should come from the cache")
}

func TestDashboard_AdminSeesAllBranches(t *testing.T) {
	reader := &stubReader{lines: []report.BranchSummary{
		{BranchID: shopA, AvailableUnits: 2},
		{BranchID: shopB, AvailableUnits: 5, PendingIncoming: 1},
	}}
	svc := NewDashboardService(reader, nil, 0, nil)

	d, err := svc.Dashboard(context.Background(), access.NewActor(uuid.New(), uuid.New(), true))
	require.NoError(t, err)
	assert.Nil(t, reader.lastIDs)
	assert.Len(t, d.Branches, 2)
	assert.Equal(t, int64(7), d.Totals.AvailableUnits)
	assert.Equal(t, int64(1), d.Totals.PendingIncoming)
}

func TestDashboard_CacheFailuresFallBackToReader(t *testing.T) {
	reader := &stubReader{}
	svc := NewDashboardService(reader, failingCache{}, time.Minute, nil)

	d, err := svc.Dashboard(context.Background(), access.NewActor(uuid.New(), shopA, false))
	require.NoError(t, err)
	assert.NotNil(t, d)
	assert.Equal(t, 1, reader.calls)
}

func TestDashboard_Errors(t *testing.T) {
	reader := &stubReader{err: errors.New("db down")}
	svc := NewDashboardService(reader, nil, 0, nil)

	_, err := svc.Dashboard(context.Background(), access.NewActor(uuid.New(), shopA, false))
	require.Error(t, err)

	_, err = svc.Dashboard(context.Background(), access.Actor{})
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}

func TestInvalidationHandler_ViaEventBus(t *testing.T) {
	ctx := context.Background()
	dashboards := cache.NewInMemoryDashboardCache()
	bus := event.NewInMemoryEventBus(nil)
	bus.Subscribe(NewDashboardInvalidationHandler(dashboards, nil))

	reader := &stubReader{}
	svc := NewDashboardService(reader, dashboards, time.Minute, nil)
	a := access.NewActor(uuid.New(), shopA, false)
	b := access.NewActor(uuid.New(), shopB, false)
	for _, actor := range []access.Actor{a, b} {
		_, err := svc.Dashboard(ctx, actor)
		require.NoError(t, err)
	}
	require.Equal(t, 2, reader.calls)

	// a stock movement at B leaves A's cached view alone
	require.NoError(t, bus.Publish(ctx, inventory.NewStockChangedEvent(uuid.New(), shopB, 3)))
	_, _ = svc.Dashboard(ctx, a)
	_, _ = svc.Dashboard(ctx, b)
	assert.Equal(t, 3, reader.calls)

	// a received transfer touches both ends of the route
	received := &transfer.Event{
		BaseDomainEvent: shared.NewBaseDomainEvent(transfer.EventTypeTransferReceived, transfer.AggregateTypeTransfer, uuid.New(), shopB),
		FromBranchID:    shopA,
		ToBranchID:      shopB,
	}
	require.NoError(t, bus.Publish(ctx, received))
	_, _ = svc.Dashboard(ctx, a)
	_, _ = svc.Dashboard(ctx, b)
	assert.Equal(t, 5, reader.calls)
}

func TestInvalidationHandler_EventTypes(t *testing.T) {
	h := NewDashboardInvalidationHandler(cache.NewInMemoryDashboardCache(), nil)
	assert.Contains(t, h.EventTypes(), transfer.EventTypeTransferReceived)
	assert.Contains(t, h.EventTypes(), inventory.EventTypeUnitSold)
	assert.Contains(t, h.EventTypes(), inventory.EventTypeStockChanged)

	err := NewDashboardInvalidationHandler(failingCache{}, nil).Handle(context.Background(),
		inventory.NewStockChangedEvent(uuid.New(), shopA, 1))
	assert.Error(t, err)
}
