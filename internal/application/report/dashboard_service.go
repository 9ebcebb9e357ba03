// Package report serves the branch dashboard.
package report

import (
	"context"
	"time"

	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/report"
	"github.com/gadgetstock/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultCacheTTL is used when no TTL is configured
const DefaultCacheTTL = 30 * time.Second

// DashboardService computes branch summaries and caches them for a short time
type DashboardService struct {
	reader   report.SummaryReader
	cache    report.DashboardCache
	ttl      time.Duration
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService creates a new DashboardService. cache may be nil.
func NewDashboardService(reader report.SummaryReader, cache report.DashboardCache, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		reader:   reader,
		cache:    cache,
		ttl:      ttl,
		location: time.UTC,
		logger:   logger,
		now:      time.Now,
	}
}

// SetLocation sets the time zone that defines "today" for sales counts
func (s *DashboardService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

// Dashboard returns the actor's dashboard: its own branch, or every branch for
// the admin branch.
func (s *DashboardService) Dashboard(ctx context.Context, actor access.Actor) (*report.Dashboard, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	log := logger.WithLogger(ctx, s.logger)

	key := report.AllBranchesKey
	var branchIDs []uuid.UUID
	if !actor.IsAdminBranch {
		key = report.BranchKey(actor.BranchID)
		branchIDs = []uuid.UUID{actor.BranchID}
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn("Dashboard cache read failed", zap.String("key", key), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	now := s.now().In(s.location)
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	lines, err := s.reader.Summaries(ctx, branchIDs, startOfDay)
	if err != nil {
		return nil, err
	}
	d := report.NewDashboard(now, lines)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, d, s.ttl); err != nil {
			log.Warn("Dashboard cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return d, nil
}
