package report

import (
	"context"

	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/report"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// multiBranchEvent is implemented by events that touch more than one branch
type multiBranchEvent interface {
	AffectedBranches() []uuid.UUID
}

// DashboardInvalidationHandler drops cached dashboards when their numbers change
type DashboardInvalidationHandler struct {
	cache  report.DashboardCache
	logger *zap.Logger
}

// NewDashboardInvalidationHandler creates a new DashboardInvalidationHandler
func NewDashboardInvalidationHandler(cache report.DashboardCache, logger *zap.Logger) *DashboardInvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardInvalidationHandler{cache: cache, logger: logger}
}

// EventTypes returns the events that change dashboard figures
func (h *DashboardInvalidationHandler) EventTypes() []string {
	return []string{
		transfer.EventTypeTransferReceived,
		transfer.EventTypeTransferRequested,
		transfer.EventTypeTransferStatusChanged,
		inventory.EventTypeUnitRegistered,
		inventory.EventTypeUnitSold,
		inventory.EventTypeStockChanged,
		trade.EventTypeReturnCreated,
	}
}

// Handle invalidates the branches the event concerns
func (h *DashboardInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	branches := []uuid.UUID{event.BranchID()}
	if mb, ok := event.(multiBranchEvent); ok {
		branches = mb.AffectedBranches()
	}
	if err := h.cache.Invalidate(ctx, branches...); err != nil {
		h.logger.Warn("Dashboard invalidation failed",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return err
	}
	return nil
}
