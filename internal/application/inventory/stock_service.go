package inventory

import (
	"context"

	appshared "github.com/gadgetstock/backend/internal/application/shared"
	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockService exposes the accessory stock ledger
type StockService struct {
	scope     appshared.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(scope appshared.TransactionScope, logger *zap.Logger) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{scope: scope, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// StockIn records supplier intake at the warehouse
func (s *StockService) StockIn(ctx context.Context, actor access.Actor, req StockInRequest) (*StockResponse, error) {
	if err := access.Require(actor, access.CapAdminBranch); err != nil {
		return nil, err
	}
	if err := inventory.ValidateAmount(req.Quantity); err != nil {
		return nil, err
	}
	branchID := actor.BranchID
	if req.BranchID != nil {
		branchID = *req.BranchID
	}

	var resp StockResponse
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		if _, err := repos.Branches().FindByID(ctx, branchID); err != nil {
			return err
		}
		acc, err := repos.Catalog().FindAccessory(ctx, req.AccessoryID)
		if err != nil {
			return err
		}
		if err := repos.Stock().Increase(ctx, req.AccessoryID, branchID, req.Quantity); err != nil {
			return err
		}
		row, err := repos.Stock().GetForUpdate(ctx, req.AccessoryID, branchID)
		if err != nil {
			return err
		}
		resp = ToStockResponse(row)
		resp.AccessoryName, resp.SKU = acc.Name, acc.SKU
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Stock received",
		zap.String("accessory_id", req.AccessoryID.String()),
		zap.String("branch_id", branchID.String()),
		zap.Int64("quantity", req.Quantity))
	appshared.PublishEvents(ctx, s.publisher, nil, inventory.NewStockChangedEvent(req.AccessoryID, branchID, req.Quantity))
	return &resp, nil
}

// ListStock lists ledger rows. A regular branch sees only its own stock; the
// admin branch sees every branch unless it filters by one.
func (s *StockService) ListStock(ctx context.Context, actor access.Actor, branchID *uuid.UUID, filter shared.Filter) (*shared.Paginated[StockResponse], error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	if !actor.IsAdminBranch {
		own := actor.BranchID
		branchID = &own
	}
	filter = filter.Normalize()

	repos := s.scope.Repositories()
	rows, total, err := repos.Stock().ListForBranch(ctx, branchID, filter)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].AccessoryID
	}
	accessories, err := repos.Catalog().FindAccessories(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]StockResponse, len(rows))
	for i := range rows {
		items[i] = ToStockResponse(&rows[i])
		if a, ok := accessories[rows[i].AccessoryID]; ok {
			items[i].AccessoryName, items[i].SKU = a.Name, a.SKU
		}
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
