package inventory

import (
	"context"
	"errors"

	appshared "github.com/gadgetstock/backend/internal/application/shared"
	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/audit"
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUnitNotFound   = shared.NewDomainError(shared.CodeNotFound, "Unit not found")
	ErrUnitSold       = shared.NewDomainError(shared.CodeInvalidState, "Sold units cannot be deleted")
	ErrUnitInTransfer = shared.NewDomainError(shared.CodeInvalidState, "Unit has an open transfer")
)

// UnitService manages the serialized unit registry
type UnitService struct {
	scope     appshared.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewUnitService creates a new UnitService
func NewUnitService(scope appshared.TransactionScope, logger *zap.Logger) *UnitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitService{scope: scope, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *UnitService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// CreateUnit registers a unit during warehouse intake
func (s *UnitService) CreateUnit(ctx context.Context, actor access.Actor, req CreateUnitRequest) (*UnitResponse, error) {
	if err := access.Require(actor, access.CapAdminBranch); err != nil {
		return nil, err
	}
	branchID := actor.BranchID
	if req.BranchID != nil {
		branchID = *req.BranchID
	}
	unit, err := inventory.NewUnit(req.ProductTypeID, branchID, req.Serial, req.Color, req.Memory, req.Condition)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		if _, err := repos.Branches().FindByID(ctx, branchID); err != nil {
			return err
		}
		if _, err := repos.Catalog().FindProductType(ctx, req.ProductTypeID); err != nil {
			return err
		}
		exists, err := repos.Units().ExistsBySerial(ctx, unit.Serial)
		if err != nil {
			return err
		}
		if exists {
			return serialTaken(unit.Serial)
		}
		if err := repos.Units().Save(ctx, unit); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return serialTaken(unit.Serial)
			}
			return err
		}
		entry, err := audit.NewEntry(unit.ID, actor.UserID,
			audit.ProductCreatedDetails{Serial: unit.Serial, Condition: string(unit.Condition)},
			audit.WithActorBranch(actor.BranchID))
		if err != nil {
			return err
		}
		return repos.Audit().Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Unit registered",
		zap.String("unit_id", unit.ID.String()), zap.String("branch_id", branchID.String()))
	appshared.PublishEvents(ctx, s.publisher, []appshared.EventSource{unit})
	resp := ToUnitResponse(unit)
	return &resp, nil
}

func serialTaken(serial string) error {
	return shared.NewDomainError(shared.CodeAlreadyExists, "Unit with serial "+serial+" already exists")
}

// GetUnit returns one unit. Unit lookups are open to every branch.
func (s *UnitService) GetUnit(ctx context.Context, actor access.Actor, id uuid.UUID) (*UnitResponse, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	repos := s.scope.Repositories()
	unit, err := repos.Units().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrUnitNotFound)
	}
	resp := ToUnitResponse(unit)
	if pt, err := repos.Catalog().FindProductType(ctx, unit.ProductTypeID); err == nil {
		resp.ProductTypeName = pt.Name
	}
	return &resp, nil
}

// ListUnits lists units. A regular branch lists its own units unless it asks for another branch.
func (s *UnitService) ListUnits(ctx context.Context, actor access.Actor, q ListUnitsQuery) (*shared.Paginated[UnitResponse], error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	filter := inventory.UnitFilter{
		Filter:       shared.Filter{Page: q.Page, PageSize: q.PageSize, Search: q.Search}.Normalize(),
		BranchID:     q.BranchID,
		Availability: q.Availability,
		Condition:    q.Condition,
	}
	if filter.BranchID == nil && !actor.IsAdminBranch {
		own := actor.BranchID
		filter.BranchID = &own
	}

	units, total, err := s.scope.Repositories().Units().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]UnitResponse, len(units))
	for i := range units {
		items[i] = ToUnitResponse(&units[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdateUnit applies an administrative correction. A branch change here bypasses
// the transfer workflow and is recorded as ADMIN_CORRECTION in the audit log.
func (s *UnitService) UpdateUnit(ctx context.Context, actor access.Actor, id uuid.UUID, req UpdateUnitRequest) (*UnitResponse, error) {
	if err := access.Require(actor, access.CapAdminBranch); err != nil {
		return nil, err
	}

	var unit *inventory.Unit
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		var err error
		unit, err = repos.Units().FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrUnitNotFound)
		}
		if req.BranchID != nil {
			if _, err := repos.Branches().FindByID(ctx, *req.BranchID); err != nil {
				return err
			}
		}
		fields := changedFields(unit, req)
		previous, moved, err := unit.ApplyCorrection(inventory.Correction{
			Color:     req.Color,
			Memory:    req.Memory,
			Condition: req.Condition,
			BranchID:  req.BranchID,
		})
		if err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := repos.Units().Save(ctx, unit); err != nil {
			return err
		}

		opts := []audit.Option{audit.WithActorBranch(actor.BranchID)}
		if moved {
			opts = append(opts, audit.WithRoute(previous, unit.BranchID))
		}
		entry, err := audit.NewEntry(unit.ID, actor.UserID, audit.AdminCorrectionDetails{Fields: fields}, opts...)
		if err != nil {
			return err
		}
		return repos.Audit().Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Unit corrected", zap.String("unit_id", id.String()))
	resp := ToUnitResponse(unit)
	return &resp, nil
}

func changedFields(u *inventory.Unit, req UpdateUnitRequest) []string {
	var fields []string
	if req.Color != nil && *req.Color != u.Color {
		fields = append(fields, "color")
	}
	if req.Memory != nil && *req.Memory != u.Memory {
		fields = append(fields, "memory")
	}
	if req.Condition != nil && *req.Condition != u.Condition {
		fields = append(fields, "condition")
	}
	if req.BranchID != nil && *req.BranchID != uuid.Nil && *req.BranchID != u.BranchID {
		fields = append(fields, "branch_id")
	}
	return fields
}

// DeleteUnit soft-deletes an available unit that is not being transferred
func (s *UnitService) DeleteUnit(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := access.Require(actor, access.CapAdminBranch); err != nil {
		return err
	}
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		unit, err := repos.Units().FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrUnitNotFound)
		}
		if !unit.IsAvailable() {
			return ErrUnitSold
		}
		open, err := repos.Transfers().HasOpenForUnit(ctx, id)
		if err != nil {
			return err
		}
		if open {
			return ErrUnitInTransfer
		}
		return repos.Units().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	logger.WithLogger(ctx, s.logger).Info("Unit deleted", zap.String("unit_id", id.String()))
	return nil
}

func notFoundAs(err error, replacement *shared.DomainError) error {
	if errors.Is(err, shared.ErrNotFound) {
		return replacement
	}
	return err
}
