package transfer

import (
	"context"
	"errors"
	"time"

	appshared "github.com/gadgetstock/backend/internal/application/shared"
	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/audit"
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"github.com/gadgetstock/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Business errors raised by the service itself
var (
	ErrDestinationNotFound = shared.NewDomainError(shared.CodeNotFound, "Destination branch not found")
	ErrUnitNotFound        = shared.NewDomainError(shared.CodeNotFound, "Unit not found")
	ErrUnitNotInBranch     = shared.NewDomainError(shared.CodeWrongBranch, "Unit does not belong to your branch")
	ErrUnitNotAvailable    = shared.NewDomainError(shared.CodeInvalidState, "Unit is not available")
	ErrUnitInTransit       = shared.NewDomainError(shared.CodeInvalidState, "Unit already has an open transfer")
	ErrAccessoryNotFound   = shared.NewDomainError(shared.CodeNotFound, "Accessory not found")
	ErrTransferNotFound    = shared.NewDomainError(shared.CodeNotFound, "Transfer not found")
	ErrUnitMoved           = shared.NewDomainError(shared.CodeTransferConflict, "Unit is no longer available at the source branch")
)

// Service implements the transfer workflow for units and accessories. Every
// read-check-write sequence runs in one store transaction with the touched rows
// locked, so concurrent receives serialize in the database.
type Service struct {
	scope     appshared.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new transfer Service
func NewService(scope appshared.TransactionScope, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{scope: scope, logger: logger, now: time.Now}
}

// SetEventPublisher sets the publisher used after commit
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

func (s *Service) log(ctx context.Context) *logger.ContextLogger {
	return logger.WithLogger(ctx, s.logger)
}

// CreateTransfer requests a unit transfer from the actor's branch
func (s *Service) CreateTransfer(ctx context.Context, actor access.Actor, req CreateTransferRequest) (*TransferResponse, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	t, err := transfer.NewTransfer(req.UnitID, actor.BranchID, req.ToBranchID, actor.UserID, req.Reason, req.Notes)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		if err := s.checkDestination(ctx, repos, req.ToBranchID); err != nil {
			return err
		}
		unit, err := repos.Units().FindByIDForUpdate(ctx, req.UnitID)
		if err != nil {
			return notFoundAs(err, ErrUnitNotFound)
		}
		if !unit.IsAt(actor.BranchID) {
			return ErrUnitNotInBranch
		}
		if !unit.IsAvailable() {
			return ErrUnitNotAvailable
		}
		open, err := repos.Transfers().HasOpenForUnit(ctx, unit.ID)
		if err != nil {
			return err
		}
		if open {
			return ErrUnitInTransit
		}

		if err := repos.Transfers().Save(ctx, t); err != nil {
			return err
		}
		entry, err := audit.NewEntry(unit.ID, actor.UserID,
			audit.TransferRequestedDetails{Reason: t.Reason, Notes: t.Notes, Status: t.Status.String()},
			audit.WithActorBranch(actor.BranchID),
			audit.WithRoute(t.FromBranchID, t.ToBranchID),
			audit.WithTransfer(t.ID))
		if err != nil {
			return err
		}
		return repos.Audit().Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("Transfer requested",
		zap.String("transfer_id", t.ID.String()),
		zap.String("unit_id", t.UnitID.String()),
		zap.String("to_branch_id", t.ToBranchID.String()))
	appshared.PublishEvents(ctx, s.publisher, []appshared.EventSource{t})
	resp := ToTransferResponse(t)
	return &resp, nil
}

// ReceiveTransfer completes a unit transfer at the destination branch
func (s *Service) ReceiveTransfer(ctx context.Context, actor access.Actor, transferID uuid.UUID) (*TransferResponse, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}

	var t *transfer.Transfer
	var unit *inventory.Unit
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		var err error
		t, err = repos.Transfers().FindByIDForUpdate(ctx, transferID)
		if err != nil {
			return notFoundAs(err, ErrTransferNotFound)
		}
		if err := t.CheckReceivable(actor.BranchID); err != nil {
			return err
		}

		unit, err = repos.Units().FindByIDForUpdate(ctx, t.UnitID)
		if err != nil {
			return notFoundAs(err, ErrUnitMoved)
		}
		if !unit.IsAvailable() || !unit.IsAt(t.FromBranchID) {
			return ErrUnitMoved
		}
		if err := unit.MoveTo(t.ToBranchID); err != nil {
			return err
		}
		if err := repos.Units().Save(ctx, unit); err != nil {
			return err
		}

		if err := t.Receive(actor.BranchID, actor.UserID, s.now()); err != nil {
			return err
		}
		if err := repos.Transfers().Save(ctx, t); err != nil {
			return err
		}

		entry, err := audit.NewEntry(unit.ID, actor.UserID,
			audit.TransferReceivedDetails{Status: t.Status.String(), ReceivedAt: *t.ReceivedAt},
			audit.WithActorBranch(actor.BranchID),
			audit.WithRoute(t.FromBranchID, t.ToBranchID),
			audit.WithTransfer(t.ID))
		if err != nil {
			return err
		}
		return repos.Audit().Append(ctx, entry)
	})
	if err != nil {
		s.log(ctx).Warn("Transfer receive rejected",
			zap.String("transfer_id", transferID.String()), zap.Error(err))
		return nil, err
	}

	s.log(ctx).Info("Transfer received",
		zap.String("transfer_id", t.ID.String()),
		zap.String("unit_id", t.UnitID.String()))
	appshared.PublishEvents(ctx, s.publisher, []appshared.EventSource{t, unit})
	resp := ToTransferResponse(t)
	return &resp, nil
}

// CreateAccessoryTransfer requests an accessory transfer. Stock is checked but not reserved.
func (s *Service) CreateAccessoryTransfer(ctx context.Context, actor access.Actor, req CreateAccessoryTransferRequest) (*TransferResponse, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	t, err := transfer.NewAccessoryTransfer(req.AccessoryID, actor.BranchID, req.ToBranchID, actor.UserID, req.Quantity, req.Reason, req.Notes)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		if err := s.checkDestination(ctx, repos, req.ToBranchID); err != nil {
			return err
		}
		if _, err := repos.Catalog().FindAccessory(ctx, req.AccessoryID); err != nil {
			return notFoundAs(err, ErrAccessoryNotFound)
		}
		qty, err := repos.Stock().GetQuantity(ctx, req.AccessoryID, actor.BranchID)
		if err != nil {
			return err
		}
		if qty < req.Quantity {
			return inventory.InsufficientStock()
		}
		return repos.AccessoryTransfers().Save(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("Accessory transfer requested",
		zap.String("transfer_id", t.ID.String()),
		zap.String("accessory_id", t.AccessoryID.String()),
		zap.Int64("quantity", t.Quantity))
	appshared.PublishEvents(ctx, s.publisher, []appshared.EventSource{t})
	resp := ToAccessoryTransferResponse(t)
	return &resp, nil
}

// ReceiveAccessoryTransfer completes an accessory transfer, moving the stock
func (s *Service) ReceiveAccessoryTransfer(ctx context.Context, actor access.Actor, transferID uuid.UUID) (*TransferResponse, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}

	var t *transfer.AccessoryTransfer
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		var err error
		t, err = repos.AccessoryTransfers().FindByIDForUpdate(ctx, transferID)
		if err != nil {
			return notFoundAs(err, ErrTransferNotFound)
		}
		if err := t.CheckReceivable(actor.BranchID); err != nil {
			return err
		}

		// Decrease re-reads the source row under lock and refuses to go negative.
		if err := repos.Stock().Decrease(ctx, t.AccessoryID, t.FromBranchID, t.Quantity); err != nil {
			return err
		}
		if err := repos.Stock().Increase(ctx, t.AccessoryID, t.ToBranchID, t.Quantity); err != nil {
			return err
		}

		if err := t.Receive(actor.BranchID, actor.UserID, s.now()); err != nil {
			return err
		}
		return repos.AccessoryTransfers().Save(ctx, t)
	})
	if err != nil {
		s.log(ctx).Warn("Accessory transfer receive rejected",
			zap.String("transfer_id", transferID.String()), zap.Error(err))
		return nil, err
	}

	s.log(ctx).Info("Accessory transfer received",
		zap.String("transfer_id", t.ID.String()),
		zap.Int64("quantity", t.Quantity))
	appshared.PublishEvents(ctx, s.publisher, []appshared.EventSource{t},
		inventory.NewStockChangedEvent(t.AccessoryID, t.FromBranchID, -t.Quantity),
		inventory.NewStockChangedEvent(t.AccessoryID, t.ToBranchID, t.Quantity))
	resp := ToAccessoryTransferResponse(t)
	return &resp, nil
}

func (s *Service) checkDestination(ctx context.Context, repos appshared.Repositories, branchID uuid.UUID) error {
	if _, err := repos.Branches().FindByID(ctx, branchID); err != nil {
		return notFoundAs(err, ErrDestinationNotFound)
	}
	return nil
}

// notFoundAs replaces a generic NOT_FOUND with the operation's own message
func notFoundAs(err error, replacement *shared.DomainError) error {
	if errors.Is(err, shared.ErrNotFound) {
		return replacement
	}
	return err
}
