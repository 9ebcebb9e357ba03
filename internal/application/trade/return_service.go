package trade

import (
	"context"

	appshared "github.com/gadgetstock/backend/internal/application/shared"
	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/audit"
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/gadgetstock/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReturnService records returns against invoices
type ReturnService struct {
	scope     appshared.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewReturnService creates a new ReturnService
func NewReturnService(scope appshared.TransactionScope, logger *zap.Logger) *ReturnService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReturnService{scope: scope, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// returnTx carries the side effects collected while applying one return
type returnTx struct {
	repos   appshared.Repositories
	actor   access.Actor
	invoice *trade.Invoice
	reason  string
	entries []*audit.Entry
	units   []*inventory.Unit
	events  []shared.DomainEvent
}

// CreateReturn takes invoice lines back at the actor's branch.
//
// A repaired unit becomes Available at the branch. An exchanged unit stays Sold
// and is set aside while the replacement is sold in its place. Repaired
// accessories go back into stock; exchanged accessories leave stock unchanged.
func (s *ReturnService) CreateReturn(ctx context.Context, actor access.Actor, req CreateReturnRequest) (*ReturnResponse, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Return must have at least one item")
	}

	var ret *trade.Return
	var tx *returnTx
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		inv, err := repos.Invoices().FindByIDForUpdate(ctx, req.InvoiceID)
		if err != nil {
			return notFoundAs(err, ErrInvoiceNotFound)
		}
		if !actor.CanSee(inv.BranchID) {
			return ErrInvoiceNotFound
		}
		ret, err = trade.NewReturn(inv, actor.BranchID, actor.UserID, req.Reason)
		if err != nil {
			return err
		}

		tx = &returnTx{repos: repos, actor: actor, invoice: inv, reason: ret.Reason}
		for _, in := range req.Items {
			item, err := ret.AddItem(inv, in.InvoiceItemID, in.Resolution, in.ReplacementUnitID, in.Quantity)
			if err != nil {
				return err
			}
			if err := tx.apply(ctx, inv.Item(in.InvoiceItemID), item); err != nil {
				return err
			}
		}
		if err := ret.Seal(); err != nil {
			return err
		}

		if err := repos.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		if err := repos.Returns().Save(ctx, ret); err != nil {
			return err
		}
		if len(tx.entries) == 0 {
			return nil
		}
		return repos.Audit().Append(ctx, tx.entries...)
	})
	if err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Return recorded",
		zap.String("return_id", ret.ID.String()),
		zap.String("invoice_id", req.InvoiceID.String()),
		zap.Int("items", len(ret.Items)))
	sources := []appshared.EventSource{ret}
	for _, u := range tx.units {
		sources = append(sources, u)
	}
	appshared.PublishEvents(ctx, s.publisher, sources, tx.events...)
	resp := ToReturnResponse(ret)
	return &resp, nil
}

func (tx *returnTx) apply(ctx context.Context, line *trade.InvoiceItem, item *trade.ReturnItem) error {
	if item.UnitID != nil {
		return tx.applyUnit(ctx, line, item)
	}
	return tx.applyAccessory(ctx, item)
}

func (tx *returnTx) applyUnit(ctx context.Context, line *trade.InvoiceItem, item *trade.ReturnItem) error {
	branchID := tx.actor.BranchID
	unit, err := tx.repos.Units().FindByIDForUpdate(ctx, *item.UnitID)
	if err != nil {
		return notFoundAs(err, ErrUnitNotFound)
	}

	details := audit.ReturnedDetails{Resolution: string(item.Resolution), Reason: tx.reason}
	switch item.Resolution {
	case trade.ResolutionRepair:
		if err := unit.Restore(branchID); err != nil {
			return err
		}
		if err := tx.repos.Units().Save(ctx, unit); err != nil {
			return err
		}
		details.Available = true

	case trade.ResolutionExchange:
		replacement, err := tx.repos.Units().FindByIDForUpdate(ctx, *item.ReplacementUnitID)
		if err != nil {
			return notFoundAs(err, ErrUnitNotFound)
		}
		if !replacement.IsAt(branchID) {
			return ErrUnitNotInBranch
		}
		if err := replacement.MarkSold(); err != nil {
			return err
		}
		if err := tx.repos.Units().Save(ctx, replacement); err != nil {
			return err
		}
		tx.units = append(tx.units, replacement)
		details.ReplacementUnitID = item.ReplacementUnitID

		sold, err := audit.NewEntry(replacement.ID, tx.actor.UserID,
			audit.SoldDetails{InvoiceNumber: tx.invoice.Number, ItemKind: string(line.Kind), Price: line.UnitPrice.StringFixed(2)},
			audit.WithActorBranch(branchID),
			audit.WithInvoice(tx.invoice.ID))
		if err != nil {
			return err
		}
		tx.entries = append(tx.entries, sold)
	}

	e, err := audit.NewEntry(unit.ID, tx.actor.UserID, details,
		audit.WithActorBranch(branchID),
		audit.WithInvoice(tx.invoice.ID))
	if err != nil {
		return err
	}
	tx.entries = append(tx.entries, e)
	return nil
}

func (tx *returnTx) applyAccessory(ctx context.Context, item *trade.ReturnItem) error {
	branchID := tx.actor.BranchID
	stock := tx.repos.Stock()
	switch item.Resolution {
	case trade.ResolutionRepair:
		if err := stock.Increase(ctx, *item.AccessoryID, branchID, item.Quantity); err != nil {
			return err
		}
		tx.events = append(tx.events, inventory.NewStockChangedEvent(*item.AccessoryID, branchID, item.Quantity))
	case trade.ResolutionExchange:
		// the defective piece comes in as the replacement goes out
		if err := stock.Decrease(ctx, *item.AccessoryID, branchID, item.Quantity); err != nil {
			return err
		}
		if err := stock.Increase(ctx, *item.AccessoryID, branchID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// GetReturn returns a return visible to the actor
func (s *ReturnService) GetReturn(ctx context.Context, actor access.Actor, id uuid.UUID) (*ReturnResponse, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	ret, err := s.scope.Repositories().Returns().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrReturnNotFound)
	}
	if !actor.CanSee(ret.BranchID) {
		return nil, ErrReturnNotFound
	}
	resp := ToReturnResponse(ret)
	return &resp, nil
}
