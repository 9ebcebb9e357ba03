// Package trade sells units and accessories and takes them back.
package trade

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"time"

	appshared "github.com/gadgetstock/backend/internal/application/shared"
	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/audit"
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/gadgetstock/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvoiceNotFound  = shared.NewDomainError(shared.CodeNotFound, "Invoice not found")
	ErrReturnNotFound   = shared.NewDomainError(shared.CodeNotFound, "Return not found")
	ErrUnitNotFound     = shared.NewDomainError(shared.CodeNotFound, "Unit not found")
	ErrUnitNotInBranch  = shared.NewDomainError(shared.CodeWrongBranch, "Unit is not at your branch")
	ErrInvoiceElsewhere = shared.NewDomainError(shared.CodeWrongBranch, "Invoice belongs to another branch")
	ErrUnknownItemKind  = shared.NewDomainError(shared.CodeInvalidInput, "Unknown invoice item kind")
)

const cancelReason = "invoice cancelled"

// ResolutionCancelled marks a unit released by a cancelled invoice in the audit log
const ResolutionCancelled = "CANCELLED"

// InvoiceService creates, pays and cancels invoices
type InvoiceService struct {
	scope     appshared.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(scope appshared.TransactionScope, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{scope: scope, logger: logger, now: time.Now}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// CreateInvoice sells the requested items at the actor's branch. Units become Sold,
// accessory stock is drawn down, and one SOLD audit entry is written per unit.
func (s *InvoiceService) CreateInvoice(ctx context.Context, actor access.Actor, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	inv, err := trade.NewInvoice(trade.GenerateInvoiceNumber(s.now()), actor.BranchID, actor.UserID, req.CustomerName, req.CustomerPhone)
	if err != nil {
		return nil, err
	}
	for _, in := range req.Items {
		if err := addItem(inv, in); err != nil {
			return nil, err
		}
	}
	if err := inv.Finalize(req.InitialPayment); err != nil {
		return nil, err
	}

	var sold []*inventory.Unit
	var stockEvents []shared.DomainEvent
	err = s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		sold = sold[:0]
		stockEvents = stockEvents[:0]

		// Lock units in a stable order so concurrent invoices cannot deadlock.
		lines := unitLines(inv)
		for _, it := range lines {
			unit, err := repos.Units().FindByIDForUpdate(ctx, *it.UnitID)
			if err != nil {
				return notFoundAs(err, ErrUnitNotFound)
			}
			if !unit.IsAt(actor.BranchID) {
				return ErrUnitNotInBranch
			}
			if err := unit.MarkSold(); err != nil {
				return err
			}
			if err := repos.Units().Save(ctx, unit); err != nil {
				return err
			}
			sold = append(sold, unit)
		}
		for _, it := range inv.Items {
			if it.Kind != trade.ItemKindAccessory {
				continue
			}
			if _, err := repos.Catalog().FindAccessory(ctx, *it.AccessoryID); err != nil {
				return err
			}
			if err := repos.Stock().Decrease(ctx, *it.AccessoryID, actor.BranchID, it.Quantity); err != nil {
				return err
			}
			stockEvents = append(stockEvents, inventory.NewStockChangedEvent(*it.AccessoryID, actor.BranchID, -it.Quantity))
		}

		if err := repos.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		entries := make([]*audit.Entry, 0, len(lines))
		for _, it := range lines {
			e, err := audit.NewEntry(*it.UnitID, actor.UserID,
				audit.SoldDetails{InvoiceNumber: inv.Number, ItemKind: string(it.Kind), Price: it.UnitPrice.StringFixed(2)},
				audit.WithActorBranch(actor.BranchID),
				audit.WithInvoice(inv.ID))
			if err != nil {
				return err
			}
			entries = append(entries, e)
		}
		if len(entries) == 0 {
			return nil
		}
		return repos.Audit().Append(ctx, entries...)
	})
	if err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("number", inv.Number),
		zap.String("total", inv.TotalAmount.String()))
	sources := []appshared.EventSource{inv}
	for _, u := range sold {
		sources = append(sources, u)
	}
	appshared.PublishEvents(ctx, s.publisher, sources, stockEvents...)
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

func addItem(inv *trade.Invoice, in InvoiceItemInput) error {
	switch {
	case in.Kind.IsUnit():
		if in.UnitID == nil {
			return shared.NewDomainError(shared.CodeInvalidInput, "Unit ID is required for unit items")
		}
		_, err := inv.AddUnitItem(*in.UnitID, in.Kind, in.UnitPrice)
		return err
	case in.Kind == trade.ItemKindAccessory:
		if in.AccessoryID == nil {
			return shared.NewDomainError(shared.CodeInvalidInput, "Accessory ID is required for accessory items")
		}
		_, err := inv.AddAccessoryItem(*in.AccessoryID, in.Quantity, in.UnitPrice)
		return err
	default:
		return ErrUnknownItemKind
	}
}

func unitLines(inv *trade.Invoice) []trade.InvoiceItem {
	var lines []trade.InvoiceItem
	for _, it := range inv.Items {
		if it.UnitID != nil {
			lines = append(lines, it)
		}
	}
	slices.SortFunc(lines, func(a, b trade.InvoiceItem) int {
		return bytes.Compare(a.UnitID[:], b.UnitID[:])
	})
	return lines
}

// RecordPayment adds a payment to an invoice of the actor's branch
func (s *InvoiceService) RecordPayment(ctx context.Context, actor access.Actor, id uuid.UUID, amount decimal.Decimal) (*InvoiceResponse, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	var inv *trade.Invoice
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		var err error
		inv, err = s.lockOwned(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		if err := inv.RecordPayment(amount); err != nil {
			return err
		}
		return repos.Invoices().Save(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Payment recorded",
		zap.String("invoice_id", id.String()),
		zap.String("amount", amount.String()),
		zap.String("status", string(inv.Status)))
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// CancelInvoice voids an unpaid invoice and puts its units and accessories back
func (s *InvoiceService) CancelInvoice(ctx context.Context, actor access.Actor, id uuid.UUID) (*InvoiceResponse, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	var inv *trade.Invoice
	var stockEvents []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		stockEvents = stockEvents[:0]
		var err error
		inv, err = s.lockOwned(ctx, repos, actor, id)
		if err != nil {
			return err
		}
		if err := inv.Cancel(s.now()); err != nil {
			return err
		}

		var entries []*audit.Entry
		for _, it := range unitLines(inv) {
			unit, err := repos.Units().FindByIDForUpdate(ctx, *it.UnitID)
			if err != nil {
				return err
			}
			if err := unit.Restore(inv.BranchID); err != nil {
				return err
			}
			if err := repos.Units().Save(ctx, unit); err != nil {
				return err
			}
			e, err := audit.NewEntry(unit.ID, actor.UserID,
				audit.ReturnedDetails{Resolution: ResolutionCancelled, Reason: cancelReason, Available: true},
				audit.WithActorBranch(actor.BranchID),
				audit.WithInvoice(inv.ID))
			if err != nil {
				return err
			}
			entries = append(entries, e)
		}
		for _, it := range inv.Items {
			if it.Kind != trade.ItemKindAccessory {
				continue
			}
			if err := repos.Stock().Increase(ctx, *it.AccessoryID, inv.BranchID, it.Quantity); err != nil {
				return err
			}
			stockEvents = append(stockEvents, inventory.NewStockChangedEvent(*it.AccessoryID, inv.BranchID, it.Quantity))
		}
		if err := repos.Invoices().Save(ctx, inv); err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return repos.Audit().Append(ctx, entries...)
	})
	if err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Invoice cancelled", zap.String("invoice_id", id.String()))
	appshared.PublishEvents(ctx, s.publisher, nil, stockEvents...)
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// lockOwned loads an invoice for update; it must belong to the actor's branch
// unless the actor is acting for the admin branch.
func (s *InvoiceService) lockOwned(ctx context.Context, repos appshared.Repositories, actor access.Actor, id uuid.UUID) (*trade.Invoice, error) {
	inv, err := repos.Invoices().FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrInvoiceNotFound)
	}
	if !actor.CanSee(inv.BranchID) {
		return nil, ErrInvoiceNotFound
	}
	if inv.BranchID != actor.BranchID && !actor.IsAdminBranch {
		return nil, ErrInvoiceElsewhere
	}
	return inv, nil
}

// GetInvoice returns an invoice visible to the actor
func (s *InvoiceService) GetInvoice(ctx context.Context, actor access.Actor, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.visibleInvoice(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

func (s *InvoiceService) visibleInvoice(ctx context.Context, actor access.Actor, id uuid.UUID) (*trade.Invoice, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	inv, err := s.scope.Repositories().Invoices().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrInvoiceNotFound)
	}
	if !actor.CanSee(inv.BranchID) {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}

// ListInvoices lists the actor branch's invoices; the admin branch sees every branch
func (s *InvoiceService) ListInvoices(ctx context.Context, actor access.Actor, q ListInvoicesQuery) (*shared.Paginated[InvoiceResponse], error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	filter := trade.InvoiceFilter{
		Filter:   shared.Filter{Page: q.Page, PageSize: q.PageSize, Search: q.Search}.Normalize(),
		BranchID: q.BranchID,
		Status:   q.Status,
	}
	if !actor.IsAdminBranch {
		own := actor.BranchID
		filter.BranchID = &own
	}
	invoices, total, err := s.scope.Repositories().Invoices().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		items[i] = ToInvoiceResponse(&invoices[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func notFoundAs(err error, replacement *shared.DomainError) error {
	if errors.Is(err, shared.ErrNotFound) {
		return replacement
	}
	return err
}
