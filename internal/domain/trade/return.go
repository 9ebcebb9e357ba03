package trade

import (
	"strings"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Resolution is how a returned item is handled
type Resolution string

const (
	// ResolutionExchange swaps the item for a replacement
	ResolutionExchange Resolution = "EXCHANGE"
	// ResolutionRepair takes the item back into stock after repair
	ResolutionRepair Resolution = "REPAIR"
)

// IsValid checks if the resolution is known
func (r Resolution) IsValid() bool {
	return r == ResolutionExchange || r == ResolutionRepair
}

// ReturnItem is one returned invoice line
type ReturnItem struct {
	ID                uuid.UUID
	ReturnID          uuid.UUID
	InvoiceItemID     uuid.UUID
	Resolution        Resolution
	UnitID            *uuid.UUID
	ReplacementUnitID *uuid.UUID
	AccessoryID       *uuid.UUID
	Quantity          int64
}

// Return records items brought back against an invoice
type Return struct {
	shared.BaseAggregateRoot
	InvoiceID   uuid.UUID
	BranchID    uuid.UUID
	Reason      string
	CreatedByID uuid.UUID
	Items       []ReturnItem
}

// NewReturn starts a return against an invoice held by the branch
func NewReturn(invoice *Invoice, branchID, createdBy uuid.UUID, reason string) (*Return, error) {
	if invoice == nil {
		return nil, shared.NotFound("Invoice")
	}
	if invoice.BranchID != branchID {
		return nil, shared.NewDomainError(shared.CodeWrongBranch, "Invoice belongs to another branch")
	}
	if invoice.Status == InvoiceStatusCancelled {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "cannot return items of a cancelled invoice")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Reason cannot be empty")
	}
	return &Return{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceID:         invoice.ID,
		BranchID:          branchID,
		Reason:            reason,
		CreatedByID:       createdBy,
		Items:             make([]ReturnItem, 0),
	}, nil
}

// AddItem returns an invoice line and marks it returned on the invoice.
// Exchanges of units need a replacement unit; accessory quantities cannot exceed
// what was sold.
func (r *Return) AddItem(invoice *Invoice, invoiceItemID uuid.UUID, resolution Resolution, replacementUnitID *uuid.UUID, quantity int64) (*ReturnItem, error) {
	if !resolution.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invalid return resolution")
	}
	line := invoice.Item(invoiceItemID)
	if line == nil {
		return nil, shared.NotFound("Invoice item")
	}
	if line.Returned {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Invoice item was already returned")
	}

	item := ReturnItem{
		ID:            uuid.New(),
		ReturnID:      r.ID,
		InvoiceItemID: line.ID,
		Resolution:    resolution,
	}
	if line.Kind.IsUnit() {
		if resolution == ResolutionExchange {
			if replacementUnitID == nil || *replacementUnitID == uuid.Nil {
				return nil, shared.NewDomainError(shared.CodeInvalidInput, "Exchange requires a replacement unit")
			}
			if *replacementUnitID == *line.UnitID {
				return nil, shared.NewDomainError(shared.CodeInvalidInput, "Replacement must be a different unit")
			}
			item.ReplacementUnitID = replacementUnitID
		}
		item.UnitID = line.UnitID
		item.Quantity = 1
	} else {
		if quantity <= 0 {
			quantity = line.Quantity
		}
		if quantity > line.Quantity {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Returned quantity exceeds sold quantity")
		}
		item.AccessoryID = line.AccessoryID
		item.Quantity = quantity
	}

	line.Returned = true
	r.Items = append(r.Items, item)
	return &r.Items[len(r.Items)-1], nil
}

// Seal validates the return before it is persisted
func (r *Return) Seal() error {
	if len(r.Items) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Return must have at least one item")
	}
	r.AddDomainEvent(NewReturnCreatedEvent(r))
	return nil
}
