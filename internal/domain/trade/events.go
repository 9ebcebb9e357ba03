package trade

import (
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeInvoiceCreated = "InvoiceCreated"
	EventTypeReturnCreated  = "ReturnCreated"
)

// InvoiceCreatedEvent is raised when an invoice is finalized
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(i *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, i.ID, i.BranchID),
		Number:          i.Number,
		TotalAmount:     i.TotalAmount,
		ItemCount:       len(i.Items),
	}
}

// ReturnCreatedEvent is raised when a return is recorded
type ReturnCreatedEvent struct {
	shared.BaseDomainEvent
	ItemCount int `json:"item_count"`
}

// NewReturnCreatedEvent creates a new ReturnCreatedEvent
func NewReturnCreatedEvent(r *Return) *ReturnCreatedEvent {
	return &ReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnCreated, AggregateTypeReturn, r.ID, r.BranchID),
		ItemCount:       len(r.Items),
	}
}
