package trade

import (
	"time"

	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItemInput is one requested invoice line
type InvoiceItemInput struct {
	Kind        trade.ItemKind
	UnitID      *uuid.UUID
	AccessoryID *uuid.UUID
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// CreateInvoiceRequest sells units and accessories at the actor's branch
type CreateInvoiceRequest struct {
	CustomerName   string
	CustomerPhone  string
	Items          []InvoiceItemInput
	InitialPayment decimal.Decimal
}

// ListInvoicesQuery filters the invoice listing
type ListInvoicesQuery struct {
	BranchID *uuid.UUID
	Status   *trade.InvoiceStatus
	Search   string
	Page     int
	PageSize int
}

// InvoiceItemResponse is the public view of an invoice line
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Kind        trade.ItemKind  `json:"kind"`
	UnitID      *uuid.UUID      `json:"unit_id,omitempty"`
	AccessoryID *uuid.UUID      `json:"accessory_id,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	Returned    bool            `json:"returned"`
}

// InvoiceResponse is the public view of an invoice
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	Number        string                `json:"number"`
	BranchID      uuid.UUID             `json:"branch_id"`
	CustomerName  string                `json:"customer_name"`
	CustomerPhone string                `json:"customer_phone,omitempty"`
	Items         []InvoiceItemResponse `json:"items"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	PaidAmount    decimal.Decimal       `json:"paid_amount"`
	Balance       decimal.Decimal       `json:"balance"`
	Status        trade.InvoiceStatus   `json:"status"`
	CreatedByID   uuid.UUID             `json:"created_by_id"`
	CreatedAt     time.Time             `json:"created_at"`
	CancelledAt   *time.Time            `json:"cancelled_at,omitempty"`
}

// ToInvoiceResponse converts a domain invoice
func ToInvoiceResponse(inv *trade.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:          it.ID,
			Kind:        it.Kind,
			UnitID:      it.UnitID,
			AccessoryID: it.AccessoryID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
			Returned:    it.Returned,
		}
	}
	return InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		BranchID:      inv.BranchID,
		CustomerName:  inv.CustomerName,
		CustomerPhone: inv.CustomerPhone,
		Items:         items,
		TotalAmount:   inv.TotalAmount,
		PaidAmount:    inv.PaidAmount,
		Balance:       inv.Balance(),
		Status:        inv.Status,
		CreatedByID:   inv.CreatedByID,
		CreatedAt:     inv.CreatedAt,
		CancelledAt:   inv.CancelledAt,
	}
}

// ReturnItemInput is one invoice line being brought back
type ReturnItemInput struct {
	InvoiceItemID     uuid.UUID
	Resolution        trade.Resolution
	ReplacementUnitID *uuid.UUID
	// Quantity applies to accessory lines; zero returns the whole line
	Quantity int64
}

// CreateReturnRequest records a return against an invoice
type CreateReturnRequest struct {
	InvoiceID uuid.UUID
	Reason    string
	Items     []ReturnItemInput
}

// ReturnItemResponse is the public view of a returned line
type ReturnItemResponse struct {
	ID                uuid.UUID        `json:"id"`
	InvoiceItemID     uuid.UUID        `json:"invoice_item_id"`
	Resolution        trade.Resolution `json:"resolution"`
	UnitID            *uuid.UUID       `json:"unit_id,omitempty"`
	ReplacementUnitID *uuid.UUID       `json:"replacement_unit_id,omitempty"`
	AccessoryID       *uuid.UUID       `json:"accessory_id,omitempty"`
	Quantity          int64            `json:"quantity"`
}

// ReturnResponse is the public view of a return
type ReturnResponse struct {
	ID          uuid.UUID            `json:"id"`
	InvoiceID   uuid.UUID            `json:"invoice_id"`
	BranchID    uuid.UUID            `json:"branch_id"`
	Reason      string               `json:"reason"`
	CreatedByID uuid.UUID            `json:"created_by_id"`
	Items       []ReturnItemResponse `json:"items"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ToReturnResponse converts a domain return
func ToReturnResponse(r *trade.Return) ReturnResponse {
	items := make([]ReturnItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = ReturnItemResponse{
			ID:                it.ID,
			InvoiceItemID:     it.InvoiceItemID,
			Resolution:        it.Resolution,
			UnitID:            it.UnitID,
			ReplacementUnitID: it.ReplacementUnitID,
			AccessoryID:       it.AccessoryID,
			Quantity:          it.Quantity,
		}
	}
	return ReturnResponse{
		ID:          r.ID,
		InvoiceID:   r.InvoiceID,
		BranchID:    r.BranchID,
		Reason:      r.Reason,
		CreatedByID: r.CreatedByID,
		Items:       items,
		CreatedAt:   r.CreatedAt,
	}
}
