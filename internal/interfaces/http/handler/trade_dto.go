package handler

import "github.com/shopspring/decimal"

// =====================
// Invoice Request DTOs
// =====================

// InvoiceItemRequest is one line of a new invoice
type InvoiceItemRequest struct {
	Kind        string          `json:"kind" binding:"required,oneof=UNIT FREEBIE ACCESSORY"`
	UnitID      string          `json:"unit_id" binding:"required_if=Kind UNIT,required_if=Kind FREEBIE,omitempty,uuid"`
	AccessoryID string          `json:"accessory_id" binding:"required_if=Kind ACCESSORY,omitempty,uuid"`
	Quantity    int64           `json:"quantity" binding:"omitempty,gt=0" example:"1"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"dgte0" swaggertype:"string" example:"199.99"`
}

// CreateInvoiceRequest represents the request body for selling at the caller's branch
type CreateInvoiceRequest struct {
	CustomerName   string               `json:"customer_name" binding:"required,min=1,max=200" example:"jane doe"`
	CustomerPhone  string               `json:"customer_phone" binding:"max=30"`
	Items          []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	InitialPayment decimal.Decimal      `json:"initial_payment" binding:"dgte0" swaggertype:"string" example:"0"`
}

// RecordPaymentRequest represents a payment against an invoice
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"dgte0" swaggertype:"string" example:"50.00"`
}

// ListInvoicesRequest represents the query of the invoice listing
type ListInvoicesRequest struct {
	BranchID string `form:"branch_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING PARTIALLY_PAID PAID CANCELLED"`
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// =====================
// Return Request DTOs
// =====================

// ReturnItemRequest is one invoice line being brought back
type ReturnItemRequest struct {
	InvoiceItemID     string `json:"invoice_item_id" binding:"required,uuid"`
	Resolution        string `json:"resolution" binding:"required,oneof=EXCHANGE REPAIR"`
	ReplacementUnitID string `json:"replacement_unit_id" binding:"omitempty,uuid"`
	Quantity          int64  `json:"quantity" binding:"omitempty,gt=0"`
}

// CreateReturnRequest represents the request body for a customer return
type CreateReturnRequest struct {
	InvoiceID string              `json:"invoice_id" binding:"required,uuid"`
	Reason    string              `json:"reason" binding:"max=500" example:"screen flicker"`
	Items     []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
}
