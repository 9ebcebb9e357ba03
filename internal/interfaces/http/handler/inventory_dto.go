package handler

import (
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// =====================
// Unit Request DTOs
// =====================

// CreateUnitRequest represents the request body for registering a unit
type CreateUnitRequest struct {
	ProductTypeID string `json:"product_type_id" binding:"required,uuid"`
	Serial        string `json:"serial" binding:"required,serial" example:"356938035643809"`
	Color         string `json:"color" binding:"max=50" example:"black"`
	Memory        string `json:"memory" binding:"max=50" example:"128GB"`
	Condition     string `json:"condition" binding:"required,oneof=BRAND_NEW SECOND_HAND"`
	BranchID      string `json:"branch_id" binding:"omitempty,uuid"`
}

// UpdateUnitRequest represents an administrative correction; absent fields stay unchanged
type UpdateUnitRequest struct {
	Color     *string `json:"color" binding:"omitempty,max=50"`
	Memory    *string `json:"memory" binding:"omitempty,max=50"`
	Condition *string `json:"condition" binding:"omitempty,oneof=BRAND_NEW SECOND_HAND"`
	BranchID  *string `json:"branch_id" binding:"omitempty,uuid"`
}

// ListUnitsRequest represents the query of the unit listing
type ListUnitsRequest struct {
	BranchID     string `form:"branch_id" binding:"omitempty,uuid"`
	Availability string `form:"availability" binding:"omitempty,oneof=AVAILABLE SOLD"`
	Condition    string `form:"condition" binding:"omitempty,oneof=BRAND_NEW SECOND_HAND"`
	Search       string `form:"search" binding:"max=100"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// =====================
// Stock Request DTOs
// =====================

// StockInRequest represents the request body for receiving accessories at the warehouse
type StockInRequest struct {
	AccessoryID string `json:"accessory_id" binding:"required,uuid"`
	Quantity    int64  `json:"quantity" binding:"required,gt=0" example:"10"`
	BranchID    string `json:"branch_id" binding:"omitempty,uuid"`
}

// ListStockRequest represents the query of the stock listing
type ListStockRequest struct {
	BranchID string `form:"branch_id" binding:"omitempty,uuid"`
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// =====================
// Audit Request DTOs
// =====================

// ListAuditRequest represents the query of a unit's audit trail
type ListAuditRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// optionalUUID converts a validated, possibly empty, uuid string
func optionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id := uuid.MustParse(s)
	return &id
}

func optionalCondition(s *string) *inventory.Condition {
	if s == nil {
		return nil
	}
	c := inventory.Condition(*s)
	return &c
}
