package inventory

import (
	"time"

	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// CreateUnitRequest registers a unit at the warehouse
type CreateUnitRequest struct {
	ProductTypeID uuid.UUID
	Serial        string
	Color         string
	Memory        string
	Condition     inventory.Condition
	// BranchID defaults to the actor's (admin) branch
	BranchID *uuid.UUID
}

// UpdateUnitRequest is an administrative correction; nil fields are left alone
type UpdateUnitRequest struct {
	Color     *string
	Memory    *string
	Condition *inventory.Condition
	BranchID  *uuid.UUID
}

// ListUnitsQuery filters the unit listing
type ListUnitsQuery struct {
	BranchID     *uuid.UUID
	Availability *inventory.Availability
	Condition    *inventory.Condition
	Search       string
	Page         int
	PageSize     int
}

// UnitResponse is the public view of a unit
type UnitResponse struct {
	ID              uuid.UUID              `json:"id"`
	ProductTypeID   uuid.UUID              `json:"product_type_id"`
	ProductTypeName string                 `json:"product_type_name,omitempty"`
	Serial          string                 `json:"serial"`
	Color           string                 `json:"color"`
	Memory          string                 `json:"memory"`
	Condition       inventory.Condition    `json:"condition"`
	Availability    inventory.Availability `json:"availability"`
	BranchID        uuid.UUID              `json:"branch_id"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ToUnitResponse converts a domain unit
func ToUnitResponse(u *inventory.Unit) UnitResponse {
	return UnitResponse{
		ID:            u.ID,
		ProductTypeID: u.ProductTypeID,
		Serial:        u.Serial,
		Color:         u.Color,
		Memory:        u.Memory,
		Condition:     u.Condition,
		Availability:  u.Availability,
		BranchID:      u.BranchID,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// StockInRequest adds accessory quantity at the warehouse
type StockInRequest struct {
	AccessoryID uuid.UUID
	Quantity    int64
	// BranchID defaults to the actor's (admin) branch
	BranchID *uuid.UUID
}

// StockResponse is one ledger row
type StockResponse struct {
	AccessoryID   uuid.UUID `json:"accessory_id"`
	AccessoryName string    `json:"accessory_name,omitempty"`
	SKU           string    `json:"sku,omitempty"`
	BranchID      uuid.UUID `json:"branch_id"`
	Quantity      int64     `json:"quantity"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToStockResponse converts a ledger row
func ToStockResponse(s *inventory.AccessoryStock) StockResponse {
	return StockResponse{
		AccessoryID: s.AccessoryID,
		BranchID:    s.BranchID,
		Quantity:    s.Quantity,
		UpdatedAt:   s.UpdatedAt,
	}
}
