package inventory

import (
	"context"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UnitFilter narrows unit listings
type UnitFilter struct {
	shared.Filter
	BranchID     *uuid.UUID
	Availability *Availability
	Condition    *Condition
}

// UnitRepository persists serialized units
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	// FindByIDForUpdate loads the unit holding a row lock until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Unit, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Unit, error)
	ExistsBySerial(ctx context.Context, serial string) (bool, error)
	FindAll(ctx context.Context, filter UnitFilter) ([]Unit, int64, error)
	Save(ctx context.Context, u *Unit) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StockRepository is the accessory stock ledger
type StockRepository interface {
	// Increase creates the (accessory, branch) row at amount or adds amount to it atomically
	Increase(ctx context.Context, accessoryID, branchID uuid.UUID, amount int64) error
	// Decrease reads the row under lock and subtracts amount, failing with
	// INSUFFICIENT_STOCK when the result would be negative
	Decrease(ctx context.Context, accessoryID, branchID uuid.UUID, amount int64) error
	// GetQuantity returns 0 when the row does not exist
	GetQuantity(ctx context.Context, accessoryID, branchID uuid.UUID) (int64, error)
	// GetForUpdate returns the row locked, or nil when absent
	GetForUpdate(ctx context.Context, accessoryID, branchID uuid.UUID) (*AccessoryStock, error)
	ListForBranch(ctx context.Context, branchID *uuid.UUID, filter shared.Filter) ([]AccessoryStock, int64, error)
}

// CatalogRepository reads product types and accessories
type CatalogRepository interface {
	FindProductType(ctx context.Context, id uuid.UUID) (*ProductType, error)
	FindAccessory(ctx context.Context, id uuid.UUID) (*Accessory, error)
	FindAccessories(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Accessory, error)
	SaveProductType(ctx context.Context, p *ProductType) error
	SaveAccessory(ctx context.Context, a *Accessory) error
}
