package inventory

import (
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeUnit  = "Unit"
	AggregateTypeStock = "AccessoryStock"
)

// Event type constants
const (
	EventTypeUnitRegistered = "UnitRegistered"
	EventTypeUnitSold       = "UnitSold"
	EventTypeStockChanged   = "StockChanged"
)

// UnitRegisteredEvent is raised when a unit enters the inventory
type UnitRegisteredEvent struct {
	shared.BaseDomainEvent
	UnitID uuid.UUID `json:"unit_id"`
	Serial string    `json:"serial"`
}

// NewUnitRegisteredEvent creates a new UnitRegisteredEvent
func NewUnitRegisteredEvent(u *Unit) *UnitRegisteredEvent {
	return &UnitRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitRegistered, AggregateTypeUnit, u.ID, u.BranchID),
		UnitID:          u.ID,
		Serial:          u.Serial,
	}
}

// UnitSoldEvent is raised when a unit is sold on an invoice
type UnitSoldEvent struct {
	shared.BaseDomainEvent
	UnitID uuid.UUID `json:"unit_id"`
}

// NewUnitSoldEvent creates a new UnitSoldEvent
func NewUnitSoldEvent(u *Unit) *UnitSoldEvent {
	return &UnitSoldEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitSold, AggregateTypeUnit, u.ID, u.BranchID),
		UnitID:          u.ID,
	}
}

// StockChangedEvent is raised after a committed ledger movement
type StockChangedEvent struct {
	shared.BaseDomainEvent
	AccessoryID uuid.UUID `json:"accessory_id"`
	Delta       int64     `json:"delta"`
}

// NewStockChangedEvent creates a new StockChangedEvent
func NewStockChangedEvent(accessoryID, branchID uuid.UUID, delta int64) *StockChangedEvent {
	return &StockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockChanged, AggregateTypeStock, accessoryID, branchID),
		AccessoryID:     accessoryID,
		Delta:           delta,
	}
}
