package models

import (
	"time"

	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductTypeModel is the persistence model for ProductType.
type ProductTypeModel struct {
	BaseModel
	Name  string `gorm:"type:varchar(200);not null"`
	Brand string `gorm:"type:varchar(100)"`
}

func (ProductTypeModel) TableName() string { return "product_types" }

func (m *ProductTypeModel) ToDomain() *inventory.ProductType {
	return &inventory.ProductType{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name, Brand: m.Brand}
}

func ProductTypeModelFromDomain(p *inventory.ProductType) *ProductTypeModel {
	m := &ProductTypeModel{Name: p.Name, Brand: p.Brand}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// AccessoryModel is the persistence model for Accessory.
type AccessoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null"`
	SKU  string `gorm:"column:sku;type:varchar(64)"`
}

func (AccessoryModel) TableName() string { return "accessories" }

func (m *AccessoryModel) ToDomain() *inventory.Accessory {
	return &inventory.Accessory{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name, SKU: m.SKU}
}

func AccessoryModelFromDomain(a *inventory.Accessory) *AccessoryModel {
	m := &AccessoryModel{Name: a.Name, SKU: a.SKU}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}

// AccessoryStockModel is one stock ledger row. (accessory_id, branch_id) is unique.
type AccessoryStockModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	AccessoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_accessory_stock_accessory_branch,priority:1"`
	BranchID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_accessory_stock_accessory_branch,priority:2;index"`
	Quantity    int64     `gorm:"not null;default:0;check:quantity >= 0"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (AccessoryStockModel) TableName() string { return "accessory_stock" }

func (m *AccessoryStockModel) ToDomain() *inventory.AccessoryStock {
	return &inventory.AccessoryStock{
		ID:          m.ID,
		AccessoryID: m.AccessoryID,
		BranchID:    m.BranchID,
		Quantity:    m.Quantity,
		UpdatedAt:   m.UpdatedAt,
	}
}

// UnitModel is the persistence model for a serialized Unit. Deleting a unit is
// a soft delete so that its audit history keeps a valid reference.
type UnitModel struct {
	BaseModel
	ProductTypeID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Color         string         `gorm:"type:varchar(50)"`
	Memory        string         `gorm:"type:varchar(50)"`
	Serial        string         `gorm:"type:char(15);not null;uniqueIndex"`
	Condition     string         `gorm:"type:varchar(20);not null"`
	Availability  string         `gorm:"type:varchar(20);not null;index"`
	BranchID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (UnitModel) TableName() string { return "units" }

func (m *UnitModel) ToDomain() *inventory.Unit {
	return &inventory.Unit{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ProductTypeID:     m.ProductTypeID,
		Color:             m.Color,
		Memory:            m.Memory,
		Serial:            m.Serial,
		Condition:         inventory.Condition(m.Condition),
		Availability:      inventory.Availability(m.Availability),
		BranchID:          m.BranchID,
	}
}

func UnitModelFromDomain(u *inventory.Unit) *UnitModel {
	m := &UnitModel{
		ProductTypeID: u.ProductTypeID,
		Color:         u.Color,
		Memory:        u.Memory,
		Serial:        u.Serial,
		Condition:     string(u.Condition),
		Availability:  string(u.Availability),
		BranchID:      u.BranchID,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}
