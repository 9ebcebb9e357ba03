package models

import (
	"time"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// ToAggregateRoot converts BaseModel to a domain aggregate root without pending events
func (m *BaseModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.ToDomain()}
}

// All lists every model in dependency order, for AutoMigrate in tests and demos.
func All() []any {
	return []any{
		&BranchModel{},
		&UserModel{},
		&MembershipModel{},
		&ProductTypeModel{},
		&AccessoryModel{},
		&AccessoryStockModel{},
		&UnitModel{},
		&TransferModel{},
		&AccessoryTransferModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&ReturnModel{},
		&ReturnItemModel{},
		&AuditLogModel{},
	}
}
