package models

import (
	"time"

	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for Invoice.
type InvoiceModel struct {
	BaseModel
	Number        string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	BranchID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName  string          `gorm:"type:varchar(200);not null"`
	CustomerPhone string          `gorm:"type:varchar(50)"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status        string          `gorm:"type:varchar(20);not null;index"`
	CreatedByID   uuid.UUID       `gorm:"type:uuid;not null"`
	CancelledAt   *time.Time
	Items         []InvoiceItemModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

func (InvoiceModel) TableName() string { return "invoices" }

// InvoiceItemModel is one invoice line.
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind        string          `gorm:"type:varchar(20);not null"`
	UnitID      *uuid.UUID      `gorm:"type:uuid;index"`
	AccessoryID *uuid.UUID      `gorm:"type:uuid"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Returned    bool            `gorm:"not null;default:false"`
	Position    int             `gorm:"not null;default:0"`
}

func (InvoiceItemModel) TableName() string { return "invoice_items" }

func (m *InvoiceModel) ToDomain() *trade.Invoice {
	inv := &trade.Invoice{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Number:            m.Number,
		BranchID:          m.BranchID,
		CustomerName:      m.CustomerName,
		CustomerPhone:     m.CustomerPhone,
		TotalAmount:       m.TotalAmount,
		PaidAmount:        m.PaidAmount,
		Status:            trade.InvoiceStatus(m.Status),
		CreatedByID:       m.CreatedByID,
		CancelledAt:       m.CancelledAt,
		Items:             make([]trade.InvoiceItem, len(m.Items)),
	}
	for i, it := range m.Items {
		inv.Items[i] = trade.InvoiceItem{
			ID:          it.ID,
			InvoiceID:   it.InvoiceID,
			Kind:        trade.ItemKind(it.Kind),
			UnitID:      it.UnitID,
			AccessoryID: it.AccessoryID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
			Returned:    it.Returned,
		}
	}
	return inv
}

func InvoiceModelFromDomain(inv *trade.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		Number:        inv.Number,
		BranchID:      inv.BranchID,
		CustomerName:  inv.CustomerName,
		CustomerPhone: inv.CustomerPhone,
		TotalAmount:   inv.TotalAmount,
		PaidAmount:    inv.PaidAmount,
		Status:        string(inv.Status),
		CreatedByID:   inv.CreatedByID,
		CancelledAt:   inv.CancelledAt,
		Items:         make([]InvoiceItemModel, len(inv.Items)),
	}
	m.FromDomainBaseEntity(inv.BaseEntity)
	for i, it := range inv.Items {
		m.Items[i] = InvoiceItemModel{
			ID:          it.ID,
			InvoiceID:   inv.ID,
			Kind:        string(it.Kind),
			UnitID:      it.UnitID,
			AccessoryID: it.AccessoryID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
			Returned:    it.Returned,
			Position:    i,
		}
	}
	return m
}

// ReturnModel is the persistence model for Return.
type ReturnModel struct {
	BaseModel
	InvoiceID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	BranchID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Reason      string            `gorm:"type:text;not null"`
	CreatedByID uuid.UUID         `gorm:"type:uuid;not null"`
	Items       []ReturnItemModel `gorm:"foreignKey:ReturnID;references:ID"`
}

func (ReturnModel) TableName() string { return "returns" }

// ReturnItemModel is one returned invoice line.
type ReturnItemModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key"`
	ReturnID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	InvoiceItemID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Resolution        string     `gorm:"type:varchar(20);not null"`
	UnitID            *uuid.UUID `gorm:"type:uuid"`
	ReplacementUnitID *uuid.UUID `gorm:"type:uuid"`
	AccessoryID       *uuid.UUID `gorm:"type:uuid"`
	Quantity          int64      `gorm:"not null"`
}

func (ReturnItemModel) TableName() string { return "return_items" }

func (m *ReturnModel) ToDomain() *trade.Return {
	r := &trade.Return{
		BaseAggregateRoot: m.ToAggregateRoot(),
		InvoiceID:         m.InvoiceID,
		BranchID:          m.BranchID,
		Reason:            m.Reason,
		CreatedByID:       m.CreatedByID,
		Items:             make([]trade.ReturnItem, len(m.Items)),
	}
	for i, it := range m.Items {
		r.Items[i] = trade.ReturnItem{
			ID:                it.ID,
			ReturnID:          it.ReturnID,
			InvoiceItemID:     it.InvoiceItemID,
			Resolution:        trade.Resolution(it.Resolution),
			UnitID:            it.UnitID,
			ReplacementUnitID: it.ReplacementUnitID,
			AccessoryID:       it.AccessoryID,
			Quantity:          it.Quantity,
		}
	}
	return r
}

func ReturnModelFromDomain(r *trade.Return) *ReturnModel {
	m := &ReturnModel{
		InvoiceID:   r.InvoiceID,
		BranchID:    r.BranchID,
		Reason:      r.Reason,
		CreatedByID: r.CreatedByID,
		Items:       make([]ReturnItemModel, len(r.Items)),
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	for i, it := range r.Items {
		m.Items[i] = ReturnItemModel{
			ID:                it.ID,
			ReturnID:          r.ID,
			InvoiceItemID:     it.InvoiceItemID,
			Resolution:        string(it.Resolution),
			UnitID:            it.UnitID,
			ReplacementUnitID: it.ReplacementUnitID,
			AccessoryID:       it.AccessoryID,
			Quantity:          it.Quantity,
		}
	}
	return m
}
