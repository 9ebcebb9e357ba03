package models

import (
	"time"

	"github.com/gadgetstock/backend/internal/domain/transfer"
	"github.com/google/uuid"
)

// TransferRequestColumns are the columns shared by both transfer tables
type TransferRequestColumns struct {
	FromBranchID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	ToBranchID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	RequestedByID uuid.UUID  `gorm:"type:uuid;not null"`
	ReceivedByID  *uuid.UUID `gorm:"type:uuid"`
	Reason        string     `gorm:"type:text;not null"`
	Notes         string     `gorm:"type:text"`
	Status        string     `gorm:"type:varchar(20);not null;index"`
	ReceivedAt    *time.Time
}

func (c TransferRequestColumns) toDomain() transfer.Request {
	return transfer.Request{
		FromBranchID:  c.FromBranchID,
		ToBranchID:    c.ToBranchID,
		RequestedByID: c.RequestedByID,
		ReceivedByID:  c.ReceivedByID,
		Reason:        c.Reason,
		Notes:         c.Notes,
		Status:        transfer.Status(c.Status),
		ReceivedAt:    c.ReceivedAt,
	}
}

func requestColumnsFromDomain(r transfer.Request) TransferRequestColumns {
	return TransferRequestColumns{
		FromBranchID:  r.FromBranchID,
		ToBranchID:    r.ToBranchID,
		RequestedByID: r.RequestedByID,
		ReceivedByID:  r.ReceivedByID,
		Reason:        r.Reason,
		Notes:         r.Notes,
		Status:        string(r.Status),
		ReceivedAt:    r.ReceivedAt,
	}
}

// TransferModel is the persistence model for a unit transfer.
type TransferModel struct {
	BaseModel
	TransferRequestColumns
	UnitID uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (TransferModel) TableName() string { return "transfers" }

func (m *TransferModel) ToDomain() *transfer.Transfer {
	return &transfer.Transfer{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Request:           m.TransferRequestColumns.toDomain(),
		UnitID:            m.UnitID,
	}
}

func TransferModelFromDomain(t *transfer.Transfer) *TransferModel {
	m := &TransferModel{TransferRequestColumns: requestColumnsFromDomain(t.Request), UnitID: t.UnitID}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}

// AccessoryTransferModel is the persistence model for an accessory transfer.
type AccessoryTransferModel struct {
	BaseModel
	TransferRequestColumns
	AccessoryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity    int64     `gorm:"not null;check:quantity > 0"`
}

func (AccessoryTransferModel) TableName() string { return "accessory_transfers" }

func (m *AccessoryTransferModel) ToDomain() *transfer.AccessoryTransfer {
	return &transfer.AccessoryTransfer{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Request:           m.TransferRequestColumns.toDomain(),
		AccessoryID:       m.AccessoryID,
		Quantity:          m.Quantity,
	}
}

func AccessoryTransferModelFromDomain(t *transfer.AccessoryTransfer) *AccessoryTransferModel {
	m := &AccessoryTransferModel{
		TransferRequestColumns: requestColumnsFromDomain(t.Request),
		AccessoryID:            t.AccessoryID,
		Quantity:               t.Quantity,
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}
