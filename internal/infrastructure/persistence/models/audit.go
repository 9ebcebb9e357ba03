package models

import (
	"fmt"
	"time"

	"github.com/gadgetstock/backend/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditLogModel is one append-only audit row. Details hold the JSON encoding
// of the action-specific variant.
type AuditLogModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key"`
	UnitID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_unit_audit_logs_unit_created,priority:1"`
	Action        string     `gorm:"type:varchar(32);not null"`
	ActorUserID   uuid.UUID  `gorm:"type:uuid;not null"`
	ActorBranchID *uuid.UUID `gorm:"type:uuid"`
	FromBranchID  *uuid.UUID `gorm:"type:uuid"`
	ToBranchID    *uuid.UUID `gorm:"type:uuid"`
	TransferID    *uuid.UUID `gorm:"type:uuid;index"`
	InvoiceID     *uuid.UUID `gorm:"type:uuid;index"`
	Details       string     `gorm:"type:jsonb;not null"`
	CreatedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;autoCreateTime:false;index:idx_unit_audit_logs_unit_created,priority:2,sort:desc"`
}

func (AuditLogModel) TableName() string { return "unit_audit_logs" }

func (m *AuditLogModel) ToDomain() (*audit.Entry, error) {
	details, err := audit.DecodeDetails(audit.Action(m.Action), []byte(m.Details))
	if err != nil {
		return nil, fmt.Errorf("audit entry %s: %w", m.ID, err)
	}
	return &audit.Entry{
		ID:            m.ID,
		UnitID:        m.UnitID,
		Action:        audit.Action(m.Action),
		ActorUserID:   m.ActorUserID,
		ActorBranchID: m.ActorBranchID,
		FromBranchID:  m.FromBranchID,
		ToBranchID:    m.ToBranchID,
		TransferID:    m.TransferID,
		InvoiceID:     m.InvoiceID,
		Details:       details,
		CreatedAt:     m.CreatedAt,
	}, nil
}

func AuditLogModelFromDomain(e *audit.Entry) (*AuditLogModel, error) {
	raw, err := audit.EncodeDetails(e.Details)
	if err != nil {
		return nil, err
	}
	return &AuditLogModel{
		ID:            e.ID,
		UnitID:        e.UnitID,
		Action:        string(e.Action),
		ActorUserID:   e.ActorUserID,
		ActorBranchID: e.ActorBranchID,
		FromBranchID:  e.FromBranchID,
		ToBranchID:    e.ToBranchID,
		TransferID:    e.TransferID,
		InvoiceID:     e.InvoiceID,
		Details:       string(raw),
		CreatedAt:     e.CreatedAt,
	}, nil
}
