package persistence

import (
	"context"

	"github.com/gadgetstock/backend/internal/domain/audit"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditRepository appends to and reads from unit_audit_logs. It has no
// update or delete path.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

func (r *GormAuditRepository) Append(ctx context.Context, entries ...*audit.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.AuditLogModel, 0, len(entries))
	for _, e := range entries {
		m, err := models.AuditLogModelFromDomain(e)
		if err != nil {
			return err
		}
		rows = append(rows, m)
	}
	// a zero CreatedAt is left out of the insert so the column default applies
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return err
	}
	for i, e := range entries {
		e.CreatedAt = rows[i].CreatedAt
	}
	return nil
}

func (r *GormAuditRepository) ListForUnit(ctx context.Context, unitID uuid.UUID, page, pageSize int) ([]audit.Entry, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.AuditLogModel{}).Where("unit_id = ?", unitID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.AuditLogModel
	f := shared.Filter{Page: page, PageSize: pageSize}
	if err := paginate(q.Order("created_at DESC").Order("id DESC"), f).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]audit.Entry, 0, len(rows))
	for i := range rows {
		e, err := rows[i].ToDomain()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *e)
	}
	return out, total, nil
}

var _ audit.Repository = (*GormAuditRepository)(nil)
