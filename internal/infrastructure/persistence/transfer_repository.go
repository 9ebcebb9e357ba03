package persistence

import (
	"context"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"github.com/gadgetstock/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// openStatuses are the statuses that still hold a claim on a unit
var openStatuses = []string{string(transfer.StatusPending), string(transfer.StatusApproved)}

// findBySpec runs a spec-filtered, newest-first page query against one transfer table
func findBySpec[M any](ctx context.Context, db *gorm.DB, spec transfer.Spec, page, pageSize int) ([]M, int64, error) {
	expr, err := specExpression(spec)
	if err != nil {
		return nil, 0, err
	}
	q := db.WithContext(ctx).Model(new(M))
	if expr != nil {
		q = q.Where(expr)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []M
	f := shared.Filter{Page: page, PageSize: pageSize}
	if err := paginate(q.Order("created_at DESC").Order("id DESC"), f).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// GormTransferRepository implements transfer.Repository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	var m models.TransferModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Transfer")
	}
	return m.ToDomain(), nil
}

// FindByIDForUpdate locks the transfer row; concurrent receivers queue here
func (r *GormTransferRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	var m models.TransferModel
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Transfer")
	}
	return m.ToDomain(), nil
}

func (r *GormTransferRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*transfer.Transfer, error) {
	out := make(map[uuid.UUID]*transfer.Transfer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.TransferModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormTransferRepository) FindBySpec(ctx context.Context, spec transfer.Spec, page, pageSize int) ([]transfer.Transfer, int64, error) {
	rows, total, err := findBySpec[models.TransferModel](ctx, r.db, spec, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]transfer.Transfer, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

func (r *GormTransferRepository) HasOpenForUnit(ctx context.Context, unitID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TransferModel{}).
		Where("unit_id = ? AND status IN ?", unitID, openStatuses).
		Count(&count).Error
	return count > 0, err
}

func (r *GormTransferRepository) Save(ctx context.Context, t *transfer.Transfer) error {
	return r.db.WithContext(ctx).Save(models.TransferModelFromDomain(t)).Error
}

// GormAccessoryTransferRepository implements transfer.AccessoryRepository using GORM
type GormAccessoryTransferRepository struct {
	db *gorm.DB
}

// NewGormAccessoryTransferRepository creates a new GormAccessoryTransferRepository
func NewGormAccessoryTransferRepository(db *gorm.DB) *GormAccessoryTransferRepository {
	return &GormAccessoryTransferRepository{db: db}
}

func (r *GormAccessoryTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.AccessoryTransfer, error) {
	var m models.AccessoryTransferModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Transfer")
	}
	return m.ToDomain(), nil
}

func (r *GormAccessoryTransferRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*transfer.AccessoryTransfer, error) {
	var m models.AccessoryTransferModel
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Transfer")
	}
	return m.ToDomain(), nil
}

func (r *GormAccessoryTransferRepository) FindBySpec(ctx context.Context, spec transfer.Spec, page, pageSize int) ([]transfer.AccessoryTransfer, int64, error) {
	rows, total, err := findBySpec[models.AccessoryTransferModel](ctx, r.db, spec, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]transfer.AccessoryTransfer, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

func (r *GormAccessoryTransferRepository) Save(ctx context.Context, t *transfer.AccessoryTransfer) error {
	return r.db.WithContext(ctx).Save(models.AccessoryTransferModelFromDomain(t)).Error
}

var (
	_ transfer.Repository          = (*GormTransferRepository)(nil)
	_ transfer.AccessoryRepository = (*GormAccessoryTransferRepository)(nil)
)
