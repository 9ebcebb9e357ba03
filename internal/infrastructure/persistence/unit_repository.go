package persistence

import (
	"context"

	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUnitRepository implements inventory.UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID finds a unit by its ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Unit, error) {
	var m models.UnitModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Unit")
	}
	return m.ToDomain(), nil
}

// FindByIDForUpdate finds a unit and locks its row until the transaction ends
func (r *GormUnitRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.Unit, error) {
	var m models.UnitModel
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Unit")
	}
	return m.ToDomain(), nil
}

// FindByIDs loads units keyed by ID; soft-deleted units are included so that
// history views can still name them.
func (r *GormUnitRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.Unit, error) {
	out := make(map[uuid.UUID]*inventory.Unit, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.UnitModel
	if err := r.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToDomain()
	}
	return out, nil
}

// ExistsBySerial also sees soft-deleted units since serials are never reused
func (r *GormUnitRepository) ExistsBySerial(ctx context.Context, serial string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.UnitModel{}).
		Where("serial = ?", serial).
		Count(&count).Error
	return count > 0, err
}

func (r *GormUnitRepository) FindAll(ctx context.Context, filter inventory.UnitFilter) ([]inventory.Unit, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.UnitModel{})
	if filter.BranchID != nil {
		q = q.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.Availability != nil {
		q = q.Where("availability = ?", string(*filter.Availability))
	}
	if filter.Condition != nil {
		q = q.Where("condition = ?", string(*filter.Condition))
	}
	if filter.Search != "" {
		q = q.Where(`serial LIKE ? ESCAPE '\'`, prefixPattern(filter.Search))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.UnitModel
	q = q.Order(orderClause(filter.Filter, UnitSortFields, "created_at"))
	if err := paginate(q, filter.Filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]inventory.Unit, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

func (r *GormUnitRepository) Save(ctx context.Context, u *inventory.Unit) error {
	return translate(r.db.WithContext(ctx).Save(models.UnitModelFromDomain(u)).Error, "Unit with serial "+u.Serial)
}

// Delete soft-deletes the unit
func (r *GormUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UnitModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Unit")
	}
	return nil
}

var _ inventory.UnitRepository = (*GormUnitRepository)(nil)
