package persistence

import (
	"context"

	"github.com/gadgetstock/backend/internal/domain/branch"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBranchRepository implements branch.Repository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

func (r *GormBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*branch.Branch, error) {
	var m models.BranchModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Branch")
	}
	return m.ToDomain(), nil
}

func (r *GormBranchRepository) FindBySlug(ctx context.Context, slug string) (*branch.Branch, error) {
	var m models.BranchModel
	if err := r.db.WithContext(ctx).First(&m, "slug = ?", slug).Error; err != nil {
		return nil, translate(err, "Branch")
	}
	return m.ToDomain(), nil
}

func (r *GormBranchRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*branch.Branch, error) {
	out := make(map[uuid.UUID]*branch.Branch, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.BranchModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormBranchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]branch.Branch, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.BranchModel{})
	if filter.Search != "" {
		q = q.Where(`name LIKE ? ESCAPE '\'`, containsPattern(filter.Search))
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.BranchModel
	if err := paginate(q.Order(orderClause(filter, BranchSortFields, "name")), filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]branch.Branch, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

func (r *GormBranchRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BranchModel{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *GormBranchRepository) Save(ctx context.Context, b *branch.Branch) error {
	return translate(r.db.WithContext(ctx).Save(models.BranchModelFromDomain(b)).Error, "Branch")
}

var _ branch.Repository = (*GormBranchRepository)(nil)
