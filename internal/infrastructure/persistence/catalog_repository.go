package persistence

import (
	"context"

	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCatalogRepository implements inventory.CatalogRepository using GORM
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) FindProductType(ctx context.Context, id uuid.UUID) (*inventory.ProductType, error) {
	var m models.ProductTypeModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Product type")
	}
	return m.ToDomain(), nil
}

func (r *GormCatalogRepository) FindAccessory(ctx context.Context, id uuid.UUID) (*inventory.Accessory, error) {
	var m models.AccessoryModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Accessory")
	}
	return m.ToDomain(), nil
}

func (r *GormCatalogRepository) FindAccessories(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.Accessory, error) {
	out := make(map[uuid.UUID]*inventory.Accessory, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.AccessoryModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormCatalogRepository) SaveProductType(ctx context.Context, p *inventory.ProductType) error {
	return r.db.WithContext(ctx).Save(models.ProductTypeModelFromDomain(p)).Error
}

func (r *GormCatalogRepository) SaveAccessory(ctx context.Context, a *inventory.Accessory) error {
	return r.db.WithContext(ctx).Save(models.AccessoryModelFromDomain(a)).Error
}

var _ inventory.CatalogRepository = (*GormCatalogRepository)(nil)
