package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository is the accessory stock ledger on top of GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// Increase inserts the row or adds to it in a single upsert statement
func (r *GormStockRepository) Increase(ctx context.Context, accessoryID, branchID uuid.UUID, amount int64) error {
	if err := inventory.ValidateAmount(amount); err != nil {
		return err
	}
	now := time.Now()
	row := models.AccessoryStockModel{
		ID:          uuid.New(),
		AccessoryID: accessoryID,
		BranchID:    branchID,
		Quantity:    amount,
		UpdatedAt:   now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "accessory_id"}, {Name: "branch_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("accessory_stock.quantity + ?", amount),
			"updated_at": now,
		}),
	}).Create(&row).Error
}

// Decrease subtracts from the locked row and returns INSUFFICIENT_STOCK rather than going negative
func (r *GormStockRepository) Decrease(ctx context.Context, accessoryID, branchID uuid.UUID, amount int64) error {
	if err := inventory.ValidateAmount(amount); err != nil {
		return err
	}
	row, err := r.GetForUpdate(ctx, accessoryID, branchID)
	if err != nil {
		return err
	}
	if !row.CanCover(amount) {
		return inventory.InsufficientStock()
	}
	result := r.db.WithContext(ctx).Model(&models.AccessoryStockModel{}).
		Where("id = ? AND quantity >= ?", row.ID, amount).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return inventory.InsufficientStock()
	}
	return nil
}

func (r *GormStockRepository) GetQuantity(ctx context.Context, accessoryID, branchID uuid.UUID) (int64, error) {
	var m models.AccessoryStockModel
	err := r.db.WithContext(ctx).
		Where("accessory_id = ? AND branch_id = ?", accessoryID, branchID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return m.Quantity, nil
}

// GetForUpdate returns nil without error when the row does not exist
func (r *GormStockRepository) GetForUpdate(ctx context.Context, accessoryID, branchID uuid.UUID) (*inventory.AccessoryStock, error) {
	var m models.AccessoryStockModel
	err := r.db.WithContext(ctx).Clauses(forUpdate).
		Where("accessory_id = ? AND branch_id = ?", accessoryID, branchID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// ListForBranch lists ledger rows; a nil branch lists every branch
func (r *GormStockRepository) ListForBranch(ctx context.Context, branchID *uuid.UUID, filter shared.Filter) ([]inventory.AccessoryStock, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.AccessoryStockModel{})
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.AccessoryStockModel
	q = q.Order(orderClause(filter, StockSortFields, "updated_at"))
	if err := paginate(q, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]inventory.AccessoryStock, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

var _ inventory.StockRepository = (*GormStockRepository)(nil)
