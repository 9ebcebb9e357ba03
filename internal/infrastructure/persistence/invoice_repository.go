package persistence

import (
	"context"

	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/gadgetstock/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements trade.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func itemsInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Invoice, error) {
	var m models.InvoiceModel
	if err := r.db.WithContext(ctx).Preload("Items", itemsInOrder).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Invoice")
	}
	return m.ToDomain(), nil
}

func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Invoice, error) {
	var m models.InvoiceModel
	if err := r.db.WithContext(ctx).Clauses(forUpdate).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Invoice")
	}
	if err := r.db.WithContext(ctx).Where("invoice_id = ?", m.ID).Order("position").Find(&m.Items).Error; err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormInvoiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*trade.Invoice, error) {
	out := make(map[uuid.UUID]*trade.Invoice, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter trade.InvoiceFilter) ([]trade.Invoice, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.InvoiceModel{})
	if filter.BranchID != nil {
		q = q.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.Search != "" {
		like := containsPattern(filter.Search)
		q = q.Where(`number LIKE ? ESCAPE '\' OR customer_name LIKE ? ESCAPE '\'`, like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.InvoiceModel
	q = q.Preload("Items", itemsInOrder).Order(orderClause(filter.Filter, InvoiceSortFields, "created_at"))
	if err := paginate(q, filter.Filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]trade.Invoice, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save upserts the invoice together with its items
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *trade.Invoice) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(models.InvoiceModelFromDomain(inv)).Error
	return translate(err, "Invoice")
}

// GormReturnRepository implements trade.ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Return, error) {
	var m models.ReturnModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Return")
	}
	return m.ToDomain(), nil
}

func (r *GormReturnRepository) Save(ctx context.Context, ret *trade.Return) error {
	err := r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(models.ReturnModelFromDomain(ret)).Error
	return translate(err, "Invoice item return")
}

var (
	_ trade.InvoiceRepository = (*GormInvoiceRepository)(nil)
	_ trade.ReturnRepository  = (*GormReturnRepository)(nil)
)
