package persistence

import (
	"context"

	appshared "github.com/gadgetstock/backend/internal/application/shared"
	"github.com/gadgetstock/backend/internal/domain/audit"
	"github.com/gadgetstock/backend/internal/domain/branch"
	"github.com/gadgetstock/backend/internal/domain/identity"
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appshared.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{db: tx})
	})
}

// Repositories returns repositories on the base connection.
func (s *GormTransactionScope) Repositories() appshared.Repositories {
	return &gormRepositories{db: s.db}
}

type gormRepositories struct {
	db *gorm.DB
}

func (r *gormRepositories) Branches() branch.Repository         { return NewGormBranchRepository(r.db) }
func (r *gormRepositories) Users() identity.UserRepository      { return NewGormUserRepository(r.db) }
func (r *gormRepositories) Catalog() inventory.CatalogRepository { return NewGormCatalogRepository(r.db) }
func (r *gormRepositories) Units() inventory.UnitRepository     { return NewGormUnitRepository(r.db) }
func (r *gormRepositories) Stock() inventory.StockRepository    { return NewGormStockRepository(r.db) }
func (r *gormRepositories) Transfers() transfer.Repository      { return NewGormTransferRepository(r.db) }
func (r *gormRepositories) Audit() audit.Repository             { return NewGormAuditRepository(r.db) }
func (r *gormRepositories) Invoices() trade.InvoiceRepository   { return NewGormInvoiceRepository(r.db) }
func (r *gormRepositories) Returns() trade.ReturnRepository     { return NewGormReturnRepository(r.db) }

func (r *gormRepositories) AccessoryTransfers() transfer.AccessoryRepository {
	return NewGormAccessoryTransferRepository(r.db)
}

var (
	_ appshared.TransactionScope = (*GormTransactionScope)(nil)
	_ appshared.Repositories     = (*gormRepositories)(nil)
)
