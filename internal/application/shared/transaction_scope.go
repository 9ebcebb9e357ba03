package shared

import (
	"context"

	"github.com/gadgetstock/backend/internal/domain/audit"
	"github.com/gadgetstock/backend/internal/domain/branch"
	"github.com/gadgetstock/backend/internal/domain/identity"
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/gadgetstock/backend/internal/domain/transfer"
)

// TransactionScope runs use cases atomically.
type TransactionScope interface {
	// Execute runs fn within a database transaction. If fn returns an error
	// the transaction is rolled back, otherwise it is committed.
	Execute(ctx context.Context, fn func(repos Repositories) error) error
	// Repositories returns repositories bound to no transaction, for reads.
	Repositories() Repositories
}

// Repositories gives access to every repository. All repositories returned by
// one instance share the same underlying transaction (if any).
type Repositories interface {
	Branches() branch.Repository
	Users() identity.UserRepository
	Catalog() inventory.CatalogRepository
	Units() inventory.UnitRepository
	Stock() inventory.StockRepository
	Transfers() transfer.Repository
	AccessoryTransfers() transfer.AccessoryRepository
	Audit() audit.Repository
	Invoices() trade.InvoiceRepository
	Returns() trade.ReturnRepository
}
