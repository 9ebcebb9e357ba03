package trade

import (
	"context"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	BranchID *uuid.UUID
	Status   *InvoiceStatus
}

// InvoiceRepository persists invoices with their items
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Invoice, error)
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, int64, error)
	Save(ctx context.Context, i *Invoice) error
}

// ReturnRepository persists returns with their items
type ReturnRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Return, error)
	Save(ctx context.Context, r *Return) error
}
