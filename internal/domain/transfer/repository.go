package transfer

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists unit transfers
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error)
	// FindByIDForUpdate loads the transfer holding a row lock until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transfer, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Transfer, error)
	FindBySpec(ctx context.Context, spec Spec, page, pageSize int) ([]Transfer, int64, error)
	// HasOpenForUnit reports whether a pending or approved transfer references the unit
	HasOpenForUnit(ctx context.Context, unitID uuid.UUID) (bool, error)
	Save(ctx context.Context, t *Transfer) error
}

// AccessoryRepository persists accessory transfers
type AccessoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AccessoryTransfer, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*AccessoryTransfer, error)
	FindBySpec(ctx context.Context, spec Spec, page, pageSize int) ([]AccessoryTransfer, int64, error)
	Save(ctx context.Context, t *AccessoryTransfer) error
}
