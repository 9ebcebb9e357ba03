package branch

import (
	"context"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository persists branches
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)
	FindBySlug(ctx context.Context, slug string) (*Branch, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Branch, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Branch, int64, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Save(ctx context.Context, b *Branch) error
}
