package audit

import (
	"context"

	"github.com/google/uuid"
)

// Repository appends and reads audit entries. There is deliberately no update
// or delete.
type Repository interface {
	Append(ctx context.Context, entries ...*Entry) error
	// ListForUnit returns entries newest first
	ListForUnit(ctx context.Context, unitID uuid.UUID, page, pageSize int) ([]Entry, int64, error)
}
