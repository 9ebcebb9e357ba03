package inventory

import (
	"time"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccessoryStock is the ledger row for one accessory at one branch.
// Quantity is never negative.
type AccessoryStock struct {
	ID          uuid.UUID
	AccessoryID uuid.UUID
	BranchID    uuid.UUID
	Quantity    int64
	UpdatedAt   time.Time
}

// ErrNonPositiveAmount is returned for stock movements of zero or less
var ErrNonPositiveAmount = shared.NewDomainError(shared.CodeInvalidInput, "Quantity must be greater than zero")

// ValidateAmount checks a stock movement amount
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}
	return nil
}

// CanCover reports whether the row holds at least amount
func (s *AccessoryStock) CanCover(amount int64) bool {
	return s != nil && s.Quantity >= amount
}

// InsufficientStock builds the business error for a failed decrement
func InsufficientStock() *shared.DomainError {
	return shared.NewDomainError(shared.CodeInsufficientStock, "Insufficient accessory stock")
}
