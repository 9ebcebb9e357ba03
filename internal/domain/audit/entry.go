package audit

import (
	"time"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Entry is one append-only record in a unit's history
type Entry struct {
	ID            uuid.UUID
	UnitID        uuid.UUID
	Action        Action
	ActorUserID   uuid.UUID
	ActorBranchID *uuid.UUID
	FromBranchID  *uuid.UUID
	ToBranchID    *uuid.UUID
	TransferID    *uuid.UUID
	InvoiceID     *uuid.UUID
	Details       Details
	CreatedAt     time.Time // assigned by the store on append
}

// Option sets an optional reference on an entry
type Option func(*Entry)

// WithActorBranch records the branch the actor was acting for
func WithActorBranch(id uuid.UUID) Option {
	return func(e *Entry) { e.ActorBranchID = &id }
}

// WithRoute records the source and destination branches
func WithRoute(from, to uuid.UUID) Option {
	return func(e *Entry) {
		e.FromBranchID = &from
		e.ToBranchID = &to
	}
}

// WithTransfer links the entry to a transfer
func WithTransfer(id uuid.UUID) Option {
	return func(e *Entry) { e.TransferID = &id }
}

// WithInvoice links the entry to an invoice
func WithInvoice(id uuid.UUID) Option {
	return func(e *Entry) { e.InvoiceID = &id }
}

// NewEntry builds an entry; the action is taken from the details variant.
// IDs are time-ordered (UUIDv7) so entries appended within one transaction,
// which share the store timestamp, still list in append order.
func NewEntry(unitID, actorUserID uuid.UUID, details Details, opts ...Option) (*Entry, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit ID cannot be empty")
	}
	if details == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Audit details are required")
	}
	e := &Entry{
		ID:          uuid.Must(uuid.NewV7()),
		UnitID:      unitID,
		Action:      details.Action(),
		ActorUserID: actorUserID,
		Details:     details,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}
