package transfer

import (
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants
const (
	EventTypeTransferRequested     = "TransferRequested"
	EventTypeTransferReceived      = "TransferReceived"
	EventTypeTransferStatusChanged = "TransferStatusChanged"
)

// Event is the payload shared by all transfer events
type Event struct {
	shared.BaseDomainEvent
	Kind         Kind      `json:"kind"`
	FromBranchID uuid.UUID `json:"from_branch_id"`
	ToBranchID   uuid.UUID `json:"to_branch_id"`
	Status       Status    `json:"status"`
}

// AffectedBranches returns both ends of the route
func (e *Event) AffectedBranches() []uuid.UUID {
	return []uuid.UUID{e.FromBranchID, e.ToBranchID}
}

func newEvent(eventType, aggType string, kind Kind, id uuid.UUID, r *Request) *Event {
	return &Event{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggType, id, r.ToBranchID),
		Kind:            kind,
		FromBranchID:    r.FromBranchID,
		ToBranchID:      r.ToBranchID,
		Status:          r.Status,
	}
}

func newRequestedEvent(aggType string, kind Kind, id uuid.UUID, r *Request) *Event {
	return newEvent(EventTypeTransferRequested, aggType, kind, id, r)
}

func newReceivedEvent(aggType string, kind Kind, id uuid.UUID, r *Request) *Event {
	return newEvent(EventTypeTransferReceived, aggType, kind, id, r)
}

func newStatusChangedEvent(aggType string, kind Kind, id uuid.UUID, r *Request) *Event {
	return newEvent(EventTypeTransferStatusChanged, aggType, kind, id, r)
}
