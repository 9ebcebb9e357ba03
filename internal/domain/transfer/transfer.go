package transfer

import (
	"time"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeTransfer          = "Transfer"
	AggregateTypeAccessoryTransfer = "AccessoryTransfer"
)

// Kind distinguishes the two transfer flavours
type Kind string

const (
	KindUnit      Kind = "UNIT"
	KindAccessory Kind = "ACCESSORY"
)

// Transfer moves custody of one serialized unit between branches
type Transfer struct {
	shared.BaseAggregateRoot
	Request
	UnitID uuid.UUID
}

// NewTransfer creates a pending unit transfer from the requesting branch
func NewTransfer(unitID, fromBranchID, toBranchID, requestedBy uuid.UUID, reason, notes string) (*Transfer, error) {
	if unitID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit ID cannot be empty")
	}
	req, err := newRequest(fromBranchID, toBranchID, requestedBy, reason, notes)
	if err != nil {
		return nil, err
	}
	t := &Transfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Request:           req,
		UnitID:            unitID,
	}
	t.AddDomainEvent(newRequestedEvent(AggregateTypeTransfer, KindUnit, t.ID, &t.Request))
	return t, nil
}

// Receive completes the transfer. Callers must already have re-validated the unit.
func (t *Transfer) Receive(branchID, userID uuid.UUID, at time.Time) error {
	if err := t.CheckReceivable(branchID); err != nil {
		return err
	}
	t.complete(userID, at)
	t.Touch()
	t.AddDomainEvent(newReceivedEvent(AggregateTypeTransfer, KindUnit, t.ID, &t.Request))
	return nil
}

// Approve moves a pending transfer to approved
func (t *Transfer) Approve(branchID uuid.UUID, isAdmin bool) error {
	return t.changeStatus("approve", StatusApproved, t.CheckApprovable(branchID, isAdmin))
}

// Reject moves a pending or approved transfer to rejected
func (t *Transfer) Reject(branchID uuid.UUID, isAdmin bool) error {
	return t.changeStatus("reject", StatusRejected, t.CheckApprovable(branchID, isAdmin))
}

// Cancel withdraws a pending or approved transfer
func (t *Transfer) Cancel(branchID uuid.UUID, isAdmin bool) error {
	return t.changeStatus("cancel", StatusCancelled, t.CheckCancellable(branchID, isAdmin))
}

func (t *Transfer) changeStatus(verb string, target Status, guard error) error {
	if guard != nil {
		return guard
	}
	if err := t.transition(verb, target); err != nil {
		return err
	}
	t.Touch()
	t.AddDomainEvent(newStatusChangedEvent(AggregateTypeTransfer, KindUnit, t.ID, &t.Request))
	return nil
}

// AccessoryTransfer moves a quantity of one accessory between branches
type AccessoryTransfer struct {
	shared.BaseAggregateRoot
	Request
	AccessoryID uuid.UUID
	Quantity    int64
}

// NewAccessoryTransfer creates a pending accessory transfer
func NewAccessoryTransfer(accessoryID, fromBranchID, toBranchID, requestedBy uuid.UUID, quantity int64, reason, notes string) (*AccessoryTransfer, error) {
	if accessoryID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Accessory ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Quantity must be greater than zero")
	}
	req, err := newRequest(fromBranchID, toBranchID, requestedBy, reason, notes)
	if err != nil {
		return nil, err
	}
	t := &AccessoryTransfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Request:           req,
		AccessoryID:       accessoryID,
		Quantity:          quantity,
	}
	t.AddDomainEvent(newRequestedEvent(AggregateTypeAccessoryTransfer, KindAccessory, t.ID, &t.Request))
	return t, nil
}

// Receive completes the transfer. Callers must already have moved the stock.
func (t *AccessoryTransfer) Receive(branchID, userID uuid.UUID, at time.Time) error {
	if err := t.CheckReceivable(branchID); err != nil {
		return err
	}
	t.complete(userID, at)
	t.Touch()
	t.AddDomainEvent(newReceivedEvent(AggregateTypeAccessoryTransfer, KindAccessory, t.ID, &t.Request))
	return nil
}

// Approve moves a pending transfer to approved
func (t *AccessoryTransfer) Approve(branchID uuid.UUID, isAdmin bool) error {
	return t.changeStatus("approve", StatusApproved, t.CheckApprovable(branchID, isAdmin))
}

// Reject moves a pending or approved transfer to rejected
func (t *AccessoryTransfer) Reject(branchID uuid.UUID, isAdmin bool) error {
	return t.changeStatus("reject", StatusRejected, t.CheckApprovable(branchID, isAdmin))
}

// Cancel withdraws a pending or approved transfer
func (t *AccessoryTransfer) Cancel(branchID uuid.UUID, isAdmin bool) error {
	return t.changeStatus("cancel", StatusCancelled, t.CheckCancellable(branchID, isAdmin))
}

func (t *AccessoryTransfer) changeStatus(verb string, target Status, guard error) error {
	if guard != nil {
		return guard
	}
	if err := t.transition(verb, target); err != nil {
		return err
	}
	t.Touch()
	t.AddDomainEvent(newStatusChangedEvent(AggregateTypeAccessoryTransfer, KindAccessory, t.ID, &t.Request))
	return nil
}
