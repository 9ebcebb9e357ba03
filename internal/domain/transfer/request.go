package transfer

import (
	"fmt"
	"strings"
	"time"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Business errors of the transfer workflow
var (
	ErrSameBranch      = shared.NewDomainError(shared.CodeSameBranch, "Destination branch must be different")
	ErrNotDestination  = shared.NewDomainError(shared.CodeWrongBranch, "only the destination branch may receive")
	ErrNotSource       = shared.NewDomainError(shared.CodeWrongBranch, "only the source branch may cancel")
	ErrAlreadyReceived = shared.NewDomainError(shared.CodeAlreadyReceived, "Transfer is already received")
	ErrEmptyReason     = shared.NewDomainError(shared.CodeInvalidInput, "Reason cannot be empty")
)

// Request is the part shared by unit and accessory transfers: the route, the
// people involved and the lifecycle state.
type Request struct {
	FromBranchID  uuid.UUID
	ToBranchID    uuid.UUID
	RequestedByID uuid.UUID
	ReceivedByID  *uuid.UUID
	Reason        string
	Notes         string
	Status        Status
	ReceivedAt    *time.Time
}

func newRequest(from, to, requestedBy uuid.UUID, reason, notes string) (Request, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Request{}, ErrEmptyReason
	}
	if from == to {
		return Request{}, ErrSameBranch
	}
	if to == uuid.Nil || from == uuid.Nil {
		return Request{}, shared.NewDomainError(shared.CodeInvalidInput, "Branch ID cannot be empty")
	}
	return Request{
		FromBranchID:  from,
		ToBranchID:    to,
		RequestedByID: requestedBy,
		Reason:        reason,
		Notes:         strings.TrimSpace(notes),
		Status:        StatusPending,
	}, nil
}

// CheckReceivable runs the receive preconditions that depend only on the
// transfer row, in order: destination branch, already completed, terminal status.
func (r *Request) CheckReceivable(branchID uuid.UUID) error {
	if r.ToBranchID != branchID {
		return ErrNotDestination
	}
	if r.Status == StatusCompleted {
		return ErrAlreadyReceived
	}
	if !r.Status.CanTransitionTo(StatusCompleted) {
		return cannot("receive", r.Status)
	}
	return nil
}

// complete marks the request received by userID at time at
func (r *Request) complete(userID uuid.UUID, at time.Time) {
	r.Status = StatusCompleted
	r.ReceivedByID = &userID
	r.ReceivedAt = &at
}

func (r *Request) transition(verb string, target Status) error {
	if !r.Status.CanTransitionTo(target) {
		return cannot(verb, r.Status)
	}
	r.Status = target
	return nil
}

// CheckApprovable verifies the branch may approve or reject: the destination or the admin branch
func (r *Request) CheckApprovable(branchID uuid.UUID, isAdmin bool) error {
	if isAdmin || r.ToBranchID == branchID {
		return nil
	}
	return shared.NewDomainError(shared.CodeWrongBranch, "only the destination branch may approve or reject")
}

// CheckCancellable verifies the branch may cancel: the source or the admin branch
func (r *Request) CheckCancellable(branchID uuid.UUID, isAdmin bool) error {
	if isAdmin || r.FromBranchID == branchID {
		return nil
	}
	return ErrNotSource
}

// Involves reports whether the branch is either end of the route
func (r *Request) Involves(branchID uuid.UUID) bool {
	return r.FromBranchID == branchID || r.ToBranchID == branchID
}

func cannot(verb string, s Status) *shared.DomainError {
	return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("cannot %s a %s transfer", verb, s.Label()))
}
