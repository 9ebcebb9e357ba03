package transfer

import (
	"context"

	appshared "github.com/gadgetstock/backend/internal/application/shared"
	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Verb names a manual status transition
type Verb string

const (
	VerbApprove Verb = "approve"
	VerbReject  Verb = "reject"
	VerbCancel  Verb = "cancel"
)

// ChangeTransferStatus approves, rejects or cancels a unit transfer.
// Approve and reject belong to the destination (or admin) branch, cancel to the source (or admin) branch.
func (s *Service) ChangeTransferStatus(ctx context.Context, actor access.Actor, id uuid.UUID, verb Verb) (*TransferResponse, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	var t *transfer.Transfer
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		var err error
		t, err = repos.Transfers().FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrTransferNotFound)
		}
		if !actor.CanSee(t.FromBranchID, t.ToBranchID) {
			return ErrTransferNotFound
		}
		if err := applyVerb(t, verb, actor); err != nil {
			return err
		}
		return repos.Transfers().Save(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	s.log(ctx).Info("Transfer status changed",
		zap.String("transfer_id", t.ID.String()), zap.String("status", t.Status.String()))
	appshared.PublishEvents(ctx, s.publisher, []appshared.EventSource{t})
	resp := ToTransferResponse(t)
	return &resp, nil
}

// ChangeAccessoryTransferStatus is ChangeTransferStatus for accessory transfers
func (s *Service) ChangeAccessoryTransferStatus(ctx context.Context, actor access.Actor, id uuid.UUID, verb Verb) (*TransferResponse, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	var t *transfer.AccessoryTransfer
	err := s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		var err error
		t, err = repos.AccessoryTransfers().FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, ErrTransferNotFound)
		}
		if !actor.CanSee(t.FromBranchID, t.ToBranchID) {
			return ErrTransferNotFound
		}
		if err := applyVerb(t, verb, actor); err != nil {
			return err
		}
		return repos.AccessoryTransfers().Save(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	s.log(ctx).Info("Accessory transfer status changed",
		zap.String("transfer_id", t.ID.String()), zap.String("status", t.Status.String()))
	appshared.PublishEvents(ctx, s.publisher, []appshared.EventSource{t})
	resp := ToAccessoryTransferResponse(t)
	return &resp, nil
}

type transitioner interface {
	Approve(branchID uuid.UUID, isAdmin bool) error
	Reject(branchID uuid.UUID, isAdmin bool) error
	Cancel(branchID uuid.UUID, isAdmin bool) error
}

func applyVerb(t transitioner, verb Verb, actor access.Actor) error {
	switch verb {
	case VerbApprove:
		return t.Approve(actor.BranchID, actor.IsAdminBranch)
	case VerbReject:
		return t.Reject(actor.BranchID, actor.IsAdminBranch)
	case VerbCancel:
		return t.Cancel(actor.BranchID, actor.IsAdminBranch)
	}
	return errUnknownVerb(verb)
}
