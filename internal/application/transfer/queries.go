package transfer

import (
	"context"

	appshared "github.com/gadgetstock/backend/internal/application/shared"
	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"github.com/google/uuid"
)

// ListTransfers lists unit transfers relative to the actor's branch, newest first.
// The admin branch with direction "all" sees every transfer.
func (s *Service) ListTransfers(ctx context.Context, actor access.Actor, q transfer.Query) (*shared.Paginated[TransferResponse], error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	page := shared.Filter{Page: q.Page, PageSize: q.PageSize}.Normalize()
	repos := s.scope.Repositories()

	rows, total, err := repos.Transfers().FindBySpec(ctx, q.BuildSpec(actor.BranchID, actor.IsAdminBranch), page.Page, page.PageSize)
	if err != nil {
		return nil, err
	}
	items := make([]TransferResponse, len(rows))
	for i := range rows {
		items[i] = ToTransferResponse(&rows[i])
	}
	if err := s.attachBranchNames(ctx, repos, items); err != nil {
		return nil, err
	}
	result := shared.NewPaginated(items, total, page.Page, page.PageSize)
	return &result, nil
}

// ListAccessoryTransfers is ListTransfers for accessory transfers
func (s *Service) ListAccessoryTransfers(ctx context.Context, actor access.Actor, q transfer.Query) (*shared.Paginated[TransferResponse], error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	page := shared.Filter{Page: q.Page, PageSize: q.PageSize}.Normalize()
	repos := s.scope.Repositories()

	rows, total, err := repos.AccessoryTransfers().FindBySpec(ctx, q.BuildSpec(actor.BranchID, actor.IsAdminBranch), page.Page, page.PageSize)
	if err != nil {
		return nil, err
	}
	items := make([]TransferResponse, len(rows))
	for i := range rows {
		items[i] = ToAccessoryTransferResponse(&rows[i])
	}
	if err := s.attachBranchNames(ctx, repos, items); err != nil {
		return nil, err
	}
	result := shared.NewPaginated(items, total, page.Page, page.PageSize)
	return &result, nil
}

// GetTransfer returns a unit transfer visible to the actor
func (s *Service) GetTransfer(ctx context.Context, actor access.Actor, id uuid.UUID) (*TransferResponse, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	repos := s.scope.Repositories()
	t, err := repos.Transfers().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTransferNotFound)
	}
	if !actor.CanSee(t.FromBranchID, t.ToBranchID) {
		return nil, ErrTransferNotFound
	}
	items := []TransferResponse{ToTransferResponse(t)}
	if err := s.attachBranchNames(ctx, repos, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// GetAccessoryTransfer returns an accessory transfer visible to the actor
func (s *Service) GetAccessoryTransfer(ctx context.Context, actor access.Actor, id uuid.UUID) (*TransferResponse, error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	repos := s.scope.Repositories()
	t, err := repos.AccessoryTransfers().FindByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTransferNotFound)
	}
	if !actor.CanSee(t.FromBranchID, t.ToBranchID) {
		return nil, ErrTransferNotFound
	}
	items := []TransferResponse{ToAccessoryTransferResponse(t)}
	if err := s.attachBranchNames(ctx, repos, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *Service) attachBranchNames(ctx context.Context, repos appshared.Repositories, items []TransferResponse) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, 2*len(items))
	for _, it := range items {
		ids = append(ids, it.FromBranchID, it.ToBranchID)
	}
	branches, err := repos.Branches().FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	withBranchNames(items, branches)
	return nil
}
