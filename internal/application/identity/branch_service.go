package identity

import (
	"context"

	appshared "github.com/gadgetstock/backend/internal/application/shared"
	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/branch"
	"github.com/gadgetstock/backend/internal/domain/shared"
)

// BranchService manages branches
type BranchService struct {
	scope appshared.TransactionScope
}

// NewBranchService creates a new BranchService
func NewBranchService(scope appshared.TransactionScope) *BranchService {
	return &BranchService{scope: scope}
}

// Create adds a regular branch. Only the admin branch may create branches.
func (s *BranchService) Create(ctx context.Context, actor access.Actor, input CreateBranchInput) (*BranchResponse, error) {
	if err := access.Require(actor, access.CapAdminBranch); err != nil {
		return nil, err
	}
	b, err := branch.NewBranch(input.Name, false)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos appshared.Repositories) error {
		exists, err := repos.Branches().ExistsBySlug(ctx, b.Slug)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError(shared.CodeAlreadyExists, "Branch "+b.Name+" already exists")
		}
		return repos.Branches().Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	resp := ToBranchResponse(b)
	return &resp, nil
}

// List returns branches; every authenticated user needs them to pick transfer destinations
func (s *BranchService) List(ctx context.Context, actor access.Actor, filter shared.Filter) (*shared.Paginated[BranchResponse], error) {
	if err := access.Require(actor, access.CapAuthenticated); err != nil {
		return nil, err
	}
	filter = filter.Normalize()
	branches, total, err := s.scope.Repositories().Branches().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]BranchResponse, len(branches))
	for i := range branches {
		items[i] = ToBranchResponse(&branches[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
