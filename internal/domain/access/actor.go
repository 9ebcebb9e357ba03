// Package access models the caller of a service operation: who they are, which
// branch they are acting for, and whether that branch is the administrative
// (warehouse) branch. Every application service receives an Actor and checks
// the capabilities it needs through Require before touching the store.
package access

import (
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Actor is the resolved request context
type Actor struct {
	UserID        uuid.UUID
	BranchID      uuid.UUID
	IsAdminBranch bool
}

// NewActor creates an actor for a user acting in a branch
func NewActor(userID, branchID uuid.UUID, isAdminBranch bool) Actor {
	return Actor{UserID: userID, BranchID: branchID, IsAdminBranch: isAdminBranch}
}

// IsAuthenticated reports whether a user identity is present
func (a Actor) IsAuthenticated() bool {
	return a.UserID != uuid.Nil
}

// HasBranch reports whether an active branch is present
func (a Actor) HasBranch() bool {
	return a.BranchID != uuid.Nil
}

// CanSee reports whether the actor may read a record that involves the given branches.
// The admin branch sees everything.
func (a Actor) CanSee(branchIDs ...uuid.UUID) bool {
	if a.IsAdminBranch {
		return true
	}
	for _, id := range branchIDs {
		if id == a.BranchID {
			return true
		}
	}
	return false
}

// Capability is a named requirement evaluated against an Actor
type Capability string

const (
	// CapAuthenticated requires a user identity and an active branch
	CapAuthenticated Capability = "authenticated"
	// CapAdminBranch requires the active branch to be the administrative branch
	CapAdminBranch Capability = "admin_branch"
)

// Errors returned by Require
var (
	ErrUnauthenticated = shared.NewDomainError(shared.CodeUnauthorized, "authentication required")
	ErrNoActiveBranch  = shared.NewDomainError(shared.CodeForbidden, "active branch is required")
	ErrAdminRequired   = shared.NewDomainError(shared.CodeForbidden, "this action requires the admin branch")
)

// Require checks every capability against the actor and returns the first failure.
// Identity and branch presence are always checked, whatever capabilities are listed.
func Require(a Actor, caps ...Capability) error {
	if !a.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if !a.HasBranch() {
		return ErrNoActiveBranch
	}
	for _, c := range caps {
		switch c {
		case CapAuthenticated:
		case CapAdminBranch:
			if !a.IsAdminBranch {
				return ErrAdminRequired
			}
		default:
			return shared.NewDomainError(shared.CodeForbidden, "unknown capability: "+string(c))
		}
	}
	return nil
}
