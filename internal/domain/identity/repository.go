package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists users and their branch memberships
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*User, error)
	IsMember(ctx context.Context, userID, branchID uuid.UUID) (bool, error)
	AddMembership(ctx context.Context, m Membership) error
	Save(ctx context.Context, u *User) error
}
