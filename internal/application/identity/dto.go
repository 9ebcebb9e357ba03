package identity

import (
	"time"

	"github.com/gadgetstock/backend/internal/domain/branch"
	"github.com/gadgetstock/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains the credentials and the branch the user wants to act for
type LoginInput struct {
	Username string
	Password string
	Branch   string // branch slug
}

// UserInfo is the public view of a user
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// BranchResponse is the public view of a branch
type BranchResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResult contains the issued access token and the resolved actor
type LoginResult struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresAt   time.Time      `json:"expires_at"`
	User        UserInfo       `json:"user"`
	Branch      BranchResponse `json:"branch"`
}

// MeResult describes the caller
type MeResult struct {
	User   UserInfo       `json:"user"`
	Branch BranchResponse `json:"branch"`
}

// CreateBranchInput contains the fields of a new branch
type CreateBranchInput struct {
	Name string
}

// ToUserInfo converts a domain user
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		LastLoginAt: u.LastLoginAt,
	}
}

// ToBranchResponse converts a domain branch
func ToBranchResponse(b *branch.Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Slug:      b.Slug,
		IsAdmin:   b.IsAdmin,
		CreatedAt: b.CreatedAt,
	}
}
