package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// User is a person who operates the system in one or more branches
type User struct {
	shared.BaseEntity
	Username     string
	DisplayName  string
	PasswordHash string
	Active       bool
	LastLoginAt  *time.Time
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{3,50}$`)

// NewUser creates an active user with a hashed password
func NewUser(username, displayName, password string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Username must be 3-50 letters, digits, '.', '_' or '-'")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Password must be at least 8 characters")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = username
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     username,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		Active:       true,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.UpdatedAt = at
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Membership grants a user the right to act for a branch
type Membership struct {
	UserID    uuid.UUID
	BranchID  uuid.UUID
	CreatedAt time.Time
}
