package models

import (
	"time"

	"github.com/gadgetstock/backend/internal/domain/branch"
	"github.com/gadgetstock/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// BranchModel is the persistence model for Branch.
type BranchModel struct {
	BaseModel
	Name    string `gorm:"type:varchar(100);not null"`
	Slug    string `gorm:"type:varchar(100);not null;uniqueIndex"`
	IsAdmin bool   `gorm:"not null;default:false"`
}

func (BranchModel) TableName() string { return "branches" }

func (m *BranchModel) ToDomain() *branch.Branch {
	return &branch.Branch{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name, Slug: m.Slug, IsAdmin: m.IsAdmin}
}

func BranchModelFromDomain(b *branch.Branch) *BranchModel {
	m := &BranchModel{Name: b.Name, Slug: b.Slug, IsAdmin: b.IsAdmin}
	m.FromDomainBaseEntity(b.BaseEntity)
	return m
}

// UserModel is the persistence model for User.
type UserModel struct {
	BaseModel
	Username     string `gorm:"type:varchar(50);not null;uniqueIndex"`
	DisplayName  string `gorm:"type:varchar(100);not null"`
	PasswordHash string `gorm:"type:varchar(100);not null"`
	Active       bool   `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		DisplayName:  m.DisplayName,
		PasswordHash: m.PasswordHash,
		Active:       m.Active,
		LastLoginAt:  m.LastLoginAt,
	}
}

func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		PasswordHash: u.PasswordHash,
		Active:       u.Active,
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}

// MembershipModel links a user to a branch they may act for.
type MembershipModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	BranchID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"not null"`
}

func (MembershipModel) TableName() string { return "user_branches" }
