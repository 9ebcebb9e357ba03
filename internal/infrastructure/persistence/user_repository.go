package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/gadgetstock/backend/internal/domain/identity"
	"github.com/gadgetstock/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var m models.UserModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "User")
	}
	return m.ToDomain(), nil
}

func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var m models.UserModel
	err := r.db.WithContext(ctx).First(&m, "username = ?", strings.ToLower(strings.TrimSpace(username))).Error
	if err != nil {
		return nil, translate(err, "User")
	}
	return m.ToDomain(), nil
}

func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*identity.User, error) {
	out := make(map[uuid.UUID]*identity.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormUserRepository) IsMember(ctx context.Context, userID, branchID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MembershipModel{}).
		Where("user_id = ? AND branch_id = ?", userID, branchID).
		Count(&count).Error
	return count > 0, err
}

// AddMembership is idempotent
func (r *GormUserRepository) AddMembership(ctx context.Context, m identity.Membership) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	row := models.MembershipModel{UserID: m.UserID, BranchID: m.BranchID, CreatedAt: m.CreatedAt}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	return translate(r.db.WithContext(ctx).Save(models.UserModelFromDomain(u)).Error, "User")
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
