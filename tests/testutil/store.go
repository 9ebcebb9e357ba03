package testutil

import (
	"context"
	"testing"

	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/branch"
	"github.com/gadgetstock/backend/internal/domain/identity"
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the password of the seeded user
const TestPassword = "correct-horse-42"

// Store is an in-memory SQLite database seeded with a warehouse (admin branch),
// two shops, one user who belongs to all three, a product type and an accessory.
type Store struct {
	DB          *gorm.DB
	Scope       *persistence.GormTransactionScope
	Warehouse   *branch.Branch
	ShopA       *branch.Branch
	ShopB       *branch.Branch
	User        *identity.User
	ProductType *inventory.ProductType
	Accessory   *inventory.Accessory
}

// NewStore creates and seeds a fresh store
func NewStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	db, err := persistence.NewSQLiteDatabase(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := &Store{DB: db.DB, Scope: persistence.NewGormTransactionScope(db.DB)}
	repos := s.Scope.Repositories()

	s.Warehouse = s.AddBranch(t, "Warehouse", true)
	s.ShopA = s.AddBranch(t, "Shop A", false)
	s.ShopB = s.AddBranch(t, "Shop B", false)

	// bcrypt.MinCost keeps the fixture fast; VerifyPassword accepts any cost
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)
	s.User = &identity.User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     "clerk",
		DisplayName:  "Counter Clerk",
		PasswordHash: string(hash),
		Active:       true,
	}
	require.NoError(t, repos.Users().Save(ctx, s.User))
	for _, b := range []*branch.Branch{s.Warehouse, s.ShopA, s.ShopB} {
		require.NoError(t, repos.Users().AddMembership(ctx, identity.Membership{UserID: s.User.ID, BranchID: b.ID}))
	}

	s.ProductType, err = inventory.NewProductType("Phone X 128GB", "Acme")
	require.NoError(t, err)
	require.NoError(t, repos.Catalog().SaveProductType(ctx, s.ProductType))
	s.Accessory, err = inventory.NewAccessory("USB-C charger", "CHG-USBC")
	require.NoError(t, err)
	require.NoError(t, repos.Catalog().SaveAccessory(ctx, s.Accessory))

	return s
}

// AddBranch saves a new branch
func (s *Store) AddBranch(t *testing.T, name string, isAdmin bool) *branch.Branch {
	t.Helper()
	b, err := branch.NewBranch(name, isAdmin)
	require.NoError(t, err)
	require.NoError(t, s.Scope.Repositories().Branches().Save(context.Background(), b))
	return b
}

// Actor returns the seeded user acting for b
func (s *Store) Actor(b *branch.Branch) access.Actor {
	return access.NewActor(s.User.ID, b.ID, b.IsAdmin)
}

// AddUnit registers an available unit at b
func (s *Store) AddUnit(t *testing.T, b *branch.Branch, serial string) *inventory.Unit {
	t.Helper()
	u, err := inventory.NewUnit(s.ProductType.ID, b.ID, serial, "black", "128GB", inventory.ConditionBrandNew)
	require.NoError(t, err)
	require.NoError(t, s.Scope.Repositories().Units().Save(context.Background(), u))
	u.ClearDomainEvents()
	return u
}

// AddStock increases the seeded accessory at b
func (s *Store) AddStock(t *testing.T, b *branch.Branch, qty int64) {
	t.Helper()
	require.NoError(t, s.Scope.Repositories().Stock().Increase(context.Background(), s.Accessory.ID, b.ID, qty))
}

// Quantity reads the seeded accessory at b
func (s *Store) Quantity(t *testing.T, b *branch.Branch) int64 {
	t.Helper()
	q, err := s.Scope.Repositories().Stock().GetQuantity(context.Background(), s.Accessory.ID, b.ID)
	require.NoError(t, err)
	return q
}

// Unit reloads a unit
func (s *Store) Unit(t *testing.T, id uuid.UUID) *inventory.Unit {
	t.Helper()
	u, err := s.Scope.Repositories().Units().FindByID(context.Background(), id)
	require.NoError(t, err)
	return u
}
