//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/gadgetstock/backend/internal/application/identity"
	"github.com/gadgetstock/backend/internal/infrastructure/auth"
	"github.com/gadgetstock/backend/internal/infrastructure/config"
	"github.com/gadgetstock/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func tableExists(t *testing.T, db *TestDB, name string) bool {
	t.Helper()
	var n int64
	require.NoError(t, db.DB.Raw(
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'public' AND table_name = ?", name,
	).Scan(&n).Error)
	return n == 1
}

func TestMigrations_DownAndUpAgain(t *testing.T) {
	db := NewTestDB(t)
	m, err := migration.New(db.SqlDB, findMigrationsPath(t), zap.NewNop())
	require.NoError(t, err)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(6), version)
	assert.False(t, dirty)
	assert.True(t, tableExists(t, db, "unit_audit_logs"))

	// Rolling back the audit table and the seed leaves trade in place
	require.NoError(t, m.Steps(-2))
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(4), version)
	assert.False(t, tableExists(t, db, "unit_audit_logs"))
	assert.True(t, tableExists(t, db, "invoices"))

	require.NoError(t, m.Down())
	for _, table := range []string{"branches", "units", "transfers", "invoices"} {
		assert.False(t, tableExists(t, db, table), table)
	}

	require.NoError(t, m.Up())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(6), version)
	assert.Equal(t, "warehouse", db.Warehouse().Slug)
}

func TestSeededAdmin_CanLogIntoWarehouse(t *testing.T) {
	db := NewTestDB(t)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "integration-secret-with-enough-length",
		AccessTokenExpiration: time.Hour,
		Issuer:                "gadgetstock-test",
	})
	svc := identity.NewAuthService(db.Scope, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())

	// pgcrypto's bf hash must verify with golang.org/x/crypto/bcrypt
	res, err := svc.Login(context.Background(), identity.LoginInput{
		Username: "admin", Password: "ChangeMe123!", Branch: "warehouse",
	})
	require.NoError(t, err)
	assert.Equal(t, seededWarehouseID, res.Branch.ID)
	assert.True(t, res.Branch.IsAdmin)

	claims, err := jwtService.Validate(res.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAdminBranch)
}
