//go:build integration

// Package integration runs the persistence layer against a real PostgreSQL started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/branch"
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/infrastructure/migration"
	"github.com/gadgetstock/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// seededWarehouseID is inserted by the seed migration
var seededWarehouseID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// seededAdminID is the administrator inserted by the seed migration
var seededAdminID = uuid.MustParse("00000000-0000-0000-0000-000000000101")

// TestDB is a migrated PostgreSQL database in its own container
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Scope     *persistence.GormTransactionScope
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// NewTestDB starts a fresh container and applies every migration
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("gadgetstock_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, sqlDB := connectToDatabase(t, dsn)

	m, err := migration.New(sqlDB, findMigrationsPath(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up(), "Failed to run migrations")

	testDB := &TestDB{
		DB:        db,
		SqlDB:     sqlDB,
		Scope:     persistence.NewGormTransactionScope(db),
		Container: container,
		DSN:       dsn,
		t:         t,
	}
	t.Cleanup(testDB.Close)
	return testDB
}

// Close closes the connection and terminates the container
func (tdb *TestDB) Close() {
	if tdb.SqlDB != nil {
		_ = tdb.SqlDB.Close()
	}
	if tdb.Container != nil {
		if err := tdb.Container.Terminate(context.Background()); err != nil {
			tdb.t.Logf("Warning: Failed to terminate container: %v", err)
		}
	}
}

// Warehouse loads the seeded admin branch
func (tdb *TestDB) Warehouse() *branch.Branch {
	tdb.t.Helper()
	b, err := tdb.Scope.Repositories().Branches().FindByID(context.Background(), seededWarehouseID)
	require.NoError(tdb.t, err)
	return b
}

// AddShop saves a non-admin branch
func (tdb *TestDB) AddShop(name string) *branch.Branch {
	tdb.t.Helper()
	b, err := branch.NewBranch(name, false)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, tdb.Scope.Repositories().Branches().Save(context.Background(), b))
	return b
}

// AddUnit registers an available unit of a new product type at b
func (tdb *TestDB) AddUnit(b *branch.Branch, serial string) *inventory.Unit {
	tdb.t.Helper()
	ctx := context.Background()
	repos := tdb.Scope.Repositories()

	pt, err := inventory.NewProductType("Phone "+serial[:4], "Acme")
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, repos.Catalog().SaveProductType(ctx, pt))

	u, err := inventory.NewUnit(pt.ID, b.ID, serial, "black", "128GB", inventory.ConditionBrandNew)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, repos.Units().Save(ctx, u))
	u.ClearDomainEvents()
	return u
}

// AddAccessory creates an accessory with qty on hand at b
func (tdb *TestDB) AddAccessory(b *branch.Branch, sku string, qty int64) *inventory.Accessory {
	tdb.t.Helper()
	ctx := context.Background()
	repos := tdb.Scope.Repositories()

	a, err := inventory.NewAccessory("Charger "+sku, sku)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, repos.Catalog().SaveAccessory(ctx, a))
	require.NoError(tdb.t, repos.Stock().Increase(ctx, a.ID, b.ID, qty))
	return a
}

// Actor returns the seeded administrator acting for b
func Actor(b *branch.Branch) access.Actor {
	return access.NewActor(seededAdminID, b.ID, b.IsAdmin)
}

func connectToDatabase(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "Failed to get underlying SQL DB")

	// enough connections for the concurrency tests to actually contend
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, sqlDB
}

// findMigrationsPath walks up from this file to the repository's migrations directory
func findMigrationsPath(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok)

	dir := filepath.Dir(filename)
	for i := 0; i < 5; i++ {
		p := filepath.Join(dir, "migrations")
		if _, err := os.Stat(p); err == nil {
			return p
		}
		dir = filepath.Dir(dir)
	}
	t.Fatal("Could not find migrations directory")
	return ""
}
