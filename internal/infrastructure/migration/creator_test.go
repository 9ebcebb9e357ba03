package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"add units", "add_units"},
		{"Add-Accessory_Stock", "add_accessory_stock"},
		{"  audit  log!! ", "audit_log"},
		{"***", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.in), tt.in)
	}
}

func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	now := time.Date(2026, 3, 1, 10, 20, 30, 0, time.UTC)

	mf, err := CreateMigration(dir, "Add invoice payments", "payments table", now)
	require.NoError(t, err)

	assert.Equal(t, "20260301102030", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20260301102030_add_invoice_payments.up.sql"), mf.UpPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- payments table")
	assert.FileExists(t, mf.DownPath)

	_, err = CreateMigration(dir, "Add invoice payments", "", now)
	assert.Error(t, err, "an existing pair is never overwritten")

	_, err = CreateMigration(dir, "!!!", "", now)
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_transfers.up.sql", "000002_transfers.down.sql",
		"000001_init.up.sql", "000001_init.down.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000003_dir.up.sql"), 0o755))

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init", "000002_transfers"}, names)

	names, err = ListMigrations(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
