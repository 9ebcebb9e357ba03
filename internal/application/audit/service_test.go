package audit

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/audit"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"github.com/gadgetstock/backend/internal/infrastructure/storage"
	"github.com/gadgetstock/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedHistory writes an intake and a transfer request for a unit at ShopA
func seedHistory(t *testing.T, store *testutil.Store) (uuid.UUID, *transfer.Transfer) {
	t.Helper()
	ctx := context.Background()
	repos := store.Scope.Repositories()
	unit := store.AddUnit(t, store.ShopA, "356938035643809")

	created, err := audit.NewEntry(unit.ID, store.User.ID,
		audit.ProductCreatedDetails{Serial: unit.Serial, Condition: string(unit.Condition)},
		audit.WithActorBranch(store.Warehouse.ID))
	require.NoError(t, err)
	created.CreatedAt = time.Now().UTC().Add(-time.Hour)

	tr, err := transfer.NewTransfer(unit.ID, store.ShopA.ID, store.ShopB.ID, store.User.ID, "customer request", "")
	require.NoError(t, err)
	require.NoError(t, repos.Transfers().Save(ctx, tr))
	requested, err := audit.NewEntry(unit.ID, store.User.ID,
		audit.TransferRequestedDetails{Reason: "customer request", Status: "PENDING"},
		audit.WithActorBranch(store.ShopA.ID),
		audit.WithRoute(store.ShopA.ID, store.ShopB.ID),
		audit.WithTransfer(tr.ID))
	require.NoError(t, err)

	require.NoError(t, repos.Audit().Append(ctx, created, requested))
	return unit.ID, tr
}

func TestListForUnit_Enriched(t *testing.T) {
	store := testutil.NewStore(t)
	svc := NewService(store.Scope, nil, nil)
	unitID, tr := seedHistory(t, store)

	page, err := svc.ListForUnit(context.Background(), store.Actor(store.ShopB), unitID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)

	newest := page.Items[0]
	assert.Equal(t, audit.ActionTransferRequested, newest.Action)
	assert.Equal(t, store.User.DisplayName, newest.ActorName)
	require.NotNil(t, newest.FromBranch)
	assert.Equal(t, store.ShopA.Name, newest.FromBranch.Name)
	require.NotNil(t, newest.ToBranch)
	assert.Equal(t, store.ShopB.Name, newest.ToBranch.Name)
	require.NotNil(t, newest.Transfer)
	assert.Equal(t, tr.ID, newest.Transfer.ID)
	assert.Equal(t, "PENDING", newest.Transfer.Status)
	assert.Equal(t, "customer request", newest.Transfer.Reason)
	assert.Nil(t, newest.Invoice)

	oldest := page.Items[1]
	assert.Equal(t, audit.ActionProductCreated, oldest.Action)
	require.NotNil(t, oldest.ActorBranch)
	assert.Equal(t, store.Warehouse.Name, oldest.ActorBranch.Name)
	assert.Nil(t, oldest.Transfer)
}

func TestListForUnit_Errors(t *testing.T) {
	store := testutil.NewStore(t)
	svc := NewService(store.Scope, nil, nil)

	_, err := svc.ListForUnit(context.Background(), store.Actor(store.ShopA), uuid.New(), 1, 20)
	assert.ErrorIs(t, err, ErrUnitNotFound)

	_, err = svc.ListForUnit(context.Background(), access.Actor{}, uuid.New(), 1, 20)
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}

func TestListForUnit_DeletedUnitKeepsHistory(t *testing.T) {
	store := testutil.NewStore(t)
	svc := NewService(store.Scope, nil, nil)
	unitID, _ := seedHistory(t, store)
	require.NoError(t, store.Scope.Repositories().Units().Delete(context.Background(), unitID))

	page, err := svc.ListForUnit(context.Background(), store.Actor(store.Warehouse), unitID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
}

func TestExportForUnit(t *testing.T) {
	store := testutil.NewStore(t)
	objects := storage.NewMemoryObjectStorage()
	svc := NewService(store.Scope, objects, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	unitID, _ := seedHistory(t, store)

	res, err := svc.ExportForUnit(context.Background(), store.Actor(store.ShopA), unitID)
	require.NoError(t, err)
	assert.Equal(t, "audit/"+unitID.String()+"/20260314T093000Z.jsonl", res.Key)
	assert.Equal(t, 2, res.Entries)
	assert.NotEmpty(t, res.URL)

	data, contentType, ok := objects.Get(res.Key)
	require.True(t, ok)
	assert.Equal(t, "application/x-ndjson", contentType)

	var actions []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		var line struct {
			Action string `json:"action"`
		}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		actions = append(actions, line.Action)
	}
	assert.Equal(t, []string{"PRODUCT_CREATED", "TRANSFER_REQUESTED"}, actions)
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestExportForUnit_WithoutStorage(t *testing.T) {
	store := testutil.NewStore(t)
	svc := NewService(store.Scope, nil, nil)
	unitID, _ := seedHistory(t, store)

	_, err := svc.ExportForUnit(context.Background(), store.Actor(store.ShopA), unitID)
	require.Error(t, err)
}
