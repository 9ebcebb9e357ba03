package identity

import (
	"context"
	"testing"

	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchService_Create(t *testing.T) {
	store := testutil.NewStore(t)
	svc := NewBranchService(store.Scope)
	ctx := context.Background()

	created, err := svc.Create(ctx, store.Actor(store.Warehouse), CreateBranchInput{Name: "São Paulo Norte"})
	require.NoError(t, err)
	assert.Equal(t, "sao-paulo-norte", created.Slug)
	assert.False(t, created.IsAdmin)

	_, err = svc.Create(ctx, store.Actor(store.Warehouse), CreateBranchInput{Name: "Sao Paulo Norte"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	_, err = svc.Create(ctx, store.Actor(store.ShopA), CreateBranchInput{Name: "Elsewhere"})
	assert.ErrorIs(t, err, access.ErrAdminRequired)
}

func TestBranchService_List(t *testing.T) {
	store := testutil.NewStore(t)
	svc := NewBranchService(store.Scope)

	page, err := svc.List(context.Background(), store.Actor(store.ShopA), shared.Filter{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalPages)
}
