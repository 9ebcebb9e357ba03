package identity

import (
	"context"
	"testing"
	"time"

	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/infrastructure/auth"
	"github.com/gadgetstock/backend/internal/infrastructure/config"
	"github.com/gadgetstock/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *testutil.Store, *auth.JWTService, *auth.InMemoryTokenBlacklist) {
	t.Helper()
	store := testutil.NewStore(t)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-that-is-long-enough-32",
		AccessTokenExpiration: time.Hour,
		Issuer:                "gadgetstock-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewAuthService(store.Scope, jwtService, blacklist, nil), store, jwtService, blacklist
}

func TestAuthService_Login(t *testing.T) {
	svc, store, jwtService, _ := newAuthService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, LoginInput{Username: "clerk", Password: testutil.TestPassword, Branch: store.ShopA.Slug})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, store.ShopA.ID, result.Branch.ID)

	claims, err := jwtService.Validate(result.AccessToken)
	require.NoError(t, err)
	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, access.NewActor(store.User.ID, store.ShopA.ID, false), actor)

	reloaded, err := store.Scope.Repositories().Users().FindByID(ctx, store.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastLoginAt)
}

func TestAuthService_Login_AdminBranchClaim(t *testing.T) {
	svc, store, jwtService, _ := newAuthService(t)

	result, err := svc.Login(context.Background(), LoginInput{Username: "clerk", Password: testutil.TestPassword, Branch: store.Warehouse.Slug})
	require.NoError(t, err)
	claims, err := jwtService.Validate(result.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAdminBranch)
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, store, _, _ := newAuthService(t)
	ctx := context.Background()
	outsider := store.AddBranch(t, "Airport", false)

	tests := []struct {
		name  string
		input LoginInput
		want  error
	}{
		{"unknown user", LoginInput{Username: "ghost", Password: testutil.TestPassword, Branch: store.ShopA.Slug}, ErrInvalidCredentials},
		{"wrong password", LoginInput{Username: "clerk", Password: "nope", Branch: store.ShopA.Slug}, ErrInvalidCredentials},
		{"unknown branch", LoginInput{Username: "clerk", Password: testutil.TestPassword, Branch: "mars"}, shared.ErrNotFound},
		{"not a member", LoginInput{Username: "clerk", Password: testutil.TestPassword, Branch: outsider.Slug}, ErrNotMember},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthService_MeAndLogout(t *testing.T) {
	svc, store, _, blacklist := newAuthService(t)
	ctx := context.Background()

	me, err := svc.Me(ctx, store.Actor(store.ShopB))
	require.NoError(t, err)
	assert.Equal(t, "clerk", me.User.Username)
	assert.Equal(t, "Shop B", me.Branch.Name)

	_, err = svc.Me(ctx, access.Actor{BranchID: uuid.New()})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	require.NoError(t, svc.Logout(ctx, "jti-1", time.Minute))
	revoked, err := blacklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}
