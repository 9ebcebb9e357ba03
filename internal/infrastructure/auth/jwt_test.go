package auth

import (
	"context"
	"testing"
	"time"

	"github.com/gadgetstock/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(exp time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough-0000",
		AccessTokenExpiration: exp,
		Issuer:                "gadgetstock-test",
	})
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	userID, branchID := uuid.New(), uuid.New()

	tok, err := svc.Issue(TokenInput{UserID: userID, Username: "ana", BranchID: branchID, IsAdminBranch: true})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)

	claims, err := svc.Validate(tok.AccessToken)
	require.NoError(t, err)
	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, userID, actor.UserID)
	assert.Equal(t, branchID, actor.BranchID)
	assert.True(t, actor.IsAdminBranch)
	assert.Greater(t, claims.RemainingTTL(), 59*time.Minute)
}

func TestJWTService_Validate_Failures(t *testing.T) {
	svc := newTestJWTService(time.Hour)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := newTestJWTService(-time.Minute)
		tok, err := expired.Issue(TokenInput{UserID: uuid.New(), BranchID: uuid.New()})
		require.NoError(t, err)
		_, err = svc.Validate(tok.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret", AccessTokenExpiration: time.Hour, Issuer: "gadgetstock-test"})
		tok, err := other.Issue(TokenInput{UserID: uuid.New(), BranchID: uuid.New()})
		require.NoError(t, err)
		_, err = svc.Validate(tok.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing branch", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "gadgetstock-test",
				Audience:  jwt.ClaimStrings{"gadgetstock-test"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			UserID: uuid.NewString(),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)
		_, err = svc.Validate(signed)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, bl.Revoke(ctx, "jti-2", 0))

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = bl.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "a zero ttl means the token already expired")
}
