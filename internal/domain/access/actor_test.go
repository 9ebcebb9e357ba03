package access

import (
	"errors"
	"testing"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequire(t *testing.T) {
	user := uuid.New()
	branch := uuid.New()

	tests := []struct {
		name    string
		actor   Actor
		caps    []Capability
		wantErr error
	}{
		{"anonymous", Actor{}, nil, ErrUnauthenticated},
		{"missing branch", Actor{UserID: user}, nil, ErrNoActiveBranch},
		{"retail branch", NewActor(user, branch, false), []Capability{CapAuthenticated}, nil},
		{"retail branch needs admin", NewActor(user, branch, false), []Capability{CapAdminBranch}, ErrAdminRequired},
		{"admin branch", NewActor(user, branch, true), []Capability{CapAdminBranch}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Require(tt.actor, tt.caps...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantErr, err)
		})
	}

	t.Run("unknown capability is forbidden", func(t *testing.T) {
		err := Require(NewActor(user, branch, true), Capability("nope"))
		assert.True(t, errors.Is(err, shared.ErrForbidden))
	})
}

func TestActor_CanSee(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	retail := NewActor(uuid.New(), a, false)
	assert.True(t, retail.CanSee(b, a))
	assert.False(t, retail.CanSee(b))

	admin := NewActor(uuid.New(), uuid.New(), true)
	assert.True(t, admin.CanSee(a))
}
