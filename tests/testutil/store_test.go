package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStore(t *testing.T) {
	s := NewStore(t)

	assert.True(t, s.Actor(s.Warehouse).IsAdminBranch)
	assert.False(t, s.Actor(s.ShopA).IsAdminBranch)
	assert.True(t, s.User.VerifyPassword(TestPassword))

	s.AddStock(t, s.ShopA, 4)
	assert.Equal(t, int64(4), s.Quantity(t, s.ShopA))
	assert.Zero(t, s.Quantity(t, s.ShopB))

	u := s.AddUnit(t, s.ShopA, "490154203237518")
	assert.Equal(t, s.ShopA.ID, s.Unit(t, u.ID).BranchID)
}
