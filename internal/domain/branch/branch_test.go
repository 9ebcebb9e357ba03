package branch

import (
	"errors"
	"testing"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Main Warehouse":      "main-warehouse",
		"  Córdoba Centro  ":  "cordoba-centro",
		"São Paulo / Mall #2": "sao-paulo-mall-2",
		"---":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestNewBranch(t *testing.T) {
	b, err := NewBranch("Downtown", false)
	require.NoError(t, err)
	assert.Equal(t, "downtown", b.Slug)
	assert.False(t, b.IsAdmin)
	assert.NotEqual(t, b.ID.String(), "")

	_, err = NewBranch("   ", false)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = NewBranch("!!!", true)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}
