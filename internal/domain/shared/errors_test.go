package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("specific message matches generic sentinel by code", func(t *testing.T) {
		err := NotFound("Transfer")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Equal(t, "Transfer not found", err.Error())
	})

	t.Run("wrapped errors still match", func(t *testing.T) {
		err := fmt.Errorf("receive: %w", NewDomainError(CodeInsufficientStock, "Insufficient accessory stock"))
		assert.True(t, errors.Is(err, ErrInsufficientStock))
		assert.False(t, errors.Is(err, ErrNotFound))
	})

	t.Run("non domain errors do not match", func(t *testing.T) {
		assert.False(t, errors.Is(errors.New("boom"), ErrNotFound))
	})
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 1000}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, MaxPageSize, f.PageSize)
	assert.Equal(t, 0, f.Offset())

	f = Filter{Page: 3, PageSize: 10}.Normalize()
	assert.Equal(t, 20, f.Offset())
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2}, 21, 1, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(21), p.Total)

	empty := NewPaginated[int](nil, 0, 1, 10)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
}
