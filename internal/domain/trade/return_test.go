package trade

import (
	"errors"
	"testing"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReturn(t *testing.T) {
	inv := newTestInvoice(t)
	_, _ = inv.AddUnitItem(uuid.New(), ItemKindUnit, decimal.NewFromInt(100))
	require.NoError(t, inv.Finalize(decimal.NewFromInt(100)))

	_, err := NewReturn(inv, uuid.New(), uuid.New(), "broken screen")
	assert.EqualError(t, err, "Invoice belongs to another branch")

	_, err = NewReturn(inv, inv.BranchID, uuid.New(), " ")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	r, err := NewReturn(inv, inv.BranchID, uuid.New(), "broken screen")
	require.NoError(t, err)
	assert.Equal(t, inv.ID, r.InvoiceID)
	assert.Error(t, r.Seal(), "empty returns are rejected")
}

func TestReturn_AddItem(t *testing.T) {
	inv := newTestInvoice(t)
	unitLine, _ := inv.AddUnitItem(uuid.New(), ItemKindUnit, decimal.NewFromInt(100))
	unitLineID := unitLine.ID
	unitID := *unitLine.UnitID
	accLine, _ := inv.AddAccessoryItem(uuid.New(), 3, decimal.NewFromInt(5))
	accLineID := accLine.ID
	require.NoError(t, inv.Finalize(decimal.Zero))

	r, err := NewReturn(inv, inv.BranchID, uuid.New(), "defect")
	require.NoError(t, err)

	t.Run("exchange requires a different replacement", func(t *testing.T) {
		_, err := r.AddItem(inv, unitLineID, ResolutionExchange, nil, 0)
		assert.EqualError(t, err, "Exchange requires a replacement unit")

		_, err = r.AddItem(inv, unitLineID, ResolutionExchange, &unitID, 0)
		assert.EqualError(t, err, "Replacement must be a different unit")
	})

	t.Run("unit exchange", func(t *testing.T) {
		replacement := uuid.New()
		item, err := r.AddItem(inv, unitLineID, ResolutionExchange, &replacement, 0)
		require.NoError(t, err)
		assert.Equal(t, unitID, *item.UnitID)
		assert.Equal(t, replacement, *item.ReplacementUnitID)
		assert.True(t, inv.Item(unitLineID).Returned)
	})

	t.Run("a line is returned at most once", func(t *testing.T) {
		_, err := r.AddItem(inv, unitLineID, ResolutionRepair, nil, 0)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
	})

	t.Run("accessory quantities are bounded", func(t *testing.T) {
		_, err := r.AddItem(inv, accLineID, ResolutionRepair, nil, 4)
		assert.Error(t, err)

		item, err := r.AddItem(inv, accLineID, ResolutionRepair, nil, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), item.Quantity)
	})

	t.Run("unknown lines", func(t *testing.T) {
		_, err := r.AddItem(inv, uuid.New(), ResolutionRepair, nil, 0)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	require.NoError(t, r.Seal())
	assert.Len(t, r.GetDomainEvents(), 1)
}
