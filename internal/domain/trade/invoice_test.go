package trade

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewInvoice(GenerateInvoiceNumber(time.Now()), uuid.New(), uuid.New(), "Ana Pérez", "555-0101")
	require.NoError(t, err)
	return inv
}

func TestGenerateInvoiceNumber(t *testing.T) {
	n := GenerateInvoiceNumber(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(n, "INV-20260115-"))
	assert.Len(t, n, len("INV-20260115-")+6)
}

func TestInvoice_Items(t *testing.T) {
	inv := newTestInvoice(t)
	unitID := uuid.New()

	_, err := inv.AddUnitItem(unitID, ItemKindUnit, decimal.NewFromInt(500))
	require.NoError(t, err)
	_, err = inv.AddUnitItem(uuid.New(), ItemKindFreebie, decimal.NewFromInt(80))
	require.NoError(t, err)
	_, err = inv.AddAccessoryItem(uuid.New(), 2, decimal.NewFromFloat(12.5))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(525).Equal(inv.TotalAmount), "freebie is free: %s", inv.TotalAmount)
	assert.Len(t, inv.UnitIDs(), 2)

	_, err = inv.AddUnitItem(unitID, ItemKindUnit, decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, shared.ErrInvalidInput), "duplicate unit")

	_, err = inv.AddAccessoryItem(uuid.New(), 0, decimal.Zero)
	assert.Error(t, err)
}

func TestInvoice_PaymentLifecycle(t *testing.T) {
	tests := []struct {
		name    string
		initial int64
		want    InvoiceStatus
	}{
		{"no payment", 0, InvoiceStatusPending},
		{"partial", 100, InvoiceStatusPartiallyPaid},
		{"full", 500, InvoiceStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newTestInvoice(t)
			_, err := inv.AddUnitItem(uuid.New(), ItemKindUnit, decimal.NewFromInt(500))
			require.NoError(t, err)
			require.NoError(t, inv.Finalize(decimal.NewFromInt(tt.initial)))
			assert.Equal(t, tt.want, inv.Status)
		})
	}

	t.Run("payments accumulate until paid", func(t *testing.T) {
		inv := newTestInvoice(t)
		_, _ = inv.AddUnitItem(uuid.New(), ItemKindUnit, decimal.NewFromInt(300))
		require.NoError(t, inv.Finalize(decimal.Zero))

		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(100)))
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
		assert.True(t, decimal.NewFromInt(200).Equal(inv.Balance()))

		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(200)))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)

		assert.True(t, errors.Is(inv.RecordPayment(decimal.NewFromInt(1)), shared.ErrInvalidState))
	})

	t.Run("empty invoices cannot be finalized", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.Error(t, inv.Finalize(decimal.Zero))
	})
}

func TestInvoice_Cancel(t *testing.T) {
	inv := newTestInvoice(t)
	_, _ = inv.AddUnitItem(uuid.New(), ItemKindUnit, decimal.NewFromInt(300))
	require.NoError(t, inv.Finalize(decimal.NewFromInt(10)))

	err := inv.Cancel(time.Now())
	assert.EqualError(t, err, "cannot cancel a partially paid invoice")

	inv = newTestInvoice(t)
	_, _ = inv.AddUnitItem(uuid.New(), ItemKindUnit, decimal.NewFromInt(300))
	require.NoError(t, inv.Finalize(decimal.Zero))
	require.NoError(t, inv.Cancel(time.Now()))
	assert.Equal(t, InvoiceStatusCancelled, inv.Status)
	assert.NotNil(t, inv.CancelledAt)
	assert.Error(t, inv.RecordPayment(decimal.NewFromInt(1)))
}
