package trade

import (
	"context"
	"testing"

	"github.com/gadgetstock/backend/internal/domain/audit"
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sellAtShopA(t *testing.T, f *fixture, items ...InvoiceItemInput) *InvoiceResponse {
	t.Helper()
	inv, err := f.invoices.CreateInvoice(context.Background(), f.store.Actor(f.store.ShopA), CreateInvoiceRequest{
		CustomerName: "Dana", Items: items,
	})
	require.NoError(t, err)
	return inv
}

func lineFor(inv *InvoiceResponse, kind trade.ItemKind) uuid.UUID {
	for _, it := range inv.Items {
		if it.Kind == kind {
			return it.ID
		}
	}
	return uuid.Nil
}

func TestCreateReturn_RepairUnit(t *testing.T) {
	f := newFixture(t)
	s := f.store
	phone := s.AddUnit(t, s.ShopA, "356938035643809")
	inv := sellAtShopA(t, f, unitItem(phone.ID, "499"))

	ret, err := f.returns.CreateReturn(context.Background(), s.Actor(s.ShopA), CreateReturnRequest{
		InvoiceID: inv.ID,
		Reason:    "screen flicker",
		Items:     []ReturnItemInput{{InvoiceItemID: lineFor(inv, trade.ItemKindUnit), Resolution: trade.ResolutionRepair}},
	})
	require.NoError(t, err)
	require.Len(t, ret.Items, 1)

	u := s.Unit(t, phone.ID)
	assert.Equal(t, inventory.AvailabilityAvailable, u.Availability)
	assert.Equal(t, s.ShopA.ID, u.BranchID)
	assert.Equal(t, []audit.Action{audit.ActionSold, audit.ActionReturned}, unitActions(t, s, phone.ID))
	assert.Equal(t, 1, f.pub.count(trade.EventTypeReturnCreated))
}

func TestCreateReturn_ExchangeUnit(t *testing.T) {
	f := newFixture(t)
	s := f.store
	ctx := context.Background()
	defective := s.AddUnit(t, s.ShopA, "356938035643809")
	replacement := s.AddUnit(t, s.ShopA, "356938035643817")
	inv := sellAtShopA(t, f, unitItem(defective.ID, "499"))

	_, err := f.returns.CreateReturn(ctx, s.Actor(s.ShopA), CreateReturnRequest{
		InvoiceID: inv.ID,
		Reason:    "dead pixel",
		Items: []ReturnItemInput{{
			InvoiceItemID:     lineFor(inv, trade.ItemKindUnit),
			Resolution:        trade.ResolutionExchange,
			ReplacementUnitID: &replacement.ID,
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, inventory.AvailabilitySold, s.Unit(t, defective.ID).Availability)
	assert.Equal(t, inventory.AvailabilitySold, s.Unit(t, replacement.ID).Availability)
	assert.Equal(t, []audit.Action{audit.ActionSold}, unitActions(t, s, replacement.ID))

	entries, _, err := s.Scope.Repositories().Audit().ListForUnit(ctx, defective.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	details, ok := entries[0].Details.(audit.ReturnedDetails)
	require.True(t, ok, "got %T", entries[0].Details)
	assert.Equal(t, "EXCHANGE", details.Resolution)
	require.NotNil(t, details.ReplacementUnitID)
	assert.Equal(t, replacement.ID, *details.ReplacementUnitID)
	assert.False(t, details.Available)

	got, err := f.invoices.GetInvoice(ctx, s.Actor(s.ShopA), inv.ID)
	require.NoError(t, err)
	assert.True(t, got.Items[0].Returned)
}

func TestCreateReturn_ExchangeNeedsLocalReplacement(t *testing.T) {
	f := newFixture(t)
	s := f.store
	defective := s.AddUnit(t, s.ShopA, "356938035643809")
	remote := s.AddUnit(t, s.ShopB, "356938035643817")
	inv := sellAtShopA(t, f, unitItem(defective.ID, "499"))

	_, err := f.returns.CreateReturn(context.Background(), s.Actor(s.ShopA), CreateReturnRequest{
		InvoiceID: inv.ID,
		Reason:    "dead pixel",
		Items: []ReturnItemInput{{
			InvoiceItemID:     lineFor(inv, trade.ItemKindUnit),
			Resolution:        trade.ResolutionExchange,
			ReplacementUnitID: &remote.ID,
		}},
	})
	assert.ErrorIs(t, err, ErrUnitNotInBranch)
	assert.Equal(t, inventory.AvailabilityAvailable, s.Unit(t, remote.ID).Availability)
	assert.Equal(t, []audit.Action{audit.ActionSold}, unitActions(t, s, defective.ID))
}

func TestCreateReturn_Accessories(t *testing.T) {
	f := newFixture(t)
	s := f.store
	ctx := context.Background()
	s.AddStock(t, s.ShopA, 5)
	inv := sellAtShopA(t, f, accessoryItem(s.Accessory.ID, 3, "10"))
	require.Equal(t, int64(2), s.Quantity(t, s.ShopA))

	_, err := f.returns.CreateReturn(ctx, s.Actor(s.ShopA), CreateReturnRequest{
		InvoiceID: inv.ID,
		Reason:    "swap",
		Items:     []ReturnItemInput{{InvoiceItemID: lineFor(inv, trade.ItemKindAccessory), Resolution: trade.ResolutionExchange, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.Quantity(t, s.ShopA))

	// the line is now returned; a second return of it is refused
	_, err = f.returns.CreateReturn(ctx, s.Actor(s.ShopA), CreateReturnRequest{
		InvoiceID: inv.ID,
		Reason:    "again",
		Items:     []ReturnItemInput{{InvoiceItemID: lineFor(inv, trade.ItemKindAccessory), Resolution: trade.ResolutionRepair}},
	})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, int64(2), s.Quantity(t, s.ShopA))
}

func TestCreateReturn_AccessoryRepairRestocks(t *testing.T) {
	f := newFixture(t)
	s := f.store
	s.AddStock(t, s.ShopA, 3)
	inv := sellAtShopA(t, f, accessoryItem(s.Accessory.ID, 3, "10"))

	_, err := f.returns.CreateReturn(context.Background(), s.Actor(s.ShopA), CreateReturnRequest{
		InvoiceID: inv.ID,
		Reason:    "unopened",
		Items:     []ReturnItemInput{{InvoiceItemID: lineFor(inv, trade.ItemKindAccessory), Resolution: trade.ResolutionRepair}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Quantity(t, s.ShopA))
}

func TestCreateReturn_Rejections(t *testing.T) {
	f := newFixture(t)
	s := f.store
	ctx := context.Background()
	phone := s.AddUnit(t, s.ShopA, "356938035643809")
	inv := sellAtShopA(t, f, unitItem(phone.ID, "499"))
	line := lineFor(inv, trade.ItemKindUnit)

	tests := []struct {
		name   string
		req    CreateReturnRequest
		branch func() uuid.UUID
		want   error
	}{
		{
			name:   "other branch cannot see the invoice",
			req:    CreateReturnRequest{InvoiceID: inv.ID, Reason: "x", Items: []ReturnItemInput{{InvoiceItemID: line, Resolution: trade.ResolutionRepair}}},
			branch: func() uuid.UUID { return s.ShopB.ID },
			want:   ErrInvoiceNotFound,
		},
		{
			name:   "missing reason",
			req:    CreateReturnRequest{InvoiceID: inv.ID, Items: []ReturnItemInput{{InvoiceItemID: line, Resolution: trade.ResolutionRepair}}},
			branch: func() uuid.UUID { return s.ShopA.ID },
			want:   shared.ErrInvalidInput,
		},
		{
			name:   "exchange without replacement",
			req:    CreateReturnRequest{InvoiceID: inv.ID, Reason: "x", Items: []ReturnItemInput{{InvoiceItemID: line, Resolution: trade.ResolutionExchange}}},
			branch: func() uuid.UUID { return s.ShopA.ID },
			want:   shared.ErrInvalidInput,
		},
		{
			name:   "unknown line",
			req:    CreateReturnRequest{InvoiceID: inv.ID, Reason: "x", Items: []ReturnItemInput{{InvoiceItemID: uuid.New(), Resolution: trade.ResolutionRepair}}},
			branch: func() uuid.UUID { return s.ShopA.ID },
			want:   shared.ErrNotFound,
		},
		{
			name:   "no items",
			req:    CreateReturnRequest{InvoiceID: inv.ID, Reason: "x"},
			branch: func() uuid.UUID { return s.ShopA.ID },
			want:   shared.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := s.Actor(s.ShopA)
			actor.BranchID = tt.branch()
			_, err := f.returns.CreateReturn(ctx, actor, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, inventory.AvailabilitySold, s.Unit(t, phone.ID).Availability)
}

func TestGetReturn(t *testing.T) {
	f := newFixture(t)
	s := f.store
	ctx := context.Background()
	phone := s.AddUnit(t, s.ShopA, "356938035643809")
	inv := sellAtShopA(t, f, unitItem(phone.ID, "499"))
	ret, err := f.returns.CreateReturn(ctx, s.Actor(s.ShopA), CreateReturnRequest{
		InvoiceID: inv.ID, Reason: "loose port",
		Items: []ReturnItemInput{{InvoiceItemID: lineFor(inv, trade.ItemKindUnit), Resolution: trade.ResolutionRepair}},
	})
	require.NoError(t, err)

	got, err := f.returns.GetReturn(ctx, s.Actor(s.ShopA), ret.ID)
	require.NoError(t, err)
	assert.Equal(t, "loose port", got.Reason)
	require.Len(t, got.Items, 1)
	assert.Equal(t, trade.ResolutionRepair, got.Items[0].Resolution)

	_, err = f.returns.GetReturn(ctx, s.Actor(s.ShopB), ret.ID)
	assert.ErrorIs(t, err, ErrReturnNotFound)
}
