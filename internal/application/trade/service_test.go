package trade

import (
	"context"
	"sync"
	"testing"

	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/audit"
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/gadgetstock/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

type fixture struct {
	store    *testutil.Store
	invoices *InvoiceService
	returns  *ReturnService
	pub      *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewStore(t)
	pub := &recordingPublisher{}
	f := &fixture{
		store:    store,
		invoices: NewInvoiceService(store.Scope, nil),
		returns:  NewReturnService(store.Scope, nil),
		pub:      pub,
	}
	f.invoices.SetEventPublisher(pub)
	f.returns.SetEventPublisher(pub)
	return f
}

func unitItem(id uuid.UUID, price string) InvoiceItemInput {
	return InvoiceItemInput{Kind: trade.ItemKindUnit, UnitID: &id, UnitPrice: decimal.RequireFromString(price)}
}

func accessoryItem(id uuid.UUID, qty int64, price string) InvoiceItemInput {
	return InvoiceItemInput{Kind: trade.ItemKindAccessory, AccessoryID: &id, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func unitActions(t *testing.T, store *testutil.Store, unitID uuid.UUID) []audit.Action {
	t.Helper()
	entries, _, err := store.Scope.Repositories().Audit().ListForUnit(context.Background(), unitID, 1, 50)
	require.NoError(t, err)
	out := make([]audit.Action, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e.Action
	}
	return out
}

func TestCreateInvoice_SellsUnitsAndAccessories(t *testing.T) {
	f := newFixture(t)
	s := f.store
	ctx := context.Background()
	phone := s.AddUnit(t, s.ShopA, "356938035643809")
	gift := s.AddUnit(t, s.ShopA, "356938035643817")
	s.AddStock(t, s.ShopA, 5)

	inv, err := f.invoices.CreateInvoice(ctx, s.Actor(s.ShopA), CreateInvoiceRequest{
		CustomerName: "Dana",
		Items: []InvoiceItemInput{
			unitItem(phone.ID, "499.00"),
			{Kind: trade.ItemKindFreebie, UnitID: &gift.ID, UnitPrice: decimal.NewFromInt(99)},
			accessoryItem(s.Accessory.ID, 2, "15.50"),
		},
		InitialPayment: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Regexp(t, `^INV-\d{8}-[0-9A-F]{6}$`, inv.Number)
	assert.True(t, decimal.RequireFromString("530").Equal(inv.TotalAmount), inv.TotalAmount.String())
	assert.Equal(t, trade.InvoiceStatusPartiallyPaid, inv.Status)

	assert.Equal(t, inventory.AvailabilitySold, s.Unit(t, phone.ID).Availability)
	assert.Equal(t, inventory.AvailabilitySold, s.Unit(t, gift.ID).Availability)
	assert.Equal(t, int64(3), s.Quantity(t, s.ShopA))
	assert.Equal(t, []audit.Action{audit.ActionSold}, unitActions(t, s, phone.ID))

	assert.Equal(t, 1, f.pub.count(trade.EventTypeInvoiceCreated))
	assert.Equal(t, 2, f.pub.count(inventory.EventTypeUnitSold))
	assert.Equal(t, 1, f.pub.count(inventory.EventTypeStockChanged))
}

func TestCreateInvoice_InitialStatus(t *testing.T) {
	tests := []struct {
		name    string
		payment string
		want    trade.InvoiceStatus
	}{
		{"no payment", "0", trade.InvoiceStatusPending},
		{"partial", "10", trade.InvoiceStatusPartiallyPaid},
		{"exact", "100", trade.InvoiceStatusPaid},
		{"over", "120", trade.InvoiceStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.AddStock(t, f.store.ShopA, 1)
			inv, err := f.invoices.CreateInvoice(context.Background(), f.store.Actor(f.store.ShopA), CreateInvoiceRequest{
				CustomerName:   "Dana",
				Items:          []InvoiceItemInput{accessoryItem(f.store.Accessory.ID, 1, "100")},
				InitialPayment: decimal.RequireFromString(tt.payment),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, inv.Status)
		})
	}
}

func TestCreateInvoice_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	s := f.store
	phone := s.AddUnit(t, s.ShopA, "356938035643809")
	s.AddStock(t, s.ShopA, 1)

	_, err := f.invoices.CreateInvoice(context.Background(), s.Actor(s.ShopA), CreateInvoiceRequest{
		CustomerName: "Dana",
		Items:        []InvoiceItemInput{unitItem(phone.ID, "499"), accessoryItem(s.Accessory.ID, 2, "15")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)

	assert.Equal(t, inventory.AvailabilityAvailable, s.Unit(t, phone.ID).Availability)
	assert.Equal(t, int64(1), s.Quantity(t, s.ShopA))
	assert.Empty(t, unitActions(t, s, phone.ID))
	assert.Zero(t, f.pub.count(trade.EventTypeInvoiceCreated))
}

func TestCreateInvoice_Rejections(t *testing.T) {
	f := newFixture(t)
	s := f.store
	ctx := context.Background()
	elsewhere := s.AddUnit(t, s.ShopB, "356938035643809")
	mine := s.AddUnit(t, s.ShopA, "356938035643817")

	_, err := f.invoices.CreateInvoice(ctx, s.Actor(s.ShopA), CreateInvoiceRequest{
		CustomerName: "Dana", Items: []InvoiceItemInput{unitItem(elsewhere.ID, "1")},
	})
	assert.ErrorIs(t, err, ErrUnitNotInBranch)

	_, err = f.invoices.CreateInvoice(ctx, s.Actor(s.ShopA), CreateInvoiceRequest{
		CustomerName: "Dana", Items: []InvoiceItemInput{unitItem(mine.ID, "1"), unitItem(mine.ID, "1")},
	})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = f.invoices.CreateInvoice(ctx, s.Actor(s.ShopA), CreateInvoiceRequest{CustomerName: "Dana"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = f.invoices.CreateInvoice(ctx, s.Actor(s.ShopA), CreateInvoiceRequest{
		CustomerName: "Dana", Items: []InvoiceItemInput{unitItem(mine.ID, "1")},
	})
	require.NoError(t, err)
	_, err = f.invoices.CreateInvoice(ctx, s.Actor(s.ShopA), CreateInvoiceRequest{
		CustomerName: "Eli", Items: []InvoiceItemInput{unitItem(mine.ID, "1")},
	})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = f.invoices.CreateInvoice(ctx, access.Actor{}, CreateInvoiceRequest{CustomerName: "Dana"})
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}

func TestRecordPayment(t *testing.T) {
	f := newFixture(t)
	s := f.store
	ctx := context.Background()
	s.AddStock(t, s.ShopA, 1)
	inv, err := f.invoices.CreateInvoice(ctx, s.Actor(s.ShopA), CreateInvoiceRequest{
		CustomerName: "Dana", Items: []InvoiceItemInput{accessoryItem(s.Accessory.ID, 1, "100")},
	})
	require.NoError(t, err)

	paid, err := f.invoices.RecordPayment(ctx, s.Actor(s.ShopA), inv.ID, decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.Equal(t, trade.InvoiceStatusPartiallyPaid, paid.Status)
	assert.True(t, decimal.NewFromInt(60).Equal(paid.Balance))

	paid, err = f.invoices.RecordPayment(ctx, s.Actor(s.ShopA), inv.ID, decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.Equal(t, trade.InvoiceStatusPaid, paid.Status)

	_, err = f.invoices.RecordPayment(ctx, s.Actor(s.ShopA), inv.ID, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = f.invoices.RecordPayment(ctx, s.Actor(s.ShopB), inv.ID, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestCancelInvoice_RestoresStock(t *testing.T) {
	f := newFixture(t)
	s := f.store
	ctx := context.Background()
	phone := s.AddUnit(t, s.ShopA, "356938035643809")
	s.AddStock(t, s.ShopA, 4)
	inv, err := f.invoices.CreateInvoice(ctx, s.Actor(s.ShopA), CreateInvoiceRequest{
		CustomerName: "Dana",
		Items:        []InvoiceItemInput{unitItem(phone.ID, "499"), accessoryItem(s.Accessory.ID, 3, "10")},
	})
	require.NoError(t, err)

	cancelled, err := f.invoices.CancelInvoice(ctx, s.Actor(s.ShopA), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.InvoiceStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	assert.Equal(t, inventory.AvailabilityAvailable, s.Unit(t, phone.ID).Availability)
	assert.Equal(t, int64(4), s.Quantity(t, s.ShopA))
	assert.Equal(t, []audit.Action{audit.ActionSold, audit.ActionReturned}, unitActions(t, s, phone.ID))

	_, err = f.invoices.CancelInvoice(ctx, s.Actor(s.ShopA), inv.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestCancelInvoice_WithPaymentFails(t *testing.T) {
	f := newFixture(t)
	s := f.store
	ctx := context.Background()
	s.AddStock(t, s.ShopA, 1)
	inv, err := f.invoices.CreateInvoice(ctx, s.Actor(s.ShopA), CreateInvoiceRequest{
		CustomerName:   "Dana",
		Items:          []InvoiceItemInput{accessoryItem(s.Accessory.ID, 1, "100")},
		InitialPayment: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	_, err = f.invoices.CancelInvoice(ctx, s.Actor(s.ShopA), inv.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, int64(0), s.Quantity(t, s.ShopA))
}

func TestListAndGetInvoices_Scoping(t *testing.T) {
	f := newFixture(t)
	s := f.store
	ctx := context.Background()
	s.AddStock(t, s.ShopA, 5)
	s.AddStock(t, s.ShopB, 5)
	sell := func(b *testutil.Store, actor access.Actor) *InvoiceResponse {
		inv, err := f.invoices.CreateInvoice(ctx, actor, CreateInvoiceRequest{
			CustomerName: "Dana", Items: []InvoiceItemInput{accessoryItem(b.Accessory.ID, 1, "10")},
		})
		require.NoError(t, err)
		return inv
	}
	invA := sell(s, s.Actor(s.ShopA))
	sell(s, s.Actor(s.ShopA))
	sell(s, s.Actor(s.ShopB))

	page, err := f.invoices.ListInvoices(ctx, s.Actor(s.ShopA), ListInvoicesQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	all, err := f.invoices.ListInvoices(ctx, s.Actor(s.Warehouse), ListInvoicesQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	_, err = f.invoices.GetInvoice(ctx, s.Actor(s.ShopB), invA.ID)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
	got, err := f.invoices.GetInvoice(ctx, s.Actor(s.Warehouse), invA.ID)
	require.NoError(t, err)
	assert.Equal(t, invA.Number, got.Number)
}
