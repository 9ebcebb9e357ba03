package transfer

import (
	"context"
	"sync"
	"testing"

	"github.com/gadgetstock/backend/internal/domain/access"
	"github.com/gadgetstock/backend/internal/domain/audit"
	"github.com/gadgetstock/backend/internal/domain/inventory"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/transfer"
	"github.com/gadgetstock/backend/tests/testutil"
	"github.com/google/uuid"
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

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

func newService(t *testing.T) (*Service, *testutil.Store, *recordingPublisher) {
	t.Helper()
	store := testutil.NewStore(t)
	svc := NewService(store.Scope, nil)
	pub := &recordingPublisher{}
	svc.SetEventPublisher(pub)
	return svc, store, pub
}

func auditActions(t *testing.T, store *testutil.Store, unitID uuid.UUID) []audit.Action {
	t.Helper()
	entries, _, err := store.Scope.Repositories().Audit().ListForUnit(context.Background(), unitID, 1, 50)
	require.NoError(t, err)
	out := make([]audit.Action, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e.Action // chronological
	}
	return out
}

func TestCreateAndReceiveTransfer(t *testing.T) {
	svc, store, pub := newService(t)
	ctx := context.Background()
	unit := store.AddUnit(t, store.ShopA, "356938035643809")

	created, err := svc.CreateTransfer(ctx, store.Actor(store.ShopA), CreateTransferRequest{
		UnitID: unit.ID, ToBranchID: store.ShopB.ID, Reason: "restock",
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", created.Status)
	assert.Equal(t, store.ShopA.ID, created.FromBranchID)
	assert.Equal(t, store.ShopB.ID, created.ToBranchID)

	received, err := svc.ReceiveTransfer(ctx, store.Actor(store.ShopB), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", received.Status)
	require.NotNil(t, received.ReceivedByID)
	assert.Equal(t, store.User.ID, *received.ReceivedByID)
	assert.NotNil(t, received.ReceivedAt)

	assert.Equal(t, store.ShopB.ID, store.Unit(t, unit.ID).BranchID)
	assert.Equal(t, []audit.Action{audit.ActionTransferRequested, audit.ActionTransferReceived}, auditActions(t, store, unit.ID))
	assert.Equal(t, []string{transfer.EventTypeTransferRequested, transfer.EventTypeTransferReceived}, pub.types())
}

func TestReceiveTransfer_WrongBranch(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	shopC := store.AddBranch(t, "Shop C", false)
	unit := store.AddUnit(t, store.ShopA, "356938035643809")

	created, err := svc.CreateTransfer(ctx, store.Actor(store.ShopA), CreateTransferRequest{
		UnitID: unit.ID, ToBranchID: store.ShopB.ID, Reason: "restock",
	})
	require.NoError(t, err)

	_, err = svc.ReceiveTransfer(ctx, store.Actor(shopC), created.ID)
	require.Error(t, err)
	assert.EqualError(t, err, "only the destination branch may receive")
	assert.Equal(t, store.ShopA.ID, store.Unit(t, unit.ID).BranchID)

	_, err = svc.ReceiveTransfer(ctx, store.Actor(store.Warehouse), created.ID)
	assert.ErrorIs(t, err, transfer.ErrNotDestination, "the admin branch does not receive on behalf of others")
}

func TestReceiveTransfer_Twice(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	unit := store.AddUnit(t, store.ShopA, "356938035643809")

	created, err := svc.CreateTransfer(ctx, store.Actor(store.ShopA), CreateTransferRequest{
		UnitID: unit.ID, ToBranchID: store.ShopB.ID, Reason: "restock",
	})
	require.NoError(t, err)
	_, err = svc.ReceiveTransfer(ctx, store.Actor(store.ShopB), created.ID)
	require.NoError(t, err)

	_, err = svc.ReceiveTransfer(ctx, store.Actor(store.ShopB), created.ID)
	assert.EqualError(t, err, "Transfer is already received")
	assert.Len(t, auditActions(t, store, unit.ID), 2, "no further audit entry")
	assert.Equal(t, store.ShopB.ID, store.Unit(t, unit.ID).BranchID)
}

func TestReceiveTransfer_TerminalAndConflict(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	unit := store.AddUnit(t, store.ShopA, "356938035643809")

	created, err := svc.CreateTransfer(ctx, store.Actor(store.ShopA), CreateTransferRequest{
		UnitID: unit.ID, ToBranchID: store.ShopB.ID, Reason: "restock",
	})
	require.NoError(t, err)
	_, err = svc.ChangeTransferStatus(ctx, store.Actor(store.ShopA), created.ID, VerbCancel)
	require.NoError(t, err)

	_, err = svc.ReceiveTransfer(ctx, store.Actor(store.ShopB), created.ID)
	assert.EqualError(t, err, "cannot receive a cancelled transfer")

	second, err := svc.CreateTransfer(ctx, store.Actor(store.ShopA), CreateTransferRequest{
		UnitID: unit.ID, ToBranchID: store.ShopB.ID, Reason: "second try",
	})
	require.NoError(t, err)

	// An administrative correction moves the unit while the transfer is pending.
	moved := store.Unit(t, unit.ID)
	require.NoError(t, moved.MoveTo(store.Warehouse.ID))
	require.NoError(t, store.Scope.Repositories().Units().Save(ctx, moved))

	_, err = svc.ReceiveTransfer(ctx, store.Actor(store.ShopB), second.ID)
	assert.ErrorIs(t, err, ErrUnitMoved)
	got, err := svc.GetTransfer(ctx, store.Actor(store.ShopB), second.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", got.Status, "rolled back")
}

func TestCreateTransfer_Validation(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	unit := store.AddUnit(t, store.ShopA, "356938035643809")
	elsewhere := store.AddUnit(t, store.ShopB, "490154203237518")
	sold := store.AddUnit(t, store.ShopA, "353918051234563")
	require.NoError(t, sold.MarkSold())
	require.NoError(t, store.Scope.Repositories().Units().Save(ctx, sold))

	tests := []struct {
		name    string
		actor   access.Actor
		req     CreateTransferRequest
		wantMsg string
	}{
		{"same branch", store.Actor(store.ShopA), CreateTransferRequest{UnitID: unit.ID, ToBranchID: store.ShopA.ID, Reason: "x"}, "Destination branch must be different"},
		{"empty reason", store.Actor(store.ShopA), CreateTransferRequest{UnitID: unit.ID, ToBranchID: store.ShopB.ID, Reason: "  "}, "Reason cannot be empty"},
		{"unknown destination", store.Actor(store.ShopA), CreateTransferRequest{UnitID: unit.ID, ToBranchID: uuid.New(), Reason: "x"}, "Destination branch not found"},
		{"unknown unit", store.Actor(store.ShopA), CreateTransferRequest{UnitID: uuid.New(), ToBranchID: store.ShopB.ID, Reason: "x"}, "Unit not found"},
		{"foreign unit", store.Actor(store.ShopA), CreateTransferRequest{UnitID: elsewhere.ID, ToBranchID: store.ShopB.ID, Reason: "x"}, "Unit does not belong to your branch"},
		{"sold unit", store.Actor(store.ShopA), CreateTransferRequest{UnitID: sold.ID, ToBranchID: store.ShopB.ID, Reason: "x"}, "Unit is not available"},
		{"no identity", access.Actor{}, CreateTransferRequest{UnitID: unit.ID, ToBranchID: store.ShopB.ID, Reason: "x"}, "authentication required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTransfer(ctx, tt.actor, tt.req)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}

	page, err := svc.ListTransfers(ctx, store.Actor(store.Warehouse), transfer.Query{})
	require.NoError(t, err)
	assert.Zero(t, page.Total, "no transfer row was written")
	assert.Empty(t, auditActions(t, store, unit.ID))
}

func TestCreateTransfer_UnitAlreadyInTransit(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	unit := store.AddUnit(t, store.ShopA, "356938035643809")

	_, err := svc.CreateTransfer(ctx, store.Actor(store.ShopA), CreateTransferRequest{UnitID: unit.ID, ToBranchID: store.ShopB.ID, Reason: "x"})
	require.NoError(t, err)
	_, err = svc.CreateTransfer(ctx, store.Actor(store.ShopA), CreateTransferRequest{UnitID: unit.ID, ToBranchID: store.Warehouse.ID, Reason: "x"})
	assert.ErrorIs(t, err, ErrUnitInTransit)
}

func TestAccessoryTransfer_InsufficientStock(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	store.AddStock(t, store.ShopA, 5)

	_, err := svc.CreateAccessoryTransfer(ctx, store.Actor(store.ShopA), CreateAccessoryTransferRequest{
		AccessoryID: store.Accessory.ID, ToBranchID: store.ShopB.ID, Quantity: 10, Reason: "restock",
	})
	assert.EqualError(t, err, "Insufficient accessory stock")
	assert.Equal(t, int64(5), store.Quantity(t, store.ShopA))
	assert.Zero(t, store.Quantity(t, store.ShopB))

	page, err := svc.ListAccessoryTransfers(ctx, store.Actor(store.ShopA), transfer.Query{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestAccessoryTransfer_Receive(t *testing.T) {
	svc, store, pub := newService(t)
	ctx := context.Background()
	store.AddStock(t, store.ShopA, 10)

	created, err := svc.CreateAccessoryTransfer(ctx, store.Actor(store.ShopA), CreateAccessoryTransferRequest{
		AccessoryID: store.Accessory.ID, ToBranchID: store.ShopB.ID, Quantity: 4, Reason: "restock",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), store.Quantity(t, store.ShopA), "stock is not reserved at request time")

	received, err := svc.ReceiveAccessoryTransfer(ctx, store.Actor(store.ShopB), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", received.Status)
	assert.Equal(t, int64(6), store.Quantity(t, store.ShopA))
	assert.Equal(t, int64(4), store.Quantity(t, store.ShopB))
	assert.Contains(t, pub.types(), inventory.EventTypeStockChanged)

	_, err = svc.ReceiveAccessoryTransfer(ctx, store.Actor(store.ShopB), created.ID)
	assert.ErrorIs(t, err, transfer.ErrAlreadyReceived)
	assert.Equal(t, int64(4), store.Quantity(t, store.ShopB))
}

func TestAccessoryTransfer_ReceiveAfterStockDrawnDown(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	store.AddStock(t, store.ShopA, 5)

	first, err := svc.CreateAccessoryTransfer(ctx, store.Actor(store.ShopA), CreateAccessoryTransferRequest{
		AccessoryID: store.Accessory.ID, ToBranchID: store.ShopB.ID, Quantity: 4, Reason: "a",
	})
	require.NoError(t, err)
	second, err := svc.CreateAccessoryTransfer(ctx, store.Actor(store.ShopA), CreateAccessoryTransferRequest{
		AccessoryID: store.Accessory.ID, ToBranchID: store.Warehouse.ID, Quantity: 3, Reason: "b",
	})
	require.NoError(t, err)

	_, err = svc.ReceiveAccessoryTransfer(ctx, store.Actor(store.ShopB), first.ID)
	require.NoError(t, err)

	_, err = svc.ReceiveAccessoryTransfer(ctx, store.Actor(store.Warehouse), second.ID)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, int64(1), store.Quantity(t, store.ShopA))
	assert.Zero(t, store.Quantity(t, store.Warehouse), "no partial write")

	got, err := svc.GetAccessoryTransfer(ctx, store.Actor(store.Warehouse), second.ID)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", got.Status)
}

func TestListTransfers_Direction(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	a1 := store.AddUnit(t, store.ShopA, "111111111111111")
	b1 := store.AddUnit(t, store.ShopB, "222222222222222")

	_, err := svc.CreateTransfer(ctx, store.Actor(store.ShopA), CreateTransferRequest{UnitID: a1.ID, ToBranchID: store.ShopB.ID, Reason: "x"})
	require.NoError(t, err)
	_, err = svc.CreateTransfer(ctx, store.Actor(store.ShopB), CreateTransferRequest{UnitID: b1.ID, ToBranchID: store.Warehouse.ID, Reason: "x"})
	require.NoError(t, err)

	incoming, err := svc.ListTransfers(ctx, store.Actor(store.ShopB), transfer.Query{Direction: transfer.DirectionIncoming})
	require.NoError(t, err)
	require.Equal(t, int64(1), incoming.Total)
	assert.Equal(t, "Shop A", incoming.Items[0].FromBranchName)

	all, err := svc.ListTransfers(ctx, store.Actor(store.ShopB), transfer.Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	fromA, err := svc.ListTransfers(ctx, store.Actor(store.ShopA), transfer.Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), fromA.Total)

	admin, err := svc.ListTransfers(ctx, store.Actor(store.Warehouse), transfer.Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), admin.Total, "the admin branch sees every transfer")

	_, err = svc.GetTransfer(ctx, store.Actor(store.ShopA), incoming.Items[0].ID)
	require.NoError(t, err)
	shopC := store.AddBranch(t, "Shop C", false)
	_, err = svc.GetTransfer(ctx, store.Actor(shopC), incoming.Items[0].ID)
	assert.ErrorIs(t, err, ErrTransferNotFound)
}

func TestChangeTransferStatus(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()
	unit := store.AddUnit(t, store.ShopA, "356938035643809")
	created, err := svc.CreateTransfer(ctx, store.Actor(store.ShopA), CreateTransferRequest{UnitID: unit.ID, ToBranchID: store.ShopB.ID, Reason: "x"})
	require.NoError(t, err)

	_, err = svc.ChangeTransferStatus(ctx, store.Actor(store.ShopA), created.ID, VerbApprove)
	assert.ErrorIs(t, err, shared.NewDomainError(shared.CodeWrongBranch, ""), "the source cannot approve")

	approved, err := svc.ChangeTransferStatus(ctx, store.Actor(store.ShopB), created.ID, VerbApprove)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)

	_, err = svc.ChangeTransferStatus(ctx, store.Actor(store.ShopB), created.ID, VerbApprove)
	assert.EqualError(t, err, "cannot approve a approved transfer")

	received, err := svc.ReceiveTransfer(ctx, store.Actor(store.ShopB), created.ID)
	require.NoError(t, err, "approved transfers can be received")
	assert.Equal(t, "COMPLETED", received.Status)

	_, err = svc.ChangeTransferStatus(ctx, store.Actor(store.Warehouse), created.ID, VerbReject)
	assert.EqualError(t, err, "cannot reject a completed transfer")
}

func TestListQueryInput_Parse(t *testing.T) {
	q, err := ListQueryInput{Direction: "Incoming", Status: "pending", Page: 2}.Parse()
	require.NoError(t, err)
	assert.Equal(t, transfer.DirectionIncoming, q.Direction)
	require.NotNil(t, q.Status)
	assert.Equal(t, transfer.StatusPending, *q.Status)
	assert.Nil(t, q.StatusNot)

	_, err = ListQueryInput{Direction: "sideways"}.Parse()
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	_, err = ListQueryInput{StatusNot: "LOST"}.Parse()
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
