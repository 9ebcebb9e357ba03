//go:build integration

package integration

import (
	"context"
	"errors"
	"sync"
	"testing"

	apptrade "github.com/gadgetstock/backend/internal/application/trade"
	apptransfer "github.com/gadgetstock/backend/internal/application/transfer"
	"github.com/gadgetstock/backend/internal/domain/shared"
	"github.com/gadgetstock/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// race runs fn n times in parallel and returns the errors in no particular order
func race(n int, fn func(i int) error) []error {
	var wg sync.WaitGroup
	errs := make([]error, n)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn(i)
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

func codeOf(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func TestConcurrentUnitReceive_ExactlyOnce(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	svc := apptransfer.NewService(db.Scope, zap.NewNop())

	warehouse := db.Warehouse()
	shop := db.AddShop("Shop Concurrent")
	unit := db.AddUnit(warehouse, "356938035643809")

	created, err := svc.CreateTransfer(ctx, Actor(warehouse), apptransfer.CreateTransferRequest{
		UnitID: unit.ID, ToBranchID: shop.ID, Reason: "restock",
	})
	require.NoError(t, err)

	errs := race(8, func(int) error {
		_, err := svc.ReceiveTransfer(ctx, Actor(shop), created.ID)
		return err
	})

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, shared.CodeAlreadyReceived, codeOf(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	moved, err := db.Scope.Repositories().Units().FindByID(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, shop.ID, moved.BranchID)

	var received int64
	require.NoError(t, db.DB.Raw(
		"SELECT COUNT(*) FROM unit_audit_logs WHERE unit_id = ? AND action = 'TRANSFER_RECEIVED'", unit.ID,
	).Scan(&received).Error)
	assert.Equal(t, int64(1), received)
}

func TestConcurrentAccessoryReceive_NeverOversells(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	svc := apptransfer.NewService(db.Scope, zap.NewNop())

	warehouse := db.Warehouse()
	shopA := db.AddShop("Shop North")
	shopB := db.AddShop("Shop South")
	acc := db.AddAccessory(warehouse, "CHG-RACE", 10)

	// Both fit on their own; together they need 14 of 10
	var ids [2]uuid.UUID
	for i, to := range []uuid.UUID{shopA.ID, shopB.ID} {
		tr, err := svc.CreateAccessoryTransfer(ctx, Actor(warehouse), apptransfer.CreateAccessoryTransferRequest{
			AccessoryID: acc.ID, ToBranchID: to, Quantity: 7, Reason: "restock",
		})
		require.NoError(t, err)
		ids[i] = tr.ID
	}

	receivers := [2]uuid.UUID{shopA.ID, shopB.ID}
	errs := race(2, func(i int) error {
		shop, err := db.Scope.Repositories().Branches().FindByID(ctx, receivers[i])
		if err != nil {
			return err
		}
		_, err = svc.ReceiveAccessoryTransfer(ctx, Actor(shop), ids[i])
		return err
	})

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			assert.Equal(t, shared.CodeInsufficientStock, codeOf(err), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, failures)

	stock := db.Scope.Repositories().Stock()
	left, err := stock.GetQuantity(ctx, acc.ID, warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), left)

	a, err := stock.GetQuantity(ctx, acc.ID, shopA.ID)
	require.NoError(t, err)
	b, err := stock.GetQuantity(ctx, acc.ID, shopB.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), a+b)
}

func TestConcurrentInvoices_SellUnitOnce(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	svc := apptrade.NewInvoiceService(db.Scope, zap.NewNop())

	shop := db.AddShop("Shop Counter")
	unit := db.AddUnit(shop, "490154203237518")

	errs := race(4, func(int) error {
		_, err := svc.CreateInvoice(ctx, Actor(shop), apptrade.CreateInvoiceRequest{
			CustomerName: "walk-in",
			Items: []apptrade.InvoiceItemInput{{
				Kind: trade.ItemKindUnit, UnitID: &unit.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(499),
			}},
		})
		return err
	})

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.Equal(t, shared.CodeInvalidState, codeOf(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	var invoices int64
	require.NoError(t, db.DB.Raw("SELECT COUNT(*) FROM invoices WHERE branch_id = ?", shop.ID).Scan(&invoices).Error)
	assert.Equal(t, int64(1), invoices)
}
