// internal/domain/adjustment/service_test.go
package adjustment_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/pos-backend/internal/domain/adjustment"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/infrastructure/persistence/memory"
	"github.com/your-org/pos-backend/internal/pkg/sequence"
)

type adjustmentEnv struct {
	store     *memory.Store
	items     *memory.ItemRepository
	ledger    *inventory.Ledger
	service   *adjustment.Service
	scope     inventory.Scope
	userID    uuid.UUID
	managerID uuid.UUID
}

func newAdjustmentEnv(t *testing.T) *adjustmentEnv {
	t.Helper()
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	movements := memory.NewMovementRepository(store)
	adjustments := memory.NewAdjustmentRepository(store)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ledger := inventory.NewLedger(items, movements, store, logger)
	seq := sequence.NewMemoryGenerator()

	return &adjustmentEnv{
		store:     store,
		items:     items,
		ledger:    ledger,
		service:   adjustment.NewService(adjustments, items, ledger, seq, store, logger),
		scope:     inventory.Scope{TenantID: uuid.New(), OutletID: uuid.New()},
		userID:    uuid.New(),
		managerID: uuid.New(),
	}
}

func (e *adjustmentEnv) createItem(t *testing.T, stock int64, unitCost float64) *inventory.InventoryItem {
	t.Helper()
	item := &inventory.InventoryItem{
		TenantID:     e.scope.TenantID,
		OutletID:     e.scope.OutletID,
		Name:         "Olive Oil",
		SKU:          "OIL-" + uuid.NewString()[:8],
		Category:     inventory.CategoryOther,
		Unit:         inventory.UnitLiter,
		CurrentStock: decimal.NewFromInt(stock),
		UnitCost:     decimal.NewFromFloat(unitCost),
		IsActive:     true,
	}
	require.NoError(t, e.items.Create(context.Background(), item))
	return item
}

func (e *adjustmentEnv) currentStock(t *testing.T, itemID uint) decimal.Decimal {
	t.Helper()
	item, err := e.items.FindByID(context.Background(), e.scope, itemID)
	require.NoError(t, err)
	return item.CurrentStock
}

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestAdjustmentCreateWastageIsPendingOnly(t *testing.T) {
	env := newAdjustmentEnv(t)
	ctx := context.Background()
	item := env.createItem(t, 10, 4)

	adj, err := env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: item.ID,
		Type:            adjustment.TypeWastage,
		Quantity:        decPtr(3),
		Reason:          "spoiled in storage",
	}, env.userID)
	require.NoError(t, err)

	assert.Equal(t, adjustment.StatusPending, adj.Status)
	assert.True(t, adj.PreviousStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, adj.NewStock.Equal(decimal.NewFromInt(7)))
	assert.True(t, adj.Cost.Equal(decimal.NewFromInt(12)), "3 units at 4.00")
	today := time.Now().UTC().Format("20060102")
	assert.Equal(t, fmt.Sprintf("ADJ-%s-0001", today), adj.AdjustmentNumber)

	// Creation alone moves nothing.
	assert.True(t, env.currentStock(t, item.ID).Equal(decimal.NewFromInt(10)))
}

func TestAdjustmentCreateCorrectionRequiresNewStock(t *testing.T) {
	env := newAdjustmentEnv(t)
	ctx := context.Background()
	item := env.createItem(t, 10, 4)

	_, err := env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: item.ID,
		Type:            adjustment.TypeCorrection,
		Reason:          "cycle count",
	}, env.userID)
	var validation *inventory.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "new_stock", validation.Field)

	adj, err := env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: item.ID,
		Type:            adjustment.TypeCorrection,
		NewStock:        decPtr(14),
		Reason:          "cycle count",
	}, env.userID)
	require.NoError(t, err)
	assert.True(t, adj.NewStock.Equal(decimal.NewFromInt(14)))
	assert.True(t, adj.Quantity.Equal(decimal.NewFromInt(4)), "quantity is |14-10|")
}

func TestAdjustmentCreateRejectsNegativeProposal(t *testing.T) {
	env := newAdjustmentEnv(t)
	ctx := context.Background()
	item := env.createItem(t, 5, 4)

	_, err := env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: item.ID,
		Type:            adjustment.TypeTheft,
		Quantity:        decPtr(8),
		Reason:          "missing from shelf",
	}, env.userID)
	var validation *inventory.ValidationError
	assert.ErrorAs(t, err, &validation)

	_, err = env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: item.ID,
		Type:            adjustment.TypeCorrection,
		NewStock:        decPtr(-2),
		Reason:          "cycle count",
	}, env.userID)
	assert.ErrorAs(t, err, &validation)
}

func TestAdjustmentApproveAppliesStoredProposal(t *testing.T) {
	env := newAdjustmentEnv(t)
	ctx := context.Background()
	item := env.createItem(t, 10, 4)

	adj, err := env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: item.ID,
		Type:            adjustment.TypeWastage,
		Quantity:        decPtr(3),
		Reason:          "spoiled in storage",
	}, env.userID)
	require.NoError(t, err)

	approved, err := env.service.Approve(ctx, env.scope, adj.ID, env.managerID)
	require.NoError(t, err)
	assert.Equal(t, adjustment.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, env.managerID, *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)
	assert.True(t, env.currentStock(t, item.ID).Equal(decimal.NewFromInt(7)))
}

// The approver sees a proposed new stock; approval applies exactly that value
// even when stock drifted between creation and approval.
func TestAdjustmentApproveLandsReviewedValueAfterDrift(t *testing.T) {
	env := newAdjustmentEnv(t)
	ctx := context.Background()
	item := env.createItem(t, 10, 4)

	adj, err := env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: item.ID,
		Type:            adjustment.TypeCorrection,
		NewStock:        decPtr(6),
		Reason:          "cycle count",
	}, env.userID)
	require.NoError(t, err)

	// Stock moves while the adjustment waits.
	_, _, err = env.ledger.Record(ctx, env.scope, inventory.RecordInput{
		ItemID:      item.ID,
		Type:        inventory.MovementPurchase,
		Quantity:    decimal.NewFromInt(15),
		Reference:   inventory.ManualRef(),
		PerformedBy: env.userID,
	})
	require.NoError(t, err)
	require.True(t, env.currentStock(t, item.ID).Equal(decimal.NewFromInt(25)))

	_, err = env.service.Approve(ctx, env.scope, adj.ID, env.managerID)
	require.NoError(t, err)
	assert.True(t, env.currentStock(t, item.ID).Equal(decimal.NewFromInt(6)))
}

func TestAdjustmentApproveRequiresPending(t *testing.T) {
	env := newAdjustmentEnv(t)
	ctx := context.Background()
	item := env.createItem(t, 10, 4)

	adj, err := env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: item.ID,
		Type:            adjustment.TypeWastage,
		Quantity:        decPtr(3),
		Reason:          "spoiled in storage",
	}, env.userID)
	require.NoError(t, err)

	_, err = env.service.Approve(ctx, env.scope, adj.ID, env.managerID)
	require.NoError(t, err)

	_, err = env.service.Approve(ctx, env.scope, adj.ID, env.managerID)
	var invalid *inventory.InvalidStateError
	require.ErrorAs(t, err, &invalid)

	// The second attempt must not move stock again.
	assert.True(t, env.currentStock(t, item.ID).Equal(decimal.NewFromInt(7)))
}

func TestAdjustmentReject(t *testing.T) {
	env := newAdjustmentEnv(t)
	ctx := context.Background()
	item := env.createItem(t, 10, 4)

	adj, err := env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: item.ID,
		Type:            adjustment.TypeDamage,
		Quantity:        decPtr(2),
		Reason:          "dropped crate",
	}, env.userID)
	require.NoError(t, err)

	_, err = env.service.Reject(ctx, env.scope, adj.ID, env.managerID, "  ")
	var validation *inventory.ValidationError
	require.ErrorAs(t, err, &validation)

	rejected, err := env.service.Reject(ctx, env.scope, adj.ID, env.managerID, "count disputed")
	require.NoError(t, err)
	assert.Equal(t, adjustment.StatusRejected, rejected.Status)
	assert.Equal(t, "count disputed", rejected.RejectionReason)
	require.NotNil(t, rejected.RejectedBy)
	assert.Equal(t, env.managerID, *rejected.RejectedBy)
	assert.True(t, env.currentStock(t, item.ID).Equal(decimal.NewFromInt(10)))

	_, err = env.service.Approve(ctx, env.scope, adj.ID, env.managerID)
	var invalid *inventory.InvalidStateError
	assert.ErrorAs(t, err, &invalid)
}

func TestAdjustmentUpdatePendingOnly(t *testing.T) {
	env := newAdjustmentEnv(t)
	ctx := context.Background()
	item := env.createItem(t, 10, 4)

	adj, err := env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: item.ID,
		Type:            adjustment.TypeWastage,
		Quantity:        decPtr(3),
		Reason:          "spoiled in storage",
	}, env.userID)
	require.NoError(t, err)

	updated, err := env.service.Update(ctx, env.scope, adj.ID, &adjustment.UpdateRequest{
		Quantity: decPtr(5),
	})
	require.NoError(t, err)
	assert.True(t, updated.Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, updated.NewStock.Equal(decimal.NewFromInt(5)))
	assert.True(t, updated.Cost.Equal(decimal.NewFromInt(20)))

	_, err = env.service.Approve(ctx, env.scope, adj.ID, env.managerID)
	require.NoError(t, err)

	_, err = env.service.Update(ctx, env.scope, adj.ID, &adjustment.UpdateRequest{
		Quantity: decPtr(1),
	})
	var invalid *inventory.InvalidStateError
	assert.ErrorAs(t, err, &invalid)
}

// An update that only touches the reason still refreshes the whole proposal,
// so quantity, previous stock and new stock stay consistent after drift.
func TestAdjustmentUpdateRecomputesProposalAfterDrift(t *testing.T) {
	env := newAdjustmentEnv(t)
	ctx := context.Background()
	item := env.createItem(t, 10, 4)

	adj, err := env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: item.ID,
		Type:            adjustment.TypeCorrection,
		NewStock:        decPtr(6),
		Reason:          "cycle count",
	}, env.userID)
	require.NoError(t, err)
	require.True(t, adj.Quantity.Equal(decimal.NewFromInt(4)))

	// Stock drifts to 25 while the adjustment is pending.
	_, _, err = env.ledger.Record(ctx, env.scope, inventory.RecordInput{
		ItemID:      item.ID,
		Type:        inventory.MovementPurchase,
		Quantity:    decimal.NewFromInt(15),
		Reference:   inventory.ManualRef(),
		PerformedBy: env.userID,
	})
	require.NoError(t, err)

	reason := "cycle count, recounted"
	updated, err := env.service.Update(ctx, env.scope, adj.ID, &adjustment.UpdateRequest{
		Reason: &reason,
	})
	require.NoError(t, err)
	assert.True(t, updated.PreviousStock.Equal(decimal.NewFromInt(25)))
	assert.True(t, updated.NewStock.Equal(decimal.NewFromInt(6)))
	assert.True(t, updated.Quantity.Equal(decimal.NewFromInt(19)), "quantity is |6-25|")
	assert.True(t, updated.Cost.Equal(decimal.NewFromInt(76)), "19 units at 4.00")

	// Loss types rederive the proposed new stock the same way.
	wastage, err := env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: item.ID,
		Type:            adjustment.TypeWastage,
		Quantity:        decPtr(3),
		Reason:          "spoiled",
	}, env.userID)
	require.NoError(t, err)
	require.True(t, wastage.NewStock.Equal(decimal.NewFromInt(22)))

	_, _, err = env.ledger.Record(ctx, env.scope, inventory.RecordInput{
		ItemID:      item.ID,
		Type:        inventory.MovementUsage,
		Quantity:    decimal.NewFromInt(5),
		Reference:   inventory.ManualRef(),
		PerformedBy: env.userID,
	})
	require.NoError(t, err)

	updated, err = env.service.Update(ctx, env.scope, wastage.ID, &adjustment.UpdateRequest{
		Reason: &reason,
	})
	require.NoError(t, err)
	assert.True(t, updated.PreviousStock.Equal(decimal.NewFromInt(20)))
	assert.True(t, updated.Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, updated.NewStock.Equal(decimal.NewFromInt(17)))
}

func TestAdjustmentListFilters(t *testing.T) {
	env := newAdjustmentEnv(t)
	ctx := context.Background()
	first := env.createItem(t, 10, 4)
	second := env.createItem(t, 20, 4)

	a1, err := env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: first.ID,
		Type:            adjustment.TypeWastage,
		Quantity:        decPtr(1),
		Reason:          "spoiled",
	}, env.userID)
	require.NoError(t, err)

	_, err = env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: second.ID,
		Type:            adjustment.TypeExpiry,
		Quantity:        decPtr(2),
		Reason:          "past date",
	}, env.userID)
	require.NoError(t, err)

	_, err = env.service.Approve(ctx, env.scope, a1.ID, env.managerID)
	require.NoError(t, err)

	pending, err := env.service.List(ctx, env.scope, adjustment.Filter{Status: adjustment.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].InventoryItemID)

	byItem, err := env.service.List(ctx, env.scope, adjustment.Filter{ItemID: first.ID})
	require.NoError(t, err)
	require.Len(t, byItem, 1)
	assert.Equal(t, adjustment.StatusApproved, byItem[0].Status)
}

func TestAdjustmentScopeIsolation(t *testing.T) {
	env := newAdjustmentEnv(t)
	ctx := context.Background()
	item := env.createItem(t, 10, 4)

	adj, err := env.service.Create(ctx, env.scope, &adjustment.CreateRequest{
		InventoryItemID: item.ID,
		Type:            adjustment.TypeWastage,
		Quantity:        decPtr(1),
		Reason:          "spoiled",
	}, env.userID)
	require.NoError(t, err)

	otherScope := inventory.Scope{TenantID: uuid.New(), OutletID: uuid.New()}
	_, err = env.service.Get(ctx, otherScope, adj.ID)
	var notFound *inventory.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = env.service.Approve(ctx, otherScope, adj.ID, env.managerID)
	assert.ErrorAs(t, err, &notFound)
}
