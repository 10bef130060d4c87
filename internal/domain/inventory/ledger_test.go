// internal/domain/inventory/ledger_test.go
package inventory_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/infrastructure/persistence/memory"
)

type ledgerEnv struct {
	store     *memory.Store
	items     *memory.ItemRepository
	movements *memory.MovementRepository
	ledger    *inventory.Ledger
	scope     inventory.Scope
	userID    uuid.UUID
}

func newLedgerEnv(t *testing.T) *ledgerEnv {
	t.Helper()
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	movements := memory.NewMovementRepository(store)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &ledgerEnv{
		store:     store,
		items:     items,
		movements: movements,
		ledger:    inventory.NewLedger(items, movements, store, logger),
		scope: inventory.Scope{
			TenantID: uuid.New(),
			OutletID: uuid.New(),
		},
		userID: uuid.New(),
	}
}

func (e *ledgerEnv) createItem(t *testing.T, stock int64) *inventory.InventoryItem {
	t.Helper()
	item := &inventory.InventoryItem{
		TenantID:     e.scope.TenantID,
		OutletID:     e.scope.OutletID,
		Name:         "Tomatoes",
		SKU:          "TOMATO-" + uuid.NewString()[:8],
		Category:     inventory.CategoryVegetables,
		Unit:         inventory.UnitKilogram,
		CurrentStock: decimal.NewFromInt(stock),
		UnitCost:     decimal.NewFromFloat(2.5),
		IsActive:     true,
	}
	require.NoError(t, e.items.Create(context.Background(), item))
	return item
}

func TestLedgerRecordPurchaseIncreasesStock(t *testing.T) {
	env := newLedgerEnv(t)
	item := env.createItem(t, 10)

	movement, updated, err := env.ledger.Record(context.Background(), env.scope, inventory.RecordInput{
		ItemID:      item.ID,
		Type:        inventory.MovementPurchase,
		Quantity:    decimal.NewFromInt(5),
		Reference:   inventory.ManualRef(),
		PerformedBy: env.userID,
	})
	require.NoError(t, err)

	assert.True(t, updated.CurrentStock.Equal(decimal.NewFromInt(15)))
	assert.NotNil(t, updated.LastRestocked)
	assert.True(t, movement.PreviousStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, movement.NewStock.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, inventory.MovementPurchase, movement.Type)
	assert.Equal(t, env.userID, movement.PerformedBy)
}

func TestLedgerRecordUsageDecreasesStock(t *testing.T) {
	env := newLedgerEnv(t)
	item := env.createItem(t, 10)

	movement, updated, err := env.ledger.Record(context.Background(), env.scope, inventory.RecordInput{
		ItemID:      item.ID,
		Type:        inventory.MovementUsage,
		Quantity:    decimal.NewFromInt(3),
		Reference:   inventory.ManualRef(),
		PerformedBy: env.userID,
	})
	require.NoError(t, err)

	assert.True(t, updated.CurrentStock.Equal(decimal.NewFromInt(7)))
	assert.True(t, movement.SignedDelta().Equal(decimal.NewFromInt(-3)))
}

func TestLedgerRecordRejectsOverdraw(t *testing.T) {
	env := newLedgerEnv(t)
	item := env.createItem(t, 7)

	_, _, err := env.ledger.Record(context.Background(), env.scope, inventory.RecordInput{
		ItemID:      item.ID,
		Type:        inventory.MovementUsage,
		Quantity:    decimal.NewFromInt(20),
		Reference:   inventory.ManualRef(),
		PerformedBy: env.userID,
	})

	var insufficient *inventory.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Shortfalls, 1)
	assert.True(t, insufficient.Shortfalls[0].Available.Equal(decimal.NewFromInt(7)))
	assert.True(t, insufficient.Shortfalls[0].Required.Equal(decimal.NewFromInt(20)))

	// Stock untouched, no movement appended.
	current, err := env.items.FindByID(context.Background(), env.scope, item.ID)
	require.NoError(t, err)
	assert.True(t, current.CurrentStock.Equal(decimal.NewFromInt(7)))

	movements, err := env.movements.ListByItem(context.Background(), env.scope, item.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestLedgerRecordRejectsZeroAndNegativeQuantity(t *testing.T) {
	env := newLedgerEnv(t)
	item := env.createItem(t, 10)

	for _, qty := range []int64{0, -4} {
		_, _, err := env.ledger.Record(context.Background(), env.scope, inventory.RecordInput{
			ItemID:      item.ID,
			Type:        inventory.MovementPurchase,
			Quantity:    decimal.NewFromInt(qty),
			Reference:   inventory.ManualRef(),
			PerformedBy: env.userID,
		})
		var validation *inventory.ValidationError
		assert.ErrorAs(t, err, &validation)
	}
}

func TestLedgerRecordRejectsInactiveItem(t *testing.T) {
	env := newLedgerEnv(t)
	item := env.createItem(t, 10)
	item.IsActive = false
	require.NoError(t, env.items.Save(context.Background(), item))

	_, _, err := env.ledger.Record(context.Background(), env.scope, inventory.RecordInput{
		ItemID:      item.ID,
		Type:        inventory.MovementPurchase,
		Quantity:    decimal.NewFromInt(1),
		Reference:   inventory.ManualRef(),
		PerformedBy: env.userID,
	})
	var notFound *inventory.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestLedgerRecordInvisibleAcrossTenants(t *testing.T) {
	env := newLedgerEnv(t)
	item := env.createItem(t, 10)

	otherScope := inventory.Scope{TenantID: uuid.New(), OutletID: uuid.New()}
	_, _, err := env.ledger.Record(context.Background(), otherScope, inventory.RecordInput{
		ItemID:      item.ID,
		Type:        inventory.MovementPurchase,
		Quantity:    decimal.NewFromInt(1),
		Reference:   inventory.ManualRef(),
		PerformedBy: env.userID,
	})
	var notFound *inventory.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

// The movement history replayed over the starting stock must always land on
// the item's current stock.
func TestLedgerMovementsReconcileWithStock(t *testing.T) {
	env := newLedgerEnv(t)
	item := env.createItem(t, 100)
	ctx := context.Background()

	steps := []struct {
		movementType inventory.MovementType
		quantity     int64
	}{
		{inventory.MovementPurchase, 40},
		{inventory.MovementUsage, 25},
		{inventory.MovementWastage, 5},
		{inventory.MovementReturn, 10},
		{inventory.MovementUsage, 30},
	}
	for _, step := range steps {
		_, _, err := env.ledger.Record(ctx, env.scope, inventory.RecordInput{
			ItemID:      item.ID,
			Type:        step.movementType,
			Quantity:    decimal.NewFromInt(step.quantity),
			Reference:   inventory.ManualRef(),
			PerformedBy: env.userID,
		})
		require.NoError(t, err)
	}

	movements, err := env.movements.ListByItem(ctx, env.scope, item.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, movements, len(steps))

	replayed := decimal.NewFromInt(100)
	for _, m := range movements {
		replayed = replayed.Add(m.SignedDelta())
	}

	current, err := env.items.FindByID(ctx, env.scope, item.ID)
	require.NoError(t, err)
	assert.True(t, replayed.Equal(current.CurrentStock),
		"replayed %s, stored %s", replayed, current.CurrentStock)
	assert.True(t, current.CurrentStock.Equal(decimal.NewFromInt(90)))
}

// With stock S and N concurrent single-unit decrements (N > S), exactly S
// succeed and stock ends at zero, never negative.
func TestLedgerConcurrentDecrements(t *testing.T) {
	env := newLedgerEnv(t)
	const initialStock = 10
	const attempts = 25
	item := env.createItem(t, initialStock)

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := env.ledger.Record(context.Background(), env.scope, inventory.RecordInput{
				ItemID:      item.ID,
				Type:        inventory.MovementUsage,
				Quantity:    decimal.NewFromInt(1),
				Reference:   inventory.ManualRef(),
				PerformedBy: env.userID,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			var insufficient *inventory.InsufficientStockError
			require.ErrorAs(t, err, &insufficient)
		}
	}
	assert.Equal(t, initialStock, succeeded)

	current, err := env.items.FindByID(context.Background(), env.scope, item.ID)
	require.NoError(t, err)
	assert.True(t, current.CurrentStock.IsZero())

	movements, err := env.movements.ListByItem(context.Background(), env.scope, item.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, movements, initialStock)
}

func TestLedgerApplyTarget(t *testing.T) {
	env := newLedgerEnv(t)
	item := env.createItem(t, 10)

	movement, updated, err := env.ledger.Record(context.Background(), env.scope, inventory.RecordInput{
		ItemID:      item.ID,
		Type:        inventory.MovementPurchase,
		Quantity:    decimal.NewFromInt(2),
		Reference:   inventory.ManualRef(),
		PerformedBy: env.userID,
	})
	require.NoError(t, err)
	require.True(t, updated.CurrentStock.Equal(decimal.NewFromInt(12)))

	err = env.store.Execute(context.Background(), func(ctx context.Context) error {
		movement, updated, err = env.ledger.ApplyTargetInTx(ctx, env.scope, item.ID,
			decimal.NewFromInt(4), inventory.AdjustmentRef(1), env.userID)
		return err
	})
	require.NoError(t, err)

	assert.True(t, updated.CurrentStock.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, inventory.MovementAdjustment, movement.Type)
	assert.True(t, movement.Quantity.Equal(decimal.NewFromInt(8)), "quantity is the absolute delta")
	assert.True(t, movement.PreviousStock.Equal(decimal.NewFromInt(12)))
	assert.True(t, movement.NewStock.Equal(decimal.NewFromInt(4)))
}

func TestLedgerApplyTargetRejectsNegative(t *testing.T) {
	env := newLedgerEnv(t)
	item := env.createItem(t, 10)

	err := env.store.Execute(context.Background(), func(ctx context.Context) error {
		_, _, err := env.ledger.ApplyTargetInTx(ctx, env.scope, item.ID,
			decimal.NewFromInt(-1), inventory.AdjustmentRef(1), env.userID)
		return err
	})
	var validation *inventory.ValidationError
	assert.ErrorAs(t, err, &validation)
}
