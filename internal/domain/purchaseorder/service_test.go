// internal/domain/purchaseorder/service_test.go
package purchaseorder_test

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

	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/purchaseorder"
	"github.com/your-org/pos-backend/internal/infrastructure/persistence/memory"
	"github.com/your-org/pos-backend/internal/pkg/sequence"
)

type orderEnv struct {
	store     *memory.Store
	items     *memory.ItemRepository
	movements *memory.MovementRepository
	service   *purchaseorder.Service
	scope     inventory.Scope
	userID    uuid.UUID
}

func newOrderEnv(t *testing.T) *orderEnv {
	t.Helper()
	store := memory.NewStore()
	items := memory.NewItemRepository(store)
	movements := memory.NewMovementRepository(store)
	orders := memory.NewPurchaseOrderRepository(store)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ledger := inventory.NewLedger(items, movements, store, logger)
	seq := sequence.NewMemoryGenerator()

	return &orderEnv{
		store:     store,
		items:     items,
		movements: movements,
		service:   purchaseorder.NewService(orders, items, ledger, seq, store, logger),
		scope:     inventory.Scope{TenantID: uuid.New(), OutletID: uuid.New()},
		userID:    uuid.New(),
	}
}

func (e *orderEnv) createItem(t *testing.T, name string, stock int64) *inventory.InventoryItem {
	t.Helper()
	item := &inventory.InventoryItem{
		TenantID:     e.scope.TenantID,
		OutletID:     e.scope.OutletID,
		Name:         name,
		SKU:          name + "-" + uuid.NewString()[:8],
		Category:     inventory.CategoryVegetables,
		Unit:         inventory.UnitKilogram,
		CurrentStock: decimal.NewFromInt(stock),
		UnitCost:     decimal.NewFromInt(2),
		IsActive:     true,
	}
	require.NoError(t, e.items.Create(context.Background(), item))
	return item
}

func (e *orderEnv) currentStock(t *testing.T, itemID uint) decimal.Decimal {
	t.Helper()
	item, err := e.items.FindByID(context.Background(), e.scope, itemID)
	require.NoError(t, err)
	return item.CurrentStock
}

// createOrder builds a one-line draft order for 100 units at 3.00.
func (e *orderEnv) createOrder(t *testing.T, itemID uint) *purchaseorder.PurchaseOrder {
	t.Helper()
	po, err := e.service.Create(context.Background(), e.scope, &purchaseorder.CreateRequest{
		SupplierID: uuid.New(),
		Items: []purchaseorder.CreateItemRequest{
			{InventoryItemID: itemID, Quantity: decimal.NewFromInt(100), UnitCost: decimal.NewFromInt(3)},
		},
	}, e.userID)
	require.NoError(t, err)
	return po
}

// orderedOrder walks a fresh order to the ordered status.
func (e *orderEnv) orderedOrder(t *testing.T, itemID uint) *purchaseorder.PurchaseOrder {
	t.Helper()
	ctx := context.Background()
	po := e.createOrder(t, itemID)
	_, err := e.service.Submit(ctx, e.scope, po.ID)
	require.NoError(t, err)
	_, err = e.service.Approve(ctx, e.scope, po.ID, e.userID)
	require.NoError(t, err)
	po, err = e.service.MarkOrdered(ctx, e.scope, po.ID)
	require.NoError(t, err)
	return po
}

func TestOrderCreateDerivesTotals(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	tomatoes := env.createItem(t, "Tomatoes", 10)
	onions := env.createItem(t, "Onions", 10)

	po, err := env.service.Create(ctx, env.scope, &purchaseorder.CreateRequest{
		SupplierID: uuid.New(),
		Items: []purchaseorder.CreateItemRequest{
			{InventoryItemID: tomatoes.ID, Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(3)},
			{InventoryItemID: onions.ID, Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(2)},
		},
		TaxAmount:    decimal.NewFromInt(4),
		ShippingCost: decimal.NewFromInt(6),
	}, env.userID)
	require.NoError(t, err)

	assert.Equal(t, purchaseorder.StatusDraft, po.Status)
	today := time.Now().UTC().Format("20060102")
	assert.Equal(t, fmt.Sprintf("PO-%s-0001", today), po.PONumber)

	require.Len(t, po.Items, 2)
	assert.True(t, po.Items[0].TotalCost.Equal(decimal.NewFromInt(30)))
	assert.True(t, po.Items[1].TotalCost.Equal(decimal.NewFromInt(10)))
	assert.True(t, po.Subtotal.Equal(decimal.NewFromInt(40)))
	assert.True(t, po.Total.Equal(decimal.NewFromInt(50)), "subtotal + tax + shipping")
}

func TestOrderCreateDefaultsUnitCostFromItem(t *testing.T) {
	env := newOrderEnv(t)
	item := env.createItem(t, "Tomatoes", 10) // unit cost 2

	po, err := env.service.Create(context.Background(), env.scope, &purchaseorder.CreateRequest{
		SupplierID: uuid.New(),
		Items: []purchaseorder.CreateItemRequest{
			{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(10)},
		},
	}, env.userID)
	require.NoError(t, err)
	assert.True(t, po.Items[0].UnitCost.Equal(decimal.NewFromInt(2)))
}

func TestOrderCreateValidation(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	item := env.createItem(t, "Tomatoes", 10)

	_, err := env.service.Create(ctx, env.scope, &purchaseorder.CreateRequest{
		SupplierID: uuid.New(),
	}, env.userID)
	var validation *inventory.ValidationError
	assert.ErrorAs(t, err, &validation)

	_, err = env.service.Create(ctx, env.scope, &purchaseorder.CreateRequest{
		SupplierID: uuid.New(),
		Items: []purchaseorder.CreateItemRequest{
			{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(-1)},
		},
	}, env.userID)
	assert.ErrorAs(t, err, &validation)

	_, err = env.service.Create(ctx, env.scope, &purchaseorder.CreateRequest{
		SupplierID: uuid.New(),
		Items: []purchaseorder.CreateItemRequest{
			{InventoryItemID: 9999, Quantity: decimal.NewFromInt(1)},
		},
	}, env.userID)
	var notFound *inventory.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestOrderLifecycleTransitions(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	item := env.createItem(t, "Tomatoes", 10)
	po := env.createOrder(t, item.ID)

	submitted, err := env.service.Submit(ctx, env.scope, po.ID)
	require.NoError(t, err)
	assert.Equal(t, purchaseorder.StatusPending, submitted.Status)

	approved, err := env.service.Approve(ctx, env.scope, po.ID, env.userID)
	require.NoError(t, err)
	assert.Equal(t, purchaseorder.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, env.userID, *approved.ApprovedBy)

	ordered, err := env.service.MarkOrdered(ctx, env.scope, po.ID)
	require.NoError(t, err)
	assert.Equal(t, purchaseorder.StatusOrdered, ordered.Status)
	assert.NotNil(t, ordered.OrderedDate)
}

func TestOrderTransitionsRejectWrongSourceState(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	item := env.createItem(t, "Tomatoes", 10)
	po := env.createOrder(t, item.ID)

	var invalid *inventory.InvalidStateError

	// Draft cannot be approved, ordered or received.
	_, err := env.service.Approve(ctx, env.scope, po.ID, env.userID)
	assert.ErrorAs(t, err, &invalid)
	_, err = env.service.MarkOrdered(ctx, env.scope, po.ID)
	assert.ErrorAs(t, err, &invalid)
	_, err = env.service.ReceiveGoods(ctx, env.scope, po.ID, &purchaseorder.ReceiveRequest{
		Items: []purchaseorder.ReceiveLine{{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(1)}},
	}, env.userID)
	assert.ErrorAs(t, err, &invalid)

	// Submitting twice fails the second time.
	_, err = env.service.Submit(ctx, env.scope, po.ID)
	require.NoError(t, err)
	_, err = env.service.Submit(ctx, env.scope, po.ID)
	assert.ErrorAs(t, err, &invalid)
}

func TestOrderPartialThenFullReceive(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	item := env.createItem(t, "Tomatoes", 10)
	po := env.orderedOrder(t, item.ID) // 100 ordered

	partial, err := env.service.ReceiveGoods(ctx, env.scope, po.ID, &purchaseorder.ReceiveRequest{
		Items: []purchaseorder.ReceiveLine{{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(40)}},
	}, env.userID)
	require.NoError(t, err)
	assert.Equal(t, purchaseorder.StatusPartiallyReceived, partial.Status)
	assert.True(t, partial.Items[0].ReceivedQuantity.Equal(decimal.NewFromInt(40)))
	assert.Nil(t, partial.ReceivedDate)
	assert.True(t, env.currentStock(t, item.ID).Equal(decimal.NewFromInt(50)))

	full, err := env.service.ReceiveGoods(ctx, env.scope, po.ID, &purchaseorder.ReceiveRequest{
		Items: []purchaseorder.ReceiveLine{{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(60)}},
	}, env.userID)
	require.NoError(t, err)
	assert.Equal(t, purchaseorder.StatusReceived, full.Status)
	assert.NotNil(t, full.ReceivedDate)
	assert.True(t, env.currentStock(t, item.ID).Equal(decimal.NewFromInt(110)))

	// Each receipt left a purchase movement referencing the order.
	movements, err := env.movements.ListByItem(ctx, env.scope, item.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, inventory.MovementPurchase, m.Type)
		assert.Equal(t, inventory.RefPurchaseOrder, m.ReferenceType)
		assert.Equal(t, fmt.Sprint(po.ID), m.ReferenceID)
	}
}

// Over-receiving fails the whole call before any line moves stock.
func TestOrderOverReceiveFailsAtomically(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	tomatoes := env.createItem(t, "Tomatoes", 10)
	onions := env.createItem(t, "Onions", 10)

	po, err := env.service.Create(ctx, env.scope, &purchaseorder.CreateRequest{
		SupplierID: uuid.New(),
		Items: []purchaseorder.CreateItemRequest{
			{InventoryItemID: tomatoes.ID, Quantity: decimal.NewFromInt(50), UnitCost: decimal.NewFromInt(3)},
			{InventoryItemID: onions.ID, Quantity: decimal.NewFromInt(20), UnitCost: decimal.NewFromInt(2)},
		},
	}, env.userID)
	require.NoError(t, err)
	_, err = env.service.Submit(ctx, env.scope, po.ID)
	require.NoError(t, err)
	_, err = env.service.Approve(ctx, env.scope, po.ID, env.userID)
	require.NoError(t, err)
	_, err = env.service.MarkOrdered(ctx, env.scope, po.ID)
	require.NoError(t, err)

	// First line is fine, second over-receives.
	_, err = env.service.ReceiveGoods(ctx, env.scope, po.ID, &purchaseorder.ReceiveRequest{
		Items: []purchaseorder.ReceiveLine{
			{InventoryItemID: tomatoes.ID, Quantity: decimal.NewFromInt(30)},
			{InventoryItemID: onions.ID, Quantity: decimal.NewFromInt(25)},
		},
	}, env.userID)
	var validation *inventory.ValidationError
	require.ErrorAs(t, err, &validation)

	assert.True(t, env.currentStock(t, tomatoes.ID).Equal(decimal.NewFromInt(10)))
	assert.True(t, env.currentStock(t, onions.ID).Equal(decimal.NewFromInt(10)))

	current, err := env.service.Get(ctx, env.scope, po.ID)
	require.NoError(t, err)
	assert.Equal(t, purchaseorder.StatusOrdered, current.Status)
	assert.True(t, current.Items[0].ReceivedQuantity.IsZero())
	assert.True(t, current.Items[1].ReceivedQuantity.IsZero())
}

func TestOrderCreateRejectsDuplicateItemLines(t *testing.T) {
	env := newOrderEnv(t)
	item := env.createItem(t, "Tomatoes", 10)

	_, err := env.service.Create(context.Background(), env.scope, &purchaseorder.CreateRequest{
		SupplierID: uuid.New(),
		Items: []purchaseorder.CreateItemRequest{
			{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(30), UnitCost: decimal.NewFromInt(3)},
			{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(20), UnitCost: decimal.NewFromInt(3)},
		},
	}, env.userID)
	var validation *inventory.ValidationError
	assert.ErrorAs(t, err, &validation)
}

// Two receive lines for the same item must not slip their sum past the
// ordered quantity by each being checked in isolation.
func TestOrderReceiveRejectsDuplicateLines(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	item := env.createItem(t, "Tomatoes", 10)
	po := env.orderedOrder(t, item.ID) // 100 ordered

	_, err := env.service.ReceiveGoods(ctx, env.scope, po.ID, &purchaseorder.ReceiveRequest{
		Items: []purchaseorder.ReceiveLine{
			{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(60)},
			{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(60)},
		},
	}, env.userID)
	var validation *inventory.ValidationError
	require.ErrorAs(t, err, &validation)

	// Nothing was received, nothing moved.
	assert.True(t, env.currentStock(t, item.ID).Equal(decimal.NewFromInt(10)))
	current, err := env.service.Get(ctx, env.scope, po.ID)
	require.NoError(t, err)
	assert.Equal(t, purchaseorder.StatusOrdered, current.Status)
	assert.True(t, current.Items[0].ReceivedQuantity.IsZero())
}

func TestOrderReceiveRejectsUnknownLine(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	item := env.createItem(t, "Tomatoes", 10)
	stranger := env.createItem(t, "Onions", 10)
	po := env.orderedOrder(t, item.ID)

	_, err := env.service.ReceiveGoods(ctx, env.scope, po.ID, &purchaseorder.ReceiveRequest{
		Items: []purchaseorder.ReceiveLine{{InventoryItemID: stranger.ID, Quantity: decimal.NewFromInt(1)}},
	}, env.userID)
	var notFound *inventory.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestOrderCancelRules(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	item := env.createItem(t, "Tomatoes", 10)

	// Cancellable from draft.
	po := env.createOrder(t, item.ID)
	cancelled, err := env.service.Cancel(ctx, env.scope, po.ID)
	require.NoError(t, err)
	assert.Equal(t, purchaseorder.StatusCancelled, cancelled.Status)

	var invalid *inventory.InvalidStateError
	_, err = env.service.Cancel(ctx, env.scope, po.ID)
	assert.ErrorAs(t, err, &invalid)

	// Not cancellable once fully received.
	po = env.orderedOrder(t, item.ID)
	_, err = env.service.ReceiveGoods(ctx, env.scope, po.ID, &purchaseorder.ReceiveRequest{
		Items: []purchaseorder.ReceiveLine{{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(100)}},
	}, env.userID)
	require.NoError(t, err)
	_, err = env.service.Cancel(ctx, env.scope, po.ID)
	assert.ErrorAs(t, err, &invalid)

	// Still cancellable while partially received.
	po = env.orderedOrder(t, item.ID)
	_, err = env.service.ReceiveGoods(ctx, env.scope, po.ID, &purchaseorder.ReceiveRequest{
		Items: []purchaseorder.ReceiveLine{{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(10)}},
	}, env.userID)
	require.NoError(t, err)
	_, err = env.service.Cancel(ctx, env.scope, po.ID)
	require.NoError(t, err)
}

func TestOrderDeleteDraftOnly(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	item := env.createItem(t, "Tomatoes", 10)

	po := env.createOrder(t, item.ID)
	require.NoError(t, env.service.Delete(ctx, env.scope, po.ID))

	var notFound *inventory.NotFoundError
	_, err := env.service.Get(ctx, env.scope, po.ID)
	assert.ErrorAs(t, err, &notFound)

	po = env.createOrder(t, item.ID)
	_, err = env.service.Submit(ctx, env.scope, po.ID)
	require.NoError(t, err)
	err = env.service.Delete(ctx, env.scope, po.ID)
	var invalid *inventory.InvalidStateError
	assert.ErrorAs(t, err, &invalid)
}

func TestOrderListFilters(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	item := env.createItem(t, "Tomatoes", 10)

	supplierA := uuid.New()
	supplierB := uuid.New()

	first, err := env.service.Create(ctx, env.scope, &purchaseorder.CreateRequest{
		SupplierID: supplierA,
		Items: []purchaseorder.CreateItemRequest{
			{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(1)},
		},
	}, env.userID)
	require.NoError(t, err)

	_, err = env.service.Create(ctx, env.scope, &purchaseorder.CreateRequest{
		SupplierID: supplierB,
		Items: []purchaseorder.CreateItemRequest{
			{InventoryItemID: item.ID, Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(1)},
		},
	}, env.userID)
	require.NoError(t, err)

	_, err = env.service.Submit(ctx, env.scope, first.ID)
	require.NoError(t, err)

	pending, err := env.service.List(ctx, env.scope, purchaseorder.Filter{Status: purchaseorder.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	bySupplier, err := env.service.List(ctx, env.scope, purchaseorder.Filter{SupplierID: &supplierB})
	require.NoError(t, err)
	require.Len(t, bySupplier, 1)
	assert.Equal(t, supplierB, bySupplier[0].SupplierID)
}

func TestOrderScopeIsolation(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()
	item := env.createItem(t, "Tomatoes", 10)
	po := env.createOrder(t, item.ID)

	otherScope := inventory.Scope{TenantID: uuid.New(), OutletID: uuid.New()}
	var notFound *inventory.NotFoundError
	_, err := env.service.Get(ctx, otherScope, po.ID)
	assert.ErrorAs(t, err, &notFound)
	_, err = env.service.Submit(ctx, otherScope, po.ID)
	assert.ErrorAs(t, err, &notFound)
}
