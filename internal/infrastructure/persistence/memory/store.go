// internal/infrastructure/persistence/memory/store.go
//
// In-memory implementations of the persistence ports, mirroring the
// PostgreSQL repositories. Used by the test suites and by the local
// development mode; not suitable for multi-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/your-org/pos-backend/internal/domain/adjustment"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/purchaseorder"
	"github.com/your-org/pos-backend/internal/domain/recipe"
)

// txToken marks a context as running inside Store.Execute, so repository
// calls skip re-locking the store mutex they already hold.
type txToken struct{}

// Store holds all collections behind one mutex. Execute serializes
// transactions, which gives the same effect as the row locks the SQL
// implementation takes: concurrent read-modify-write cycles on the same
// item cannot interleave.
type Store struct {
	mu sync.Mutex

	items       map[uint]inventory.InventoryItem
	movements   []inventory.StockMovement
	adjustments map[uint]adjustment.StockAdjustment
	orders      map[uint]purchaseorder.PurchaseOrder
	recipes     map[uint]recipe.Recipe

	nextItemID       uint
	nextAdjustmentID uint
	nextOrderID      uint
	nextOrderLineID  uint
	nextRecipeID     uint
	nextIngredientID uint
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		items:       make(map[uint]inventory.InventoryItem),
		adjustments: make(map[uint]adjustment.StockAdjustment),
		orders:      make(map[uint]purchaseorder.PurchaseOrder),
		recipes:     make(map[uint]recipe.Recipe),
	}
}

// Execute implements inventory.TransactionScope. It locks the store,
// snapshots all collections, and restores them when fn fails, so a failed
// multi-entity operation leaves no partial writes behind. Nested calls join
// the open transaction.
func (s *Store) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txToken{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txToken{}).(bool)
	return v
}

// lock acquires the store mutex unless the context already holds it via
// Execute. The returned func undoes whatever was taken.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type storeSnapshot struct {
	items       map[uint]inventory.InventoryItem
	movements   []inventory.StockMovement
	adjustments map[uint]adjustment.StockAdjustment
	orders      map[uint]purchaseorder.PurchaseOrder
	recipes     map[uint]recipe.Recipe

	nextItemID       uint
	nextAdjustmentID uint
	nextOrderID      uint
	nextOrderLineID  uint
	nextRecipeID     uint
	nextIngredientID uint
}

func (s *Store) snapshot() storeSnapshot {
	snap := storeSnapshot{
		items:       make(map[uint]inventory.InventoryItem, len(s.items)),
		movements:   make([]inventory.StockMovement, len(s.movements)),
		adjustments: make(map[uint]adjustment.StockAdjustment, len(s.adjustments)),
		orders:      make(map[uint]purchaseorder.PurchaseOrder, len(s.orders)),
		recipes:     make(map[uint]recipe.Recipe, len(s.recipes)),

		nextItemID:       s.nextItemID,
		nextAdjustmentID: s.nextAdjustmentID,
		nextOrderID:      s.nextOrderID,
		nextOrderLineID:  s.nextOrderLineID,
		nextRecipeID:     s.nextRecipeID,
		nextIngredientID: s.nextIngredientID,
	}
	for id, item := range s.items {
		snap.items[id] = item
	}
	copy(snap.movements, s.movements)
	for id, adj := range s.adjustments {
		snap.adjustments[id] = adj
	}
	for id, po := range s.orders {
		snap.orders[id] = clonePO(po)
	}
	for id, rec := range s.recipes {
		snap.recipes[id] = cloneRecipe(rec)
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.items = snap.items
	s.movements = snap.movements
	s.adjustments = snap.adjustments
	s.orders = snap.orders
	s.recipes = snap.recipes

	s.nextItemID = snap.nextItemID
	s.nextAdjustmentID = snap.nextAdjustmentID
	s.nextOrderID = snap.nextOrderID
	s.nextOrderLineID = snap.nextOrderLineID
	s.nextRecipeID = snap.nextRecipeID
	s.nextIngredientID = snap.nextIngredientID
}

func clonePO(po purchaseorder.PurchaseOrder) purchaseorder.PurchaseOrder {
	out := po
	out.Items = make([]purchaseorder.PurchaseOrderItem, len(po.Items))
	copy(out.Items, po.Items)
	return out
}

func cloneRecipe(rec recipe.Recipe) recipe.Recipe {
	out := rec
	out.Ingredients = make([]recipe.RecipeIngredient, len(rec.Ingredients))
	copy(out.Ingredients, rec.Ingredients)
	return out
}

func inScope(tenantID, outletID uuid.UUID, scope inventory.Scope) bool {
	return tenantID == scope.TenantID && outletID == scope.OutletID
}
