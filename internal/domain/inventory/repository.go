// internal/domain/inventory/repository.go
package inventory

import (
	"context"
)

// TransactionScope runs a function within one atomic unit of work against
// the store. The transaction travels in the context, so any repository call
// made with the derived context joins it. If fn returns an error the whole
// unit is rolled back.
//
// Multi-entity operations (receiving several purchase-order lines, deducting
// every ingredient of a recipe) run inside a single Execute call so all
// their writes commit together or not at all.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

// ItemFilter narrows item list queries.
type ItemFilter struct {
	Category   ItemCategory
	Search     string // matches name or SKU
	OnlyActive bool
	Limit      int
	Offset     int
}

// ItemRepository is the persistence port for inventory items.
type ItemRepository interface {
	Create(ctx context.Context, item *InventoryItem) error
	// FindByID returns the item only if it belongs to the scope.
	FindByID(ctx context.Context, scope Scope, id uint) (*InventoryItem, error)
	// FindByIDForUpdate behaves like FindByID but takes a row lock for the
	// duration of the surrounding transaction. Must be called inside
	// TransactionScope.Execute.
	FindByIDForUpdate(ctx context.Context, scope Scope, id uint) (*InventoryItem, error)
	FindBySKU(ctx context.Context, scope Scope, sku string) (*InventoryItem, error)
	List(ctx context.Context, scope Scope, filter ItemFilter) ([]InventoryItem, error)
	Save(ctx context.Context, item *InventoryItem) error
}

// MovementRepository is the persistence port for the append-only ledger.
type MovementRepository interface {
	Append(ctx context.Context, movement *StockMovement) error
	ListByItem(ctx context.Context, scope Scope, itemID uint, limit, offset int) ([]StockMovement, error)
}
