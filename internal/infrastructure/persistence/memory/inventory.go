// internal/infrastructure/persistence/memory/inventory.go
package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/your-org/pos-backend/internal/domain/inventory"
)

// ItemRepository implements inventory.ItemRepository on the shared store.
type ItemRepository struct {
	store *Store
}

// NewItemRepository creates an in-memory item repository.
func NewItemRepository(store *Store) *ItemRepository {
	return &ItemRepository{store: store}
}

func (r *ItemRepository) Create(ctx context.Context, item *inventory.InventoryItem) error {
	s := r.store
	unlock := s.lock(ctx)
	defer unlock()

	s.nextItemID++
	item.ID = s.nextItemID
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	s.items[item.ID] = *item
	return nil
}

func (r *ItemRepository) FindByID(ctx context.Context, scope inventory.Scope, id uint) (*inventory.InventoryItem, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	item, ok := r.store.items[id]
	if !ok || !inScope(item.TenantID, item.OutletID, scope) {
		return nil, inventory.NewNotFound("inventory item", id)
	}
	out := item
	return &out, nil
}

// FindByIDForUpdate is identical to FindByID here: Execute already holds the
// store-wide lock, which subsumes a per-row lock.
func (r *ItemRepository) FindByIDForUpdate(ctx context.Context, scope inventory.Scope, id uint) (*inventory.InventoryItem, error) {
	return r.FindByID(ctx, scope, id)
}

func (r *ItemRepository) FindBySKU(ctx context.Context, scope inventory.Scope, sku string) (*inventory.InventoryItem, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	for _, item := range r.store.items {
		if item.TenantID == scope.TenantID && item.SKU == sku {
			out := item
			return &out, nil
		}
	}
	return nil, inventory.NewNotFound("inventory item", sku)
}

func (r *ItemRepository) List(ctx context.Context, scope inventory.Scope, filter inventory.ItemFilter) ([]inventory.InventoryItem, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var items []inventory.InventoryItem
	for _, item := range r.store.items {
		if !inScope(item.TenantID, item.OutletID, scope) {
			continue
		}
		if filter.OnlyActive && !item.IsActive {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(item.Name), needle) &&
				!strings.Contains(strings.ToLower(item.SKU), needle) {
				continue
			}
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return paginate(items, filter.Limit, filter.Offset), nil
}

func (r *ItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.items[item.ID]; !ok {
		return inventory.NewNotFound("inventory item", item.ID)
	}
	item.UpdatedAt = time.Now().UTC()
	r.store.items[item.ID] = *item
	return nil
}

// MovementRepository implements inventory.MovementRepository on the shared
// store. The backing slice is append-only.
type MovementRepository struct {
	store *Store
}

// NewMovementRepository creates an in-memory movement repository.
func NewMovementRepository(store *Store) *MovementRepository {
	return &MovementRepository{store: store}
}

func (r *MovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	r.store.movements = append(r.store.movements, *movement)
	return nil
}

func (r *MovementRepository) ListByItem(ctx context.Context, scope inventory.Scope, itemID uint, limit, offset int) ([]inventory.StockMovement, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var movements []inventory.StockMovement
	for i := len(r.store.movements) - 1; i >= 0; i-- {
		m := r.store.movements[i]
		if m.InventoryItemID == itemID && inScope(m.TenantID, m.OutletID, scope) {
			movements = append(movements, m)
		}
	}
	return paginate(movements, limit, offset), nil
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return nil
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
