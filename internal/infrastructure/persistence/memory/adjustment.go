// internal/infrastructure/persistence/memory/adjustment.go
package memory

import (
	"context"
	"sort"
	"time"

	"github.com/your-org/pos-backend/internal/domain/adjustment"
	"github.com/your-org/pos-backend/internal/domain/inventory"
)

// AdjustmentRepository implements adjustment.Repository on the shared store.
type AdjustmentRepository struct {
	store *Store
}

// NewAdjustmentRepository creates an in-memory adjustment repository.
func NewAdjustmentRepository(store *Store) *AdjustmentRepository {
	return &AdjustmentRepository{store: store}
}

func (r *AdjustmentRepository) Create(ctx context.Context, adj *adjustment.StockAdjustment) error {
	s := r.store
	unlock := s.lock(ctx)
	defer unlock()

	s.nextAdjustmentID++
	adj.ID = s.nextAdjustmentID
	now := time.Now().UTC()
	adj.CreatedAt = now
	adj.UpdatedAt = now
	s.adjustments[adj.ID] = *adj
	return nil
}

func (r *AdjustmentRepository) FindByID(ctx context.Context, scope inventory.Scope, id uint) (*adjustment.StockAdjustment, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	adj, ok := r.store.adjustments[id]
	if !ok || !inScope(adj.TenantID, adj.OutletID, scope) {
		return nil, inventory.NewNotFound("stock adjustment", id)
	}
	out := adj
	return &out, nil
}

func (r *AdjustmentRepository) FindByIDForUpdate(ctx context.Context, scope inventory.Scope, id uint) (*adjustment.StockAdjustment, error) {
	return r.FindByID(ctx, scope, id)
}

func (r *AdjustmentRepository) List(ctx context.Context, scope inventory.Scope, filter adjustment.Filter) ([]adjustment.StockAdjustment, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var adjustments []adjustment.StockAdjustment
	for _, adj := range r.store.adjustments {
		if !inScope(adj.TenantID, adj.OutletID, scope) {
			continue
		}
		if filter.Status != "" && adj.Status != filter.Status {
			continue
		}
		if filter.ItemID != 0 && adj.InventoryItemID != filter.ItemID {
			continue
		}
		adjustments = append(adjustments, adj)
	}
	sort.Slice(adjustments, func(i, j int) bool { return adjustments[i].ID > adjustments[j].ID })
	return paginate(adjustments, filter.Limit, filter.Offset), nil
}

func (r *AdjustmentRepository) Save(ctx context.Context, adj *adjustment.StockAdjustment) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.adjustments[adj.ID]; !ok {
		return inventory.NewNotFound("stock adjustment", adj.ID)
	}
	adj.UpdatedAt = time.Now().UTC()
	r.store.adjustments[adj.ID] = *adj
	return nil
}
