// internal/infrastructure/persistence/memory/purchaseorder.go
package memory

import (
	"context"
	"sort"
	"time"

	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/purchaseorder"
)

// PurchaseOrderRepository implements purchaseorder.Repository on the shared
// store. Orders are cloned on every read and write so callers never alias
// the stored line slices.
type PurchaseOrderRepository struct {
	store *Store
}

// NewPurchaseOrderRepository creates an in-memory purchase order repository.
func NewPurchaseOrderRepository(store *Store) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{store: store}
}

func (r *PurchaseOrderRepository) Create(ctx context.Context, po *purchaseorder.PurchaseOrder) error {
	s := r.store
	unlock := s.lock(ctx)
	defer unlock()

	s.nextOrderID++
	po.ID = s.nextOrderID
	now := time.Now().UTC()
	po.CreatedAt = now
	po.UpdatedAt = now
	for i := range po.Items {
		s.nextOrderLineID++
		po.Items[i].ID = s.nextOrderLineID
		po.Items[i].PurchaseOrderID = po.ID
	}
	s.orders[po.ID] = clonePO(*po)
	return nil
}

func (r *PurchaseOrderRepository) FindByID(ctx context.Context, scope inventory.Scope, id uint) (*purchaseorder.PurchaseOrder, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	po, ok := r.store.orders[id]
	if !ok || !inScope(po.TenantID, po.OutletID, scope) {
		return nil, inventory.NewNotFound("purchase order", id)
	}
	out := clonePO(po)
	return &out, nil
}

func (r *PurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, scope inventory.Scope, id uint) (*purchaseorder.PurchaseOrder, error) {
	return r.FindByID(ctx, scope, id)
}

func (r *PurchaseOrderRepository) List(ctx context.Context, scope inventory.Scope, filter purchaseorder.Filter) ([]purchaseorder.PurchaseOrder, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var orders []purchaseorder.PurchaseOrder
	for _, po := range r.store.orders {
		if !inScope(po.TenantID, po.OutletID, scope) {
			continue
		}
		if filter.Status != "" && po.Status != filter.Status {
			continue
		}
		if filter.SupplierID != nil && po.SupplierID != *filter.SupplierID {
			continue
		}
		orders = append(orders, clonePO(po))
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	return paginate(orders, filter.Limit, filter.Offset), nil
}

func (r *PurchaseOrderRepository) Save(ctx context.Context, po *purchaseorder.PurchaseOrder) error {
	s := r.store
	unlock := s.lock(ctx)
	defer unlock()

	if _, ok := s.orders[po.ID]; !ok {
		return inventory.NewNotFound("purchase order", po.ID)
	}
	for i := range po.Items {
		if po.Items[i].ID == 0 {
			s.nextOrderLineID++
			po.Items[i].ID = s.nextOrderLineID
		}
		po.Items[i].PurchaseOrderID = po.ID
	}
	po.UpdatedAt = time.Now().UTC()
	s.orders[po.ID] = clonePO(*po)
	return nil
}

func (r *PurchaseOrderRepository) Delete(ctx context.Context, scope inventory.Scope, id uint) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	po, ok := r.store.orders[id]
	if !ok || !inScope(po.TenantID, po.OutletID, scope) {
		return inventory.NewNotFound("purchase order", id)
	}
	delete(r.store.orders, id)
	return nil
}
