// internal/domain/purchaseorder/repository.go
package purchaseorder

import (
	"context"

	"github.com/google/uuid"

	"github.com/your-org/pos-backend/internal/domain/inventory"
)

// Filter narrows purchase order list queries.
type Filter struct {
	Status     Status
	SupplierID *uuid.UUID
	Limit      int
	Offset     int
}

// Repository is the persistence port for purchase orders. Implementations
// load and save orders together with their line items.
type Repository interface {
	Create(ctx context.Context, po *PurchaseOrder) error
	FindByID(ctx context.Context, scope inventory.Scope, id uint) (*PurchaseOrder, error)
	// FindByIDForUpdate takes a row lock on the order so concurrent receive
	// calls against the same order serialize.
	FindByIDForUpdate(ctx context.Context, scope inventory.Scope, id uint) (*PurchaseOrder, error)
	List(ctx context.Context, scope inventory.Scope, filter Filter) ([]PurchaseOrder, error)
	Save(ctx context.Context, po *PurchaseOrder) error
	// Delete hard-deletes the order and its lines. The service only permits
	// this for draft orders.
	Delete(ctx context.Context, scope inventory.Scope, id uint) error
}
