// internal/domain/adjustment/repository.go
package adjustment

import (
	"context"

	"github.com/your-org/pos-backend/internal/domain/inventory"
)

// Filter narrows adjustment list queries.
type Filter struct {
	Status Status
	ItemID uint
	Limit  int
	Offset int
}

// Repository is the persistence port for stock adjustments.
type Repository interface {
	Create(ctx context.Context, adj *StockAdjustment) error
	FindByID(ctx context.Context, scope inventory.Scope, id uint) (*StockAdjustment, error)
	// FindByIDForUpdate takes a row lock so two concurrent approvals of the
	// same adjustment cannot both pass the pending check.
	FindByIDForUpdate(ctx context.Context, scope inventory.Scope, id uint) (*StockAdjustment, error)
	List(ctx context.Context, scope inventory.Scope, filter Filter) ([]StockAdjustment, error)
	Save(ctx context.Context, adj *StockAdjustment) error
}
