// internal/domain/recipe/repository.go
package recipe

import (
	"context"

	"github.com/google/uuid"

	"github.com/your-org/pos-backend/internal/domain/inventory"
)

// Filter narrows recipe list queries.
type Filter struct {
	DishID     *uuid.UUID
	OnlyActive bool
	Limit      int
	Offset     int
}

// Repository is the persistence port for recipes. Implementations load and
// save recipes together with their ingredient lines.
type Repository interface {
	Create(ctx context.Context, r *Recipe) error
	FindByID(ctx context.Context, scope inventory.Scope, id uint) (*Recipe, error)
	// FindActiveByDish returns the active recipe for a dish at the scope's
	// outlet, or a NotFoundError.
	FindActiveByDish(ctx context.Context, scope inventory.Scope, dishID uuid.UUID) (*Recipe, error)
	List(ctx context.Context, scope inventory.Scope, filter Filter) ([]Recipe, error)
	Save(ctx context.Context, r *Recipe) error
}
