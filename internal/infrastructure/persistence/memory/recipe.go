// internal/infrastructure/persistence/memory/recipe.go
package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/recipe"
)

// RecipeRepository implements recipe.Repository on the shared store.
type RecipeRepository struct {
	store *Store
}

// NewRecipeRepository creates an in-memory recipe repository.
func NewRecipeRepository(store *Store) *RecipeRepository {
	return &RecipeRepository{store: store}
}

func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	s := r.store
	unlock := s.lock(ctx)
	defer unlock()

	s.nextRecipeID++
	rec.ID = s.nextRecipeID
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	for i := range rec.Ingredients {
		s.nextIngredientID++
		rec.Ingredients[i].ID = s.nextIngredientID
		rec.Ingredients[i].RecipeID = rec.ID
	}
	s.recipes[rec.ID] = cloneRecipe(*rec)
	return nil
}

func (r *RecipeRepository) FindByID(ctx context.Context, scope inventory.Scope, id uint) (*recipe.Recipe, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	rec, ok := r.store.recipes[id]
	if !ok || !inScope(rec.TenantID, rec.OutletID, scope) {
		return nil, inventory.NewNotFound("recipe", id)
	}
	out := cloneRecipe(rec)
	return &out, nil
}

func (r *RecipeRepository) FindActiveByDish(ctx context.Context, scope inventory.Scope, dishID uuid.UUID) (*recipe.Recipe, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	for _, rec := range r.store.recipes {
		if rec.IsActive && rec.DishID == dishID && inScope(rec.TenantID, rec.OutletID, scope) {
			out := cloneRecipe(rec)
			return &out, nil
		}
	}
	return nil, inventory.NewNotFound("recipe for dish", dishID)
}

func (r *RecipeRepository) List(ctx context.Context, scope inventory.Scope, filter recipe.Filter) ([]recipe.Recipe, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var recipes []recipe.Recipe
	for _, rec := range r.store.recipes {
		if !inScope(rec.TenantID, rec.OutletID, scope) {
			continue
		}
		if filter.OnlyActive && !rec.IsActive {
			continue
		}
		if filter.DishID != nil && rec.DishID != *filter.DishID {
			continue
		}
		recipes = append(recipes, cloneRecipe(rec))
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID > recipes[j].ID })
	return paginate(recipes, filter.Limit, filter.Offset), nil
}

func (r *RecipeRepository) Save(ctx context.Context, rec *recipe.Recipe) error {
	s := r.store
	unlock := s.lock(ctx)
	defer unlock()

	if _, ok := s.recipes[rec.ID]; !ok {
		return inventory.NewNotFound("recipe", rec.ID)
	}
	for i := range rec.Ingredients {
		if rec.Ingredients[i].ID == 0 {
			s.nextIngredientID++
			rec.Ingredients[i].ID = s.nextIngredientID
		}
		rec.Ingredients[i].RecipeID = rec.ID
	}
	rec.UpdatedAt = time.Now().UTC()
	s.recipes[rec.ID] = cloneRecipe(*rec)
	return nil
}
