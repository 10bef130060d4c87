// internal/infrastructure/persistence/gorm_recipe.go
package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/recipe"
)

// GormRecipeRepository implements recipe.Repository on PostgreSQL. Recipes
// are loaded and saved with their ingredient lines.
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a GORM-backed recipe repository.
func NewRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

func (r *GormRecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	return conn(ctx, r.db).Create(rec).Error
}

func (r *GormRecipeRepository) FindByID(ctx context.Context, scope inventory.Scope, id uint) (*recipe.Recipe, error) {
	var rec recipe.Recipe
	err := scoped(conn(ctx, r.db), scope).Preload("Ingredients").First(&rec, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "recipe", id)
	}
	return &rec, nil
}

func (r *GormRecipeRepository) FindActiveByDish(ctx context.Context, scope inventory.Scope, dishID uuid.UUID) (*recipe.Recipe, error) {
	var rec recipe.Recipe
	err := scoped(conn(ctx, r.db), scope).
		Preload("Ingredients").
		Where("dish_id = ? AND is_active = ?", dishID, true).
		First(&rec).Error
	if err != nil {
		return nil, notFound(err, "recipe for dish", dishID)
	}
	return &rec, nil
}

func (r *GormRecipeRepository) List(ctx context.Context, scope inventory.Scope, filter recipe.Filter) ([]recipe.Recipe, error) {
	query := scoped(conn(ctx, r.db), scope).Preload("Ingredients")
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.DishID != nil {
		query = query.Where("dish_id = ?", *filter.DishID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recipes []recipe.Recipe
	if err := query.Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *GormRecipeRepository) Save(ctx context.Context, rec *recipe.Recipe) error {
	db := conn(ctx, r.db)
	// Replace the ingredient set wholesale; updates may swap lines in and out.
	if err := db.Where("recipe_id = ?", rec.ID).Delete(&recipe.RecipeIngredient{}).Error; err != nil {
		return err
	}
	for i := range rec.Ingredients {
		rec.Ingredients[i].ID = 0
		rec.Ingredients[i].RecipeID = rec.ID
	}
	return db.Session(&gorm.Session{FullSaveAssociations: true}).Save(rec).Error
}
