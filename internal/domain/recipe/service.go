// internal/domain/recipe/service.go
package recipe

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/your-org/pos-backend/internal/domain/inventory"
)

// Service implements the bill-of-materials operations: recipe CRUD,
// availability checks and the all-or-nothing deduction on sale.
type Service struct {
	recipes Repository
	items   inventory.ItemRepository
	ledger  *inventory.Ledger
	tx      inventory.TransactionScope
	logger  *logrus.Logger
}

// NewService creates a new recipe service.
func NewService(recipes Repository, items inventory.ItemRepository, ledger *inventory.Ledger, tx inventory.TransactionScope, logger *logrus.Logger) *Service {
	return &Service{
		recipes: recipes,
		items:   items,
		ledger:  ledger,
		tx:      tx,
		logger:  logger,
	}
}

// IngredientRequest is one ingredient line in a create/update request.
type IngredientRequest struct {
	InventoryItemID uint               `json:"inventory_item_id" binding:"required"`
	Quantity        decimal.Decimal    `json:"quantity" binding:"required"`
	Unit            inventory.ItemUnit `json:"unit" binding:"required"`
}

// CreateRequest represents recipe creation data.
type CreateRequest struct {
	DishID      uuid.UUID           `json:"dish_id" binding:"required"`
	Name        string              `json:"name"`
	Ingredients []IngredientRequest `json:"ingredients" binding:"required,min=1"`
	PortionSize string              `json:"portion_size"`
}

// UpdateRequest replaces a recipe's ingredient list and attributes.
type UpdateRequest struct {
	Name        *string             `json:"name"`
	Ingredients []IngredientRequest `json:"ingredients"`
	PortionSize *string             `json:"portion_size"`
}

// DeductRequest represents a sale-driven inventory deduction.
type DeductRequest struct {
	DishQuantity decimal.Decimal `json:"dish_quantity" binding:"required"`
}

// Create enforces one active recipe per (outlet, dish), prices each
// ingredient from the referenced item's current unit cost and persists the
// recipe with the summed cost cache.
func (s *Service) Create(ctx context.Context, scope inventory.Scope, req *CreateRequest) (*Recipe, error) {
	if len(req.Ingredients) == 0 {
		return nil, inventory.NewFieldValidation("ingredients", "at least one ingredient is required")
	}

	if existing, err := s.recipes.FindActiveByDish(ctx, scope, req.DishID); err == nil && existing != nil {
		return nil, inventory.NewValidation("an active recipe already exists for dish %s", req.DishID)
	} else if err != nil {
		var notFound *inventory.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	lines, totalCost, err := s.buildIngredients(ctx, scope, req.Ingredients)
	if err != nil {
		return nil, err
	}

	r := &Recipe{
		TenantID:    scope.TenantID,
		OutletID:    scope.OutletID,
		DishID:      req.DishID,
		Name:        req.Name,
		Ingredients: lines,
		PortionSize: req.PortionSize,
		TotalCost:   totalCost,
		IsActive:    true,
	}
	if err := s.recipes.Create(ctx, r); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id":   scope.TenantID,
		"recipe_id":   r.ID,
		"dish_id":     r.DishID,
		"ingredients": len(r.Ingredients),
	}).Info("recipe created")

	return r, nil
}

func (s *Service) buildIngredients(ctx context.Context, scope inventory.Scope, reqs []IngredientRequest) ([]RecipeIngredient, decimal.Decimal, error) {
	lines := make([]RecipeIngredient, 0, len(reqs))
	total := decimal.Zero
	seen := make(map[uint]bool, len(reqs))
	for _, ing := range reqs {
		if ing.Quantity.Sign() <= 0 {
			return nil, decimal.Zero, inventory.NewFieldValidation("ingredients.quantity", "must be greater than zero")
		}
		if !inventory.ValidUnit(ing.Unit) {
			return nil, decimal.Zero, inventory.NewFieldValidation("ingredients.unit", "unknown unit %q", ing.Unit)
		}
		if seen[ing.InventoryItemID] {
			return nil, decimal.Zero, inventory.NewFieldValidation("ingredients", "item %d listed more than once", ing.InventoryItemID)
		}
		seen[ing.InventoryItemID] = true

		item, err := s.items.FindByID(ctx, scope, ing.InventoryItemID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		cost := ing.Quantity.Mul(item.UnitCost)
		total = total.Add(cost)
		lines = append(lines, RecipeIngredient{
			InventoryItemID: item.ID,
			Quantity:        ing.Quantity,
			Unit:            ing.Unit,
			Cost:            cost,
		})
	}
	return lines, total, nil
}

// Get retrieves one recipe in the caller's scope.
func (s *Service) Get(ctx context.Context, scope inventory.Scope, id uint) (*Recipe, error) {
	return s.recipes.FindByID(ctx, scope, id)
}

// List retrieves recipes matching the filter.
func (s *Service) List(ctx context.Context, scope inventory.Scope, filter Filter) ([]Recipe, error) {
	return s.recipes.List(ctx, scope, filter)
}

// Update replaces the recipe's attributes and, when given, its ingredient
// list, repricing the cost cache from current item costs.
func (s *Service) Update(ctx context.Context, scope inventory.Scope, id uint, req *UpdateRequest) (*Recipe, error) {
	r, err := s.recipes.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		r.Name = *req.Name
	}
	if req.PortionSize != nil {
		r.PortionSize = *req.PortionSize
	}
	if req.Ingredients != nil {
		lines, totalCost, err := s.buildIngredients(ctx, scope, req.Ingredients)
		if err != nil {
			return nil, err
		}
		r.Ingredients = lines
		r.TotalCost = totalCost
	}
	if err := s.recipes.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete soft-deletes a recipe, freeing the (outlet, dish) slot for a new
// active recipe.
func (s *Service) Delete(ctx context.Context, scope inventory.Scope, id uint) error {
	r, err := s.recipes.FindByID(ctx, scope, id)
	if err != nil {
		return err
	}
	r.IsActive = false
	return s.recipes.Save(ctx, r)
}

// CheckAvailability reports, per ingredient, whether current stock covers
// quantity x dishQuantity. It never short-circuits: every shortfall is
// collected so the caller can display all blocking ingredients at once.
func (s *Service) CheckAvailability(ctx context.Context, scope inventory.Scope, id uint, dishQuantity decimal.Decimal) (*AvailabilityReport, error) {
	if dishQuantity.Sign() <= 0 {
		return nil, inventory.NewFieldValidation("dish_quantity", "must be greater than zero")
	}
	r, err := s.recipes.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	report := &AvailabilityReport{RecipeID: r.ID, DishQuantity: dishQuantity, Available: true}
	for _, ing := range r.Ingredients {
		ia, err := s.checkIngredient(ctx, scope, ing, dishQuantity, false)
		if err != nil {
			return nil, err
		}
		report.Ingredients = append(report.Ingredients, ia)
	}
	for _, ia := range report.Ingredients {
		if !ia.Sufficient {
			report.Available = false
			break
		}
	}
	return report, nil
}

// checkIngredient reports one ingredient's availability. A missing item is a
// shortfall; any other repository failure is a real error and propagates.
func (s *Service) checkIngredient(ctx context.Context, scope inventory.Scope, ing RecipeIngredient, dishQuantity decimal.Decimal, forUpdate bool) (IngredientAvailability, error) {
	required := ing.Quantity.Mul(dishQuantity)
	ia := IngredientAvailability{
		InventoryItemID: ing.InventoryItemID,
		Required:        required,
		Available:       decimal.Zero,
	}

	var (
		item *inventory.InventoryItem
		err  error
	)
	if forUpdate {
		item, err = s.items.FindByIDForUpdate(ctx, scope, ing.InventoryItemID)
	} else {
		item, err = s.items.FindByID(ctx, scope, ing.InventoryItemID)
	}
	if err != nil {
		var notFound *inventory.NotFoundError
		if errors.As(err, &notFound) {
			ia.Reason = "missing"
			return ia, nil
		}
		return ia, err
	}
	ia.Name = item.Name
	if !item.IsActive {
		ia.Reason = "inactive"
		return ia, nil
	}
	ia.Available = item.CurrentStock
	if item.CurrentStock.Cmp(required) < 0 {
		ia.Reason = "insufficient_stock"
		return ia, nil
	}
	ia.Sufficient = true
	return ia, nil
}

// DeductInventory consumes the recipe's ingredients for a number of dishes.
// The check and the deduction happen in one transaction with every
// ingredient row locked, so either all ingredients are deducted (one usage
// movement each, referencing the recipe) or none are. When any ingredient
// falls short the call fails with an InsufficientStockError naming every
// blocking ingredient.
func (s *Service) DeductInventory(ctx context.Context, scope inventory.Scope, id uint, dishQuantity decimal.Decimal, performedBy uuid.UUID) ([]inventory.StockMovement, error) {
	if dishQuantity.Sign() <= 0 {
		return nil, inventory.NewFieldValidation("dish_quantity", "must be greater than zero")
	}

	var movements []inventory.StockMovement
	err := s.tx.Execute(ctx, func(ctx context.Context) error {
		r, err := s.recipes.FindByID(ctx, scope, id)
		if err != nil {
			return err
		}
		if !r.IsActive {
			return inventory.NewNotFound("recipe", id)
		}

		// Lock ingredient rows in id order so concurrent deductions of
		// overlapping recipes cannot deadlock.
		ingredients := make([]RecipeIngredient, len(r.Ingredients))
		copy(ingredients, r.Ingredients)
		sort.Slice(ingredients, func(i, j int) bool {
			return ingredients[i].InventoryItemID < ingredients[j].InventoryItemID
		})

		var shortfalls []inventory.Shortfall
		for _, ing := range ingredients {
			ia, err := s.checkIngredient(ctx, scope, ing, dishQuantity, true)
			if err != nil {
				return err
			}
			if !ia.Sufficient {
				shortfalls = append(shortfalls, inventory.Shortfall{
					InventoryItemID: ia.InventoryItemID,
					Name:            ia.Name,
					Required:        ia.Required,
					Available:       ia.Available,
					Reason:          ia.Reason,
				})
			}
		}
		if len(shortfalls) > 0 {
			return &inventory.InsufficientStockError{Shortfalls: shortfalls}
		}

		for _, ing := range ingredients {
			movement, _, err := s.ledger.RecordInTx(ctx, scope, inventory.RecordInput{
				ItemID:      ing.InventoryItemID,
				Type:        inventory.MovementUsage,
				Quantity:    ing.Quantity.Mul(dishQuantity),
				Reference:   inventory.RecipeRef(r.ID),
				PerformedBy: performedBy,
			})
			if err != nil {
				return err
			}
			movements = append(movements, *movement)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id":     scope.TenantID,
		"recipe_id":     id,
		"dish_quantity": dishQuantity.String(),
		"movements":     len(movements),
	}).Info("recipe inventory deducted")

	return movements, nil
}

// CalculateCost recomputes the recipe cost from the current unit cost of
// every referenced item. Prices drift over time, so the cached TotalCost is
// never trusted for reporting.
func (s *Service) CalculateCost(ctx context.Context, scope inventory.Scope, id uint) (*CostReport, error) {
	r, err := s.recipes.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	report := &CostReport{RecipeID: r.ID, TotalCost: decimal.Zero}
	for _, ing := range r.Ingredients {
		item, err := s.items.FindByID(ctx, scope, ing.InventoryItemID)
		if err != nil {
			return nil, err
		}
		cost := ing.Quantity.Mul(item.UnitCost)
		report.TotalCost = report.TotalCost.Add(cost)
		report.Ingredients = append(report.Ingredients, CostBreakdownLine{
			InventoryItemID: ing.InventoryItemID,
			Name:            item.Name,
			Quantity:        ing.Quantity,
			UnitCost:        item.UnitCost,
			Cost:            cost,
		})
	}
	return report, nil
}
