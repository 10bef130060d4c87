// internal/domain/recipe/entity.go
package recipe

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/your-org/pos-backend/internal/domain/inventory"
)

// Recipe is the bill of materials linking one dish to its ingredients.
// There is one active recipe per (outlet, dish). TotalCost is a convenience
// cache written at save time; the authoritative cost is recomputed on demand
// from the ingredients' current unit costs.
type Recipe struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	TenantID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	OutletID    uuid.UUID          `gorm:"type:uuid;not null;index:idx_recipes_outlet_dish,priority:1" json:"outlet_id"`
	DishID      uuid.UUID          `gorm:"type:uuid;not null;index:idx_recipes_outlet_dish,priority:2" json:"dish_id"`
	Name        string             `gorm:"size:255" json:"name"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"ingredients"`
	PortionSize string             `gorm:"size:50" json:"portion_size,omitempty"`
	TotalCost   decimal.Decimal    `gorm:"type:decimal(20,4);not null;default:0" json:"total_cost"`
	IsActive    bool               `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// RecipeIngredient is one ingredient line: the quantity of an inventory
// item consumed per single unit of the dish.
type RecipeIngredient struct {
	ID              uint               `gorm:"primaryKey" json:"id"`
	RecipeID        uint               `gorm:"not null;index" json:"recipe_id"`
	InventoryItemID uint               `gorm:"not null;index" json:"inventory_item_id"`
	Quantity        decimal.Decimal    `gorm:"type:decimal(20,4);not null" json:"quantity"`
	Unit            inventory.ItemUnit `gorm:"not null;size:20" json:"unit"`
	Cost            decimal.Decimal    `gorm:"type:decimal(20,4);not null;default:0" json:"cost"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// IngredientAvailability reports one ingredient's ability to cover a
// requested dish quantity.
type IngredientAvailability struct {
	InventoryItemID uint            `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Required        decimal.Decimal `json:"required"`
	Available       decimal.Decimal `json:"available"`
	Sufficient      bool            `json:"sufficient"`
	Reason          string          `json:"reason,omitempty"` // set when insufficient
}

// AvailabilityReport is the full per-ingredient availability picture for a
// dish quantity. It always lists every shortfall, never just the first.
type AvailabilityReport struct {
	RecipeID     uint                     `json:"recipe_id"`
	DishQuantity decimal.Decimal          `json:"dish_quantity"`
	Available    bool                     `json:"available"`
	Ingredients  []IngredientAvailability `json:"ingredients"`
}

// CostBreakdownLine is one ingredient's share of the recomputed recipe cost.
type CostBreakdownLine struct {
	InventoryItemID uint            `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Cost            decimal.Decimal `json:"cost"`
}

// CostReport is the on-demand recomputation of a recipe's cost from the
// current unit cost of every referenced item.
type CostReport struct {
	RecipeID    uint                `json:"recipe_id"`
	TotalCost   decimal.Decimal     `json:"total_cost"`
	Ingredients []CostBreakdownLine `json:"ingredients"`
}

// TableName overrides
func (Recipe) TableName() string           { return "recipes" }
func (RecipeIngredient) TableName() string { return "recipe_ingredients" }
