// internal/domain/inventory/entity.go
package inventory

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemCategory represents the category of an inventory item
type ItemCategory string

const (
	CategoryVegetables ItemCategory = "vegetables"
	CategoryFruits     ItemCategory = "fruits"
	CategoryMeat       ItemCategory = "meat"
	CategorySeafood    ItemCategory = "seafood"
	CategoryDairy      ItemCategory = "dairy"
	CategoryGrains     ItemCategory = "grains"
	CategorySpices     ItemCategory = "spices"
	CategoryBeverages  ItemCategory = "beverages"
	CategoryPackaging  ItemCategory = "packaging"
	CategoryCleaning   ItemCategory = "cleaning"
	CategoryOther      ItemCategory = "other"
)

// ItemUnit represents the unit of measure for an inventory item
type ItemUnit string

const (
	UnitKilogram   ItemUnit = "kg"
	UnitGram       ItemUnit = "g"
	UnitLiter      ItemUnit = "l"
	UnitMilliliter ItemUnit = "ml"
	UnitPiece      ItemUnit = "pcs"
	UnitBox        ItemUnit = "box"
	UnitPack       ItemUnit = "pack"
	UnitBottle     ItemUnit = "bottle"
)

// ValidCategory reports whether c is a known item category.
func ValidCategory(c ItemCategory) bool {
	switch c {
	case CategoryVegetables, CategoryFruits, CategoryMeat, CategorySeafood,
		CategoryDairy, CategoryGrains, CategorySpices, CategoryBeverages,
		CategoryPackaging, CategoryCleaning, CategoryOther:
		return true
	}
	return false
}

// ValidUnit reports whether u is a known unit of measure.
func ValidUnit(u ItemUnit) bool {
	switch u {
	case UnitKilogram, UnitGram, UnitLiter, UnitMilliliter, UnitPiece,
		UnitBox, UnitPack, UnitBottle:
		return true
	}
	return false
}

// MovementType represents the type of a stock movement
type MovementType string

const (
	MovementPurchase   MovementType = "purchase"
	MovementUsage      MovementType = "usage"
	MovementWastage    MovementType = "wastage"
	MovementAdjustment MovementType = "adjustment"
	MovementReturn     MovementType = "return"
)

// Increases reports whether the movement type adds stock. Purchase and
// return movements increase stock; usage, wastage and adjustment decrease it.
func (t MovementType) Increases() bool {
	return t == MovementPurchase || t == MovementReturn
}

// ValidMovementType reports whether t is a known movement type.
func ValidMovementType(t MovementType) bool {
	switch t {
	case MovementPurchase, MovementUsage, MovementWastage, MovementAdjustment, MovementReturn:
		return true
	}
	return false
}

// ReferenceType identifies the kind of document a movement originated from.
type ReferenceType string

const (
	RefPurchaseOrder   ReferenceType = "purchase_order"
	RefStockAdjustment ReferenceType = "stock_adjustment"
	RefRecipe          ReferenceType = "recipe"
	RefOrder           ReferenceType = "order"
	RefManual          ReferenceType = "manual"
)

// MovementRef is a typed reference to the document that caused a movement.
type MovementRef struct {
	Type ReferenceType
	ID   string
}

// PurchaseOrderRef builds a reference to a purchase order.
func PurchaseOrderRef(id uint) MovementRef {
	return MovementRef{Type: RefPurchaseOrder, ID: strconv.FormatUint(uint64(id), 10)}
}

// AdjustmentRef builds a reference to a stock adjustment.
func AdjustmentRef(id uint) MovementRef {
	return MovementRef{Type: RefStockAdjustment, ID: strconv.FormatUint(uint64(id), 10)}
}

// RecipeRef builds a reference to a recipe.
func RecipeRef(id uint) MovementRef {
	return MovementRef{Type: RefRecipe, ID: strconv.FormatUint(uint64(id), 10)}
}

// OrderRef builds a reference to a sales order.
func OrderRef(id string) MovementRef {
	return MovementRef{Type: RefOrder, ID: id}
}

// ManualRef marks a movement performed outside any document workflow.
func ManualRef() MovementRef {
	return MovementRef{Type: RefManual}
}

// Scope identifies the tenant and outlet every core entity belongs to.
// Every repository query filters on it, so cross-tenant access is
// impossible by construction.
type Scope struct {
	TenantID uuid.UUID
	OutletID uuid.UUID
}

// InventoryItem represents current stock of one SKU at one outlet.
// CurrentStock is never negative and is mutated only through the ledger.
type InventoryItem struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	TenantID      uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_items_tenant_sku,priority:1" json:"tenant_id"`
	OutletID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"outlet_id"`
	Name          string           `gorm:"not null;size:255" json:"name"`
	SKU           string           `gorm:"not null;size:50;uniqueIndex:idx_items_tenant_sku,priority:2" json:"sku"`
	Category      ItemCategory     `gorm:"not null;size:30" json:"category"`
	Unit          ItemUnit         `gorm:"not null;size:20" json:"unit"`
	CurrentStock  decimal.Decimal  `gorm:"type:decimal(20,4);not null;default:0" json:"current_stock"`
	MinStockLevel decimal.Decimal  `gorm:"type:decimal(20,4);not null;default:0" json:"min_stock_level"`
	MaxStockLevel *decimal.Decimal `gorm:"type:decimal(20,4)" json:"max_stock_level,omitempty"`
	ReorderPoint  *decimal.Decimal `gorm:"type:decimal(20,4)" json:"reorder_point,omitempty"`
	UnitCost      decimal.Decimal  `gorm:"type:decimal(20,4);not null;default:0" json:"unit_cost"`
	SupplierID    *uuid.UUID       `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	LastRestocked *time.Time       `json:"last_restocked,omitempty"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
	IsActive      bool             `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// IsLowStock reports whether the item is at or below its minimum level.
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock.Cmp(i.MinStockLevel) <= 0
}

// NeedsReorder reports whether the item has hit its reorder point.
func (i *InventoryItem) NeedsReorder() bool {
	return i.ReorderPoint != nil && i.CurrentStock.Cmp(*i.ReorderPoint) <= 0
}

// StockValue returns currentStock x unitCost.
func (i *InventoryItem) StockValue() decimal.Decimal {
	return i.CurrentStock.Mul(i.UnitCost)
}

// StockMovement is one immutable row of the stock ledger. Rows are appended
// exactly once per stock-affecting operation and never updated or deleted.
type StockMovement struct {
	ID              string          `gorm:"size:36;primaryKey" json:"id"` // uuid
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_movements_tenant_item,priority:1" json:"tenant_id"`
	OutletID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"outlet_id"`
	InventoryItemID uint            `gorm:"not null;index:idx_movements_tenant_item,priority:2" json:"inventory_item_id"`
	Type            MovementType    `gorm:"not null;size:20" json:"type"`
	Quantity        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"` // unsigned magnitude
	Unit            ItemUnit        `gorm:"not null;size:20" json:"unit"`
	PreviousStock   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"previous_stock"`
	NewStock        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"new_stock"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_cost"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_cost"`
	ReferenceType   ReferenceType   `gorm:"size:30" json:"reference_type,omitempty"`
	ReferenceID     string          `gorm:"size:64;index" json:"reference_id,omitempty"`
	PerformedBy     uuid.UUID       `gorm:"type:uuid;not null" json:"performed_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SignedDelta returns newStock - previousStock for the movement.
func (m *StockMovement) SignedDelta() decimal.Decimal {
	return m.NewStock.Sub(m.PreviousStock)
}

// TableName overrides
func (InventoryItem) TableName() string { return "inventory_items" }
func (StockMovement) TableName() string { return "stock_movements" }
