// internal/domain/inventory/service.go
package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/your-org/pos-backend/internal/pkg/sequence"
)

// StockOperation selects how UpdateStock changes the stored value.
type StockOperation string

const (
	OperationSet       StockOperation = "set"
	OperationIncrement StockOperation = "increment"
	OperationDecrement StockOperation = "decrement"
)

// Service handles inventory item business logic.
type Service struct {
	items     ItemRepository
	movements MovementRepository
	ledger    *Ledger
	seq       sequence.Generator
	tx        TransactionScope
	logger    *logrus.Logger
}

// NewService creates a new inventory item service.
func NewService(items ItemRepository, movements MovementRepository, ledger *Ledger, seq sequence.Generator, tx TransactionScope, logger *logrus.Logger) *Service {
	return &Service{
		items:     items,
		movements: movements,
		ledger:    ledger,
		seq:       seq,
		tx:        tx,
		logger:    logger,
	}
}

// CreateItemRequest represents inventory item creation data.
type CreateItemRequest struct {
	Name          string           `json:"name" binding:"required"`
	SKU           string           `json:"sku"`
	Category      ItemCategory     `json:"category" binding:"required"`
	Unit          ItemUnit         `json:"unit" binding:"required"`
	CurrentStock  decimal.Decimal  `json:"current_stock"`
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level"`
	ReorderPoint  *decimal.Decimal `json:"reorder_point"`
	UnitCost      decimal.Decimal  `json:"unit_cost"`
	SupplierID    *uuid.UUID       `json:"supplier_id"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
}

// UpdateItemRequest represents updatable item attributes. Stock is not
// among them; it changes only through UpdateStock or the ledger.
type UpdateItemRequest struct {
	Name          *string          `json:"name"`
	Category      *ItemCategory    `json:"category"`
	Unit          *ItemUnit        `json:"unit"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level"`
	MaxStockLevel *decimal.Decimal `json:"max_stock_level"`
	ReorderPoint  *decimal.Decimal `json:"reorder_point"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
	SupplierID    *uuid.UUID       `json:"supplier_id"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
}

// UpdateStockRequest represents a manual stock change.
type UpdateStockRequest struct {
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Operation StockOperation  `json:"operation" binding:"required"`
}

// CategoryValuation is the stock value of one category.
type CategoryValuation struct {
	Category ItemCategory    `json:"category"`
	Value    decimal.Decimal `json:"value"`
	Items    int             `json:"items"`
}

// ValuationReport sums currentStock x unitCost across active items.
type ValuationReport struct {
	TotalValue decimal.Decimal     `json:"total_value"`
	TotalItems int                 `json:"total_items"`
	ByCategory []CategoryValuation `json:"by_category"`
}

// Create validates and persists a new inventory item. When no SKU is given
// one is generated as INV-YYYYMMDD-NNNN from the tenant's daily counter.
func (s *Service) Create(ctx context.Context, scope Scope, req *CreateItemRequest) (*InventoryItem, error) {
	if !ValidCategory(req.Category) {
		return nil, NewFieldValidation("category", "unknown category %q", req.Category)
	}
	if !ValidUnit(req.Unit) {
		return nil, NewFieldValidation("unit", "unknown unit %q", req.Unit)
	}
	if req.UnitCost.Sign() < 0 {
		return nil, NewFieldValidation("unit_cost", "cannot be negative")
	}
	if req.CurrentStock.Sign() < 0 {
		return nil, NewFieldValidation("current_stock", "cannot be negative")
	}
	if req.MinStockLevel.Sign() < 0 {
		return nil, NewFieldValidation("min_stock_level", "cannot be negative")
	}

	sku := req.SKU
	if sku == "" {
		now := time.Now().UTC()
		seq, err := s.seq.Next(ctx, scope.TenantID, sequence.PrefixSKU, now)
		if err != nil {
			return nil, err
		}
		sku = sequence.Number(sequence.PrefixSKU, now, seq)
	} else if existing, err := s.items.FindBySKU(ctx, scope, sku); err == nil && existing != nil {
		return nil, NewFieldValidation("sku", "already in use: %s", sku)
	}

	item := &InventoryItem{
		TenantID:      scope.TenantID,
		OutletID:      scope.OutletID,
		Name:          req.Name,
		SKU:           sku,
		Category:      req.Category,
		Unit:          req.Unit,
		CurrentStock:  req.CurrentStock,
		MinStockLevel: req.MinStockLevel,
		MaxStockLevel: req.MaxStockLevel,
		ReorderPoint:  req.ReorderPoint,
		UnitCost:      req.UnitCost,
		SupplierID:    req.SupplierID,
		ExpiryDate:    req.ExpiryDate,
		IsActive:      true,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id": scope.TenantID,
		"item_id":   item.ID,
		"sku":       item.SKU,
	}).Info("inventory item created")

	return item, nil
}

// Get retrieves one item in the caller's scope.
func (s *Service) Get(ctx context.Context, scope Scope, id uint) (*InventoryItem, error) {
	return s.items.FindByID(ctx, scope, id)
}

// List retrieves items matching the filter.
func (s *Service) List(ctx context.Context, scope Scope, filter ItemFilter) ([]InventoryItem, error) {
	return s.items.List(ctx, scope, filter)
}

// Update modifies item attributes other than stock.
func (s *Service) Update(ctx context.Context, scope Scope, id uint, req *UpdateItemRequest) (*InventoryItem, error) {
	item, err := s.items.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		if !ValidCategory(*req.Category) {
			return nil, NewFieldValidation("category", "unknown category %q", *req.Category)
		}
		item.Category = *req.Category
	}
	if req.Unit != nil {
		if !ValidUnit(*req.Unit) {
			return nil, NewFieldValidation("unit", "unknown unit %q", *req.Unit)
		}
		item.Unit = *req.Unit
	}
	if req.MinStockLevel != nil {
		if req.MinStockLevel.Sign() < 0 {
			return nil, NewFieldValidation("min_stock_level", "cannot be negative")
		}
		item.MinStockLevel = *req.MinStockLevel
	}
	if req.MaxStockLevel != nil {
		item.MaxStockLevel = req.MaxStockLevel
	}
	if req.ReorderPoint != nil {
		item.ReorderPoint = req.ReorderPoint
	}
	if req.UnitCost != nil {
		if req.UnitCost.Sign() < 0 {
			return nil, NewFieldValidation("unit_cost", "cannot be negative")
		}
		item.UnitCost = *req.UnitCost
	}
	if req.SupplierID != nil {
		item.SupplierID = req.SupplierID
	}
	if req.ExpiryDate != nil {
		item.ExpiryDate = req.ExpiryDate
	}
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateStock changes an item's stock. Increment and decrement route through
// the ledger as purchase and usage movements; decrement fails with
// InsufficientStockError before going negative. Set writes the value
// directly without a ledger entry and is documented as a lower-guarantee
// escape hatch for corrections outside the audit path.
func (s *Service) UpdateStock(ctx context.Context, scope Scope, id uint, req *UpdateStockRequest, performedBy uuid.UUID) (*InventoryItem, error) {
	switch req.Operation {
	case OperationIncrement, OperationDecrement:
		movementType := MovementPurchase
		if req.Operation == OperationDecrement {
			movementType = MovementUsage
		}
		_, item, err := s.ledger.Record(ctx, scope, RecordInput{
			ItemID:      id,
			Type:        movementType,
			Quantity:    req.Quantity,
			Reference:   ManualRef(),
			PerformedBy: performedBy,
		})
		if err != nil {
			return nil, err
		}
		return item, nil
	case OperationSet:
		if req.Quantity.Sign() < 0 {
			return nil, NewFieldValidation("quantity", "cannot be negative")
		}
		var item *InventoryItem
		err := s.tx.Execute(ctx, func(ctx context.Context) error {
			var err error
			item, err = s.items.FindByIDForUpdate(ctx, scope, id)
			if err != nil {
				return err
			}
			if !item.IsActive {
				return NewNotFound("inventory item", id)
			}
			item.CurrentStock = req.Quantity
			return s.items.Save(ctx, item)
		})
		if err != nil {
			return nil, err
		}
		return item, nil
	default:
		return nil, NewFieldValidation("operation", "unknown operation %q", req.Operation)
	}
}

// Delete soft-deletes an item. Items stay on record because movements,
// recipes and purchase orders keep back-references to them.
func (s *Service) Delete(ctx context.Context, scope Scope, id uint) error {
	item, err := s.items.FindByID(ctx, scope, id)
	if err != nil {
		return err
	}
	item.IsActive = false
	return s.items.Save(ctx, item)
}

// Movements lists the ledger entries of one item, newest first.
func (s *Service) Movements(ctx context.Context, scope Scope, itemID uint, limit, offset int) ([]StockMovement, error) {
	if _, err := s.items.FindByID(ctx, scope, itemID); err != nil {
		return nil, err
	}
	return s.movements.ListByItem(ctx, scope, itemID, limit, offset)
}

// ListLowStock returns active items at or below their minimum stock level.
func (s *Service) ListLowStock(ctx context.Context, scope Scope) ([]InventoryItem, error) {
	items, err := s.items.List(ctx, scope, ItemFilter{OnlyActive: true})
	if err != nil {
		return nil, err
	}
	low := make([]InventoryItem, 0)
	for _, item := range items {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}

// ListReorder returns active items with a reorder point at or above current stock.
func (s *Service) ListReorder(ctx context.Context, scope Scope) ([]InventoryItem, error) {
	items, err := s.items.List(ctx, scope, ItemFilter{OnlyActive: true})
	if err != nil {
		return nil, err
	}
	reorder := make([]InventoryItem, 0)
	for _, item := range items {
		if item.NeedsReorder() {
			reorder = append(reorder, item)
		}
	}
	return reorder, nil
}

// Valuation computes total stock value overall and per category.
func (s *Service) Valuation(ctx context.Context, scope Scope) (*ValuationReport, error) {
	items, err := s.items.List(ctx, scope, ItemFilter{OnlyActive: true})
	if err != nil {
		return nil, err
	}

	report := &ValuationReport{TotalValue: decimal.Zero}
	byCategory := make(map[ItemCategory]*CategoryValuation)
	for _, item := range items {
		value := item.StockValue()
		report.TotalValue = report.TotalValue.Add(value)
		report.TotalItems++

		cv, ok := byCategory[item.Category]
		if !ok {
			cv = &CategoryValuation{Category: item.Category, Value: decimal.Zero}
			byCategory[item.Category] = cv
		}
		cv.Value = cv.Value.Add(value)
		cv.Items++
	}

	for _, cv := range byCategory {
		report.ByCategory = append(report.ByCategory, *cv)
	}
	sort.Slice(report.ByCategory, func(i, j int) bool {
		return report.ByCategory[i].Category < report.ByCategory[j].Category
	})
	return report, nil
}
