// internal/infrastructure/persistence/gorm_inventory.go
package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/your-org/pos-backend/internal/domain/inventory"
)

// GormItemRepository implements inventory.ItemRepository on PostgreSQL.
type GormItemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a GORM-backed item repository.
func NewItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) Create(ctx context.Context, item *inventory.InventoryItem) error {
	return conn(ctx, r.db).Create(item).Error
}

func (r *GormItemRepository) FindByID(ctx context.Context, scope inventory.Scope, id uint) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	err := scoped(conn(ctx, r.db), scope).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "inventory item", id)
	}
	return &item, nil
}

func (r *GormItemRepository) FindByIDForUpdate(ctx context.Context, scope inventory.Scope, id uint) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	err := scoped(conn(ctx, r.db), scope).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "inventory item", id)
	}
	return &item, nil
}

func (r *GormItemRepository) FindBySKU(ctx context.Context, scope inventory.Scope, sku string) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	err := conn(ctx, r.db).
		Where("tenant_id = ? AND sku = ?", scope.TenantID, sku).
		First(&item).Error
	if err != nil {
		return nil, notFound(err, "inventory item", sku)
	}
	return &item, nil
}

func (r *GormItemRepository) List(ctx context.Context, scope inventory.Scope, filter inventory.ItemFilter) ([]inventory.InventoryItem, error) {
	query := scoped(conn(ctx, r.db), scope)
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", like, like)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []inventory.InventoryItem
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return conn(ctx, r.db).Save(item).Error
}

// GormMovementRepository implements inventory.MovementRepository on
// PostgreSQL. Rows are inserted once and never updated.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewMovementRepository creates a GORM-backed movement repository.
func NewMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

func (r *GormMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	return conn(ctx, r.db).Create(movement).Error
}

func (r *GormMovementRepository) ListByItem(ctx context.Context, scope inventory.Scope, itemID uint, limit, offset int) ([]inventory.StockMovement, error) {
	query := scoped(conn(ctx, r.db), scope).Where("inventory_item_id = ?", itemID)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var movements []inventory.StockMovement
	if err := query.Order("created_at DESC").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
