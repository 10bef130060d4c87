// internal/infrastructure/persistence/gorm_purchaseorder.go
package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/purchaseorder"
)

// GormPurchaseOrderRepository implements purchaseorder.Repository on
// PostgreSQL. Orders are loaded and saved with their line items.
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewPurchaseOrderRepository creates a GORM-backed purchase order repository.
func NewPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

func (r *GormPurchaseOrderRepository) Create(ctx context.Context, po *purchaseorder.PurchaseOrder) error {
	return conn(ctx, r.db).Create(po).Error
}

func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, scope inventory.Scope, id uint) (*purchaseorder.PurchaseOrder, error) {
	var po purchaseorder.PurchaseOrder
	err := scoped(conn(ctx, r.db), scope).Preload("Items").First(&po, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "purchase order", id)
	}
	return &po, nil
}

func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, scope inventory.Scope, id uint) (*purchaseorder.PurchaseOrder, error) {
	var po purchaseorder.PurchaseOrder
	err := scoped(conn(ctx, r.db), scope).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&po, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "purchase order", id)
	}
	// Preload cannot be combined with FOR UPDATE on the parent row; load
	// the lines with a second query inside the same transaction.
	if err := conn(ctx, r.db).
		Where("purchase_order_id = ?", po.ID).
		Order("id ASC").
		Find(&po.Items).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

func (r *GormPurchaseOrderRepository) List(ctx context.Context, scope inventory.Scope, filter purchaseorder.Filter) ([]purchaseorder.PurchaseOrder, error) {
	query := scoped(conn(ctx, r.db), scope).Preload("Items")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []purchaseorder.PurchaseOrder
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormPurchaseOrderRepository) Save(ctx context.Context, po *purchaseorder.PurchaseOrder) error {
	return conn(ctx, r.db).Session(&gorm.Session{FullSaveAssociations: true}).Save(po).Error
}

func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, scope inventory.Scope, id uint) error {
	db := conn(ctx, r.db)
	if err := db.Where("purchase_order_id = ?", id).Delete(&purchaseorder.PurchaseOrderItem{}).Error; err != nil {
		return err
	}
	result := scoped(db, scope).Delete(&purchaseorder.PurchaseOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return inventory.NewNotFound("purchase order", id)
	}
	return nil
}
