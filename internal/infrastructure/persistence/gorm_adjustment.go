// internal/infrastructure/persistence/gorm_adjustment.go
package persistence

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/your-org/pos-backend/internal/domain/adjustment"
	"github.com/your-org/pos-backend/internal/domain/inventory"
)

// GormAdjustmentRepository implements adjustment.Repository on PostgreSQL.
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewAdjustmentRepository creates a GORM-backed adjustment repository.
func NewAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

func (r *GormAdjustmentRepository) Create(ctx context.Context, adj *adjustment.StockAdjustment) error {
	return conn(ctx, r.db).Create(adj).Error
}

func (r *GormAdjustmentRepository) FindByID(ctx context.Context, scope inventory.Scope, id uint) (*adjustment.StockAdjustment, error) {
	var adj adjustment.StockAdjustment
	err := scoped(conn(ctx, r.db), scope).First(&adj, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "stock adjustment", id)
	}
	return &adj, nil
}

func (r *GormAdjustmentRepository) FindByIDForUpdate(ctx context.Context, scope inventory.Scope, id uint) (*adjustment.StockAdjustment, error) {
	var adj adjustment.StockAdjustment
	err := scoped(conn(ctx, r.db), scope).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&adj, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "stock adjustment", id)
	}
	return &adj, nil
}

func (r *GormAdjustmentRepository) List(ctx context.Context, scope inventory.Scope, filter adjustment.Filter) ([]adjustment.StockAdjustment, error) {
	query := scoped(conn(ctx, r.db), scope)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ItemID != 0 {
		query = query.Where("inventory_item_id = ?", filter.ItemID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var adjustments []adjustment.StockAdjustment
	if err := query.Order("created_at DESC").Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

func (r *GormAdjustmentRepository) Save(ctx context.Context, adj *adjustment.StockAdjustment) error {
	return conn(ctx, r.db).Save(adj).Error
}
