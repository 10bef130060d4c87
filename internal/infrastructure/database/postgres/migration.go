// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/your-org/pos-backend/internal/domain/adjustment"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/purchaseorder"
	"github.com/your-org/pos-backend/internal/domain/recipe"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// Inventory domain - Base tables
		&inventory.InventoryItem{},
		&inventory.StockMovement{},

		// Adjustment domain
		&adjustment.StockAdjustment{},

		// Purchase order domain - Dependent tables
		&purchaseorder.PurchaseOrder{},
		&purchaseorder.PurchaseOrderItem{},

		// Recipe domain
		&recipe.Recipe{},
		&recipe.RecipeIngredient{},
	}

	// Run auto-migration for each model
	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Inventory item indexes
		"CREATE INDEX IF NOT EXISTS idx_items_outlet_active ON inventory_items(outlet_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_items_outlet_category ON inventory_items(outlet_id, category)",
		"CREATE INDEX IF NOT EXISTS idx_items_created_at ON inventory_items(created_at DESC)",

		// Stock movement indexes
		"CREATE INDEX IF NOT EXISTS idx_movements_item_created ON stock_movements(inventory_item_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_movements_reference ON stock_movements(reference_type, reference_id)",
		"CREATE INDEX IF NOT EXISTS idx_movements_type ON stock_movements(type)",

		// Adjustment indexes
		"CREATE INDEX IF NOT EXISTS idx_adjustments_outlet_status ON stock_adjustments(outlet_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_adjustments_item ON stock_adjustments(inventory_item_id)",
		"CREATE INDEX IF NOT EXISTS idx_adjustments_created_at ON stock_adjustments(created_at DESC)",

		// Purchase order indexes
		"CREATE INDEX IF NOT EXISTS idx_po_outlet_status ON purchase_orders(outlet_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_po_supplier ON purchase_orders(supplier_id)",
		"CREATE INDEX IF NOT EXISTS idx_po_created_at ON purchase_orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_po_items_order ON purchase_order_items(purchase_order_id)",
		"CREATE INDEX IF NOT EXISTS idx_po_items_item ON purchase_order_items(inventory_item_id)",

		// Recipe indexes
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_recipes_outlet_dish_active ON recipes(outlet_id, dish_id) WHERE is_active",
		"CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_recipe ON recipe_ingredients(recipe_id)",
		"CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_item ON recipe_ingredients(inventory_item_id)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts sample inventory for a demo tenant. Development
// only; every row is scoped to the fixed demo tenant and outlet.
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedDemoItems(); err != nil {
		return fmt.Errorf("failed to seed demo items: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

var (
	demoTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	demoOutletID = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

func (m *Migration) seedDemoItems() error {
	log.Println("📦 Seeding demo inventory items...")

	var count int64
	m.db.Model(&inventory.InventoryItem{}).Where("tenant_id = ?", demoTenantID).Count(&count)
	if count > 0 {
		log.Println("⏭️ Demo items already exist")
		return nil
	}

	items := []inventory.InventoryItem{
		{
			TenantID:      demoTenantID,
			OutletID:      demoOutletID,
			Name:          "Tomatoes",
			SKU:           "DEMO-TOMATO",
			Category:      inventory.CategoryVegetables,
			Unit:          inventory.UnitKilogram,
			CurrentStock:  decimal.NewFromInt(25),
			MinStockLevel: decimal.NewFromInt(5),
			UnitCost:      decimal.NewFromFloat(2.50),
			IsActive:      true,
		},
		{
			TenantID:      demoTenantID,
			OutletID:      demoOutletID,
			Name:          "Chicken Breast",
			SKU:           "DEMO-CHICKEN",
			Category:      inventory.CategoryMeat,
			Unit:          inventory.UnitKilogram,
			CurrentStock:  decimal.NewFromInt(15),
			MinStockLevel: decimal.NewFromInt(3),
			UnitCost:      decimal.NewFromFloat(8.90),
			IsActive:      true,
		},
		{
			TenantID:      demoTenantID,
			OutletID:      demoOutletID,
			Name:          "Olive Oil",
			SKU:           "DEMO-OLIVE-OIL",
			Category:      inventory.CategoryOther,
			Unit:          inventory.UnitLiter,
			CurrentStock:  decimal.NewFromInt(10),
			MinStockLevel: decimal.NewFromInt(2),
			UnitCost:      decimal.NewFromFloat(12.00),
			IsActive:      true,
		},
	}

	for _, item := range items {
		if err := m.db.Create(&item).Error; err != nil {
			return err
		}
		log.Printf("✅ Created demo item: %s", item.Name)
	}

	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Define tables in reverse dependency order
	tables := []string{
		"recipe_ingredients",
		"recipes",
		"purchase_order_items",
		"purchase_orders",
		"stock_adjustments",
		"stock_movements",
		"inventory_items",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}

// GetTableInfo returns information about database tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	// Get list of tables
	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	log.Println("================================")

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count

		status := "✅"
		if count == 0 {
			status = "📭"
		}

		log.Printf("%s %-25s | %d records", status, table, count)
	}

	log.Println("================================")
	log.Printf("📈 Total records across all tables: %d", totalRecords)
	log.Printf("🗂️ Total tables: %d", len(tables))

	return nil
}
