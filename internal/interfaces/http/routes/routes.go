// internal/interfaces/http/routes/routes.go
package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/adjustment"
	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/domain/purchaseorder"
	"github.com/your-org/pos-backend/internal/domain/recipe"
	"github.com/your-org/pos-backend/internal/infrastructure/persistence"
	"github.com/your-org/pos-backend/internal/interfaces/http/handlers"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
	"github.com/your-org/pos-backend/internal/pkg/sequence"
)

// SetupRoutes wires repositories, the ledger and the domain services, then
// mounts every endpoint group under the given router group.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	logger := newLogger(cfg)

	tx := persistence.NewTransactionScope(db)
	itemRepo := persistence.NewItemRepository(db)
	movementRepo := persistence.NewMovementRepository(db)
	adjustmentRepo := persistence.NewAdjustmentRepository(db)
	orderRepo := persistence.NewPurchaseOrderRepository(db)
	recipeRepo := persistence.NewRecipeRepository(db)
	seq := sequence.NewRedisGenerator(redisClient)

	ledger := inventory.NewLedger(itemRepo, movementRepo, tx, logger)
	inventoryService := inventory.NewService(itemRepo, movementRepo, ledger, seq, tx, logger)
	adjustmentService := adjustment.NewService(adjustmentRepo, itemRepo, ledger, seq, tx, logger)
	orderService := purchaseorder.NewService(orderRepo, itemRepo, ledger, seq, tx, logger)
	recipeService := recipe.NewService(recipeRepo, itemRepo, ledger, tx, logger)

	setupInventoryRoutes(rg, cfg, handlers.NewInventoryHandler(inventoryService))
	setupAdjustmentRoutes(rg, cfg, handlers.NewAdjustmentHandler(adjustmentService))
	setupPurchaseOrderRoutes(rg, cfg, handlers.NewPurchaseOrderHandler(orderService))
	setupRecipeRoutes(rg, cfg, handlers.NewRecipeHandler(recipeService))
}

// setupInventoryRoutes sets up inventory item routes
func setupInventoryRoutes(rg *gin.RouterGroup, cfg *config.Config, h *handlers.InventoryHandler) {
	inv := rg.Group("/inventory")
	inv.Use(middleware.AuthMiddleware(cfg))
	{
		inv.POST("/items", h.CreateItem)
		inv.GET("/items", h.ListItems)
		inv.GET("/items/:id", h.GetItem)
		inv.PUT("/items/:id", h.UpdateItem)
		inv.PATCH("/items/:id/stock", h.UpdateStock)
		inv.DELETE("/items/:id", h.DeleteItem)
		inv.GET("/items/:id/movements", h.GetMovements)

		inv.GET("/low-stock", h.GetLowStock)
		inv.GET("/reorder", h.GetReorderList)
		inv.GET("/valuation", h.GetValuation)
	}
}

// setupAdjustmentRoutes sets up stock adjustment routes
func setupAdjustmentRoutes(rg *gin.RouterGroup, cfg *config.Config, h *handlers.AdjustmentHandler) {
	adj := rg.Group("/adjustments")
	adj.Use(middleware.AuthMiddleware(cfg))
	{
		adj.POST("", h.CreateAdjustment)
		adj.GET("", h.ListAdjustments)
		adj.GET("/:id", h.GetAdjustment)
		adj.PUT("/:id", h.UpdateAdjustment)

		// Approval decisions require a manager role
		approvals := adj.Group("")
		approvals.Use(middleware.ManagerMiddleware())
		{
			approvals.POST("/:id/approve", h.ApproveAdjustment)
			approvals.POST("/:id/reject", h.RejectAdjustment)
		}
	}
}

// setupPurchaseOrderRoutes sets up purchase order routes
func setupPurchaseOrderRoutes(rg *gin.RouterGroup, cfg *config.Config, h *handlers.PurchaseOrderHandler) {
	po := rg.Group("/purchase-orders")
	po.Use(middleware.AuthMiddleware(cfg))
	{
		po.POST("", h.CreateOrder)
		po.GET("", h.ListOrders)
		po.GET("/:id", h.GetOrder)
		po.POST("/:id/submit", h.SubmitOrder)
		po.POST("/:id/order", h.MarkOrdered)
		po.POST("/:id/receive", h.ReceiveGoods)
		po.POST("/:id/cancel", h.CancelOrder)
		po.DELETE("/:id", h.DeleteOrder)

		approvals := po.Group("")
		approvals.Use(middleware.ManagerMiddleware())
		{
			approvals.POST("/:id/approve", h.ApproveOrder)
		}
	}
}

// setupRecipeRoutes sets up recipe routes
func setupRecipeRoutes(rg *gin.RouterGroup, cfg *config.Config, h *handlers.RecipeHandler) {
	rec := rg.Group("/recipes")
	rec.Use(middleware.AuthMiddleware(cfg))
	{
		rec.POST("", h.CreateRecipe)
		rec.GET("", h.ListRecipes)
		rec.GET("/:id", h.GetRecipe)
		rec.PUT("/:id", h.UpdateRecipe)
		rec.DELETE("/:id", h.DeleteRecipe)
		rec.GET("/:id/availability", h.CheckAvailability)
		rec.POST("/:id/deduct", h.DeductInventory)
		rec.GET("/:id/cost", h.GetCost)
	}
}

// newLogger builds the application logger from config
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
