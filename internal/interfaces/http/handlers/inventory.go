// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/pos-backend/internal/domain/inventory"
)

// InventoryHandler handles inventory item endpoints
type InventoryHandler struct {
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{
		service: service,
	}
}

// CreateItem handles POST /inventory/items
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req inventory.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.service.Create(c.Request.Context(), scope, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Inventory item created successfully",
		"data":    item,
	})
}

// GetItem handles GET /inventory/items/:id
func (h *InventoryHandler) GetItem(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.service.Get(c.Request.Context(), scope, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory item retrieved successfully",
		"data":    item,
	})
}

// ListItems handles GET /inventory/items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	limit, offset := parsePagination(c)
	filter := inventory.ItemFilter{
		Category:   inventory.ItemCategory(c.Query("category")),
		Search:     c.Query("search"),
		OnlyActive: c.DefaultQuery("include_inactive", "false") != "true",
		Limit:      limit,
		Offset:     offset,
	}

	items, err := h.service.List(c.Request.Context(), scope, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory items retrieved successfully",
		"data":    items,
	})
}

// UpdateItem handles PUT /inventory/items/:id
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.service.Update(c.Request.Context(), scope, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory item updated successfully",
		"data":    item,
	})
}

// UpdateStock handles PATCH /inventory/items/:id/stock
func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	scope, userID, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.service.UpdateStock(c.Request.Context(), scope, id, &req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock updated successfully",
		"data":    item,
	})
}

// DeleteItem handles DELETE /inventory/items/:id
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), scope, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory item deleted successfully",
	})
}

// GetMovements handles GET /inventory/items/:id/movements
func (h *InventoryHandler) GetMovements(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	limit, offset := parsePagination(c)
	movements, err := h.service.Movements(c.Request.Context(), scope, id, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock movements retrieved successfully",
		"data":    movements,
	})
}

// GetLowStock handles GET /inventory/low-stock
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	items, err := h.service.ListLowStock(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Low stock items retrieved successfully",
		"data":    items,
	})
}

// GetReorderList handles GET /inventory/reorder
func (h *InventoryHandler) GetReorderList(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	items, err := h.service.ListReorder(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reorder items retrieved successfully",
		"data":    items,
	})
}

// GetValuation handles GET /inventory/valuation
func (h *InventoryHandler) GetValuation(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	report, err := h.service.Valuation(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory valuation retrieved successfully",
		"data":    report,
	})
}
