// internal/interfaces/http/handlers/adjustment.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/pos-backend/internal/domain/adjustment"
)

// AdjustmentHandler handles stock adjustment endpoints
type AdjustmentHandler struct {
	service *adjustment.Service
}

// NewAdjustmentHandler creates a new adjustment handler
func NewAdjustmentHandler(service *adjustment.Service) *AdjustmentHandler {
	return &AdjustmentHandler{
		service: service,
	}
}

// CreateAdjustment handles POST /adjustments
func (h *AdjustmentHandler) CreateAdjustment(c *gin.Context) {
	scope, userID, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req adjustment.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	adj, err := h.service.Create(c.Request.Context(), scope, &req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Stock adjustment created successfully",
		"data":    adj,
	})
}

// GetAdjustment handles GET /adjustments/:id
func (h *AdjustmentHandler) GetAdjustment(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	adj, err := h.service.Get(c.Request.Context(), scope, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock adjustment retrieved successfully",
		"data":    adj,
	})
}

// ListAdjustments handles GET /adjustments
func (h *AdjustmentHandler) ListAdjustments(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	limit, offset := parsePagination(c)
	filter := adjustment.Filter{
		Status: adjustment.Status(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	}
	if itemID, ok := parseOptionalID(c, "item_id"); ok {
		filter.ItemID = itemID
	}

	adjustments, err := h.service.List(c.Request.Context(), scope, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock adjustments retrieved successfully",
		"data":    adjustments,
	})
}

// UpdateAdjustment handles PUT /adjustments/:id
func (h *AdjustmentHandler) UpdateAdjustment(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req adjustment.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	adj, err := h.service.Update(c.Request.Context(), scope, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock adjustment updated successfully",
		"data":    adj,
	})
}

// ApproveAdjustment handles POST /adjustments/:id/approve
func (h *AdjustmentHandler) ApproveAdjustment(c *gin.Context) {
	scope, userID, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	adj, err := h.service.Approve(c.Request.Context(), scope, id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock adjustment approved successfully",
		"data":    adj,
	})
}

// RejectAdjustment handles POST /adjustments/:id/reject
func (h *AdjustmentHandler) RejectAdjustment(c *gin.Context) {
	scope, userID, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req adjustment.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	adj, err := h.service.Reject(c.Request.Context(), scope, id, userID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock adjustment rejected successfully",
		"data":    adj,
	})
}
