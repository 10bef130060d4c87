// internal/interfaces/http/handlers/purchase_order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/pos-backend/internal/domain/purchaseorder"
)

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	service *purchaseorder.Service
}

// NewPurchaseOrderHandler creates a new purchase order handler
func NewPurchaseOrderHandler(service *purchaseorder.Service) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		service: service,
	}
}

// CreateOrder handles POST /purchase-orders
func (h *PurchaseOrderHandler) CreateOrder(c *gin.Context) {
	scope, userID, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req purchaseorder.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	po, err := h.service.Create(c.Request.Context(), scope, &req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Purchase order created successfully",
		"data":    po,
	})
}

// GetOrder handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) GetOrder(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	po, err := h.service.Get(c.Request.Context(), scope, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase order retrieved successfully",
		"data":    po,
	})
}

// ListOrders handles GET /purchase-orders
func (h *PurchaseOrderHandler) ListOrders(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	limit, offset := parsePagination(c)
	filter := purchaseorder.Filter{
		Status: purchaseorder.Status(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("supplier_id"); raw != "" {
		supplierID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid supplier_id",
			})
			return
		}
		filter.SupplierID = &supplierID
	}

	orders, err := h.service.List(c.Request.Context(), scope, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase orders retrieved successfully",
		"data":    orders,
	})
}

// SubmitOrder handles POST /purchase-orders/:id/submit
func (h *PurchaseOrderHandler) SubmitOrder(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	po, err := h.service.Submit(c.Request.Context(), scope, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase order submitted successfully",
		"data":    po,
	})
}

// ApproveOrder handles POST /purchase-orders/:id/approve
func (h *PurchaseOrderHandler) ApproveOrder(c *gin.Context) {
	scope, userID, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	po, err := h.service.Approve(c.Request.Context(), scope, id, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase order approved successfully",
		"data":    po,
	})
}

// MarkOrdered handles POST /purchase-orders/:id/order
func (h *PurchaseOrderHandler) MarkOrdered(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	po, err := h.service.MarkOrdered(c.Request.Context(), scope, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase order marked as ordered successfully",
		"data":    po,
	})
}

// ReceiveGoods handles POST /purchase-orders/:id/receive
func (h *PurchaseOrderHandler) ReceiveGoods(c *gin.Context) {
	scope, userID, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req purchaseorder.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	po, err := h.service.ReceiveGoods(c.Request.Context(), scope, id, &req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Goods received successfully",
		"data":    po,
	})
}

// CancelOrder handles POST /purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) CancelOrder(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	po, err := h.service.Cancel(c.Request.Context(), scope, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase order cancelled successfully",
		"data":    po,
	})
}

// DeleteOrder handles DELETE /purchase-orders/:id
func (h *PurchaseOrderHandler) DeleteOrder(c *gin.Context) {
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
		"message": "Purchase order deleted successfully",
	})
}
