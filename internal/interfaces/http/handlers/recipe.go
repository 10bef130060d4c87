// internal/interfaces/http/handlers/recipe.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/your-org/pos-backend/internal/domain/recipe"
)

// RecipeHandler handles recipe endpoints
type RecipeHandler struct {
	service *recipe.Service
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(service *recipe.Service) *RecipeHandler {
	return &RecipeHandler{
		service: service,
	}
}

// CreateRecipe handles POST /recipes
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req recipe.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	r, err := h.service.Create(c.Request.Context(), scope, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe created successfully",
		"data":    r,
	})
}

// GetRecipe handles GET /recipes/:id
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	r, err := h.service.Get(c.Request.Context(), scope, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe retrieved successfully",
		"data":    r,
	})
}

// ListRecipes handles GET /recipes
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}

	limit, offset := parsePagination(c)
	filter := recipe.Filter{
		OnlyActive: c.DefaultQuery("include_inactive", "false") != "true",
		Limit:      limit,
		Offset:     offset,
	}
	if raw := c.Query("dish_id"); raw != "" {
		dishID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid dish_id",
			})
			return
		}
		filter.DishID = &dishID
	}

	recipes, err := h.service.List(c.Request.Context(), scope, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipes retrieved successfully",
		"data":    recipes,
	})
}

// UpdateRecipe handles PUT /recipes/:id
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req recipe.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	r, err := h.service.Update(c.Request.Context(), scope, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe updated successfully",
		"data":    r,
	})
}

// DeleteRecipe handles DELETE /recipes/:id
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
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
		"message": "Recipe deleted successfully",
	})
}

// CheckAvailability handles GET /recipes/:id/availability
func (h *RecipeHandler) CheckAvailability(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quantity, err := parseDishQuantity(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid dish_quantity",
		})
		return
	}

	report, err := h.service.CheckAvailability(c.Request.Context(), scope, id, quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe availability retrieved successfully",
		"data":    report,
	})
}

// DeductInventory handles POST /recipes/:id/deduct
func (h *RecipeHandler) DeductInventory(c *gin.Context) {
	scope, userID, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req recipe.DeductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	movements, err := h.service.DeductInventory(c.Request.Context(), scope, id, req.DishQuantity, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe inventory deducted successfully",
		"data":    movements,
	})
}

// GetCost handles GET /recipes/:id/cost
func (h *RecipeHandler) GetCost(c *gin.Context) {
	scope, _, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.service.CalculateCost(c.Request.Context(), scope, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe cost calculated successfully",
		"data":    report,
	})
}

func parseDishQuantity(c *gin.Context) (decimal.Decimal, error) {
	return decimal.NewFromString(c.DefaultQuery("dish_quantity", "1"))
}
