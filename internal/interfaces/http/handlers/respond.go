// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
)

// respondError translates domain errors to HTTP status codes:
// not found 404, validation 400, invalid state 409, insufficient stock 422,
// conflict 409. Anything else is a 500 with a generic message.
func respondError(c *gin.Context, err error) {
	var (
		notFound     *inventory.NotFoundError
		validation   *inventory.ValidationError
		invalidState *inventory.InvalidStateError
		insufficient *inventory.InsufficientStockError
		conflict     *inventory.ConflictError
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": notFound.Error(),
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validation.Error(),
		})
	case errors.As(err, &invalidState):
		c.JSON(http.StatusConflict, gin.H{
			"error": invalidState.Error(),
		})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      insufficient.Error(),
			"shortfalls": insufficient.Shortfalls,
		})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": conflict.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

// parseIDParam parses a numeric path parameter. On failure it writes a 400
// response and returns false.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}

// requireIdentity extracts the authenticated scope and user. On failure it
// writes a 401 response and returns false.
func requireIdentity(c *gin.Context) (inventory.Scope, uuid.UUID, bool) {
	scope, ok := middleware.GetScopeFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return inventory.Scope{}, uuid.Nil, false
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return inventory.Scope{}, uuid.Nil, false
	}
	return scope, userID, true
}

// parseOptionalID reads a numeric query parameter, reporting whether it was
// present and valid.
func parseOptionalID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// parsePagination reads limit/offset query parameters with sane defaults.
func parsePagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
