// internal/domain/inventory/errors.go
package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NotFoundError indicates the entity does not exist in the caller's
// tenant/outlet. The web layer maps it to 404.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// NewNotFound builds a NotFoundError for the given entity and identifier.
func NewNotFound(entity string, id interface{}) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError indicates a schema or business-rule violation in the
// caller's input. The web layer maps it to 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation builds a ValidationError with no field context.
func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NewFieldValidation builds a ValidationError for a specific field.
func NewFieldValidation(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Shortfall describes one item that cannot cover a requested quantity.
type Shortfall struct {
	InventoryItemID uint            `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Required        decimal.Decimal `json:"required"`
	Available       decimal.Decimal `json:"available"`
	Reason          string          `json:"reason"` // "insufficient_stock", "inactive", "missing"
}

// InsufficientStockError indicates a stock-decreasing operation would drive
// currentStock below zero. Shortfalls names every blocking item, not just the
// first, so callers can surface all of them at once. The web layer maps it
// to 422.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	if len(e.Shortfalls) == 1 {
		s := e.Shortfalls[0]
		return fmt.Sprintf("insufficient stock for %q: available %s, required %s",
			s.Name, s.Available.String(), s.Required.String())
	}
	names := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		names = append(names, s.Name)
	}
	return fmt.Sprintf("insufficient stock for %d items: %s", len(e.Shortfalls), strings.Join(names, ", "))
}

// NewInsufficientStock builds an InsufficientStockError for a single item.
func NewInsufficientStock(itemID uint, name string, required, available decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{Shortfalls: []Shortfall{{
		InventoryItemID: itemID,
		Name:            name,
		Required:        required,
		Available:       available,
		Reason:          "insufficient_stock",
	}}}
}

// InvalidStateError indicates an operation was attempted from a state that
// forbids it, e.g. approving a rejected adjustment. The web layer maps it
// to 409.
type InvalidStateError struct {
	Entity    string
	Current   string
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s %s in status %q", e.Operation, e.Entity, e.Current)
}

// NewInvalidState builds an InvalidStateError.
func NewInvalidState(entity, current, operation string) *InvalidStateError {
	return &InvalidStateError{Entity: entity, Current: current, Operation: operation}
}

// ConflictError indicates a concurrent-update conflict that survived the
// bounded internal retries. Callers should retry the whole request.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflict builds a ConflictError.
func NewConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
