// internal/domain/inventory/ledger.go
package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Ledger is the single sanctioned path for mutating an item's current stock.
// Every stock change reads the item under a row lock, computes the new stock,
// persists the item and appends exactly one StockMovement in the same
// transaction. Higher-level services (receiving, adjustment approval, recipe
// deduction) all funnel through it.
type Ledger struct {
	items     ItemRepository
	movements MovementRepository
	tx        TransactionScope
	logger    *logrus.Logger
}

// NewLedger creates the ledger over its repositories and transaction scope.
func NewLedger(items ItemRepository, movements MovementRepository, tx TransactionScope, logger *logrus.Logger) *Ledger {
	return &Ledger{
		items:     items,
		movements: movements,
		tx:        tx,
		logger:    logger,
	}
}

// RecordInput describes one stock change. Quantity is the unsigned magnitude;
// the movement type determines the sign.
type RecordInput struct {
	ItemID      uint
	Type        MovementType
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal // defaults to the item's current unit cost
	Reference   MovementRef
	PerformedBy uuid.UUID
}

// Record applies one stock change in its own transaction and returns the
// appended movement together with the updated item.
func (l *Ledger) Record(ctx context.Context, scope Scope, in RecordInput) (*StockMovement, *InventoryItem, error) {
	var (
		movement *StockMovement
		item     *InventoryItem
	)
	err := l.tx.Execute(ctx, func(ctx context.Context) error {
		var err error
		movement, item, err = l.RecordInTx(ctx, scope, in)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return movement, item, nil
}

// RecordInTx applies one stock change inside an already-open transaction.
// Callers that touch several items in one atomic unit (purchase-order
// receiving, recipe deduction) call this once per item within a single
// TransactionScope.Execute.
func (l *Ledger) RecordInTx(ctx context.Context, scope Scope, in RecordInput) (*StockMovement, *InventoryItem, error) {
	if !ValidMovementType(in.Type) {
		return nil, nil, NewFieldValidation("type", "unknown movement type %q", in.Type)
	}
	if in.Quantity.Sign() <= 0 {
		return nil, nil, NewFieldValidation("quantity", "must be greater than zero")
	}

	item, err := l.items.FindByIDForUpdate(ctx, scope, in.ItemID)
	if err != nil {
		return nil, nil, err
	}
	if !item.IsActive {
		return nil, nil, NewNotFound("inventory item", in.ItemID)
	}

	previous := item.CurrentStock
	var next decimal.Decimal
	if in.Type.Increases() {
		next = previous.Add(in.Quantity)
	} else {
		next = previous.Sub(in.Quantity)
		if next.Sign() < 0 {
			return nil, nil, NewInsufficientStock(item.ID, item.Name, in.Quantity, previous)
		}
	}

	unitCost := item.UnitCost
	if in.UnitCost != nil {
		unitCost = *in.UnitCost
	}

	item.CurrentStock = next
	if in.Type == MovementPurchase {
		now := time.Now().UTC()
		item.LastRestocked = &now
	}
	if err := l.items.Save(ctx, item); err != nil {
		return nil, nil, err
	}

	movement := &StockMovement{
		ID:              uuid.NewString(),
		TenantID:        scope.TenantID,
		OutletID:        scope.OutletID,
		InventoryItemID: item.ID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		Unit:            item.Unit,
		PreviousStock:   previous,
		NewStock:        next,
		UnitCost:        unitCost,
		TotalCost:       in.Quantity.Abs().Mul(unitCost),
		ReferenceType:   in.Reference.Type,
		ReferenceID:     in.Reference.ID,
		PerformedBy:     in.PerformedBy,
		CreatedAt:       time.Now().UTC(),
	}
	if err := l.movements.Append(ctx, movement); err != nil {
		return nil, nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"tenant_id":      scope.TenantID,
		"item_id":        item.ID,
		"movement_type":  in.Type,
		"quantity":       in.Quantity.String(),
		"previous_stock": previous.String(),
		"new_stock":      next.String(),
		"reference_type": in.Reference.Type,
	}).Info("stock movement recorded")

	return movement, item, nil
}

// ApplyTargetInTx moves an item's stock to an absolute target value and
// appends one adjustment movement with quantity |current - target|. Used by
// adjustment approval, where the reviewed value is applied as-is even if the
// stock drifted after the adjustment was created. The target must not be
// negative.
func (l *Ledger) ApplyTargetInTx(ctx context.Context, scope Scope, itemID uint, target decimal.Decimal, ref MovementRef, performedBy uuid.UUID) (*StockMovement, *InventoryItem, error) {
	if target.Sign() < 0 {
		return nil, nil, NewFieldValidation("new_stock", "cannot be negative")
	}

	item, err := l.items.FindByIDForUpdate(ctx, scope, itemID)
	if err != nil {
		return nil, nil, err
	}
	if !item.IsActive {
		return nil, nil, NewNotFound("inventory item", itemID)
	}

	previous := item.CurrentStock
	item.CurrentStock = target
	if err := l.items.Save(ctx, item); err != nil {
		return nil, nil, err
	}

	quantity := target.Sub(previous).Abs()
	movement := &StockMovement{
		ID:              uuid.NewString(),
		TenantID:        scope.TenantID,
		OutletID:        scope.OutletID,
		InventoryItemID: item.ID,
		Type:            MovementAdjustment,
		Quantity:        quantity,
		Unit:            item.Unit,
		PreviousStock:   previous,
		NewStock:        target,
		UnitCost:        item.UnitCost,
		TotalCost:       quantity.Mul(item.UnitCost),
		ReferenceType:   ref.Type,
		ReferenceID:     ref.ID,
		PerformedBy:     performedBy,
		CreatedAt:       time.Now().UTC(),
	}
	if err := l.movements.Append(ctx, movement); err != nil {
		return nil, nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"tenant_id":      scope.TenantID,
		"item_id":        item.ID,
		"movement_type":  MovementAdjustment,
		"previous_stock": previous.String(),
		"new_stock":      target.String(),
		"reference_type": ref.Type,
	}).Info("stock adjusted to target")

	return movement, item, nil
}
