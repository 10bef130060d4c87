// internal/domain/purchaseorder/service.go
package purchaseorder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/pkg/sequence"
)

// Service implements the purchase order lifecycle.
type Service struct {
	orders Repository
	items  inventory.ItemRepository
	ledger *inventory.Ledger
	seq    sequence.Generator
	tx     inventory.TransactionScope
	logger *logrus.Logger
}

// NewService creates a new purchase order service.
func NewService(orders Repository, items inventory.ItemRepository, ledger *inventory.Ledger, seq sequence.Generator, tx inventory.TransactionScope, logger *logrus.Logger) *Service {
	return &Service{
		orders: orders,
		items:  items,
		ledger: ledger,
		seq:    seq,
		tx:     tx,
		logger: logger,
	}
}

// CreateItemRequest is one ordered line in a creation request.
type CreateItemRequest struct {
	InventoryItemID uint            `json:"inventory_item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
}

// CreateRequest represents purchase order creation data.
type CreateRequest struct {
	SupplierID           uuid.UUID           `json:"supplier_id" binding:"required"`
	Items                []CreateItemRequest `json:"items" binding:"required,min=1"`
	TaxAmount            decimal.Decimal     `json:"tax_amount"`
	ShippingCost         decimal.Decimal     `json:"shipping_cost"`
	Notes                string              `json:"notes"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date"`
}

// ReceiveLine is one delivered quantity in a receive request.
type ReceiveLine struct {
	InventoryItemID uint            `json:"inventory_item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
}

// ReceiveRequest represents a (possibly partial) goods receipt.
type ReceiveRequest struct {
	Items []ReceiveLine `json:"items" binding:"required,min=1"`
}

// Create validates the lines, derives totals and persists the order as draft.
func (s *Service) Create(ctx context.Context, scope inventory.Scope, req *CreateRequest, createdBy uuid.UUID) (*PurchaseOrder, error) {
	if len(req.Items) == 0 {
		return nil, inventory.NewFieldValidation("items", "at least one line is required")
	}
	if req.TaxAmount.Sign() < 0 || req.ShippingCost.Sign() < 0 {
		return nil, inventory.NewValidation("tax and shipping cannot be negative")
	}

	lines := make([]PurchaseOrderItem, 0, len(req.Items))
	seen := make(map[uint]bool, len(req.Items))
	for _, line := range req.Items {
		if seen[line.InventoryItemID] {
			return nil, inventory.NewFieldValidation("items", "item %d listed more than once", line.InventoryItemID)
		}
		seen[line.InventoryItemID] = true
		if line.Quantity.Sign() <= 0 {
			return nil, inventory.NewFieldValidation("items.quantity", "must be greater than zero")
		}
		if line.UnitCost.Sign() < 0 {
			return nil, inventory.NewFieldValidation("items.unit_cost", "cannot be negative")
		}
		item, err := s.items.FindByID(ctx, scope, line.InventoryItemID)
		if err != nil {
			return nil, err
		}
		unitCost := line.UnitCost
		if unitCost.IsZero() {
			unitCost = item.UnitCost
		}
		lines = append(lines, PurchaseOrderItem{
			InventoryItemID:  item.ID,
			Quantity:         line.Quantity,
			UnitCost:         unitCost,
			ReceivedQuantity: decimal.Zero,
		})
	}

	now := time.Now().UTC()
	seq, err := s.seq.Next(ctx, scope.TenantID, sequence.PrefixPurchaseOrder, now)
	if err != nil {
		return nil, err
	}

	po := &PurchaseOrder{
		TenantID:             scope.TenantID,
		OutletID:             scope.OutletID,
		PONumber:             sequence.Number(sequence.PrefixPurchaseOrder, now, seq),
		SupplierID:           req.SupplierID,
		Status:               StatusDraft,
		Items:                lines,
		TaxAmount:            req.TaxAmount,
		ShippingCost:         req.ShippingCost,
		Notes:                req.Notes,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		CreatedBy:            createdBy,
	}
	po.ComputeTotals()

	if err := s.orders.Create(ctx, po); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id": scope.TenantID,
		"po_number": po.PONumber,
		"lines":     len(po.Items),
		"total":     po.Total.String(),
	}).Info("purchase order created")

	return po, nil
}

// Get retrieves one purchase order in the caller's scope.
func (s *Service) Get(ctx context.Context, scope inventory.Scope, id uint) (*PurchaseOrder, error) {
	return s.orders.FindByID(ctx, scope, id)
}

// List retrieves purchase orders matching the filter.
func (s *Service) List(ctx context.Context, scope inventory.Scope, filter Filter) ([]PurchaseOrder, error) {
	return s.orders.List(ctx, scope, filter)
}

// Submit transitions draft -> pending.
func (s *Service) Submit(ctx context.Context, scope inventory.Scope, id uint) (*PurchaseOrder, error) {
	return s.transition(ctx, scope, id, "submit", StatusDraft, StatusPending, nil)
}

// Approve transitions pending -> approved, recording the approver.
func (s *Service) Approve(ctx context.Context, scope inventory.Scope, id uint, approvedBy uuid.UUID) (*PurchaseOrder, error) {
	return s.transition(ctx, scope, id, "approve", StatusPending, StatusApproved, func(po *PurchaseOrder) {
		now := time.Now().UTC()
		po.ApprovedBy = &approvedBy
		po.ApprovedAt = &now
	})
}

// MarkOrdered transitions approved -> ordered and stamps the ordered date.
func (s *Service) MarkOrdered(ctx context.Context, scope inventory.Scope, id uint) (*PurchaseOrder, error) {
	return s.transition(ctx, scope, id, "mark ordered", StatusApproved, StatusOrdered, func(po *PurchaseOrder) {
		now := time.Now().UTC()
		po.OrderedDate = &now
	})
}

func (s *Service) transition(ctx context.Context, scope inventory.Scope, id uint, op string, from, to Status, mutate func(*PurchaseOrder)) (*PurchaseOrder, error) {
	var po *PurchaseOrder
	err := s.tx.Execute(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.orders.FindByIDForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		if po.Status != from {
			return inventory.NewInvalidState("purchase order", string(po.Status), op)
		}
		po.Status = to
		if mutate != nil {
			mutate(po)
		}
		return s.orders.Save(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// ReceiveGoods books a delivery against an ordered or partially-received
// order. Every received line increments the linked item's stock through the
// ledger and appends one purchase movement referencing the order. All lines
// of one call commit together or not at all. Over-receiving any line fails
// the whole call with ValidationError before stock moves.
func (s *Service) ReceiveGoods(ctx context.Context, scope inventory.Scope, id uint, req *ReceiveRequest, receivedBy uuid.UUID) (*PurchaseOrder, error) {
	if len(req.Items) == 0 {
		return nil, inventory.NewFieldValidation("items", "at least one line is required")
	}

	var po *PurchaseOrder
	err := s.tx.Execute(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.orders.FindByIDForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		if !po.CanReceive() {
			return inventory.NewInvalidState("purchase order", string(po.Status), "receive goods against")
		}

		lineByItem := make(map[uint]*PurchaseOrderItem, len(po.Items))
		for i := range po.Items {
			lineByItem[po.Items[i].InventoryItemID] = &po.Items[i]
		}

		// Validate every requested line before touching stock. Duplicate
		// item lines are rejected outright: checking them one by one against
		// the stored received quantity would let their sum slip past the
		// ordered quantity.
		seen := make(map[uint]bool, len(req.Items))
		for _, recv := range req.Items {
			if seen[recv.InventoryItemID] {
				return inventory.NewFieldValidation("items", "item %d listed more than once", recv.InventoryItemID)
			}
			seen[recv.InventoryItemID] = true
			line, ok := lineByItem[recv.InventoryItemID]
			if !ok {
				return inventory.NewNotFound("purchase order line for item", recv.InventoryItemID)
			}
			if recv.Quantity.Sign() <= 0 {
				return inventory.NewFieldValidation("items.quantity", "must be greater than zero")
			}
			if line.ReceivedQuantity.Add(recv.Quantity).Cmp(line.Quantity) > 0 {
				return inventory.NewFieldValidation("items.quantity",
					"receiving %s for item %d exceeds ordered quantity %s (already received %s)",
					recv.Quantity.String(), recv.InventoryItemID, line.Quantity.String(), line.ReceivedQuantity.String())
			}
		}

		for _, recv := range req.Items {
			line := lineByItem[recv.InventoryItemID]
			unitCost := line.UnitCost
			if _, _, err := s.ledger.RecordInTx(ctx, scope, inventory.RecordInput{
				ItemID:      line.InventoryItemID,
				Type:        inventory.MovementPurchase,
				Quantity:    recv.Quantity,
				UnitCost:    &unitCost,
				Reference:   inventory.PurchaseOrderRef(po.ID),
				PerformedBy: receivedBy,
			}); err != nil {
				return err
			}
			line.ReceivedQuantity = line.ReceivedQuantity.Add(recv.Quantity)
		}

		if po.IsFullyReceived() {
			po.Status = StatusReceived
			now := time.Now().UTC()
			po.ReceivedDate = &now
		} else {
			po.Status = StatusPartiallyReceived
		}
		return s.orders.Save(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id": scope.TenantID,
		"po_number": po.PONumber,
		"status":    po.Status,
	}).Info("purchase order goods received")

	return po, nil
}

// Cancel transitions any non-terminal status to cancelled.
func (s *Service) Cancel(ctx context.Context, scope inventory.Scope, id uint) (*PurchaseOrder, error) {
	var po *PurchaseOrder
	err := s.tx.Execute(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.orders.FindByIDForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		if !po.CanCancel() {
			return inventory.NewInvalidState("purchase order", string(po.Status), "cancel")
		}
		po.Status = StatusCancelled
		return s.orders.Save(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// Delete hard-deletes a draft order. Orders that progressed past draft are
// part of the audit trail and can only be cancelled.
func (s *Service) Delete(ctx context.Context, scope inventory.Scope, id uint) error {
	return s.tx.Execute(ctx, func(ctx context.Context) error {
		po, err := s.orders.FindByIDForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		if po.Status != StatusDraft {
			return inventory.NewInvalidState("purchase order", string(po.Status), "delete")
		}
		return s.orders.Delete(ctx, scope, id)
	})
}
