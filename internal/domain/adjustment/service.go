// internal/domain/adjustment/service.go
package adjustment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/your-org/pos-backend/internal/domain/inventory"
	"github.com/your-org/pos-backend/internal/pkg/sequence"
)

// Service implements the stock-adjustment approval workflow. An adjustment
// is created pending with a proposed new stock, then either approved (which
// applies the proposal through the ledger) or rejected (no stock effect).
type Service struct {
	adjustments Repository
	items       inventory.ItemRepository
	ledger      *inventory.Ledger
	seq         sequence.Generator
	tx          inventory.TransactionScope
	logger      *logrus.Logger
}

// NewService creates a new adjustment service.
func NewService(adjustments Repository, items inventory.ItemRepository, ledger *inventory.Ledger, seq sequence.Generator, tx inventory.TransactionScope, logger *logrus.Logger) *Service {
	return &Service{
		adjustments: adjustments,
		items:       items,
		ledger:      ledger,
		seq:         seq,
		tx:          tx,
		logger:      logger,
	}
}

// CreateRequest represents adjustment creation data. For correction
// adjustments the caller supplies the target NewStock directly; for the
// loss types (wastage, damage, theft, expiry) the caller supplies the lost
// Quantity and the new stock is derived.
type CreateRequest struct {
	InventoryItemID uint             `json:"inventory_item_id" binding:"required"`
	Type            Type             `json:"type" binding:"required"`
	Quantity        *decimal.Decimal `json:"quantity"`
	NewStock        *decimal.Decimal `json:"new_stock"`
	Reason          string           `json:"reason" binding:"required"`
}

// UpdateRequest modifies a pending adjustment.
type UpdateRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
	NewStock *decimal.Decimal `json:"new_stock"`
	Reason   *string          `json:"reason"`
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Create computes the proposed new stock against the item's current value
// and persists the adjustment as pending. Nothing moves until approval.
func (s *Service) Create(ctx context.Context, scope inventory.Scope, req *CreateRequest, createdBy uuid.UUID) (*StockAdjustment, error) {
	if !ValidType(req.Type) {
		return nil, inventory.NewFieldValidation("type", "unknown adjustment type %q", req.Type)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, inventory.NewFieldValidation("reason", "is required")
	}

	item, err := s.items.FindByID(ctx, scope, req.InventoryItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, inventory.NewNotFound("inventory item", req.InventoryItemID)
	}

	previous := item.CurrentStock
	var quantity, newStock decimal.Decimal
	if req.Type == TypeCorrection {
		if req.NewStock == nil {
			return nil, inventory.NewFieldValidation("new_stock", "is required for correction adjustments")
		}
		newStock = *req.NewStock
		quantity = newStock.Sub(previous).Abs()
	} else {
		if req.Quantity == nil || req.Quantity.Sign() <= 0 {
			return nil, inventory.NewFieldValidation("quantity", "must be greater than zero")
		}
		quantity = *req.Quantity
		newStock = previous.Sub(quantity)
	}
	if newStock.Sign() < 0 {
		return nil, inventory.NewFieldValidation("new_stock", "adjustment would drive stock below zero")
	}

	now := time.Now().UTC()
	seq, err := s.seq.Next(ctx, scope.TenantID, sequence.PrefixStockAdjustment, now)
	if err != nil {
		return nil, err
	}

	adj := &StockAdjustment{
		TenantID:         scope.TenantID,
		OutletID:         scope.OutletID,
		AdjustmentNumber: sequence.Number(sequence.PrefixStockAdjustment, now, seq),
		InventoryItemID:  item.ID,
		Type:             req.Type,
		Quantity:         quantity,
		PreviousStock:    previous,
		NewStock:         newStock,
		Reason:           req.Reason,
		Cost:             quantity.Abs().Mul(item.UnitCost),
		Status:           StatusPending,
		CreatedBy:        createdBy,
	}
	if err := s.adjustments.Create(ctx, adj); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id":         scope.TenantID,
		"adjustment_number": adj.AdjustmentNumber,
		"item_id":           item.ID,
		"type":              adj.Type,
	}).Info("stock adjustment created")

	return adj, nil
}

// Get retrieves one adjustment in the caller's scope.
func (s *Service) Get(ctx context.Context, scope inventory.Scope, id uint) (*StockAdjustment, error) {
	return s.adjustments.FindByID(ctx, scope, id)
}

// List retrieves adjustments matching the filter.
func (s *Service) List(ctx context.Context, scope inventory.Scope, filter Filter) ([]StockAdjustment, error) {
	return s.adjustments.List(ctx, scope, filter)
}

// Update modifies a pending adjustment, recomputing the proposed new stock
// and cost against the item's current values.
func (s *Service) Update(ctx context.Context, scope inventory.Scope, id uint, req *UpdateRequest) (*StockAdjustment, error) {
	adj, err := s.adjustments.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !adj.IsPending() {
		return nil, inventory.NewInvalidState("stock adjustment", string(adj.Status), "update")
	}

	item, err := s.items.FindByID(ctx, scope, adj.InventoryItemID)
	if err != nil {
		return nil, err
	}

	if req.Reason != nil {
		if strings.TrimSpace(*req.Reason) == "" {
			return nil, inventory.NewFieldValidation("reason", "is required")
		}
		adj.Reason = *req.Reason
	}

	// The proposal is always recomputed against the item's current stock,
	// even when the request only changed the reason, so quantity, previous
	// stock and new stock stay mutually consistent for the approver.
	previous := item.CurrentStock
	if adj.Type == TypeCorrection {
		if req.NewStock != nil {
			adj.NewStock = *req.NewStock
		}
		adj.Quantity = adj.NewStock.Sub(previous).Abs()
	} else {
		if req.Quantity != nil {
			if req.Quantity.Sign() <= 0 {
				return nil, inventory.NewFieldValidation("quantity", "must be greater than zero")
			}
			adj.Quantity = *req.Quantity
		}
		adj.NewStock = previous.Sub(adj.Quantity)
	}
	if adj.NewStock.Sign() < 0 {
		return nil, inventory.NewFieldValidation("new_stock", "adjustment would drive stock below zero")
	}
	adj.PreviousStock = previous
	adj.Cost = adj.Quantity.Abs().Mul(item.UnitCost)

	if err := s.adjustments.Save(ctx, adj); err != nil {
		return nil, err
	}
	return adj, nil
}

// Approve transitions pending -> approved and applies the previously
// computed new stock to the item through the ledger. The stored proposal is
// applied as-is: if stock drifted since creation, the applied value still
// matches what the approver reviewed. Approving a non-pending adjustment
// fails with InvalidStateError.
func (s *Service) Approve(ctx context.Context, scope inventory.Scope, id uint, approvedBy uuid.UUID) (*StockAdjustment, error) {
	var adj *StockAdjustment
	err := s.tx.Execute(ctx, func(ctx context.Context) error {
		var err error
		adj, err = s.adjustments.FindByIDForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		if !adj.IsPending() {
			return inventory.NewInvalidState("stock adjustment", string(adj.Status), "approve")
		}

		if _, _, err := s.ledger.ApplyTargetInTx(ctx, scope, adj.InventoryItemID, adj.NewStock, inventory.AdjustmentRef(adj.ID), approvedBy); err != nil {
			return err
		}

		now := time.Now().UTC()
		adj.Status = StatusApproved
		adj.ApprovedBy = &approvedBy
		adj.ApprovedAt = &now
		return s.adjustments.Save(ctx, adj)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id":         scope.TenantID,
		"adjustment_number": adj.AdjustmentNumber,
		"new_stock":         adj.NewStock.String(),
	}).Info("stock adjustment approved")

	return adj, nil
}

// Reject transitions pending -> rejected, recording the reason. Stock is
// untouched.
func (s *Service) Reject(ctx context.Context, scope inventory.Scope, id uint, rejectedBy uuid.UUID, reason string) (*StockAdjustment, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, inventory.NewFieldValidation("reason", "is required")
	}

	var adj *StockAdjustment
	err := s.tx.Execute(ctx, func(ctx context.Context) error {
		var err error
		adj, err = s.adjustments.FindByIDForUpdate(ctx, scope, id)
		if err != nil {
			return err
		}
		if !adj.IsPending() {
			return inventory.NewInvalidState("stock adjustment", string(adj.Status), "reject")
		}

		now := time.Now().UTC()
		adj.Status = StatusRejected
		adj.RejectedBy = &rejectedBy
		adj.RejectedAt = &now
		adj.RejectionReason = reason
		return s.adjustments.Save(ctx, adj)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id":         scope.TenantID,
		"adjustment_number": adj.AdjustmentNumber,
	}).Info("stock adjustment rejected")

	return adj, nil
}
