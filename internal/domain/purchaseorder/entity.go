// internal/domain/purchaseorder/entity.go
package purchaseorder

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the purchase order state
type Status string

const (
	StatusDraft             Status = "draft"
	StatusPending           Status = "pending"
	StatusApproved          Status = "approved"
	StatusOrdered           Status = "ordered"
	StatusPartiallyReceived Status = "partially-received"
	StatusReceived          Status = "received"
	StatusCancelled         Status = "cancelled"
)

// PurchaseOrder tracks supplier ordering through receipt. Status moves
// draft -> pending -> approved -> ordered -> partially-received/received;
// cancellation is allowed from any non-terminal state, hard delete only
// from draft.
type PurchaseOrder struct {
	ID                   uint                `gorm:"primaryKey" json:"id"`
	TenantID             uuid.UUID           `gorm:"type:uuid;not null;index;uniqueIndex:idx_po_tenant_number,priority:1" json:"tenant_id"`
	OutletID             uuid.UUID           `gorm:"type:uuid;not null;index" json:"outlet_id"`
	PONumber             string              `gorm:"not null;size:50;uniqueIndex:idx_po_tenant_number,priority:2" json:"po_number"`
	SupplierID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Status               Status              `gorm:"not null;size:30;default:'draft';index" json:"status"`
	Items                []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	Subtotal             decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"subtotal"`
	TaxAmount            decimal.Decimal     `gorm:"type:decimal(20,4);not null;default:0" json:"tax_amount"`
	ShippingCost         decimal.Decimal     `gorm:"type:decimal(20,4);not null;default:0" json:"shipping_cost"`
	Total                decimal.Decimal     `gorm:"type:decimal(20,4);not null" json:"total"`
	Notes                string              `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy            uuid.UUID           `gorm:"type:uuid;not null" json:"created_by"`
	ApprovedBy           *uuid.UUID          `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt           *time.Time          `json:"approved_at,omitempty"`
	OrderedDate          *time.Time          `json:"ordered_date,omitempty"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date,omitempty"`
	ReceivedDate         *time.Time          `json:"received_date,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// PurchaseOrderItem is one ordered line. ReceivedQuantity accumulates
// across partial deliveries and never exceeds Quantity.
type PurchaseOrderItem struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	PurchaseOrderID  uint            `gorm:"not null;index" json:"purchase_order_id"`
	InventoryItemID  uint            `gorm:"not null;index" json:"inventory_item_id"`
	Quantity         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_cost"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"received_quantity"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_cost"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Remaining returns the quantity still to be delivered for the line.
func (i *PurchaseOrderItem) Remaining() decimal.Decimal {
	return i.Quantity.Sub(i.ReceivedQuantity)
}

// IsFullyReceived reports whether the line has been delivered in full.
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.Cmp(i.Quantity) >= 0
}

// CanReceive reports whether goods may be received against the order.
func (po *PurchaseOrder) CanReceive() bool {
	return po.Status == StatusOrdered || po.Status == StatusPartiallyReceived
}

// CanCancel reports whether the order may still be cancelled.
func (po *PurchaseOrder) CanCancel() bool {
	return po.Status != StatusReceived && po.Status != StatusCancelled
}

// IsFullyReceived reports whether every line has been delivered in full.
func (po *PurchaseOrder) IsFullyReceived() bool {
	for i := range po.Items {
		if !po.Items[i].IsFullyReceived() {
			return false
		}
	}
	return len(po.Items) > 0
}

// ComputeTotals derives per-line and order totals: line total = quantity x
// unit cost, subtotal = sum of line totals, total = subtotal + tax +
// shipping. Called explicitly by the service before persistence.
func (po *PurchaseOrder) ComputeTotals() {
	subtotal := decimal.Zero
	for i := range po.Items {
		po.Items[i].TotalCost = po.Items[i].Quantity.Mul(po.Items[i].UnitCost)
		subtotal = subtotal.Add(po.Items[i].TotalCost)
	}
	po.Subtotal = subtotal
	po.Total = subtotal.Add(po.TaxAmount).Add(po.ShippingCost)
}

// TableName overrides
func (PurchaseOrder) TableName() string     { return "purchase_orders" }
func (PurchaseOrderItem) TableName() string { return "purchase_order_items" }
