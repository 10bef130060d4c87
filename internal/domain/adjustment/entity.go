// internal/domain/adjustment/entity.go
package adjustment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the approval state of a stock adjustment
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Type represents the reason class of an adjustment
type Type string

const (
	TypeWastage    Type = "wastage"
	TypeDamage     Type = "damage"
	TypeTheft      Type = "theft"
	TypeExpiry     Type = "expiry"
	TypeCorrection Type = "correction"
)

// ValidType reports whether t is a known adjustment type.
func ValidType(t Type) bool {
	switch t {
	case TypeWastage, TypeDamage, TypeTheft, TypeExpiry, TypeCorrection:
		return true
	}
	return false
}

// StockAdjustment is an approval-gated stock correction. The proposed
// newStock is computed at creation time and applied verbatim on approval,
// so the value the approver reviewed is exactly the value that lands.
type StockAdjustment struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	TenantID         uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_adjustments_tenant_number,priority:1" json:"tenant_id"`
	OutletID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"outlet_id"`
	AdjustmentNumber string          `gorm:"not null;size:50;uniqueIndex:idx_adjustments_tenant_number,priority:2" json:"adjustment_number"`
	InventoryItemID  uint            `gorm:"not null;index" json:"inventory_item_id"`
	Type             Type            `gorm:"not null;size:20" json:"type"`
	Quantity         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	PreviousStock    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"previous_stock"`
	NewStock         decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"new_stock"`
	Reason           string          `gorm:"type:text;not null" json:"reason"`
	Cost             decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"cost"`
	Status           Status          `gorm:"not null;size:20;default:'pending';index" json:"status"`
	CreatedBy        uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	ApprovedBy       *uuid.UUID      `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt       *time.Time      `json:"approved_at,omitempty"`
	RejectedBy       *uuid.UUID      `gorm:"type:uuid" json:"rejected_by,omitempty"`
	RejectedAt       *time.Time      `json:"rejected_at,omitempty"`
	RejectionReason  string          `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// IsPending reports whether the adjustment may still transition.
func (a *StockAdjustment) IsPending() bool {
	return a.Status == StatusPending
}

// TableName overrides
func (StockAdjustment) TableName() string { return "stock_adjustments" }
