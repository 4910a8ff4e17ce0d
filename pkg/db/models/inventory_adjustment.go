package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mritika-studio/storefront-backend/pkg/enums"
)

// InventoryAdjustment is the append-only audit trail of stock changes. Rows
// are written best-effort after the stock update and never mutated.
type InventoryAdjustment struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	ProductID        uuid.UUID              `gorm:"column:product_id;type:uuid;not null;index"`
	PreviousQuantity int                    `gorm:"column:previous_quantity;not null"`
	NewQuantity      int                    `gorm:"column:new_quantity;not null"`
	AdjustmentAmount int                    `gorm:"column:adjustment_amount;not null"`
	Reason           enums.AdjustmentReason `gorm:"column:reason;not null;default:'manual'"`
	Notes            *string                `gorm:"column:notes"`
	CreatedBy        *uuid.UUID             `gorm:"column:created_by;type:uuid"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
}

func (a *InventoryAdjustment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
