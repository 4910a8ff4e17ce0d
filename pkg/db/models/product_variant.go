package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductVariant is a sellable variation of a product (size, glaze, finish).
// Price, when set, overrides the parent product's price; inventory is always
// tracked per variant when the parent tracks inventory.
type ProductVariant struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ProductID         uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index"`
	Name              string           `gorm:"column:name;not null"`
	SKU               string           `gorm:"column:sku;not null;uniqueIndex"`
	Price             *decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	InventoryQuantity int              `gorm:"column:inventory_quantity;not null;default:0"`
	IsActive          bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
