package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one (user, product, variant) line in a shopping cart. Repeat
// adds merge into the existing row rather than creating duplicates. Pricing
// and stock are resolved at read time against the live product/variant rows;
// the row itself stores no price snapshot.
type CartItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VariantID *uuid.UUID      `gorm:"column:variant_id;type:uuid"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	Variant   *ProductVariant `gorm:"foreignKey:VariantID"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
