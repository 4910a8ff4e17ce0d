package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog listing. Prices are rupees with 2-decimal
// precision. When TrackInventory is false, stock checks are bypassed.
type Product struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID        *uuid.UUID       `gorm:"column:category_id;type:uuid"`
	Name              string           `gorm:"column:name;not null"`
	Slug              string           `gorm:"column:slug;not null;uniqueIndex"`
	SKU               string           `gorm:"column:sku;not null;uniqueIndex"`
	Description       *string          `gorm:"column:description"`
	Price             decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	ComparePrice      *decimal.Decimal `gorm:"column:compare_price;type:numeric(12,2)"`
	CostPrice         *decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2)"`
	Tags              pq.StringArray   `gorm:"column:tags;type:text"`
	InventoryQuantity int              `gorm:"column:inventory_quantity;not null;default:0"`
	TrackInventory    bool             `gorm:"column:track_inventory;not null;default:true"`
	IsActive          bool             `gorm:"column:is_active;not null;default:true"`
	IsFeatured        bool             `gorm:"column:is_featured;not null;default:false"`
	Category          *Category        `gorm:"foreignKey:CategoryID"`
	Variants          []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
