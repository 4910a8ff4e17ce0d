package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mritika-studio/storefront-backend/pkg/enums"
)

// Order is the immutable snapshot taken from a validated cart at checkout.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status         enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Subtotal       decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Tax            decimal.Decimal   `gorm:"column:tax;type:numeric(12,2);not null"`
	Shipping       decimal.Decimal   `gorm:"column:shipping;type:numeric(12,2);not null"`
	Total          decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	ShippingName   string            `gorm:"column:shipping_name;not null"`
	ShippingPhone  string            `gorm:"column:shipping_phone;not null"`
	AddressLine    string            `gorm:"column:address_line;not null"`
	City           string            `gorm:"column:city;not null"`
	State          string            `gorm:"column:state;not null"`
	PostalCode     string            `gorm:"column:postal_code;not null"`
	Items          []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
