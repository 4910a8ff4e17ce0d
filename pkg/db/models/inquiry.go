package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mritika-studio/storefront-backend/pkg/enums"
)

// Inquiry persists a B2B/wholesale contact form submission. Delivery to
// email/WhatsApp happens outside this service.
type Inquiry struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name      string              `gorm:"column:name;not null"`
	Email     string              `gorm:"column:email;not null"`
	Phone     *string             `gorm:"column:phone"`
	Company   *string             `gorm:"column:company"`
	Message   string              `gorm:"column:message;type:text;not null"`
	Status    enums.InquiryStatus `gorm:"column:status;not null;default:'new'"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
