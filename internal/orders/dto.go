package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// ShippingInput is the destination captured at checkout.
type ShippingInput struct {
	Name        string
	Phone       string
	AddressLine string
	City        string
	State       string
	PostalCode  string
}

// OrderItemDTO is a priced line frozen at checkout time.
type OrderItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	VariantID   *uuid.UUID      `json:"variant_id,omitempty"`
	Name        string          `json:"name"`
	VariantName *string         `json:"variant_name,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderDTO is the full order representation.
type OrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	UserID        uuid.UUID         `json:"user_id"`
	Status        enums.OrderStatus `json:"status"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Tax           decimal.Decimal   `json:"tax"`
	Shipping      decimal.Decimal   `json:"shipping"`
	Total         decimal.Decimal   `json:"total"`
	ShippingName  string            `json:"shipping_name"`
	ShippingPhone string            `json:"shipping_phone"`
	AddressLine   string            `json:"address_line"`
	City          string            `json:"city"`
	State         string            `json:"state"`
	PostalCode    string            `json:"postal_code"`
	Items         []OrderItemDTO    `json:"items"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// OrderListResult is one page of orders with its next cursor.
type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// NewOrderDTO maps the model (with preloaded items) to its DTO.
func NewOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:            order.ID,
		UserID:        order.UserID,
		Status:        order.Status,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Shipping:      order.Shipping,
		Total:         order.Total,
		ShippingName:  order.ShippingName,
		ShippingPhone: order.ShippingPhone,
		AddressLine:   order.AddressLine,
		City:          order.City,
		State:         order.State,
		PostalCode:    order.PostalCode,
		Items:         make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:          item.ID,
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			Name:        item.Name,
			VariantName: item.VariantName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}
	return dto
}
