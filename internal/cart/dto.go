package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItemView is a single priced line in the computed cart.
type CartItemView struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	VariantID   *uuid.UUID      `json:"variant_id,omitempty"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	VariantName *string         `json:"variant_name,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CartSummary is the fully computed cart: only valid lines are included and
// every aggregate derives from them.
type CartSummary struct {
	Items      []CartItemView  `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TotalItems int             `json:"totalItems"`
	Tax        decimal.Decimal `json:"tax"`
	Shipping   decimal.Decimal `json:"shipping"`
	Total      decimal.Decimal `json:"total"`
}

// AddItemInput captures an add-to-cart request.
type AddItemInput struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}
