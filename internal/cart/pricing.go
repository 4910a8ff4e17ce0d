package cart

import (
	"github.com/mritika-studio/storefront-backend/pkg/config"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Pricer derives cart totals from the configured business constants.
type Pricer struct {
	cfg config.PricingConfig
}

// NewPricer builds a pricer from the pricing configuration.
func NewPricer(cfg config.PricingConfig) Pricer {
	return Pricer{cfg: cfg}
}

// Tax is GST on the subtotal, rounded to two decimals.
func (p Pricer) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.cfg.GSTRate).Round(2)
}

// Shipping is free above the threshold, otherwise a flat rate.
func (p Pricer) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.cfg.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.cfg.ShippingFlatRate
}

// Totals resolves tax, shipping, and grand total for a subtotal. An empty
// cart ships nothing, so a zero subtotal yields all zeros.
func (p Pricer) Totals(subtotal decimal.Decimal) (tax, shipping, total decimal.Decimal) {
	if subtotal.IsZero() {
		return decimal.Zero, decimal.Zero, decimal.Zero
	}
	tax = p.Tax(subtotal)
	shipping = p.Shipping(subtotal)
	total = subtotal.Add(tax).Add(shipping)
	return tax, shipping, total
}

// effectivePrice resolves the unit price for a line: the variant override
// wins when set, otherwise the product price.
func effectivePrice(product *models.Product, variant *models.ProductVariant) decimal.Decimal {
	if variant != nil && variant.Price != nil {
		return *variant.Price
	}
	return product.Price
}

// effectiveStock resolves the stock pool a line draws from: the variant's
// when the line targets a variant, otherwise the product's.
func effectiveStock(product *models.Product, variant *models.ProductVariant) int {
	if variant != nil {
		return variant.InventoryQuantity
	}
	return product.InventoryQuantity
}

// lineValid applies the read-time filter: inactive products or variants and
// understocked tracked lines are excluded from computation without being
// deleted.
func lineValid(item *models.CartItem) bool {
	product := item.Product
	if product == nil || !product.IsActive {
		return false
	}
	variant := item.Variant
	if item.VariantID != nil {
		if variant == nil || !variant.IsActive {
			return false
		}
	}
	if product.TrackInventory && effectiveStock(product, variant) < item.Quantity {
		return false
	}
	return true
}
