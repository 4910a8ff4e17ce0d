package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	"github.com/mritika-studio/storefront-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductDTO is the full product representation returned by detail reads.
type ProductDTO struct {
	ID                uuid.UUID       `json:"id"`
	CategoryID        *uuid.UUID      `json:"category_id,omitempty"`
	Category          *CategoryDTO    `json:"category,omitempty"`
	Name              string          `json:"name"`
	Slug              string          `json:"slug"`
	SKU               string          `json:"sku"`
	Description       *string         `json:"description,omitempty"`
	Price             decimal.Decimal `json:"price"`
	ComparePrice      *decimal.Decimal `json:"compare_price,omitempty"`
	CostPrice         *decimal.Decimal `json:"cost_price,omitempty"`
	Tags              []string        `json:"tags"`
	InventoryQuantity int             `json:"inventory_quantity"`
	TrackInventory    bool            `json:"track_inventory"`
	IsActive          bool            `json:"is_active"`
	IsFeatured        bool            `json:"is_featured"`
	Variants          []VariantDTO    `json:"variants"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// VariantDTO describes a sellable variation of a product. EffectivePrice is
// the variant override when present, otherwise the parent price.
type VariantDTO struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	SKU               string           `json:"sku"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	EffectivePrice    decimal.Decimal  `json:"effective_price"`
	InventoryQuantity int              `json:"inventory_quantity"`
	IsActive          bool             `json:"is_active"`
}

// CategoryDTO is the public category representation.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
}

// ProductSummary is the compact row used by catalog listings.
type ProductSummary struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	SKU          string           `json:"sku"`
	Price        decimal.Decimal  `json:"price"`
	ComparePrice *decimal.Decimal `json:"compare_price,omitempty"`
	CategorySlug *string          `json:"category_slug,omitempty"`
	IsFeatured   bool             `json:"is_featured"`
	InStock      bool             `json:"in_stock"`
	CreatedAt    time.Time        `json:"created_at"`
}

// ProductListResult bundles a listing page with its next cursor.
type ProductListResult struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// ProductListFilters narrows catalog listings.
type ProductListFilters struct {
	CategorySlug *string
	Featured     *bool
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	Query        string
}

// ListProductsInput carries pagination plus filters for a listing request.
type ListProductsInput struct {
	Pagination pagination.Params
	Filters    ProductListFilters
	// IncludeInactive widens the listing to hidden products for back-office reads.
	IncludeInactive bool
}

// NewProductDTO maps the model (with preloaded category and variants) to its DTO.
func NewProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}

	dto := &ProductDTO{
		ID:                product.ID,
		CategoryID:        product.CategoryID,
		Name:              product.Name,
		Slug:              product.Slug,
		SKU:               product.SKU,
		Description:       product.Description,
		Price:             product.Price,
		ComparePrice:      product.ComparePrice,
		CostPrice:         product.CostPrice,
		Tags:              append([]string{}, product.Tags...),
		InventoryQuantity: product.InventoryQuantity,
		TrackInventory:    product.TrackInventory,
		IsActive:          product.IsActive,
		IsFeatured:        product.IsFeatured,
		Variants:          make([]VariantDTO, 0, len(product.Variants)),
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	}

	if product.Category != nil {
		dto.Category = NewCategoryDTO(product.Category)
	}

	for _, variant := range product.Variants {
		dto.Variants = append(dto.Variants, NewVariantDTO(&variant, product.Price))
	}
	return dto
}

// NewVariantDTO maps a variant model, resolving the effective price against
// the parent product price.
func NewVariantDTO(variant *models.ProductVariant, parentPrice decimal.Decimal) VariantDTO {
	effective := parentPrice
	if variant.Price != nil {
		effective = *variant.Price
	}
	return VariantDTO{
		ID:                variant.ID,
		Name:              variant.Name,
		SKU:               variant.SKU,
		Price:             variant.Price,
		EffectivePrice:    effective,
		InventoryQuantity: variant.InventoryQuantity,
		IsActive:          variant.IsActive,
	}
}

// NewCategoryDTO maps a category model to its DTO.
func NewCategoryDTO(category *models.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		IsActive:    category.IsActive,
	}
}
