package products

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mritika-studio/storefront-backend/pkg/db"
	"github.com/mritika-studio/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog reads and back-office product management.
type Service interface {
	ListCatalog(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]CategoryDTO, error)

	ListAdmin(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	AddVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*ProductDTO, error)
	UpdateVariant(ctx context.Context, variantID uuid.UUID, input UpdateVariantInput) (*ProductDTO, error)
	DeleteVariant(ctx context.Context, variantID uuid.UUID) error

	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	CategoryID        *uuid.UUID
	Name              string
	Slug              string
	SKU               string
	Description       *string
	Price             decimal.Decimal
	ComparePrice      *decimal.Decimal
	CostPrice         *decimal.Decimal
	Tags              []string
	InventoryQuantity int
	TrackInventory    bool
	IsActive          bool
	IsFeatured        bool
	Variants          []VariantInput
}

// VariantInput captures a new variant row under a product.
type VariantInput struct {
	Name              string
	SKU               string
	Price             *decimal.Decimal
	InventoryQuantity int
	IsActive          bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	CategoryID        *uuid.UUID
	ClearCategory     bool
	Name              *string
	Slug              *string
	SKU               *string
	Description       *string
	Price             *decimal.Decimal
	ComparePrice      *decimal.Decimal
	CostPrice         *decimal.Decimal
	Tags              *[]string
	InventoryQuantity *int
	TrackInventory    *bool
	IsActive          *bool
	IsFeatured        *bool
}

// UpdateVariantInput holds optional mutation values for a variant.
type UpdateVariantInput struct {
	Name              *string
	SKU               *string
	Price             *decimal.Decimal
	ClearPrice        bool
	InventoryQuantity *int
	IsActive          *bool
}

// CategoryInput captures a new category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description *string
	IsActive    bool
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
	IsActive    *bool
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func validateSlug(slug string) error {
	if !slugRe.MatchString(slug) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid slug %q", slug))
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return nil
}

func validateQuantity(qty int) error {
	if qty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "inventory quantity cannot be negative")
	}
	return nil
}

// ListCatalog lists active products for the public storefront.
func (s *service) ListCatalog(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	input.IncludeInactive = false
	result, err := s.repo.ListSummaries(ctx, input)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

// GetBySlug resolves an active product detail for the storefront.
func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	product, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(product), nil
}

// ListCategories returns catalog categories.
func (s *service) ListCategories(ctx context.Context, activeOnly bool) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewCategoryDTO(&rows[i]))
	}
	return out, nil
}

// ListAdmin lists products for the back-office, inactive rows included.
func (s *service) ListAdmin(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	input.IncludeInactive = true
	result, err := s.repo.ListSummaries(ctx, input)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

// GetProduct returns the full detail regardless of active state.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetProductDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(product), nil
}

// CreateProduct creates a product together with its initial variants.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateSlug(input.Slug); err != nil {
		return nil, err
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}
	if err := validateQuantity(input.InventoryQuantity); err != nil {
		return nil, err
	}
	for _, variant := range input.Variants {
		if err := validateQuantity(variant.InventoryQuantity); err != nil {
			return nil, err
		}
		if variant.Price != nil {
			if err := validatePrice(*variant.Price); err != nil {
				return nil, err
			}
		}
	}

	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			CategoryID:        input.CategoryID,
			Name:              input.Name,
			Slug:              input.Slug,
			SKU:               input.SKU,
			Description:       input.Description,
			Price:             input.Price,
			ComparePrice:      input.ComparePrice,
			CostPrice:         input.CostPrice,
			Tags:              pq.StringArray(input.Tags),
			InventoryQuantity: input.InventoryQuantity,
			TrackInventory:    input.TrackInventory,
			IsActive:          input.IsActive,
			IsFeatured:        input.IsFeatured,
		}
		created, err := txRepo.CreateProduct(ctx, product)
		if err != nil {
			return err
		}
		createdID = created.ID

		for _, variant := range input.Variants {
			row := &models.ProductVariant{
				ProductID:         created.ID,
				Name:              variant.Name,
				SKU:               variant.SKU,
				Price:             variant.Price,
				InventoryQuantity: variant.InventoryQuantity,
				IsActive:          variant.IsActive,
			}
			if _, err := txRepo.CreateVariant(ctx, row); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, mapWriteError(err, "create product")
	}

	return s.GetProduct(ctx, createdID)
}

// UpdateProduct applies the provided mutations to an existing product.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Slug != nil {
		if err := validateSlug(*input.Slug); err != nil {
			return nil, err
		}
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
	}
	if input.InventoryQuantity != nil {
		if err := validateQuantity(*input.InventoryQuantity); err != nil {
			return nil, err
		}
	}
	if input.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
		}
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	applyProductUpdate(product, input)
	if _, err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, mapWriteError(err, "update product")
	}

	return s.GetProduct(ctx, productID)
}

// DeleteProduct removes a product and its variants.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// AddVariant creates a variant under the product and returns the fresh detail.
func (s *service) AddVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*ProductDTO, error) {
	if err := validateQuantity(input.InventoryQuantity); err != nil {
		return nil, err
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
	}

	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	variant := &models.ProductVariant{
		ProductID:         productID,
		Name:              input.Name,
		SKU:               input.SKU,
		Price:             input.Price,
		InventoryQuantity: input.InventoryQuantity,
		IsActive:          input.IsActive,
	}
	if _, err := s.repo.CreateVariant(ctx, variant); err != nil {
		return nil, mapWriteError(err, "create variant")
	}

	return s.GetProduct(ctx, productID)
}

// UpdateVariant applies the provided mutations to a variant.
func (s *service) UpdateVariant(ctx context.Context, variantID uuid.UUID, input UpdateVariantInput) (*ProductDTO, error) {
	if input.InventoryQuantity != nil {
		if err := validateQuantity(*input.InventoryQuantity); err != nil {
			return nil, err
		}
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
	}

	variant, err := s.repo.FindVariantByID(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}

	if input.Name != nil {
		variant.Name = *input.Name
	}
	if input.SKU != nil {
		variant.SKU = *input.SKU
	}
	if input.ClearPrice {
		variant.Price = nil
	} else if input.Price != nil {
		variant.Price = input.Price
	}
	if input.InventoryQuantity != nil {
		variant.InventoryQuantity = *input.InventoryQuantity
	}
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}

	if _, err := s.repo.UpdateVariant(ctx, variant); err != nil {
		return nil, mapWriteError(err, "update variant")
	}
	return s.GetProduct(ctx, variant.ProductID)
}

// DeleteVariant removes a variant row.
func (s *service) DeleteVariant(ctx context.Context, variantID uuid.UUID) error {
	if _, err := s.repo.FindVariantByID(ctx, variantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if err := s.repo.DeleteVariant(ctx, variantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete variant")
	}
	return nil
}

// CreateCategory adds a catalog category.
func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	if err := validateSlug(input.Slug); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		IsActive:    input.IsActive,
	}
	if _, err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, mapWriteError(err, "create category")
	}
	return NewCategoryDTO(category), nil
}

// UpdateCategory applies the provided mutations to a category.
func (s *service) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	if input.Slug != nil {
		if err := validateSlug(*input.Slug); err != nil {
			return nil, err
		}
	}

	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Slug != nil {
		category.Slug = *input.Slug
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if _, err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, mapWriteError(err, "update category")
	}
	return NewCategoryDTO(category), nil
}

func applyProductUpdate(product *models.Product, input UpdateProductInput) {
	if input.ClearCategory {
		product.CategoryID = nil
	} else if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Slug != nil {
		product.Slug = *input.Slug
	}
	if input.SKU != nil {
		product.SKU = *input.SKU
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.ComparePrice != nil {
		product.ComparePrice = input.ComparePrice
	}
	if input.CostPrice != nil {
		product.CostPrice = input.CostPrice
	}
	if input.Tags != nil {
		product.Tags = pq.StringArray(*input.Tags)
	}
	if input.InventoryQuantity != nil {
		product.InventoryQuantity = *input.InventoryQuantity
	}
	if input.TrackInventory != nil {
		product.TrackInventory = *input.TrackInventory
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
}

func mapWriteError(err error, action string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.New(pkgerrors.CodeConflict, "slug or sku already in use")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
