package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mritika-studio/storefront-backend/api/responses"
	"github.com/mritika-studio/storefront-backend/api/validators"
	productsvc "github.com/mritika-studio/storefront-backend/internal/products"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
)

type createProductRequest struct {
	CategoryID        *string          `json:"category_id" validate:"omitempty,uuid"`
	Name              string           `json:"name" validate:"required"`
	Slug              string           `json:"slug" validate:"required"`
	SKU               string           `json:"sku" validate:"required"`
	Description       *string          `json:"description"`
	Price             decimal.Decimal  `json:"price"`
	ComparePrice      *decimal.Decimal `json:"compare_price"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
	Tags              []string         `json:"tags" validate:"dive,required"`
	InventoryQuantity int              `json:"inventory_quantity" validate:"gte=0"`
	TrackInventory    *bool            `json:"track_inventory"`
	IsActive          *bool            `json:"is_active"`
	IsFeatured        bool             `json:"is_featured"`
	Variants          []variantPayload `json:"variants" validate:"dive"`
}

type variantPayload struct {
	Name              string           `json:"name" validate:"required"`
	SKU               string           `json:"sku" validate:"required"`
	Price             *decimal.Decimal `json:"price"`
	InventoryQuantity int              `json:"inventory_quantity" validate:"gte=0"`
	IsActive          *bool            `json:"is_active"`
}

type updateProductRequest struct {
	CategoryID        *string          `json:"category_id" validate:"omitempty,uuid"`
	ClearCategory     bool             `json:"clear_category"`
	Name              *string          `json:"name"`
	Slug              *string          `json:"slug"`
	SKU               *string          `json:"sku"`
	Description       *string          `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	ComparePrice      *decimal.Decimal `json:"compare_price"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
	Tags              *[]string        `json:"tags"`
	InventoryQuantity *int             `json:"inventory_quantity" validate:"omitempty,gte=0"`
	TrackInventory    *bool            `json:"track_inventory"`
	IsActive          *bool            `json:"is_active"`
	IsFeatured        *bool            `json:"is_featured"`
}

type updateVariantRequest struct {
	Name              *string          `json:"name"`
	SKU               *string          `json:"sku"`
	Price             *decimal.Decimal `json:"price"`
	ClearPrice        bool             `json:"clear_price"`
	InventoryQuantity *int             `json:"inventory_quantity" validate:"omitempty,gte=0"`
	IsActive          *bool            `json:"is_active"`
}

type categoryRequest struct {
	Name        string  `json:"name" validate:"required"`
	Slug        string  `json:"slug" validate:"required"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// AdminProductsList pages the full catalog, hidden products included.
func AdminProductsList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		input, err := listProductsInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.IncludeInactive = true

		result, err := svc.ListAdmin(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func AdminProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func AdminProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			ClearCategory:     body.ClearCategory,
			Name:              body.Name,
			Slug:              body.Slug,
			SKU:               body.SKU,
			Description:       body.Description,
			Price:             body.Price,
			ComparePrice:      body.ComparePrice,
			CostPrice:         body.CostPrice,
			Tags:              body.Tags,
			InventoryQuantity: body.InventoryQuantity,
			TrackInventory:    body.TrackInventory,
			IsActive:          body.IsActive,
			IsFeatured:        body.IsFeatured,
		}
		if body.CategoryID != nil {
			categoryID, err := validators.ParsePathUUID(*body.CategoryID, "category_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.CategoryID = &categoryID
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func AdminProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AdminVariantAdd(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body variantPayload
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AddVariant(r.Context(), productID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminVariantUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		variantID, err := validators.ParsePathUUID(chi.URLParam(r, "variantID"), "variant_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateVariantRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateVariant(r.Context(), variantID, productsvc.UpdateVariantInput{
			Name:              body.Name,
			SKU:               body.SKU,
			Price:             body.Price,
			ClearPrice:        body.ClearPrice,
			InventoryQuantity: body.InventoryQuantity,
			IsActive:          body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func AdminVariantDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		variantID, err := validators.ParsePathUUID(chi.URLParam(r, "variantID"), "variant_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteVariant(r.Context(), variantID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminCategoriesList includes inactive categories, unlike the public list.
func AdminCategoriesList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

func AdminCategoryCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var body categoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), productsvc.CategoryInput{
			Name:        body.Name,
			Slug:        body.Slug,
			Description: body.Description,
			IsActive:    boolOrDefault(body.IsActive, true),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

func AdminCategoryUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		categoryID, err := validators.ParsePathUUID(chi.URLParam(r, "categoryID"), "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.UpdateCategory(r.Context(), categoryID, productsvc.UpdateCategoryInput{
			Name:        body.Name,
			Slug:        body.Slug,
			Description: body.Description,
			IsActive:    body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, category)
	}
}

func (b createProductRequest) toInput() (productsvc.CreateProductInput, error) {
	input := productsvc.CreateProductInput{
		Name:              b.Name,
		Slug:              b.Slug,
		SKU:               b.SKU,
		Description:       b.Description,
		Price:             b.Price,
		ComparePrice:      b.ComparePrice,
		CostPrice:         b.CostPrice,
		Tags:              b.Tags,
		InventoryQuantity: b.InventoryQuantity,
		TrackInventory:    boolOrDefault(b.TrackInventory, true),
		IsActive:          boolOrDefault(b.IsActive, true),
		IsFeatured:        b.IsFeatured,
	}
	if b.CategoryID != nil {
		categoryID, err := uuid.Parse(*b.CategoryID)
		if err != nil {
			return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category_id")
		}
		input.CategoryID = &categoryID
	}
	for _, variant := range b.Variants {
		input.Variants = append(input.Variants, variant.toInput())
	}
	return input, nil
}

func (v variantPayload) toInput() productsvc.VariantInput {
	return productsvc.VariantInput{
		Name:              v.Name,
		SKU:               v.SKU,
		Price:             v.Price,
		InventoryQuantity: v.InventoryQuantity,
		IsActive:          boolOrDefault(v.IsActive, true),
	}
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
