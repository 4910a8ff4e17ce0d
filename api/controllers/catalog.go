package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mritika-studio/storefront-backend/api/responses"
	"github.com/mritika-studio/storefront-backend/api/validators"
	productsvc "github.com/mritika-studio/storefront-backend/internal/products"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
)

// ProductsList serves the public catalog with cursor pagination and filters.
func ProductsList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		result, err := svc.ListCatalog(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func ProductBySlug(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug required"))
			return
		}

		product, err := svc.GetBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func CategoriesList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context(), true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

func listProductsInput(r *http.Request) (productsvc.ListProductsInput, error) {
	params, err := paginationParams(r)
	if err != nil {
		return productsvc.ListProductsInput{}, err
	}

	filters := productsvc.ProductListFilters{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
	}

	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		filters.CategorySlug = &category
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("featured")); raw != "" {
		featured, err := validators.ParseQueryBool(r, "featured", false)
		if err != nil {
			return productsvc.ListProductsInput{}, err
		}
		filters.Featured = &featured
	}

	priceMin, err := validators.ParseQueryDecimal(r, "price_min")
	if err != nil {
		return productsvc.ListProductsInput{}, err
	}
	filters.PriceMin = priceMin

	priceMax, err := validators.ParseQueryDecimal(r, "price_max")
	if err != nil {
		return productsvc.ListProductsInput{}, err
	}
	filters.PriceMax = priceMax

	return productsvc.ListProductsInput{
		Pagination: params,
		Filters:    filters,
	}, nil
}
