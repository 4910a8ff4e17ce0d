package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mritika-studio/storefront-backend/api/responses"
	"github.com/mritika-studio/storefront-backend/api/validators"
	cartsvc "github.com/mritika-studio/storefront-backend/internal/cart"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	VariantID *string `json:"variant_id" validate:"omitempty,uuid"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
}

// Quantity is a pointer so zero survives validation: quantity 0 means
// remove the line.
type updateCartItemRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity *int   `json:"quantity" validate:"required,gte=0"`
}

// CartGet returns the computed cart for the authenticated user. Lines whose
// product went inactive or out of stock are filtered from the response.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.ComputeCart(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// CartAddItem adds a product (or variant) line and returns the recomputed cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(body.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var variantID *uuid.UUID
		if body.VariantID != nil {
			parsed, err := validators.ParsePathUUID(*body.VariantID, "variant_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			variantID = &parsed
		}

		if err := svc.AddItem(r.Context(), userID, cartsvc.AddItemInput{
			ProductID: productID,
			VariantID: variantID,
			Quantity:  body.Quantity,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.ComputeCart(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}

// CartUpdateItem changes a line's quantity and returns the recomputed cart.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.ParsePathUUID(body.ItemID, "item_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdateQuantity(r.Context(), userID, itemID, *body.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.ComputeCart(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// CartRemove removes one line (item_id) or the whole cart (clear_all=true).
func CartRemove(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clearAll, err := validators.ParseQueryBool(r, "clear_all", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		switch {
		case clearAll:
			if err := svc.ClearCart(r.Context(), userID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		case strings.TrimSpace(r.URL.Query().Get("item_id")) != "":
			itemID, err := validators.ParseQueryUUID(r, "item_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if err := svc.RemoveItem(r.Context(), userID, itemID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item_id or clear_all required"))
			return
		}

		summary, err := svc.ComputeCart(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
