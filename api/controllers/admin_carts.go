package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mritika-studio/storefront-backend/api/responses"
	"github.com/mritika-studio/storefront-backend/api/validators"
	cartsvc "github.com/mritika-studio/storefront-backend/internal/cart"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
)

type bulkAddItemsRequest struct {
	Items []bulkItemPayload `json:"items" validate:"required,min=1,dive"`
}

type bulkItemPayload struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	VariantID *string `json:"variant_id" validate:"omitempty,uuid"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
}

type bulkClearRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,dive,uuid"`
}

// AdminCartGet shows a customer's computed cart.
func AdminCartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := validators.ParsePathUUID(chi.URLParam(r, "userID"), "user_id")
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

// AdminCartBulkAdd seeds items into a customer's cart. Entries fail
// independently; the response reports each outcome.
func AdminCartBulkAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		userID, err := validators.ParsePathUUID(chi.URLParam(r, "userID"), "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body bulkAddItemsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries := make([]cartsvc.BulkEntry, 0, len(body.Items))
		for _, item := range body.Items {
			productID, err := validators.ParsePathUUID(item.ProductID, "product_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			entry := cartsvc.BulkEntry{
				UserID:    userID,
				ProductID: productID,
				Quantity:  item.Quantity,
			}
			if item.VariantID != nil {
				variantID, err := validators.ParsePathUUID(*item.VariantID, "variant_id")
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				entry.VariantID = &variantID
			}
			entries = append(entries, entry)
		}

		results := svc.BulkAdd(r.Context(), entries)
		responses.WriteSuccess(w, map[string]any{"results": results})
	}
}

// AdminCartBulkClear empties the carts of the listed customers.
func AdminCartBulkClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var body bulkClearRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userIDs := make([]uuid.UUID, 0, len(body.UserIDs))
		for _, raw := range body.UserIDs {
			userID, err := validators.ParsePathUUID(raw, "user_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			userIDs = append(userIDs, userID)
		}

		results := svc.BulkClear(r.Context(), userIDs)
		responses.WriteSuccess(w, map[string]any{"results": results})
	}
}
