package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mritika-studio/storefront-backend/api/responses"
	"github.com/mritika-studio/storefront-backend/api/validators"
	inventorysvc "github.com/mritika-studio/storefront-backend/internal/inventory"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
)

type adjustStockRequest struct {
	Adjustment  *int    `json:"adjustment"`
	NewQuantity *int    `json:"new_quantity" validate:"omitempty,gte=0"`
	Reason      string  `json:"reason" validate:"required"`
	Notes       *string `json:"notes"`
}

// AdminInventoryOverview serves the stock dashboard metrics. An optional
// low_stock_threshold query overrides the configured default.
func AdminInventoryOverview(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		threshold, err := validators.ParseQueryInt(r, "low_stock_threshold", 0, 0, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		metrics, err := svc.BuildOverview(r.Context(), threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, metrics)
	}
}

func AdminInventoryValuation(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		report, err := svc.BuildValuation(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// AdminInventoryAdjust applies a relative or absolute stock change and writes
// an audit row attributed to the acting admin.
func AdminInventoryAdjust(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adjustStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reason, err := enums.ParseAdjustmentReason(strings.TrimSpace(body.Reason))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid reason"))
			return
		}

		var actorID *uuid.UUID
		if userID, err := currentUserID(r); err == nil {
			actorID = &userID
		}

		result, err := svc.AdjustStock(r.Context(), productID, inventorysvc.AdjustStockInput{
			Adjustment:  body.Adjustment,
			NewQuantity: body.NewQuantity,
			Reason:      reason,
			Notes:       body.Notes,
			ActorID:     actorID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func AdminInventoryAdjustments(svc inventorysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		adjustments, err := svc.ListAdjustments(r.Context(), productID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"adjustments": adjustments})
	}
}
