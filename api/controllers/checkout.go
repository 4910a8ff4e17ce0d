package controllers

import (
	"net/http"

	"github.com/mritika-studio/storefront-backend/api/responses"
	"github.com/mritika-studio/storefront-backend/api/validators"
	ordersvc "github.com/mritika-studio/storefront-backend/internal/orders"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
)

type checkoutRequest struct {
	Shipping shippingPayload `json:"shipping" validate:"required"`
}

type shippingPayload struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	AddressLine string `json:"address_line" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	PostalCode  string `json:"postal_code" validate:"required"`
}

// Checkout converts the authenticated user's cart into a pending order.
func Checkout(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Checkout(r.Context(), userID, ordersvc.ShippingInput{
			Name:        body.Shipping.Name,
			Phone:       body.Shipping.Phone,
			AddressLine: body.Shipping.AddressLine,
			City:        body.Shipping.City,
			State:       body.Shipping.State,
			PostalCode:  body.Shipping.PostalCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
