package controllers

import (
	"net/http"

	"github.com/mritika-studio/storefront-backend/api/responses"
	"github.com/mritika-studio/storefront-backend/api/validators"
	inquirysvc "github.com/mritika-studio/storefront-backend/internal/inquiries"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
)

type createInquiryRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Message string  `json:"message" validate:"required"`
}

// InquiryCreate accepts a wholesale inquiry from the public site.
func InquiryCreate(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		var body createInquiryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inquiry, err := svc.Create(r.Context(), inquirysvc.CreateInquiryInput{
			Name:    body.Name,
			Email:   body.Email,
			Phone:   body.Phone,
			Company: body.Company,
			Message: body.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, inquiry)
	}
}
