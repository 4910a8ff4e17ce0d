package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mritika-studio/storefront-backend/api/responses"
	"github.com/mritika-studio/storefront-backend/api/validators"
	inquirysvc "github.com/mritika-studio/storefront-backend/internal/inquiries"
	"github.com/mritika-studio/storefront-backend/pkg/enums"
	pkgerrors "github.com/mritika-studio/storefront-backend/pkg/errors"
	"github.com/mritika-studio/storefront-backend/pkg/logger"
)

type updateInquiryStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminInquiriesList pages inquiries for triage, optionally by status.
func AdminInquiriesList(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.InquiryStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseInquiryStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			status = &parsed
		}

		result, err := svc.List(r.Context(), status, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func AdminInquiryGet(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		inquiryID, err := validators.ParsePathUUID(chi.URLParam(r, "inquiryID"), "inquiry_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inquiry, err := svc.Get(r.Context(), inquiryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, inquiry)
	}
}

func AdminInquiryUpdateStatus(svc inquirysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inquiry service unavailable"))
			return
		}

		inquiryID, err := validators.ParsePathUUID(chi.URLParam(r, "inquiryID"), "inquiry_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateInquiryStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseInquiryStatus(strings.TrimSpace(body.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		inquiry, err := svc.UpdateStatus(r.Context(), inquiryID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, inquiry)
	}
}
