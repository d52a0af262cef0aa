package controllers

import (
	"net/http"

	"github.com/wmbgolfco/engraving-backend/api/middleware"
	"github.com/wmbgolfco/engraving-backend/api/responses"
	"github.com/wmbgolfco/engraving-backend/internal/checkout"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
)

// Checkout hands the caller's basket to the hosted checkout and returns the
// URL to redirect to.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		basketID := middleware.BasketIDFromContext(r.Context())
		if basketID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "No items provided"))
			return
		}

		result, err := svc.Checkout(r.Context(), basketID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if result.Warnings == nil {
			result.Warnings = []string{}
		}
		responses.WriteSuccess(w, result)
	}
}
