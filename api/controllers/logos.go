package controllers

import (
	"context"
	"net/http"

	"github.com/wmbgolfco/engraving-backend/api/responses"
	"github.com/wmbgolfco/engraving-backend/api/validators"
	"github.com/wmbgolfco/engraving-backend/internal/logos"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
)

type logoDispatcher interface {
	Dispatch(ctx context.Context, upload logos.Upload) error
}

// LogoUpload forwards a logo to the workshop. Delivery happens in the
// background, so the response only confirms the upload was accepted.
func LogoUpload(dispatcher logoDispatcher, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dispatcher == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "logo notifications unavailable"))
			return
		}
		if err := validators.ParseMultipart(w, r, maxBytes+1<<20); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, err := validators.ReadFormFile(r, "logo", maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if file == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "No logo file provided"))
			return
		}

		upload := logos.Upload{
			FileName:    file.Name,
			ContentType: file.ContentType,
			Content:     file.Content,
			ProductName: validators.FormValue(r, "productName", 200),
			Category:    validators.FormValue(r, "category", 100),
			OrderID:     validators.FormValue(r, "orderId", 100),
		}
		if err := dispatcher.Dispatch(r.Context(), upload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}
