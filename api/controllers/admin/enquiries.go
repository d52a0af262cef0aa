package admin

import (
	"net/http"

	"github.com/wmbgolfco/engraving-backend/api/responses"
	"github.com/wmbgolfco/engraving-backend/api/validators"
	"github.com/wmbgolfco/engraving-backend/internal/enquiries"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
)

// EnquiriesList serves the dashboard: one page of enquiries, newest first,
// with the service filter options and headline stats.
func EnquiriesList(svc enquiries.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enquiry service unavailable"))
			return
		}
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), enquiries.ListParams{
			Search:  validators.QueryString(r, "search", 200),
			Service: validators.QueryString(r, "service", 200),
			Page:    page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
