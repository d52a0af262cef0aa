package admin

import (
	"context"
	"net/http"

	"github.com/wmbgolfco/engraving-backend/api/responses"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
)

type variantCacheInvalidator interface {
	InvalidateVariantCache(ctx context.Context) int
}

// CacheInvalidate drops every resolved storefront variant so the next
// checkout looks products up again.
func CacheInvalidate(svc variantCacheInvalidator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		removed := svc.InvalidateVariantCache(r.Context())
		responses.WriteSuccess(w, map[string]int{"invalidated": removed})
	}
}
