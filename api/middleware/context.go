package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/wmbgolfco/engraving-backend/pkg/auth"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
)

type contextKey string

const (
	ctxBasketID    contextKey = "basket_id"
	ctxAdminClaims contextKey = "admin_claims"
)

func BasketIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxBasketID).(string); ok {
		return v
	}
	return ""
}

// WithBasketID injects the basket identifier into the context.
func WithBasketID(ctx context.Context, basketID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxBasketID, basketID)
}

func AdminClaimsFromContext(ctx context.Context) *auth.AdminClaims {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxAdminClaims).(*auth.AdminClaims); ok {
		return v
	}
	return nil
}

func WithAdminClaims(ctx context.Context, claims *auth.AdminClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAdminClaims, claims)
}

const requestIDHeader = "X-Request-Id"

// inbound ids come from the storefront proxy
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{8,64}$`)

// RequestID reuses a well-formed inbound X-Request-Id or issues a uuid, then
// echoes it and binds it to the request logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if !requestIDPattern.MatchString(id) {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)
			if logg != nil {
				r = r.WithContext(logg.WithRequestID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}
