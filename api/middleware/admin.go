package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/wmbgolfco/engraving-backend/api/responses"
	"github.com/wmbgolfco/engraving-backend/pkg/auth"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
)

type adminAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.AdminClaims, error)
}

// AdminAuth requires a live admin session. The token comes from the admin
// cookie, or from a bearer header for scripted access.
func AdminAuth(cookieName string, authenticator adminAuthenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := AdminToken(r, cookieName)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Unauthorized"))
				return
			}
			claims, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithAdminClaims(r.Context(), claims)
			if logg != nil {
				ctx = logg.WithField(ctx, "admin_session", claims.ID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminToken extracts the admin session token from the request.
func AdminToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value)
	}
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return ""
}
