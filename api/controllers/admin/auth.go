package admin

import (
	"net/http"
	"time"

	"github.com/wmbgolfco/engraving-backend/api/middleware"
	"github.com/wmbgolfco/engraving-backend/api/responses"
	"github.com/wmbgolfco/engraving-backend/api/validators"
	adminsvc "github.com/wmbgolfco/engraving-backend/internal/admin"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
)

// CookieSettings controls the admin session cookie.
type CookieSettings struct {
	Name   string
	Secure bool
}

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success   bool      `json:"success"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthLogin exchanges the operator password for a session cookie.
func AuthLogin(svc adminsvc.Service, cookie CookieSettings, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Login(r.Context(), payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookie.Name,
			Value:    session.Token,
			Path:     "/",
			MaxAge:   int(session.MaxAge.Seconds()),
			Expires:  session.ExpiresAt,
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteStrictMode,
		})
		responses.WriteSuccess(w, loginResponse{Success: true, ExpiresAt: session.ExpiresAt})
	}
}

// AuthLogout revokes the current session and clears the cookie. It succeeds
// even when no session is present.
func AuthLogout(svc adminsvc.Service, cookie CookieSettings, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}
		if token := middleware.AdminToken(r, cookie.Name); token != "" {
			if err := svc.Logout(r.Context(), token); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookie.Name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cookie.Secure,
			SameSite: http.SameSiteStrictMode,
		})
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}
