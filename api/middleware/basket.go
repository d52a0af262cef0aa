package middleware

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/wmbgolfco/engraving-backend/pkg/logger"
)

const basketIDHeader = "X-Basket-Id"

// basket ids end up in redis keys and response headers
var basketIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{8,64}$`)

// BasketCookie configures how the basket id travels between requests.
type BasketCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Basket resolves the caller's basket id from the X-Basket-Id header or the
// basket cookie. A fresh id is issued when neither carries a well-formed id,
// and echoed in both the cookie and the response header.
func Basket(cookie BasketCookie, newID func() string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(basketIDHeader))
			if !basketIDPattern.MatchString(id) && cookie.Name != "" {
				id = ""
				if c, err := r.Cookie(cookie.Name); err == nil {
					id = strings.TrimSpace(c.Value)
				}
			}
			if !basketIDPattern.MatchString(id) {
				id = newID()
				if cookie.Name != "" {
					http.SetCookie(w, &http.Cookie{
						Name:     cookie.Name,
						Value:    id,
						Path:     "/",
						MaxAge:   int(cookie.TTL.Seconds()),
						HttpOnly: true,
						Secure:   cookie.Secure,
						SameSite: http.SameSiteLaxMode,
					})
				}
			}
			w.Header().Set(basketIDHeader, id)

			ctx := WithBasketID(r.Context(), id)
			if logg != nil {
				ctx = logg.WithBasketID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
