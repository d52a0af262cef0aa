package routes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wmbgolfco/engraving-backend/api/controllers"
	admincontrollers "github.com/wmbgolfco/engraving-backend/api/controllers/admin"
	basketcontrollers "github.com/wmbgolfco/engraving-backend/api/controllers/basket"
	"github.com/wmbgolfco/engraving-backend/api/middleware"
	"github.com/wmbgolfco/engraving-backend/internal/admin"
	"github.com/wmbgolfco/engraving-backend/internal/basket"
	"github.com/wmbgolfco/engraving-backend/internal/catalog"
	"github.com/wmbgolfco/engraving-backend/internal/checkout"
	"github.com/wmbgolfco/engraving-backend/internal/enquiries"
	"github.com/wmbgolfco/engraving-backend/internal/logos"
	"github.com/wmbgolfco/engraving-backend/internal/storefront"
	"github.com/wmbgolfco/engraving-backend/pkg/config"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
	"github.com/wmbgolfco/engraving-backend/pkg/metrics"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type logoDispatcher interface {
	Dispatch(ctx context.Context, upload logos.Upload) error
}

// Dependencies is everything the HTTP surface needs. Readiness pingers may be
// nil for backends that are not configured.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	Catalog     *catalog.Catalog
	Baskets     basket.Service
	Storefront  storefront.Service
	Checkout    checkout.Service
	Enquiries   enquiries.Service
	Logos       logoDispatcher
	Admin       admin.Service
	RateLimiter rateLimiter
	Readiness   map[string]controllers.Pinger
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
	// UploadsDir is served under the local storage URL prefix when set.
	UploadsDir string
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	if deps.UploadsDir != "" {
		prefix := "/" + strings.Trim(cfg.Storage.LocalBaseURL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(deps.UploadsDir))))
	}

	enquiryPolicy := middleware.NewRateLimitPolicy("enquiry", cfg.RateLimit.EnquiryWindow, cfg.RateLimit.EnquiryIPLimit)
	logoPolicy := middleware.NewRateLimitPolicy("logo", cfg.RateLimit.LogoWindow, cfg.RateLimit.LogoIPLimit)
	loginPolicy := middleware.NewRateLimitPolicy("admin_login", cfg.RateLimit.AdminLoginWindow, cfg.RateLimit.AdminLoginIPLimit)

	basketCookie := middleware.BasketCookie{
		Name:   cfg.Basket.CookieName,
		TTL:    cfg.Basket.TTL,
		Secure: cfg.App.IsProd(),
	}
	var newBasketID func() string
	if deps.Baskets != nil {
		newBasketID = deps.Baskets.NewBasketID
	}
	maxLogoBytes := cfg.Enquiry.MaxFileBytes

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", controllers.CatalogList(deps.Catalog))
		r.Get("/catalog/{categoryId}", controllers.CatalogGet(deps.Catalog, logg))
		r.Post("/configurator/quote", controllers.ConfiguratorQuote(deps.Storefront, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Basket(basketCookie, newBasketID, logg))
			r.Get("/basket", basketcontrollers.BasketGet(deps.Baskets, logg))
			r.Delete("/basket", basketcontrollers.BasketClear(deps.Baskets, logg))
			r.Post("/basket/items", basketcontrollers.BasketAddItem(deps.Storefront, maxLogoBytes, logg))
			r.Patch("/basket/items/{itemId}", basketcontrollers.BasketUpdateItem(deps.Baskets, logg))
			r.Delete("/basket/items/{itemId}", basketcontrollers.BasketRemoveItem(deps.Baskets, logg))
			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))
		})

		r.With(middleware.RateLimit(enquiryPolicy, deps.RateLimiter, logg)).
			Post("/enquiries", controllers.EnquirySubmit(deps.Enquiries, controllers.EnquiryLimits{
				MaxFileBytes: cfg.Enquiry.MaxFileBytes,
				MaxFiles:     cfg.Enquiry.MaxFiles,
			}, logg))
		r.With(middleware.RateLimit(logoPolicy, deps.RateLimiter, logg)).
			Post("/logos", controllers.LogoUpload(deps.Logos, maxLogoBytes, logg))
	})

	adminCookie := admincontrollers.CookieSettings{Name: cfg.Admin.CookieName, Secure: cfg.App.IsProd()}
	r.Route("/api/admin/v1", func(r chi.Router) {
		r.With(middleware.RateLimit(loginPolicy, deps.RateLimiter, logg)).
			Post("/auth", admincontrollers.AuthLogin(deps.Admin, adminCookie, logg))
		r.Delete("/auth", admincontrollers.AuthLogout(deps.Admin, adminCookie, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.Admin.CookieName, deps.Admin, logg))
			r.Get("/enquiries", admincontrollers.EnquiriesList(deps.Enquiries, logg))
			r.Post("/catalog/cache/invalidate", admincontrollers.CacheInvalidate(deps.Checkout, logg))
		})
	})

	return r
}
