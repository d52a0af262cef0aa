package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/wmbgolfco/engraving-backend/api/controllers"
	"github.com/wmbgolfco/engraving-backend/internal/admin"
	"github.com/wmbgolfco/engraving-backend/internal/basket"
	"github.com/wmbgolfco/engraving-backend/internal/catalog"
	"github.com/wmbgolfco/engraving-backend/internal/checkout"
	"github.com/wmbgolfco/engraving-backend/internal/enquiries"
	"github.com/wmbgolfco/engraving-backend/internal/logos"
	"github.com/wmbgolfco/engraving-backend/internal/pricing"
	"github.com/wmbgolfco/engraving-backend/internal/storefront"
	"github.com/wmbgolfco/engraving-backend/pkg/auth/session"
	"github.com/wmbgolfco/engraving-backend/pkg/config"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
	"github.com/wmbgolfco/engraving-backend/pkg/metrics"
	redisclient "github.com/wmbgolfco/engraving-backend/pkg/redis"
	"github.com/wmbgolfco/engraving-backend/pkg/storage"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type discardUploader struct{}

func (discardUploader) Put(_ context.Context, key, contentType string, _ io.Reader) (storage.Object, error) {
	return storage.Object{Key: key, URL: "/uploads/" + key, ContentType: contentType}, nil
}

func (discardUploader) Delete(context.Context, string) error { return nil }

type nopDispatcher struct{}

func (nopDispatcher) Dispatch(context.Context, logos.Upload) error { return nil }

type stubCheckout struct{ invalidations int }

func (s *stubCheckout) Checkout(context.Context, string) (checkout.Result, error) {
	return checkout.Result{CheckoutURL: "https://shop.test/checkouts/1", CartID: "cart-1", Warnings: []string{}}, nil
}

func (s *stubCheckout) InvalidateVariantCache(context.Context) int {
	s.invalidations++
	return 3
}

type stubEnquiries struct{}

func (stubEnquiries) Submit(context.Context, enquiries.SubmitInput) (*enquiries.SubmitResult, error) {
	return &enquiries.SubmitResult{FileURLs: []string{}, RejectedFiles: []enquiries.RejectedFile{}}, nil
}

func (stubEnquiries) List(_ context.Context, p enquiries.ListParams) (*enquiries.ListResult, error) {
	return &enquiries.ListResult{Page: p.Page, Stats: enquiries.Stats{MostCommonService: "N/A"}}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		Admin: config.AdminConfig{
			Password:   "letmein",
			JWTSecret:  "router-test-secret",
			JWTIssuer:  "wmbgolfco-admin",
			SessionTTL: 24 * time.Hour,
			CookieName: "admin_auth",
		},
		RateLimit: config.RateLimitConfig{
			EnquiryWindow:     time.Minute,
			EnquiryIPLimit:    5,
			AdminLoginWindow:  time.Minute,
			AdminLoginIPLimit: 2,
		},
		Basket:  config.BasketConfig{CookieName: "wmb_basket", TTL: time.Hour},
		Enquiry: config.EnquiryConfig{MaxFileBytes: 1 << 20, MaxFiles: 2},
	}
}

type harness struct {
	handler  http.Handler
	checkout *stubCheckout
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := testConfig()

	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	rc := redisclient.Wrap(raw)

	sessions, err := session.NewManager(rc, cfg.Admin.SessionTTL)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	adminSvc, err := admin.NewService(admin.ServiceParams{Config: cfg.Admin, Sessions: sessions})
	if err != nil {
		t.Fatalf("admin service: %v", err)
	}

	baskets, err := basket.NewService(basket.ServiceParams{Store: basket.NewMemoryStore()})
	if err != nil {
		t.Fatalf("basket service: %v", err)
	}
	engine, err := pricing.NewEngine(pricing.Fees{
		WedgeEngravingFee: decimal.RequireFromString("30"),
		PerLetterFee:      decimal.RequireFromString("5"),
		PatternFee:        decimal.RequireFromString("15"),
	})
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	shop, err := storefront.NewService(storefront.ServiceParams{
		Catalog: catalog.Default(),
		Pricing: engine,
		Baskets: baskets,
		Storage: discardUploader{},
		Logos:   nopDispatcher{},
	})
	if err != nil {
		t.Fatalf("storefront: %v", err)
	}

	reg := prometheus.NewRegistry()
	co := &stubCheckout{}
	h := NewRouter(Dependencies{
		Config:      cfg,
		Logger:      logger.Nop(),
		Catalog:     catalog.Default(),
		Baskets:     baskets,
		Storefront:  shop,
		Checkout:    co,
		Enquiries:   stubEnquiries{},
		Logos:       nopDispatcher{},
		Admin:       adminSvc,
		RateLimiter: rc,
		Readiness:   map[string]controllers.Pinger{"db": stubPinger{}, "redis": rc},
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
	})
	return &harness{handler: h, checkout: co}
}

func (h *harness) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.10:4321"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	if rec := h.do(http.MethodGet, "/health/live", ""); rec.Code != http.StatusOK {
		t.Fatalf("live: expected 200 got %d", rec.Code)
	}
	if rec := h.do(http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("ready: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	rec := h.do(http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("expected request metrics, got %d", rec.Code)
	}
}

func TestCatalogRoutes(t *testing.T) {
	h := newHarness(t)
	if rec := h.do(http.MethodGet, "/api/v1/catalog", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec := h.do(http.MethodGet, "/api/v1/catalog/putters", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec := h.do(http.MethodGet, "/api/v1/catalog/spoons", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestBasketFlowUsesCookie(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/v1/basket/items", `{"configuration":{"category":"ball-markers","mode":"initials","initials":"ab","font":"georgia","colour":"copper"}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	basketCookie := cookieNamed(rec, "wmb_basket")
	if basketCookie == nil || basketCookie.Value == "" {
		t.Fatal("expected basket cookie to be issued")
	}

	rec = h.do(http.MethodGet, "/api/v1/basket", "", basketCookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total_items":1`) {
		t.Fatalf("expected basket with one item, got %d %s", rec.Code, rec.Body.String())
	}

	rec = h.do(http.MethodPost, "/api/v1/checkout", "", basketCookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "https://shop.test/checkouts/1") {
		t.Fatalf("unexpected checkout response %d %s", rec.Code, rec.Body.String())
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	h := newHarness(t)

	if rec := h.do(http.MethodGet, "/api/admin/v1/enquiries", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}

	rec := h.do(http.MethodPost, "/api/admin/v1/auth", `{"password":"letmein"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	adminCookie := cookieNamed(rec, "admin_auth")
	if adminCookie == nil {
		t.Fatal("expected admin cookie")
	}

	if rec := h.do(http.MethodGet, "/api/admin/v1/enquiries?page=1", "", adminCookie); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := h.do(http.MethodPost, "/api/admin/v1/catalog/cache/invalidate", "", adminCookie); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if h.checkout.invalidations != 1 {
		t.Fatalf("expected one invalidation, got %d", h.checkout.invalidations)
	}

	if rec := h.do(http.MethodDelete, "/api/admin/v1/auth", "", adminCookie); rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200 got %d", rec.Code)
	}
	if rec := h.do(http.MethodGet, "/api/admin/v1/enquiries", "", adminCookie); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked session: expected 401 got %d", rec.Code)
	}
}

func TestAdminLoginIsRateLimited(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 2; i++ {
		if rec := h.do(http.MethodPost, "/api/admin/v1/auth", `{"password":"wrong"}`); rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401 got %d", i, rec.Code)
		}
	}
	if rec := h.do(http.MethodPost, "/api/admin/v1/auth", `{"password":"letmein"}`); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
}
