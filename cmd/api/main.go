package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/wmbgolfco/engraving-backend/api"
	"github.com/wmbgolfco/engraving-backend/api/controllers"
	"github.com/wmbgolfco/engraving-backend/api/routes"
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
	"github.com/wmbgolfco/engraving-backend/pkg/db"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
	"github.com/wmbgolfco/engraving-backend/pkg/metrics"
	"github.com/wmbgolfco/engraving-backend/pkg/migrate"
	"github.com/wmbgolfco/engraving-backend/pkg/redis"
	"github.com/wmbgolfco/engraving-backend/pkg/sendgrid"
	"github.com/wmbgolfco/engraving-backend/pkg/shopify"
	"github.com/wmbgolfco/engraving-backend/pkg/storage"
	"github.com/wmbgolfco/engraving-backend/pkg/storage/gcs"
)

const shutdownTimeout = 20 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers []func() error
	defer func() {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, closers[i]())
		}
		if errs != nil {
			logg.Error(context.Background(), "error releasing resources", errs)
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(logg, "database", err)
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(logg, "redis", err)
	closers = append(closers, redisClient.Close)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)
	breakerMetrics := metrics.NewBreakerMetrics(registry)
	notificationMetrics := metrics.NewNotificationMetrics(registry)

	readiness := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	var uploader storage.Uploader
	var uploadsDir string
	if cfg.Storage.UsesGCS() {
		gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, cfg.Storage.PublicBaseURL, logg)
		requireResource(logg, "gcs", err)
		closers = append(closers, gcsClient.Close)
		readiness["storage"] = gcsClient
		uploader = gcsClient
	} else {
		local, err := storage.NewLocalUploader(cfg.Storage.LocalDir, cfg.Storage.LocalBaseURL)
		requireResource(logg, "local storage", err)
		uploader = local
		uploadsDir = local.Dir()
	}

	cat := catalog.Default()
	engine, err := pricing.NewEngine(pricing.FeesFromConfig(cfg.Pricing))
	requireResource(logg, "pricing engine", err)

	basketStore, err := basket.NewRedisStore(redisClient, cfg.Basket.TTL)
	requireResource(logg, "basket store", err)
	baskets, err := basket.NewService(basket.ServiceParams{
		Store:    basketStore,
		MaxItems: cfg.Basket.MaxItems,
	})
	requireResource(logg, "basket service", err)

	var notifier logos.Notifier = logos.NewLogNotifier(logg)
	if cfg.Sendgrid.Enabled() {
		mail, err := sendgrid.NewClient(cfg.Sendgrid.APIKey, cfg.Sendgrid.DefaultFrom)
		requireResource(logg, "sendgrid", err)
		notifier, err = logos.NewMailNotifier(mail, cfg.Sendgrid.LogoRecipient)
		requireResource(logg, "logo mail notifier", err)
	} else {
		logg.Warn(ctx, "sendgrid not configured, logo uploads will only be logged")
	}
	dispatcher, err := logos.NewDispatcher(logos.DispatcherParams{
		Notifier: notifier,
		Logger:   logg,
		Metrics:  notificationMetrics,
	})
	requireResource(logg, "logo dispatcher", err)

	shop, err := storefront.NewService(storefront.ServiceParams{
		Catalog: cat,
		Pricing: engine,
		Baskets: baskets,
		Storage: uploader,
		Logos:   dispatcher,
		Logger:  logg,
		MaxLogo: cfg.Enquiry.MaxFileBytes,
	})
	requireResource(logg, "storefront service", err)

	shopifyClient, err := shopify.NewClientFromConfig(cfg.Shopify, logg, breakerMetrics)
	requireResource(logg, "shopify client", err)
	carts, err := checkout.NewStorefrontCarts(shopifyClient)
	requireResource(logg, "shopify carts", err)
	submitter, err := checkout.NewSubmitter(carts)
	requireResource(logg, "checkout submitter", err)
	resolver, err := checkout.NewResolver(shopifyClient, checkout.NewVariantCache(cfg.Shopify.VariantCacheTTL, time.Now), logg, checkoutMetrics)
	requireResource(logg, "variant resolver", err)
	assembler, err := checkout.NewAssembler(checkout.AssemblerParams{
		Catalog:  cat,
		Resolver: resolver,
		Postage: checkout.PostageTitles{
			Standard:   cfg.Pricing.StandardPostageTitle,
			ClubReturn: cfg.Pricing.ClubReturnPostageTitle,
		},
		Concurrency: cfg.Shopify.ResolveConcurrency,
		Logger:      logg,
		Metrics:     checkoutMetrics,
	})
	requireResource(logg, "checkout assembler", err)
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Baskets:   baskets,
		Assembler: assembler,
		Submitter: submitter,
		Resolver:  resolver,
		Logger:    logg,
		Metrics:   checkoutMetrics,
	})
	requireResource(logg, "checkout service", err)

	enquiryService, err := enquiries.NewService(enquiries.ServiceParams{
		Repo:         enquiries.NewRepository(dbClient.DB()),
		Storage:      uploader,
		Logger:       logg,
		MaxFileBytes: cfg.Enquiry.MaxFileBytes,
		MaxFiles:     cfg.Enquiry.MaxFiles,
		PageSize:     cfg.Enquiry.AdminPageSize,
	})
	requireResource(logg, "enquiry service", err)

	sessionManager, err := session.NewManager(redisClient, cfg.Admin.SessionTTL)
	requireResource(logg, "session manager", err)
	adminService, err := admin.NewService(admin.ServiceParams{
		Config:   cfg.Admin,
		Sessions: sessionManager,
		Logger:   logg,
	})
	requireResource(logg, "admin service", err)

	handler := routes.NewRouter(routes.Dependencies{
		Config:      cfg,
		Logger:      logg,
		Catalog:     cat,
		Baskets:     baskets,
		Storefront:  shop,
		Checkout:    checkoutService,
		Enquiries:   enquiryService,
		Logos:       dispatcher,
		Admin:       adminService,
		RateLimiter: redisClient,
		Readiness:   readiness,
		HTTPMetrics: httpMetrics,
		Gatherer:    registry,
		UploadsDir:  uploadsDir,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	server := api.NewServer(addr, handler)

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(serverCtx, "api server shutdown failed", err)
	}
	if err := dispatcher.Wait(shutdownCtx); err != nil {
		logg.Error(serverCtx, "pending logo notifications abandoned", err)
	}
	logg.Info(serverCtx, "api server stopped")
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "resource not working: "+resource, err)
	os.Exit(1)
}
