package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/ixoye/storefront/internal/domain/cart"
	"github.com/ixoye/storefront/internal/domain/catalog"
	"github.com/ixoye/storefront/internal/domain/checkout"
	"github.com/ixoye/storefront/internal/domain/quote"
	"github.com/ixoye/storefront/internal/handler"
	"github.com/ixoye/storefront/internal/storage/memory"
	"github.com/ixoye/storefront/internal/storage/postgres"
	"github.com/ixoye/storefront/internal/whatsapp"
	"github.com/ixoye/storefront/pkg/health"
	"github.com/ixoye/storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	// Catalog + order archive. With a database the catalog lives in
	// postgres and orders are archived; without one the catalog comes from
	// the product feed and orders live only in the outbound message.
	var (
		cat     catalog.Resolver
		archive checkout.Recorder
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}

		healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
			return pool.Ping(ctx)
		})

		cat = postgres.NewCatalogRepository(pool)
		archive = postgres.NewOrderArchive(pool)
	} else {
		products, err := catalog.LoadFeed(ctx, cfg.FeedSource)
		if err != nil {
			// Degraded mode: an empty catalog keeps the widget alive with
			// its empty state instead of taking the whole shop down.
			lg.Warn("catalog feed unavailable, serving empty catalog",
				zap.String("source", cfg.FeedSource),
				zap.Error(err),
			)
			products = nil
		}
		lg.Info("catalog loaded", zap.Int("products", len(products)))

		mem := memory.NewCatalog(products)
		if cfg.FeedRefresh > 0 {
			mem.StartRefresh(ctx, cfg.FeedRefresh, func(ctx context.Context) ([]catalog.Product, error) {
				return catalog.LoadFeed(ctx, cfg.FeedSource)
			})
		}
		cat = mem
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Cart sessions.
	cartStore := memory.NewCartStore(cfg.Session.TTL)
	cartStore.StartSweep(ctx, cfg.Session.SweepInterval)

	// Domain services.
	cartSvc := cart.NewService(cartStore, cat)
	quotes := quote.NewBuilder(cfg.Pricing.Quote(), cat)
	formatter := whatsapp.NewFormatter(whatsapp.Config{
		StoreName: cfg.Store.Name,
		Phone:     cfg.Store.Whatsapp,
	})
	checkoutSvc := checkout.NewService(cartStore, quotes, formatter, archive)

	// Router: health endpoints + API routes behind the middleware chain.
	h := handler.NewHandler(cat, cartSvc, quotes, checkoutSvc)

	root := chi.NewRouter()
	root.Use(
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		httpmiddleware.Instrument("storefront-api", m),
		httpmiddleware.LogRequests(),
	)
	root.Get("/livez", healthSvc.LiveEndpoint)
	root.Get("/readyz", healthSvc.ReadyEndpoint)
	root.Mount("/api", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           root,
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
