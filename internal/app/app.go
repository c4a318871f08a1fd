package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockdash/config"
	"github.com/guttosm/stockdash/internal/api"
	"github.com/guttosm/stockdash/internal/dashboard"
	"github.com/guttosm/stockdash/internal/marketdata"
	"github.com/guttosm/stockdash/internal/service"
	"github.com/guttosm/stockdash/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Opens the static store selected by STATIC_STORE and applies migrations.
//   - Builds the Yahoo fetcher, the embedded fixtures and the demo generator.
//   - Creates the stock service and the HTTP handler layer.
//   - Builds the dashboard controller over the same service, in process.
//   - Configures the Gin router and registers health and readiness checks.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	// indirection for unit testing
	db, dialect, err := storeOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize static store: %w", err)
	}

	fixtures, err := marketdata.NewFixtureStore()
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, nil, fmt.Errorf("failed to load fixtures: %w", err)
	}

	fetcher := newFetcher(cfg)
	deps := service.Deps{
		Live:     fetcher,
		Checker:  fetcher,
		Demo:     marketdata.NewDemoGenerator(time.Now().UnixNano()),
		Fixtures: fixtures,
	}
	var ping func(context.Context) error
	if db != nil {
		deps.DB = storage.NewBarsRepository(db, dialect)
		ping = db.PingContext
	}

	svc := service.NewStockService(deps)
	handler := api.NewHandler(svc)

	// pages read the service directly; DASHBOARD_BACKEND_URL is only for --mode dashboard
	ctrl := dashboard.NewController(
		api.NewServiceBackend(svc, cfg.Dashboard.Timeout),
		dashboard.NewSummaryGenerator(time.Now().UnixNano(), nil),
	)

	router := api.NewRouter(handler, api.NewDashboardHandler(ctrl, cfg.Server.Debug), api.RouterOptions{
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		RequestTimeout:     cfg.Server.RequestTimeout,
	})

	api.NewHealthHandler(ping).Register(router)

	cleanup := func() {
		if db != nil {
			_ = db.Close()
		}
	}

	return router, cleanup, nil
}

func newFetcher(cfg config.Config) *marketdata.YahooFetcher {
	return marketdata.NewYahooFetcher(cfg.Yahoo.ChartURL, cfg.Yahoo.QuoteURL, cfg.Yahoo.Timeout, cfg.Yahoo.Proxy)
}

// storeOpener is an indirection used by InitializeApp; overridden in tests to avoid real connections.
var storeOpener = OpenStaticStore
