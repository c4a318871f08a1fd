package api

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/stockdash/internal/middleware"
)

// RouterOptions carries the tunables of the HTTP stack.
type RouterOptions struct {
	RateLimitPerMinute int           // 0 disables the limiter
	RequestTimeout     time.Duration // 0 disables the per-request deadline
}

// NewRouter creates a Gin engine with every route mounted.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, CORS, RateLimiter, Timeout).
//   - Mounts Swagger docs (/swagger/*any).
//   - Mounts the JSON API under /api and the dashboard pages at / and /dashboard.
//
// Health endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, pages *DashboardHandler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.CORS(),
		middleware.NewRateLimiter(opts.RateLimitPerMinute, time.Minute).Handler(),
		middleware.Timeout(opts.RequestTimeout),
	)

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API ──────────────────────────────────────
	api := router.Group("/api")
	{
		api.GET("/check", handler.Check)
		api.GET("/stock-data", handler.GetStockData)
		api.GET("/test-yahoo", handler.TestYahoo)
		api.GET("/check-yahoo-response", handler.CheckYahooResponse)
		if pages != nil {
			api.GET("/dashboard-view", pages.View)
		}
	}

	// ─── Pages ────────────────────────────────────
	if pages != nil {
		router.GET("/", pages.Page)
		router.GET("/dashboard", pages.Page)
		router.GET("/plotly-test", pages.PlotlyTest)
		router.GET("/simple-test", pages.SimpleTest)
	}

	return router
}
