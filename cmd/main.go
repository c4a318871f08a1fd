package main

//
//  @title           stockdash API
//  @version         1.0
//  @description     Stock price dashboard backed by Yahoo Finance, a static store and a demo generator.
//  @termsOfService  https://github.com/guttosm/stockdash
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/stockdash
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        stock
//  @tag.description Daily price bars
//
//  @tag.name        diagnostics
//  @tag.description Upstream reachability checks
//
//  @tag.name        dashboard
//  @tag.description Dashboard view state
//
//  @tag.name        health
//  @tag.description Liveness and readiness checks

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/stockdash/config"
	_ "github.com/guttosm/stockdash/docs" // swagger docs
	"github.com/guttosm/stockdash/internal/app"
	"github.com/guttosm/stockdash/internal/dashboard"
	"github.com/guttosm/stockdash/internal/domain/models"
	"github.com/guttosm/stockdash/internal/logger"
	"github.com/guttosm/stockdash/internal/snapshot"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// startScheduler registers the snapshot job when SNAPSHOT_CRON is set.
// The returned stop func is safe to call when nothing was scheduled.
func startScheduler(ctx context.Context, cfg config.Config) (func(), error) {
	if cfg.Snapshot.Cron == "" {
		return func() {}, nil
	}

	job, closeStore, err := app.NewSnapshotJob(cfg)
	if err != nil {
		return nil, err
	}
	sched, err := snapshot.NewScheduler(ctx, cfg.Snapshot.Cron, job.Scheduled)
	if err != nil {
		closeStore()
		return nil, err
	}
	sched.Start()
	logger.L().Info().Str("cron", cfg.Snapshot.Cron).Time("next", sched.Next()).Msg("snapshot scheduled")

	return func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sched.Stop(stopCtx)
		closeStore()
	}, nil
}

// dashboardLoader is what runDashboard needs from a dashboard session.
type dashboardLoader interface {
	Refresh(ctx context.Context, params models.QueryParams) (dashboard.ViewState, bool)
	TestYahoo(ctx context.Context) dashboard.ViewState
	CheckDirectAccess(ctx context.Context) dashboard.ViewState
}

// runDashboard loads one view for params, optionally runs a diagnostic and
// writes the resulting view state to w as indented JSON.
func runDashboard(ctx context.Context, w io.Writer, s dashboardLoader, params models.QueryParams, diag string) error {
	view, _ := s.Refresh(ctx, params)
	switch diag {
	case "":
	case "yahoo":
		view = s.TestYahoo(ctx)
	case "direct":
		view = s.CheckDirectAccess(ctx)
	default:
		return fmt.Errorf("unknown diagnostic %q (want yahoo or direct)", diag)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

// main is the entry point of the stockdash application.
//
// Modes (selected via --mode flag):
//   - api:       Starts the REST API and dashboard pages, plus the snapshot
//     scheduler when SNAPSHOT_CRON is set.
//   - snapshot:  Copies live series for SNAPSHOT_SYMBOLS into the static store once.
//   - dashboard: Loads one dashboard view from DASHBOARD_BACKEND_URL and prints it as JSON.
//
// Flags:
//   - --mode:   Execution mode ("api", "snapshot" or "dashboard"). Default: "api".
//   - --port:   Port for the API server. Defaults to value from config (SERVER_PORT).
//   - --force:  Snapshot symbols even if refreshed within SNAPSHOT_MAX_AGE.
//   - --symbol, --period, --source, --diag: Dashboard mode inputs.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "api", "Mode: api, snapshot or dashboard")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	force := flag.Bool("force", false, "Snapshot symbols even if recently refreshed")
	symbol := flag.String("symbol", models.DefaultSymbol, "Dashboard mode: ticker symbol")
	period := flag.String("period", string(models.DefaultPeriod), "Dashboard mode: range")
	source := flag.String("source", string(models.SourceLive), "Dashboard mode: live, static or demo")
	diag := flag.String("diag", "", "Dashboard mode: run a diagnostic (yahoo or direct)")
	flag.Parse()

	cfg := config.AppConfig

	switch *mode {
	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		stopScheduler, err := startScheduler(ctx, cfg)
		if err != nil {
			cleanup()
			logger.L().Fatal().Err(err).Msg("scheduler init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, func() {
			stopScheduler()
			cleanup()
		})

	case "snapshot":
		logger.L().Info().Msg("running snapshot")

		job, cleanup, err := app.NewSnapshotJob(cfg)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("snapshot init error")
		}
		defer cleanup()

		if _, err := job.Run(ctx, *force); err != nil {
			cleanup()
			logger.L().Fatal().Err(err).Msg("snapshot failed")
		}

	case "dashboard":
		params := models.NewQueryParams(*symbol, *period, *source)
		if _, err := models.ParsePeriod(string(params.Period)); err != nil {
			logger.L().Fatal().Err(err).Msg("invalid period")
		}

		ctrl := dashboard.NewController(
			dashboard.NewClient(cfg.Dashboard.BackendURL, cfg.Dashboard.Timeout),
			dashboard.NewSummaryGenerator(time.Now().UnixNano(), nil),
		)
		session := dashboard.NewSession(ctrl, cfg.Dashboard.Timeout)
		defer session.Close()

		if err := runDashboard(ctx, os.Stdout, session, params, *diag); err != nil {
			logger.L().Fatal().Err(err).Msg("dashboard failed")
		}

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
