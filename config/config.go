package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Static store backends accepted by STATIC_STORE.
const (
	StoreFixtures = "fixtures"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, the Yahoo Finance upstream, the static data store and
// the dashboard controller.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	DEBUG=false
//	YAHOO_CHART_URL=https://query1.finance.yahoo.com/v8/finance/chart
//	STATIC_STORE=postgres
//	POSTGRES_HOST=localhost
//	SNAPSHOT_CRON=30 22 * * 1-5
//	DASHBOARD_BACKEND_URL=http://localhost:8080
type Config struct {
	Server    ServerConfig    // HTTP server configuration
	Yahoo     YahooConfig     // Upstream market data settings
	Store     StoreConfig     // Backend used by the "static" data source
	Postgres  PostgresConfig  // PostgreSQL connection settings (STATIC_STORE=postgres)
	SQLite    SQLiteConfig    // SQLite settings (STATIC_STORE=sqlite)
	Snapshot  SnapshotConfig  // Live -> static snapshot job
	Dashboard DashboardConfig // Dashboard controller settings
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string        // The TCP port the HTTP server will listen on (e.g., "8080")
	Debug              bool          // Enables debug-only pages such as /plotly-test
	RateLimitPerMinute int           // Requests allowed per client IP per minute
	RequestTimeout     time.Duration // Deadline applied to each request context
}

// YahooConfig defines how live data is fetched.
//
// Fields:
//   - ChartURL: base of the v8 chart API; the symbol is appended as a path segment.
//   - QuoteURL: base of the public quote page used by the direct access check.
//   - Timeout: per-request timeout for both endpoints.
//   - Proxy: optional HTTPS proxy URL.
type YahooConfig struct {
	ChartURL string
	QuoteURL string
	Timeout  time.Duration
	Proxy    string
}

// StoreConfig selects the static store backend.
type StoreConfig struct {
	Backend string // fixtures | postgres | sqlite
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// SQLiteConfig holds the database file path.
type SQLiteConfig struct {
	Path string
}

// SnapshotConfig controls the job that copies live series into the static store.
type SnapshotConfig struct {
	Cron     string        // optional 5-field cron spec; empty disables scheduling
	Symbols  []string      // symbols refreshed on each run
	Period   string        // period requested from the live source
	Parallel int           // max concurrent fetches (0 = auto)
	MaxAge   time.Duration // symbols refreshed more recently are skipped
}

// DashboardConfig holds settings for the dashboard controller.
type DashboardConfig struct {
	BackendURL string        // stock-data API used by --mode dashboard; the served pages call the service directly
	Timeout    time.Duration // per-request timeout
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() will terminate
//     the app with a descriptive log message.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	viper.SetDefault("REQUEST_TIMEOUT", "30s")

	viper.SetDefault("YAHOO_CHART_URL", "https://query1.finance.yahoo.com/v8/finance/chart")
	viper.SetDefault("YAHOO_QUOTE_URL", "https://finance.yahoo.com/quote")
	viper.SetDefault("YAHOO_TIMEOUT", "10s")
	viper.SetDefault("HTTPS_PROXY", "")

	viper.SetDefault("STATIC_STORE", StoreFixtures)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "stockdash")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("SQLITE_PATH", "data/stockdash.db")

	viper.SetDefault("SNAPSHOT_CRON", "")
	viper.SetDefault("SNAPSHOT_SYMBOLS", "AAPL,MSFT")
	viper.SetDefault("SNAPSHOT_PERIOD", "1mo")
	viper.SetDefault("SNAPSHOT_PARALLEL", 0)
	viper.SetDefault("SNAPSHOT_MAX_AGE", "0s")

	viper.SetDefault("DASHBOARD_BACKEND_URL", "")
	viper.SetDefault("DASHBOARD_TIMEOUT", "15s")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			Debug:              viper.GetBool("DEBUG"),
			RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
			RequestTimeout:     viper.GetDuration("REQUEST_TIMEOUT"),
		},
		Yahoo: YahooConfig{
			ChartURL: strings.TrimRight(viper.GetString("YAHOO_CHART_URL"), "/"),
			QuoteURL: strings.TrimRight(viper.GetString("YAHOO_QUOTE_URL"), "/"),
			Timeout:  viper.GetDuration("YAHOO_TIMEOUT"),
			Proxy:    viper.GetString("HTTPS_PROXY"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(strings.TrimSpace(viper.GetString("STATIC_STORE"))),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("SQLITE_PATH"),
		},
		Snapshot: SnapshotConfig{
			Cron:     viper.GetString("SNAPSHOT_CRON"),
			Symbols:  splitSymbols(viper.GetString("SNAPSHOT_SYMBOLS")),
			Period:   viper.GetString("SNAPSHOT_PERIOD"),
			Parallel: viper.GetInt("SNAPSHOT_PARALLEL"),
			MaxAge:   viper.GetDuration("SNAPSHOT_MAX_AGE"),
		},
		Dashboard: DashboardConfig{
			BackendURL: strings.TrimRight(viper.GetString("DASHBOARD_BACKEND_URL"), "/"),
			Timeout:    viper.GetDuration("DASHBOARD_TIMEOUT"),
		},
	}

	// The dashboard talks to this same service unless told otherwise.
	if AppConfig.Dashboard.BackendURL == "" {
		AppConfig.Dashboard.BackendURL = "http://localhost:" + AppConfig.Server.Port
	}

	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// splitSymbols turns "aapl, msft,," into ["AAPL", "MSFT"].
func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// Postgres and SQLite settings are only checked when the matching
// STATIC_STORE backend is selected.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Yahoo.ChartURL == "" {
		missing = append(missing, "YAHOO_CHART_URL")
	}
	if AppConfig.Yahoo.QuoteURL == "" {
		missing = append(missing, "YAHOO_QUOTE_URL")
	}

	switch AppConfig.Store.Backend {
	case StoreFixtures:
	case StorePostgres:
		if AppConfig.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if AppConfig.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if AppConfig.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if AppConfig.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	case StoreSQLite:
		if AppConfig.SQLite.Path == "" {
			missing = append(missing, "SQLITE_PATH")
		}
	default:
		missing = append(missing, "STATIC_STORE (fixtures|postgres|sqlite)")
	}

	if len(missing) > 0 {
		log.Fatalf("❌ Missing or invalid environment variables: %v\n", missing)
	}
}
