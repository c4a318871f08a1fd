package app

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/guttosm/stockdash/config"
	"github.com/guttosm/stockdash/internal/storage"

	_ "github.com/lib/pq"  // PostgreSQL driver for database/sql
	_ "modernc.org/sqlite" // pure-Go SQLite driver, registered as "sqlite"
)

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// InitPostgres opens and pings a PostgreSQL connection built from cfg.Postgres.
//
// Example usage:
//
//	db, err := app.InitPostgres(config.AppConfig)
//	if err != nil {
//	    log.Fatalf("❌ failed to connect: %v", err)
//	}
//	defer db.Close()
func InitPostgres(cfg config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)

	db, err := sqlOpener("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// InitSQLite opens the database file at cfg.SQLite.Path, creating its directory.
// SQLite allows a single writer, so the pool is capped at one connection.
func InitSQLite(cfg config.Config) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite dir: %w", err)
		}
	}

	db, err := sqlOpener("sqlite", cfg.SQLite.Path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}
	return db, nil
}

// OpenStaticStore connects to the backend selected by STATIC_STORE and applies
// migrations. The fixtures backend needs no database and returns a nil *sql.DB.
func OpenStaticStore(cfg config.Config) (*sql.DB, storage.Dialect, error) {
	var (
		db      *sql.DB
		dialect storage.Dialect
		err     error
	)
	switch cfg.Store.Backend {
	case config.StoreFixtures, "":
		return nil, "", nil
	case config.StorePostgres:
		db, err = postgresOpener(cfg)
		dialect = storage.DialectPostgres
	case config.StoreSQLite:
		db, err = sqliteOpener(cfg)
		dialect = storage.DialectSQLite
	default:
		return nil, "", fmt.Errorf("unknown static store %q", cfg.Store.Backend)
	}
	if err != nil {
		return nil, "", err
	}

	if err := migrate(db, dialect); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to migrate %s: %w", dialect, err)
	}
	return db, dialect, nil
}

// indirections overridden in tests to avoid real connections.
var (
	postgresOpener = InitPostgres
	sqliteOpener   = InitSQLite
	migrate        = storage.Migrate
)
