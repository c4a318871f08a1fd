package storage

import (
	"database/sql"
	"embed"
	"fmt"

	goose "github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded goose migrations to db.
func Migrate(db *sql.DB, dialect Dialect) error {
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	gooseDialect := "postgres"
	if dialect == DialectSQLite {
		gooseDialect = "sqlite3"
	}
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
