package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/stockdash/internal/domain/models"
)

// Dialect identifies the SQL flavour behind a *sql.DB.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// BarsRepository defines contract for DB operations on static price bars.
type BarsRepository interface {
	GetBars(ctx context.Context, symbol string) (models.PriceSeries, error)
	ReplaceBars(ctx context.Context, symbol string, bars models.PriceSeries) error
	LastRefresh(ctx context.Context, symbol string) (time.Time, bool, error)
}

type barsRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewBarsRepository(db *sql.DB, dialect Dialect) BarsRepository {
	return &barsRepository{db: db, dialect: dialect}
}

var placeholderRe = regexp.MustCompile(`\$\d+`)

// rebind rewrites $n placeholders to ? for SQLite.
func (r *barsRepository) rebind(query string) string {
	if r.dialect != DialectSQLite {
		return query
	}
	return placeholderRe.ReplaceAllString(query, "?")
}

// GetBars returns the stored series for symbol, oldest first.
// An unknown symbol yields an empty series and no error.
func (r *barsRepository) GetBars(ctx context.Context, symbol string) (models.PriceSeries, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT bar_date, open, high, low, close, volume
		FROM price_bars
		WHERE symbol = $1
		ORDER BY bar_date ASC
	`), strings.ToUpper(symbol))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out models.PriceSeries
	for rows.Next() {
		var (
			rawDate any
			b       models.PriceBar
		)
		if err := rows.Scan(&rawDate, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		if b.Date, err = formatDate(rawDate); err != nil {
			return nil, err
		}
		b.IsDemo = models.Flag(false)
		out = append(out, b)
	}
	return out, rows.Err()
}

// formatDate normalises the driver's representation of bar_date.
// Postgres returns time.Time; SQLite returns the stored text.
func formatDate(v any) (string, error) {
	switch d := v.(type) {
	case time.Time:
		return d.UTC().Format(models.DateLayout), nil
	case string:
		return normaliseDateText(d)
	case []byte:
		return normaliseDateText(string(d))
	default:
		return "", fmt.Errorf("unexpected bar_date type %T", v)
	}
}

func normaliseDateText(s string) (string, error) {
	if len(s) < len(models.DateLayout) {
		return "", fmt.Errorf("invalid bar_date %q", s)
	}
	s = s[:len(models.DateLayout)]
	if _, err := time.Parse(models.DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid bar_date %q: %w", s, err)
	}
	return s, nil
}

// ReplaceBars swaps the stored series for symbol in a single transaction and
// records the refresh in snapshot_log.
func (r *barsRepository) ReplaceBars(ctx context.Context, symbol string, bars models.PriceSeries) error {
	symbol = strings.ToUpper(symbol)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM price_bars WHERE symbol = $1`), symbol); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := r.insertBars(ctx, tx, symbol, bars); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, r.rebind(`
		INSERT INTO snapshot_log (symbol, row_count, refreshed_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (symbol)
		DO UPDATE SET row_count = EXCLUDED.row_count,
					  refreshed_at = EXCLUDED.refreshed_at
	`), symbol, len(bars)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// insertBars bulk loads with COPY on Postgres and a prepared INSERT elsewhere.
func (r *barsRepository) insertBars(ctx context.Context, tx *sql.Tx, symbol string, bars models.PriceSeries) error {
	var query string
	if r.dialect == DialectPostgres {
		query = pq.CopyIn("price_bars", "symbol", "bar_date", "open", "high", "low", "close", "volume")
	} else {
		query = `INSERT INTO price_bars (symbol, bar_date, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?)`
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			_ = stmt.Close()
			return err
		}
	}

	// COPY is flushed by an argument-less Exec.
	if r.dialect == DialectPostgres {
		if _, err := stmt.ExecContext(ctx); err != nil {
			_ = stmt.Close()
			return err
		}
	}
	return stmt.Close()
}

// LastRefresh reports when symbol was last replaced by a snapshot.
func (r *barsRepository) LastRefresh(ctx context.Context, symbol string) (time.Time, bool, error) {
	var at time.Time
	err := r.db.QueryRowContext(ctx, r.rebind(`SELECT refreshed_at FROM snapshot_log WHERE symbol = $1`), strings.ToUpper(symbol)).Scan(&at)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}
