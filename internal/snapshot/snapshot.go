package snapshot

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/stockdash/internal/domain/models"
	"github.com/guttosm/stockdash/internal/logger"
	"github.com/guttosm/stockdash/internal/marketdata"
)

const maxParallel = 8

// Store is the part of the bars repository the snapshot job writes to.
type Store interface {
	ReplaceBars(ctx context.Context, symbol string, bars models.PriceSeries) error
	LastRefresh(ctx context.Context, symbol string) (time.Time, bool, error)
}

// Options controls one snapshot run.
//   - Symbols: tickers to copy; blanks and duplicates are dropped.
//   - Period:  range requested from the live source.
//   - Parallel: concurrent fetches, clamped to 1..8 (0 picks min(8, NumCPU)).
//   - MaxAge:  symbols refreshed more recently than this are skipped unless Force.
type Options struct {
	Symbols  []string
	Period   models.Period
	Parallel int
	MaxAge   time.Duration
	Force    bool
}

// Result summarises a run.
type Result struct {
	Stored  []string
	Skipped []string
	Empty   []string
}

// Run copies live series into the static store, one symbol per goroutine.
// If any symbol fails, the remaining ones are cancelled and the first error is returned.
func Run(ctx context.Context, fetcher marketdata.Fetcher, store Store, opts Options) (*Result, error) {
	symbols := normaliseSymbols(opts.Symbols)
	if len(symbols) == 0 {
		return nil, errors.New("snapshot: no symbols configured")
	}
	period := opts.Period
	if period == "" {
		period = models.DefaultPeriod
	}

	log := logger.Component("snapshot")
	parallel := clampParallel(opts.Parallel)
	log.Info().Int("symbols", len(symbols)).Int("max_parallel", parallel).Str("period", string(period)).Msg("snapshot start")

	type outcome int
	const (
		pending outcome = iota
		stored
		skipped
		empty
	)
	outcomes := make([]outcome, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, parallel)

	for i, symbol := range symbols {
		select {
		case sem <- struct{}{}:
		case <-gctx.Done():
			// a sibling failed; stop scheduling
		}
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			defer func() { <-sem }()
			start := time.Now()

			if !opts.Force && opts.MaxAge > 0 {
				at, ok, err := store.LastRefresh(gctx, symbol)
				if err != nil {
					return fmt.Errorf("symbol %s: check last refresh: %w", symbol, err)
				}
				if ok && time.Since(at) < opts.MaxAge {
					log.Info().Str("symbol", symbol).Time("refreshed_at", at).Bool("skipped", true).Msg("snapshot fresh")
					outcomes[i] = skipped
					return nil
				}
			}

			bars, err := fetcher.FetchDaily(gctx, symbol, period)
			if errors.Is(err, marketdata.ErrNoData) || (err == nil && len(bars) == 0) {
				log.Warn().Str("symbol", symbol).Msg("no live data, static store left untouched")
				outcomes[i] = empty
				return nil
			}
			if err != nil {
				log.Error().Str("symbol", symbol).Err(err).Msg("snapshot fetch failed")
				return fmt.Errorf("symbol %s: fetch: %w", symbol, err)
			}

			if err := store.ReplaceBars(gctx, symbol, bars); err != nil {
				log.Error().Str("symbol", symbol).Err(err).Msg("snapshot store failed")
				return fmt.Errorf("symbol %s: store: %w", symbol, err)
			}
			log.Info().Str("symbol", symbol).Int("rows", len(bars)).Dur("elapsed", time.Since(start)).Msg("snapshot stored")
			outcomes[i] = stored
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("snapshot aborted")
		return nil, err
	}

	res := &Result{}
	for i, o := range outcomes {
		switch o {
		case pending:
			// scheduling stopped before this symbol ran
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("snapshot: symbol %s was not processed", symbols[i])
			}
			log.Error().Err(err).Str("symbol", symbols[i]).Msg("snapshot aborted")
			return nil, err
		case stored:
			res.Stored = append(res.Stored, symbols[i])
		case skipped:
			res.Skipped = append(res.Skipped, symbols[i])
		case empty:
			res.Empty = append(res.Empty, symbols[i])
		}
	}
	log.Info().Int("stored", len(res.Stored)).Int("skipped", len(res.Skipped)).Int("empty", len(res.Empty)).Msg("snapshot complete")
	return res, nil
}

func normaliseSymbols(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func clampParallel(p int) int {
	if p <= 0 {
		p = min(maxParallel, runtime.NumCPU())
	}
	return max(1, min(p, maxParallel))
}
