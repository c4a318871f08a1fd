package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/stockdash/internal/domain/dto"
	"github.com/guttosm/stockdash/internal/domain/models"
	"github.com/guttosm/stockdash/internal/logger"
	"github.com/guttosm/stockdash/internal/marketdata"
)

// sampleRows is how many bars TestYahoo echoes back.
const sampleRows = 3

// barColumns names the columns of a price table as reported by TestYahoo.
var barColumns = []string{"Open", "High", "Low", "Close", "Volume"}

// BarStore is any source of static bars (database repository or fixtures).
type BarStore interface {
	GetBars(ctx context.Context, symbol string) (models.PriceSeries, error)
}

// Generator produces simulated bars.
type Generator interface {
	Generate(period models.Period) models.PriceSeries
}

// QuoteChecker checks direct reachability of the upstream quote page.
type QuoteChecker interface {
	CheckQuotePage(ctx context.Context, symbol string) (*dto.YahooAccessReport, error)
}

// StockService defines business logic behind the stock-data and diagnostic endpoints.
type StockService interface {
	GetStockData(ctx context.Context, q models.QueryParams) (models.PriceSeries, models.DataSource, error)
	TestYahoo(ctx context.Context, symbol string, period models.Period) dto.YahooTestResult
	CheckYahooResponse(ctx context.Context, symbol string) (*dto.YahooAccessReport, error)
}

// Deps groups the collaborators of the stock service. DB is optional.
type Deps struct {
	Live     marketdata.Fetcher
	Checker  QuoteChecker
	Demo     Generator
	DB       BarStore
	Fixtures BarStore
	Now      func() time.Time
}

type stockService struct {
	live     marketdata.Fetcher
	checker  QuoteChecker
	demo     Generator
	db       BarStore
	fixtures BarStore
	now      func() time.Time
}

func NewStockService(d Deps) StockService {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &stockService{
		live:     d.Live,
		checker:  d.Checker,
		demo:     d.Demo,
		db:       d.DB,
		fixtures: d.Fixtures,
		now:      now,
	}
}

// GetStockData resolves bars for q. Demo wins over static, static over live.
// Live failures fall back to static; the returned DataSource says which source
// actually produced the bars.
func (s *stockService) GetStockData(ctx context.Context, q models.QueryParams) (models.PriceSeries, models.DataSource, error) {
	log := logger.Component("service")

	switch q.Source {
	case models.SourceDemo:
		log.Info().Str("symbol", q.Symbol).Str("period", string(q.Period)).Msg("serving demo data")
		return s.demo.Generate(q.Period), models.SourceDemo, nil
	case models.SourceStatic:
		bars, err := s.staticBars(ctx, q.Symbol)
		return bars, models.SourceStatic, err
	}

	bars, err := s.live.FetchDaily(ctx, q.Symbol, q.Period)
	if err == nil && len(bars) > 0 {
		log.Info().Str("symbol", q.Symbol).Int("rows", len(bars)).Str("provider", s.live.Name()).Msg("live data fetched")
		return bars, models.SourceLive, nil
	}
	if err == nil {
		err = marketdata.ErrNoData
	}
	log.Warn().Err(err).Str("symbol", q.Symbol).Msg("live fetch failed, falling back to static data")

	bars, err = s.staticBars(ctx, q.Symbol)
	return bars, models.SourceStatic, err
}

// staticBars prefers the database store and falls back to the fixtures
// when the database is absent, failing or has nothing for symbol.
func (s *stockService) staticBars(ctx context.Context, symbol string) (models.PriceSeries, error) {
	if s.db != nil {
		bars, err := s.db.GetBars(ctx, symbol)
		switch {
		case err != nil:
			logger.Component("service").Warn().Err(err).Str("symbol", symbol).Msg("static store read failed, using fixtures")
		case len(bars) > 0:
			return bars, nil
		}
	}
	bars, err := s.fixtures.GetBars(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("static data for %s: %w", symbol, err)
	}
	return bars, nil
}

// TestYahoo performs one live fetch and reports what happened. Failures are
// part of the result, never an error.
func (s *stockService) TestYahoo(ctx context.Context, symbol string, period models.Period) dto.YahooTestResult {
	log := logger.Component("service")
	log.Info().Str("symbol", symbol).Str("period", string(period)).Msg("testing live provider")

	res := dto.YahooTestResult{
		Symbol:    symbol,
		Period:    string(period),
		Timestamp: s.now().Format(time.RFC3339Nano),
	}

	start := s.now()
	bars, err := s.live.FetchDaily(ctx, symbol, period)
	res.ExecutionTime = s.now().Sub(start).Seconds()

	switch {
	case errors.Is(err, marketdata.ErrNoData) || (err == nil && len(bars) == 0):
		res.Error = strPtr("API returned no data")
	case err != nil:
		res.Error = strPtr(err.Error())
		log.Error().Err(err).Str("symbol", symbol).Msg("live provider test failed")
	default:
		res.Success = true
		res.DataReceived = true
		res.DataShape = []int{len(bars), len(barColumns)}
		res.DataColumns = barColumns
		n := min(sampleRows, len(bars))
		res.DataSample = append(models.PriceSeries(nil), bars[:n]...)
	}

	log.Info().Float64("execution_time", res.ExecutionTime).Bool("success", res.Success).Msg("live provider test completed")
	return res
}

// CheckYahooResponse fetches the public quote page and reports on it.
func (s *stockService) CheckYahooResponse(ctx context.Context, symbol string) (*dto.YahooAccessReport, error) {
	logger.Component("service").Info().Str("symbol", symbol).Msg("checking direct quote page access")
	return s.checker.CheckQuotePage(ctx, symbol)
}

func strPtr(s string) *string { return &s }
