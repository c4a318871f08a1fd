package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/guttosm/stockdash/internal/domain/models"
	"github.com/guttosm/stockdash/internal/logger"
)

// Controller turns backend answers into view state. It never touches
// anything but the ViewState it is handed and returns.
type Controller struct {
	backend Backend
	summary *SummaryGenerator
}

func NewController(backend Backend, summary *SummaryGenerator) *Controller {
	return &Controller{backend: backend, summary: summary}
}

// Load runs one full refresh: loading placeholders, fetch, render.
func (c *Controller) Load(ctx context.Context, view ViewState, params models.QueryParams) ViewState {
	return c.Complete(ctx, c.Begin(view, params))
}

// Begin puts view into its loading state for params and regenerates the
// market summary, which does not depend on the fetch.
func (c *Controller) Begin(view ViewState, params models.QueryParams) ViewState {
	view.Params = params
	view.StockChart = Region{Message: MsgLoadingStock}
	view.TrendChart = Region{Message: MsgLoadingTrend}
	view.Metrics = LoadingMetrics()
	view.Notice = nil
	view.Summary = c.summary.Generate(params.Symbol)
	return view
}

// Complete fetches the series for view.Params and renders it into view.
func (c *Controller) Complete(ctx context.Context, view ViewState) ViewState {
	log := logger.Component("dashboard")
	p := view.Params

	bars, err := c.backend.StockData(ctx, p)
	if err != nil {
		var se *StatusError
		switch {
		case errors.As(err, &se):
			view.StockChart = Region{Message: fmt.Sprintf("Error: API returned status %d", se.Code)}
		case errors.Is(err, ErrMalformed):
			view.StockChart = Region{Message: MsgParseError}
		default:
			view.StockChart = Region{Message: MsgNetworkError}
		}
		log.Warn().Err(err).Str("symbol", p.Symbol).Msg("stock data request failed")
		return view
	}

	if len(bars) == 0 {
		view.StockChart = Region{Message: MsgNoStockData}
		view.TrendChart = Region{Message: MsgNoTrendData}
		view.Metrics = EmptyMetrics()
		return view
	}

	return Render(view, bars)
}

// Render fills the charts and metrics of view from bars. Each part fails on
// its own: a broken chart does not hide the other chart or the metrics.
func Render(view ViewState, bars models.PriceSeries) ViewState {
	log := logger.Component("dashboard")
	symbol := view.Params.Symbol

	if fig, err := CandlestickFigure(bars, symbol); err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("candlestick build failed")
		view.StockChart = Region{Message: "Error creating chart: " + err.Error()}
	} else {
		view.StockChart = Region{Figure: fig}
	}

	if fig, err := TrendFigure(bars); err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("trend build failed")
		view.TrendChart = Region{Message: "Error creating trend chart: " + err.Error()}
	} else {
		view.TrendChart = Region{Figure: fig}
	}

	if m, err := FormatMetrics(bars); err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("metric formatting failed")
		view.Metrics = EmptyMetrics()
	} else {
		view.Metrics = m
	}

	if demo, _ := demoFlag(bars); demo {
		view.Notice = &Banner{Level: LevelWarning, Title: "Note:", Lines: []string{MsgDemoNotice}}
	} else {
		view.Notice = nil
	}
	return view
}

// TestYahoo runs the backend's live provider test and reports it in the status banner.
func (c *Controller) TestYahoo(ctx context.Context, view ViewState) ViewState {
	p := view.Params
	res, err := c.backend.TestYahoo(ctx, p.Symbol, p.Period)
	if err != nil {
		view.Status = errorBanner(err)
		return view
	}

	b := &Banner{Detail: prettyJSON(res)}
	if res.Success {
		b.Level, b.Title = LevelSuccess, "Success!"
		b.Lines = []string{
			fmt.Sprintf("Yahoo API returned data for %s.", p.Symbol),
			fmt.Sprintf("Data shape: %s.", joinInts(res.DataShape)),
			fmt.Sprintf("Execution time: %s seconds.", strconv.FormatFloat(res.ExecutionTime, 'f', -1, 64)),
		}
	} else {
		reason := "Unknown error"
		if res.Error != nil && *res.Error != "" {
			reason = *res.Error
		}
		b.Level, b.Title = LevelDanger, "Error:"
		b.Lines = []string{"Failed to get data from Yahoo API.", "Error: " + reason}
	}
	view.Status = b
	return view
}

// CheckDirectAccess asks the backend whether the upstream quote page is reachable.
func (c *Controller) CheckDirectAccess(ctx context.Context, view ViewState) ViewState {
	rep, err := c.backend.CheckYahooResponse(ctx, view.Params.Symbol)
	if err != nil {
		view.Status = errorBanner(err)
		return view
	}

	b := &Banner{Detail: prettyJSON(rep)}
	if rep.IsAccessible {
		b.Level, b.Title = LevelSuccess, "Success!"
		b.Lines = []string{
			"Yahoo Finance is accessible.",
			fmt.Sprintf("Status code: %d", rep.StatusCode),
			"Content type: " + rep.ContentType,
		}
	} else {
		b.Level, b.Title = LevelDanger, "Error:"
		b.Lines = []string{"Yahoo Finance is not accessible.", fmt.Sprintf("Status code: %d", rep.StatusCode)}
	}
	view.Status = b
	return view
}

func errorBanner(err error) *Banner {
	return &Banner{Level: LevelDanger, Title: "Error:", Lines: []string{err.Error()}}
}

func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(b)
}

func joinInts(vals []int) string {
	s := make([]string, len(vals))
	for i, v := range vals {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, ",")
}
