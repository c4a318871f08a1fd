package models

import (
	"fmt"
	"strings"
)

// Defaults applied when a form value is blank.
const (
	DefaultSymbol = "AAPL"
	DefaultPeriod = Period1mo
)

// DataSource selects where the stock-data API takes its series from.
type DataSource string

const (
	SourceLive   DataSource = "live"
	SourceStatic DataSource = "static"
	SourceDemo   DataSource = "demo"
)

// ParseDataSource maps a radio value to a DataSource. Unknown or empty
// values select live data, which is the checked option by default.
func ParseDataSource(s string) DataSource {
	switch DataSource(strings.ToLower(strings.TrimSpace(s))) {
	case SourceStatic:
		return SourceStatic
	case SourceDemo:
		return SourceDemo
	default:
		return SourceLive
	}
}

// Period is a Yahoo-style range string.
type Period string

const (
	Period1d  Period = "1d"
	Period5d  Period = "5d"
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period2y  Period = "2y"
	Period5y  Period = "5y"
	Period10y Period = "10y"
	PeriodYTD Period = "ytd"
	PeriodMax Period = "max"
)

var validPeriods = map[Period]struct{}{
	Period1d: {}, Period5d: {}, Period1mo: {}, Period3mo: {}, Period6mo: {},
	Period1y: {}, Period2y: {}, Period5y: {}, Period10y: {}, PeriodYTD: {}, PeriodMax: {},
}

// ParsePeriod validates s. An empty string yields DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultPeriod, nil
	}
	p := Period(s)
	if _, ok := validPeriods[p]; !ok {
		return "", fmt.Errorf("invalid period %q", s)
	}
	return p, nil
}

// QueryParams describes one stock-data request.
type QueryParams struct {
	Symbol string
	Period Period
	Source DataSource
}

// NewQueryParams normalises raw form values: the symbol is trimmed and
// upper-cased and blank values fall back to the defaults. The period is not
// validated here; the API rejects unknown periods.
func NewQueryParams(symbol, period, source string) QueryParams {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		sym = DefaultSymbol
	}
	p := Period(strings.TrimSpace(period))
	if p == "" {
		p = DefaultPeriod
	}
	return QueryParams{Symbol: sym, Period: p, Source: ParseDataSource(source)}
}
