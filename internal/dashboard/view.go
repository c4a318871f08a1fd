package dashboard

import "github.com/guttosm/stockdash/internal/domain/models"

// Region texts shown while a load is pending or when it cannot produce a chart.
const (
	MsgLoadingStock   = "Loading data..."
	MsgLoadingTrend   = "Loading trend data..."
	MsgLoadingMetric  = "Loading..."
	MsgNoStockData    = "No data available for this symbol"
	MsgNoTrendData    = "No trend data available"
	MsgNetworkError   = "Network error, please check your connection"
	MsgParseError     = "Error parsing API response"
	MsgDemoNotice     = "Showing simulated data. Real API data is unavailable."
	MetricPlaceholder = "-"
)

// Banner levels, matching the Bootstrap alert classes the page uses.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// Region is one chart area of the page. Exactly one of Message or Figure is set.
type Region struct {
	Message string  `json:"message,omitempty"`
	Figure  *Figure `json:"figure,omitempty"`
}

// Metrics are the five scalar displays fed from the latest bar.
type Metrics struct {
	Open   string `json:"openingPrice"`
	Close  string `json:"closingPrice"`
	High   string `json:"highPrice"`
	Low    string `json:"lowPrice"`
	Volume string `json:"volume"`
}

// MarketSummary is the "today's change" panel. It is not derived from fetched data.
type MarketSummary struct {
	Symbol        string  `json:"symbol"`
	ChangePercent float64 `json:"changePercent"`
	Display       string  `json:"display"`
	Class         string  `json:"class"`
	Icon          string  `json:"icon"`
	Status        string  `json:"status"`
	LastUpdated   string  `json:"lastUpdated"`
}

// Banner is an alert line such as the demo notice or a diagnostics result.
type Banner struct {
	Level  string   `json:"level"`
	Title  string   `json:"title,omitempty"`
	Lines  []string `json:"lines"`
	Detail string   `json:"detail,omitempty"`
}

// ViewState is everything the dashboard page shows. Controllers take one and
// return an updated copy; nothing else holds page state.
type ViewState struct {
	Params     models.QueryParams `json:"params"`
	StockChart Region             `json:"stockChart"`
	TrendChart Region             `json:"trendChart"`
	Metrics    Metrics            `json:"metrics"`
	Summary    MarketSummary      `json:"marketSummary"`
	Notice     *Banner            `json:"notice,omitempty"`
	Status     *Banner            `json:"status,omitempty"`
}

// NewViewState returns the state of a page that has not loaded anything yet.
func NewViewState() ViewState {
	return ViewState{
		Params:     models.QueryParams{Symbol: models.DefaultSymbol, Period: models.DefaultPeriod, Source: models.SourceLive},
		StockChart: Region{Message: MsgLoadingStock},
		TrendChart: Region{Message: MsgLoadingTrend},
		Metrics:    LoadingMetrics(),
	}
}

// LoadingMetrics is the metric panel while a fetch is in flight.
func LoadingMetrics() Metrics {
	return Metrics{Open: MsgLoadingMetric, Close: MsgLoadingMetric, High: MsgLoadingMetric, Low: MsgLoadingMetric, Volume: MsgLoadingMetric}
}

// EmptyMetrics is the metric panel when there is nothing to show.
func EmptyMetrics() Metrics {
	return Metrics{Open: MetricPlaceholder, Close: MetricPlaceholder, High: MetricPlaceholder, Low: MetricPlaceholder, Volume: MetricPlaceholder}
}
