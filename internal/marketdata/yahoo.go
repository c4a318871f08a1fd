package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/guttosm/stockdash/internal/domain/models"
)

// browserUserAgent is sent on every upstream request; Yahoo rejects
// requests without a browser-like agent.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// ErrNoData is returned when the upstream answers but has no bars.
var ErrNoData = errors.New("no data returned")

// Fetcher retrieves daily bars from a live source.
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol string, period models.Period) (models.PriceSeries, error)
	Name() string
}

// YahooFetcher implements Fetcher using the Yahoo Finance v8 chart API.
type YahooFetcher struct {
	Client   *http.Client
	ChartURL string // e.g. https://query1.finance.yahoo.com/v8/finance/chart
	QuoteURL string // e.g. https://finance.yahoo.com/quote
}

// NewYahooFetcher creates a fetcher with the given endpoints, timeout and optional proxy.
func NewYahooFetcher(chartURL, quoteURL string, timeout time.Duration, proxyURL string) *YahooFetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client:   &http.Client{Timeout: timeout, Transport: transport},
		ChartURL: chartURL,
		QuoteURL: quoteURL,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the subset of the chart API response we read.
// Quote values are pointers because Yahoo sends null for missing bars.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int64 `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDaily returns daily bars for symbol over period, oldest first.
func (f *YahooFetcher) FetchDaily(ctx context.Context, symbol string, period models.Period) (models.PriceSeries, error) {
	u := fmt.Sprintf("%s/%s?interval=1d&range=%s", f.ChartURL, url.PathEscape(symbol), url.QueryEscape(string(period)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(body, &chart)
	if decodeErr == nil && chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("yahoo decode: %w", decodeErr)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make(models.PriceSeries, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o, h, l, c := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if o == nil || h == nil || l == nil || c == nil {
			continue // null bar (holiday, halted session)
		}
		var vol int64
		if v := at(quote.Volume, i); v != nil {
			vol = int64(*v)
		}
		bars = append(bars, models.PriceBar{
			Date:   time.Unix(ts+result.Meta.GMTOffset, 0).UTC().Format(models.DateLayout),
			Open:   *o,
			High:   *h,
			Low:    *l,
			Close:  *c,
			Volume: vol,
			IsDemo: models.Flag(false),
		})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars, nil
}

func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}
