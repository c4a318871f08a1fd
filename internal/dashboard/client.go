package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/stockdash/internal/domain/dto"
	"github.com/guttosm/stockdash/internal/domain/models"
)

// Failure classes of a backend call.
var (
	ErrNetwork   = errors.New("network error")
	ErrMalformed = errors.New("malformed response")
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API returned status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("API returned status %d", e.Code)
}

// Backend is what the controller needs from the stock API.
type Backend interface {
	StockData(ctx context.Context, q models.QueryParams) (models.PriceSeries, error)
	TestYahoo(ctx context.Context, symbol string, period models.Period) (*dto.YahooTestResult, error)
	CheckYahooResponse(ctx context.Context, symbol string) (*dto.YahooAccessReport, error)
}

// Client talks to the stock API over HTTP.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// StockData fetches the series for q. An empty slice means "no data".
func (c *Client) StockData(ctx context.Context, q models.QueryParams) (models.PriceSeries, error) {
	v := url.Values{}
	v.Set("symbol", q.Symbol)
	v.Set("period", string(q.Period))
	v.Set("demo", strconv.FormatBool(q.Source == models.SourceDemo))
	v.Set("static", strconv.FormatBool(q.Source == models.SourceStatic))

	var out models.PriceSeries
	if err := c.get(ctx, "/api/stock-data", v, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TestYahoo asks the backend to run a live provider test.
func (c *Client) TestYahoo(ctx context.Context, symbol string, period models.Period) (*dto.YahooTestResult, error) {
	v := url.Values{}
	v.Set("symbol", symbol)
	v.Set("period", string(period))

	var out dto.YahooTestResult
	if err := c.get(ctx, "/api/test-yahoo", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckYahooResponse asks the backend to check the upstream quote page.
func (c *Client) CheckYahooResponse(ctx context.Context, symbol string) (*dto.YahooAccessReport, error) {
	v := url.Values{}
	v.Set("symbol", symbol)

	var out dto.YahooAccessReport
	if err := c.get(ctx, "/api/check-yahoo-response", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode}
		var e dto.ErrorResponse
		if json.Unmarshal(body, &e) == nil {
			se.Message = e.ErrorDetails
			if se.Message == "" {
				se.Message = e.Message
			}
		}
		return se
	}

	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
