package marketdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/guttosm/stockdash/internal/domain/dto"
)

const previewRunes = 500

// CheckQuotePage requests the public quote page for symbol and reports what
// came back. It answers "can this server reach Yahoo at all", independent of
// the chart API. Only transport failures are returned as errors; any HTTP
// status is a valid report.
func (f *YahooFetcher) CheckQuotePage(ctx context.Context, symbol string) (*dto.YahooAccessReport, error) {
	u := fmt.Sprintf("%s/%s", f.QuoteURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo quote page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo quote page read: %w", err)
	}
	text := string(body)

	headers := make(map[string]string, len(resp.Header))
	for k, v := range resp.Header {
		headers[k] = strings.Join(v, ", ")
	}

	report := &dto.YahooAccessReport{
		URL:            u,
		StatusCode:     resp.StatusCode,
		ContentType:    resp.Header.Get("Content-Type"),
		ResponseLength: utf8.RuneCountInString(text),
		IsAccessible:   resp.StatusCode == http.StatusOK,
		Headers:        headers,
	}
	if text != "" {
		report.ContentPreview = truncateRunes(text, previewRunes) + "..."
	}
	return report, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
