package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/stockdash/internal/domain/dto"
	"github.com/guttosm/stockdash/internal/domain/models"
)

type fakeBackend struct {
	stock    func(ctx context.Context, q models.QueryParams) (models.PriceSeries, error)
	test     *dto.YahooTestResult
	testErr  error
	check    *dto.YahooAccessReport
	checkErr error
}

func (f *fakeBackend) StockData(ctx context.Context, q models.QueryParams) (models.PriceSeries, error) {
	return f.stock(ctx, q)
}

func (f *fakeBackend) TestYahoo(context.Context, string, models.Period) (*dto.YahooTestResult, error) {
	return f.test, f.testErr
}

func (f *fakeBackend) CheckYahooResponse(context.Context, string) (*dto.YahooAccessReport, error) {
	return f.check, f.checkErr
}

func fixedClock() time.Time { return time.Date(2024, 4, 19, 14, 30, 5, 0, time.UTC) }

func newController(b Backend) *Controller {
	return NewController(b, NewSummaryGenerator(7, fixedClock))
}

func params(symbol string, src models.DataSource) models.QueryParams {
	return models.QueryParams{Symbol: symbol, Period: models.Period1mo, Source: src}
}

func bar(date string, o, c, h, l float64, v int64, demo *bool) models.PriceBar {
	return models.PriceBar{Date: date, Open: o, Close: c, High: h, Low: l, Volume: v, IsDemo: demo}
}

var exampleSeries = models.PriceSeries{
	bar("2024-04-18", 148.00, 150.10, 151.00, 147.50, 999, models.Flag(false)),
	bar("2024-04-19", 150.5, 151.25, 152, 149.75, 1234567, models.Flag(false)),
}

func TestFormatMetrics_UsesLatestBar(t *testing.T) {
	m, err := FormatMetrics(exampleSeries)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := Metrics{Open: "$150.50", Close: "$151.25", High: "$152.00", Low: "$149.75", Volume: "1,234,567"}
	if m != want {
		t.Fatalf("got %+v, want %+v", m, want)
	}
}

func TestFormatMetrics_Errors(t *testing.T) {
	cases := []struct {
		name string
		bars models.PriceSeries
	}{
		{name: "empty", bars: nil},
		{name: "nan price", bars: models.PriceSeries{bar("2024-04-19", math.NaN(), 1, 1, 1, 1, nil)}},
		{name: "inf price", bars: models.PriceSeries{bar("2024-04-19", 1, 1, math.Inf(1), 1, 1, nil)}},
		{name: "negative volume", bars: models.PriceSeries{bar("2024-04-19", 1, 1, 1, 1, -5, nil)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FormatMetrics(tc.bars); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

// Prices follow toFixed(2): the exact binary value decides ties.
func TestFormatPrice_MatchesToFixed(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "$0.00"},
		{in: 1.005, want: "$1.00"},
		{in: 2.675, want: "$2.67"},
		{in: 1.045, want: "$1.04"},
		{in: 0.125, want: "$0.13"},
		{in: 151.25, want: "$151.25"},
		{in: 152, want: "$152.00"},
		{in: 149.999, want: "$150.00"},
	}
	for _, tc := range cases {
		got, err := formatPrice(tc.in)
		if err != nil {
			t.Fatalf("formatPrice(%v): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("formatPrice(%v)=%q want %q", tc.in, got, tc.want)
		}
	}

	m, err := FormatMetrics(models.PriceSeries{bar("2024-04-19", 1.005, 2.675, 2.675, 1.005, 1, nil)})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m.Open != "$1.00" || m.Close != "$2.67" {
		t.Fatalf("metrics=%+v", m)
	}
}

func TestCandlestickFigure_Palettes(t *testing.T) {
	cases := []struct {
		name      string
		demo      *bool
		wantInc   string
		wantDec   string
		wantTrend string
		wantTitle string
	}{
		{name: "demo", demo: models.Flag(true), wantInc: ColorIncreasingDemo, wantDec: ColorDecreasingDemo, wantTrend: ColorTrendDemo, wantTitle: "AAPL Stock Price (DEMO DATA)"},
		{name: "real", demo: models.Flag(false), wantInc: ColorIncreasingReal, wantDec: ColorDecreasingReal, wantTrend: ColorTrendReal, wantTitle: "AAPL Stock Price (REAL DATA)"},
		{name: "absent flag", demo: nil, wantInc: ColorIncreasingReal, wantDec: ColorDecreasingReal, wantTrend: ColorTrendReal, wantTitle: "AAPL Stock Price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bars := models.PriceSeries{
				bar("2024-04-18", 10, 11, 12, 9, 100, tc.demo),
				bar("2024-04-19", 11, 10, 12, 9, 100, nil),
			}

			fig, err := CandlestickFigure(bars, "AAPL")
			if err != nil {
				t.Fatalf("candlestick: %v", err)
			}
			if len(fig.Data) != 1 {
				t.Fatalf("traces=%d", len(fig.Data))
			}
			tr := fig.Data[0]
			if tr.Type != "candlestick" || tr.Increasing.Line.Color != tc.wantInc || tr.Decreasing.Line.Color != tc.wantDec {
				t.Fatalf("trace=%+v", tr)
			}
			if !reflect.DeepEqual(tr.X, []string{"2024-04-18", "2024-04-19"}) ||
				!reflect.DeepEqual(tr.Open, []float64{10, 11}) ||
				!reflect.DeepEqual(tr.Close, []float64{11, 10}) {
				t.Fatalf("trace data=%+v", tr)
			}
			if fig.Layout.Title != tc.wantTitle {
				t.Fatalf("title=%q want %q", fig.Layout.Title, tc.wantTitle)
			}
			if fig.Layout.XAxis.RangeSlider == nil || fig.Layout.XAxis.RangeSlider.Visible {
				t.Fatalf("range slider must be hidden")
			}

			trend, err := TrendFigure(bars)
			if err != nil {
				t.Fatalf("trend: %v", err)
			}
			tt := trend.Data[0]
			if tt.Type != "scatter" || tt.Mode != "lines" || tt.Line.Color != tc.wantTrend || tt.Line.Width != 2 {
				t.Fatalf("trend trace=%+v", tt)
			}
			if !reflect.DeepEqual(tt.Y, []float64{11, 10}) {
				t.Fatalf("trend y=%v", tt.Y)
			}
			if !strings.HasPrefix(trend.Layout.Title, "Closing Price Trend") {
				t.Fatalf("trend title=%q", trend.Layout.Title)
			}
		})
	}
}

func TestFigure_JSONShape(t *testing.T) {
	fig, err := CandlestickFigure(exampleSeries, "AAPL")
	if err != nil {
		t.Fatalf("candlestick: %v", err)
	}
	raw, err := json.Marshal(fig)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	trace := generic["data"].([]any)[0].(map[string]any)
	if c := trace["increasing"].(map[string]any)["line"].(map[string]any)["color"]; c != "#26a69a" {
		t.Fatalf("increasing color=%v", c)
	}
	if _, ok := trace["y"]; ok {
		t.Fatalf("candlestick trace must not carry y")
	}
	layout := generic["layout"].(map[string]any)
	if v := layout["xaxis"].(map[string]any)["rangeslider"].(map[string]any)["visible"]; v != false {
		t.Fatalf("rangeslider visible=%v", v)
	}
}

func TestController_Load_Success(t *testing.T) {
	b := &fakeBackend{stock: func(context.Context, models.QueryParams) (models.PriceSeries, error) {
		return exampleSeries, nil
	}}
	v := newController(b).Load(context.Background(), NewViewState(), params("AAPL", models.SourceLive))

	if v.StockChart.Figure == nil || v.TrendChart.Figure == nil || v.StockChart.Message != "" {
		t.Fatalf("charts not rendered: %+v / %+v", v.StockChart, v.TrendChart)
	}
	if v.Metrics.Close != "$151.25" || v.Metrics.Volume != "1,234,567" {
		t.Fatalf("metrics=%+v", v.Metrics)
	}
	if v.Notice != nil {
		t.Fatalf("unexpected notice %+v", v.Notice)
	}
	if v.Summary.Symbol != "AAPL" || v.Summary.LastUpdated != "14:30:05" {
		t.Fatalf("summary=%+v", v.Summary)
	}
}

func TestController_Load_DemoNotice(t *testing.T) {
	demo := models.PriceSeries{bar("2024-04-19", 1, 2, 2, 1, 10, models.Flag(true))}
	b := &fakeBackend{stock: func(context.Context, models.QueryParams) (models.PriceSeries, error) { return demo, nil }}

	v := newController(b).Load(context.Background(), NewViewState(), params("AAPL", models.SourceDemo))
	if v.Notice == nil || v.Notice.Level != LevelWarning || !reflect.DeepEqual(v.Notice.Lines, []string{MsgDemoNotice}) {
		t.Fatalf("notice=%+v", v.Notice)
	}

	// switching back to real data clears it
	b.stock = func(context.Context, models.QueryParams) (models.PriceSeries, error) { return exampleSeries, nil }
	v = newController(b).Load(context.Background(), v, params("AAPL", models.SourceLive))
	if v.Notice != nil {
		t.Fatalf("notice should be cleared, got %+v", v.Notice)
	}
}

func TestController_Load_Failures(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		bars        models.PriceSeries
		wantStock   string
		wantTrend   string
		wantMetrics Metrics
	}{
		{name: "network", err: ErrNetwork, wantStock: MsgNetworkError, wantTrend: MsgLoadingTrend, wantMetrics: LoadingMetrics()},
		{name: "status 500", err: &StatusError{Code: 500, Message: "boom"}, wantStock: "Error: API returned status 500", wantTrend: MsgLoadingTrend, wantMetrics: LoadingMetrics()},
		{name: "wrapped status", err: errors.Join(errors.New("ctx"), &StatusError{Code: 404}), wantStock: "Error: API returned status 404", wantTrend: MsgLoadingTrend, wantMetrics: LoadingMetrics()},
		{name: "malformed", err: ErrMalformed, wantStock: MsgParseError, wantTrend: MsgLoadingTrend, wantMetrics: LoadingMetrics()},
		{name: "empty", bars: models.PriceSeries{}, wantStock: MsgNoStockData, wantTrend: MsgNoTrendData, wantMetrics: EmptyMetrics()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &fakeBackend{stock: func(context.Context, models.QueryParams) (models.PriceSeries, error) { return tc.bars, tc.err }}
			v := newController(b).Load(context.Background(), NewViewState(), params("AAPL", models.SourceLive))

			if v.StockChart.Message != tc.wantStock || v.StockChart.Figure != nil {
				t.Fatalf("stock region=%+v want %q", v.StockChart, tc.wantStock)
			}
			if v.TrendChart.Message != tc.wantTrend {
				t.Fatalf("trend=%q want %q", v.TrendChart.Message, tc.wantTrend)
			}
			if v.Metrics != tc.wantMetrics {
				t.Fatalf("metrics=%+v want %+v", v.Metrics, tc.wantMetrics)
			}
			// market summary is produced regardless of fetch outcome
			if v.Summary.Status != "Open" {
				t.Fatalf("summary=%+v", v.Summary)
			}
		})
	}
}

func TestRender_PartialFailures(t *testing.T) {
	base := NewViewState()
	base.Params = params("AAPL", models.SourceLive)

	t.Run("bad open breaks candlestick only", func(t *testing.T) {
		bars := models.PriceSeries{
			bar("2024-04-18", math.NaN(), 10, 11, 9, 100, nil),
			bar("2024-04-19", 10, 10, 11, 9, 100, nil),
		}
		v := Render(base, bars)
		if !strings.HasPrefix(v.StockChart.Message, "Error creating chart: ") {
			t.Fatalf("stock=%q", v.StockChart.Message)
		}
		if v.TrendChart.Figure == nil || v.Metrics.Open != "$10.00" {
			t.Fatalf("trend=%+v metrics=%+v", v.TrendChart, v.Metrics)
		}
	})

	t.Run("bad latest close breaks everything", func(t *testing.T) {
		bars := models.PriceSeries{bar("2024-04-19", 10, math.Inf(-1), 11, 9, 100, nil)}
		v := Render(base, bars)
		if !strings.HasPrefix(v.StockChart.Message, "Error creating chart: ") ||
			!strings.HasPrefix(v.TrendChart.Message, "Error creating trend chart: ") {
			t.Fatalf("stock=%q trend=%q", v.StockChart.Message, v.TrendChart.Message)
		}
		if v.Metrics != EmptyMetrics() {
			t.Fatalf("metrics=%+v", v.Metrics)
		}
	})

	t.Run("negative volume resets metrics only", func(t *testing.T) {
		bars := models.PriceSeries{bar("2024-04-19", 10, 10, 11, 9, -1, nil)}
		v := Render(base, bars)
		if v.StockChart.Figure == nil || v.TrendChart.Figure == nil {
			t.Fatalf("charts should render")
		}
		if v.Metrics != EmptyMetrics() {
			t.Fatalf("metrics=%+v", v.Metrics)
		}
	})
}

func TestSummaryGenerator(t *testing.T) {
	a := NewSummaryGenerator(99, fixedClock)
	b := NewSummaryGenerator(99, fixedClock)

	for i := 0; i < 500; i++ {
		s := a.Generate("MSFT")
		if other := b.Generate("MSFT"); s != other {
			t.Fatalf("same seed diverged: %+v vs %+v", s, other)
		}
		if s.ChangePercent < -2 || s.ChangePercent > 2 {
			t.Fatalf("change out of range: %v", s.ChangePercent)
		}
		if math.Abs(s.ChangePercent-math.Round(s.ChangePercent*100)/100) > 1e-12 {
			t.Fatalf("change not rounded to 2dp: %v", s.ChangePercent)
		}
		wantClass, wantIcon := "text-success", "↑ "
		if s.ChangePercent < 0 {
			wantClass, wantIcon = "text-danger", "↓ "
		}
		if s.Class != wantClass || !strings.HasPrefix(s.Display, wantIcon) {
			t.Fatalf("summary=%+v", s)
		}
		if !strings.HasSuffix(s.Display, "%") || strings.Contains(s.Display, "-") || s.Status != "Open" {
			t.Fatalf("summary=%+v", s)
		}
	}
}

func TestController_TestYahoo(t *testing.T) {
	cases := []struct {
		name      string
		res       *dto.YahooTestResult
		err       error
		wantLevel string
		wantLines []string
	}{
		{
			name:      "success",
			res:       &dto.YahooTestResult{Success: true, DataShape: []int{21, 5}, ExecutionTime: 0.42},
			wantLevel: LevelSuccess,
			wantLines: []string{"Yahoo API returned data for AAPL.", "Data shape: 21,5.", "Execution time: 0.42 seconds."},
		},
		{
			name:      "failure with reason",
			res:       &dto.YahooTestResult{Error: strPtr("API returned no data")},
			wantLevel: LevelDanger,
			wantLines: []string{"Failed to get data from Yahoo API.", "Error: API returned no data"},
		},
		{
			name:      "failure without reason",
			res:       &dto.YahooTestResult{},
			wantLevel: LevelDanger,
			wantLines: []string{"Failed to get data from Yahoo API.", "Error: Unknown error"},
		},
		{
			name:      "transport",
			err:       ErrNetwork,
			wantLevel: LevelDanger,
			wantLines: []string{"network error"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newController(&fakeBackend{test: tc.res, testErr: tc.err})
			v := c.TestYahoo(context.Background(), NewViewState())
			if v.Status == nil {
				t.Fatalf("expected status banner")
			}
			if v.Status.Level != tc.wantLevel || !reflect.DeepEqual(v.Status.Lines, tc.wantLines) {
				t.Fatalf("status=%+v", v.Status)
			}
			if tc.res != nil && !strings.Contains(v.Status.Detail, `"success"`) {
				t.Fatalf("detail=%q", v.Status.Detail)
			}
		})
	}
}

func TestController_CheckDirectAccess(t *testing.T) {
	cases := []struct {
		name      string
		rep       *dto.YahooAccessReport
		err       error
		wantLevel string
		wantLines []string
	}{
		{
			name:      "accessible",
			rep:       &dto.YahooAccessReport{StatusCode: 200, ContentType: "text/html", IsAccessible: true},
			wantLevel: LevelSuccess,
			wantLines: []string{"Yahoo Finance is accessible.", "Status code: 200", "Content type: text/html"},
		},
		{
			name:      "blocked",
			rep:       &dto.YahooAccessReport{StatusCode: 403},
			wantLevel: LevelDanger,
			wantLines: []string{"Yahoo Finance is not accessible.", "Status code: 403"},
		},
		{
			name:      "backend error",
			err:       &StatusError{Code: 500, Message: "dial tcp: timeout"},
			wantLevel: LevelDanger,
			wantLines: []string{"API returned status 500: dial tcp: timeout"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := newController(&fakeBackend{check: tc.rep, checkErr: tc.err}).CheckDirectAccess(context.Background(), NewViewState())
			if v.Status == nil || v.Status.Level != tc.wantLevel || !reflect.DeepEqual(v.Status.Lines, tc.wantLines) {
				t.Fatalf("status=%+v", v.Status)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

func TestClient_StockData(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"Date":"2024-04-19","Open":1,"High":2,"Low":0.5,"Close":1.5,"Volume":10,"IsDemo":true},
			{"Date":"2024-04-20","Open":1,"High":2,"Low":0.5,"Close":1.5,"Volume":10}]`))
	}))
	defer srv.Close()

	bars, err := NewClient(srv.URL+"/", time.Second).StockData(context.Background(), params("AAPL", models.SourceDemo))
	if err != nil {
		t.Fatalf("StockData: %v", err)
	}
	if gotPath != "/api/stock-data" || gotQuery != "demo=true&period=1mo&static=false&symbol=AAPL" {
		t.Fatalf("request %s?%s", gotPath, gotQuery)
	}
	if len(bars) != 2 || !bars[0].Demo() || bars[1].IsDemo != nil {
		t.Fatalf("bars=%+v", bars)
	}
}

func TestClient_Errors(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		body      string
		wantCode  int
		wantMsg   string
		malformed bool
	}{
		{name: "500 with error body", status: 500, body: `{"message":"failed","error":"upstream down"}`, wantCode: 500, wantMsg: "upstream down"},
		{name: "429 plain text", status: 429, body: `slow down`, wantCode: 429},
		{name: "malformed", status: 200, body: `{"not":"an array"}`, malformed: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).StockData(context.Background(), params("AAPL", models.SourceLive))
			if tc.malformed {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("err=%v, want ErrMalformed", err)
				}
				return
			}
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("err=%v, want *StatusError", err)
			}
			if se.Code != tc.wantCode || se.Message != tc.wantMsg {
				t.Fatalf("status error=%+v", se)
			}
		})
	}
}

// A 500 from a real server lands as the status message, not the network one.
func TestController_HTTP500_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := newController(NewClient(srv.URL, time.Second)).Load(context.Background(), NewViewState(), params("AAPL", models.SourceLive))
	if v.StockChart.Message != "Error: API returned status 500" {
		t.Fatalf("stock=%q", v.StockChart.Message)
	}
	if v.Metrics != LoadingMetrics() {
		t.Fatalf("metrics=%+v", v.Metrics)
	}
}

func TestController_NetworkFailure_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	v := newController(NewClient(url, time.Second)).Load(context.Background(), NewViewState(), params("AAPL", models.SourceLive))
	if v.StockChart.Message != MsgNetworkError {
		t.Fatalf("stock=%q", v.StockChart.Message)
	}
}

func TestClient_Diagnostics(t *testing.T) {
	var testQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/test-yahoo":
			testQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`{"symbol":"MSFT","success":true,"data_shape":[63,5],"execution_time":1.5}`))
		case "/api/check-yahoo-response":
			_, _ = w.Write([]byte(`{"url":"https://finance.yahoo.com/quote/MSFT","status_code":200,"is_accessible":true,"content_type":"text/html"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	res, err := c.TestYahoo(context.Background(), "MSFT", models.Period3mo)
	if err != nil {
		t.Fatalf("TestYahoo: %v", err)
	}
	if testQuery != "period=3mo&symbol=MSFT" || !res.Success || !reflect.DeepEqual(res.DataShape, []int{63, 5}) {
		t.Fatalf("query=%q res=%+v", testQuery, res)
	}

	rep, err := c.CheckYahooResponse(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("CheckYahooResponse: %v", err)
	}
	if !rep.IsAccessible || rep.StatusCode != 200 {
		t.Fatalf("report=%+v", rep)
	}
}

func TestSession_LatestTriggerWins(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var slowCtxErr error
	var mu sync.Mutex

	b := &fakeBackend{stock: func(ctx context.Context, q models.QueryParams) (models.PriceSeries, error) {
		if q.Symbol == "SLOW" {
			close(started)
			<-release
			mu.Lock()
			slowCtxErr = ctx.Err()
			mu.Unlock()
			// answer anyway, as a late response would
			return models.PriceSeries{bar("2024-04-19", 1, 1, 1, 1, 1, nil)}, nil
		}
		return exampleSeries, nil
	}}
	s := NewSession(newController(b), time.Minute)

	type out struct {
		view    ViewState
		applied bool
	}
	first := make(chan out, 1)
	go func() {
		v, ok := s.Refresh(context.Background(), params("SLOW", models.SourceLive))
		first <- out{v, ok}
	}()

	<-started
	if msg := s.View().StockChart.Message; msg != MsgLoadingStock {
		t.Fatalf("expected loading placeholder while in flight, got %q", msg)
	}

	v2, applied := s.Refresh(context.Background(), params("FAST", models.SourceLive))
	if !applied || v2.Params.Symbol != "FAST" {
		t.Fatalf("second refresh applied=%v symbol=%q", applied, v2.Params.Symbol)
	}

	close(release)
	if r1 := <-first; r1.applied {
		t.Fatalf("stale load must be discarded")
	}

	final := s.View()
	if final.Params.Symbol != "FAST" || final.StockChart.Figure == nil {
		t.Fatalf("final=%+v", final)
	}
	if final.StockChart.Figure.Layout.Title != "FAST Stock Price (REAL DATA)" || final.Metrics.Close != "$151.25" {
		t.Fatalf("final title=%q metrics=%+v", final.StockChart.Figure.Layout.Title, final.Metrics)
	}

	mu.Lock()
	defer mu.Unlock()
	if !errors.Is(slowCtxErr, context.Canceled) {
		t.Fatalf("superseded load should be cancelled, ctx err=%v", slowCtxErr)
	}
}

func TestSession_TimeoutEndsLoading(t *testing.T) {
	b := &fakeBackend{stock: func(ctx context.Context, _ models.QueryParams) (models.PriceSeries, error) {
		<-ctx.Done()
		return nil, errors.Join(ErrNetwork, ctx.Err())
	}}
	s := NewSession(newController(b), 20*time.Millisecond)

	v, applied := s.Refresh(context.Background(), params("AAPL", models.SourceLive))
	if !applied || v.StockChart.Message != MsgNetworkError {
		t.Fatalf("applied=%v stock=%q", applied, v.StockChart.Message)
	}
}

func TestSession_DiagnosticsKeepCharts(t *testing.T) {
	b := &fakeBackend{
		stock: func(context.Context, models.QueryParams) (models.PriceSeries, error) { return exampleSeries, nil },
		check: &dto.YahooAccessReport{StatusCode: 200, IsAccessible: true, ContentType: "text/html"},
		test:  &dto.YahooTestResult{Success: true, DataShape: []int{2, 5}},
	}
	s := NewSession(newController(b), 0)
	defer s.Close()

	_, _ = s.Refresh(context.Background(), params("AAPL", models.SourceLive))
	v := s.CheckDirectAccess(context.Background())
	if v.Status == nil || v.Status.Level != LevelSuccess || v.StockChart.Figure == nil {
		t.Fatalf("view=%+v", v)
	}

	v = s.TestYahoo(context.Background())
	if v.Status.Lines[1] != "Data shape: 2,5." {
		t.Fatalf("lines=%v", v.Status.Lines)
	}

	// a later refresh keeps the banner
	v, _ = s.Refresh(context.Background(), params("MSFT", models.SourceLive))
	if v.Status == nil {
		t.Fatalf("status banner lost on refresh")
	}
}
