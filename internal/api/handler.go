package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockdash/internal/domain/dto"
	"github.com/guttosm/stockdash/internal/domain/models"
	"github.com/guttosm/stockdash/internal/middleware"
	"github.com/guttosm/stockdash/internal/service"
)

// DataSourceHeader tells the caller which source actually produced a series.
const DataSourceHeader = "X-Data-Source"

// Handler provides the stock data and diagnostics endpoints.
//
// Responsibilities:
//   - Validate query parameters
//   - Delegate to the stock service
//   - Return JSON bodies with the status codes the dashboard expects
type Handler struct {
	svc service.StockService
}

// NewHandler constructs a Handler around svc.
func NewHandler(svc service.StockService) *Handler {
	return &Handler{svc: svc}
}

// sourceFromFlags applies the demo > static > live precedence of the
// stock-data query flags.
func sourceFromFlags(demo, static string) models.DataSource {
	switch {
	case strings.EqualFold(demo, "true"):
		return models.SourceDemo
	case strings.EqualFold(static, "true"):
		return models.SourceStatic
	default:
		return models.SourceLive
	}
}

// parseSymbolPeriod reads and validates the symbol and period query parameters.
func parseSymbolPeriod(c *gin.Context) (models.QueryParams, bool) {
	q := models.NewQueryParams(c.Query("symbol"), "", "")
	p, err := models.ParsePeriod(c.Query("period"))
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid period", err)
		return q, false
	}
	q.Period = p
	return q, true
}

// GetStockData godoc
// @Summary      Daily price bars
// @Description  Returns daily OHLCV bars for a symbol. demo=true returns simulated data, static=true reads the static store, otherwise the live provider is tried and static data is served if it fails.
// @Tags         stock
// @Produce      json
// @Param        symbol  query     string  false  "Ticker symbol" default(AAPL)
// @Param        period  query     string  false  "Range (1d,5d,1mo,3mo,6mo,1y,2y,5y,10y,ytd,max)" default(1mo)
// @Param        demo    query     bool    false  "Serve simulated data"
// @Param        static  query     bool    false  "Serve static data"
// @Success      200     {array}   models.PriceBar
// @Header       200     {string}  X-Data-Source  "live, static or demo"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      500     {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/stock-data [get]
func (h *Handler) GetStockData(c *gin.Context) {
	q, ok := parseSymbolPeriod(c)
	if !ok {
		return
	}
	q.Source = sourceFromFlags(c.Query("demo"), c.Query("static"))

	bars, src, err := h.svc.GetStockData(c.Request.Context(), q)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to load stock data", err)
		return
	}
	if bars == nil {
		bars = models.PriceSeries{}
	}

	c.Header(DataSourceHeader, string(src))
	c.JSON(http.StatusOK, bars)
}

// TestYahoo godoc
// @Summary      Test the live provider
// @Description  Performs one live fetch and reports timing, shape and a small sample. Provider failures are reported in the body.
// @Tags         diagnostics
// @Produce      json
// @Param        symbol  query     string  false  "Ticker symbol" default(AAPL)
// @Param        period  query     string  false  "Range" default(1mo)
// @Success      200     {object}  dto.YahooTestResult
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Router       /api/test-yahoo [get]
func (h *Handler) TestYahoo(c *gin.Context) {
	q, ok := parseSymbolPeriod(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.TestYahoo(c.Request.Context(), q.Symbol, q.Period))
}

// CheckYahooResponse godoc
// @Summary      Check direct access to Yahoo Finance
// @Description  GETs the public quote page with a browser User-Agent and reports status, headers and a content preview.
// @Tags         diagnostics
// @Produce      json
// @Param        symbol  query     string  false  "Ticker symbol" default(AAPL)
// @Success      200     {object}  dto.YahooAccessReport
// @Failure      500     {object}  dto.ErrorResponse  "Transport failure"
// @Router       /api/check-yahoo-response [get]
func (h *Handler) CheckYahooResponse(c *gin.Context) {
	q := models.NewQueryParams(c.Query("symbol"), "", "")

	rep, err := h.svc.CheckYahooResponse(c.Request.Context(), q.Symbol)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to reach Yahoo Finance", err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// Check godoc
// @Summary      API check
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.APICheckResponse
// @Router       /api/check [get]
func (h *Handler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, dto.APICheckResponse{Status: "ok", Message: "API is running"})
}
