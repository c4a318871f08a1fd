package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/guttosm/stockdash/internal/dashboard"
	"github.com/guttosm/stockdash/internal/domain/models"
	"github.com/guttosm/stockdash/internal/middleware"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

const debugOnlyMessage = "This page is only available in debug mode"

var periodChoices = []models.Period{
	models.Period1mo, models.Period3mo, models.Period6mo, models.Period1y,
	models.Period2y, models.Period5y, models.PeriodMax,
}

type sourceChoice struct {
	Value models.DataSource
	Label string
}

var sourceChoices = []sourceChoice{
	{Value: models.SourceLive, Label: "Use live data (if available)"},
	{Value: models.SourceStatic, Label: "Use static data (reliable, from cache)"},
	{Value: models.SourceDemo, Label: "Use demo data (random generation)"},
}

// sampleSeries feeds the chart smoke-test page.
var sampleSeries = models.PriceSeries{
	{Date: "2024-04-15", Open: 175.36, High: 176.63, Low: 172.50, Close: 172.69, Volume: 73531800},
	{Date: "2024-04-16", Open: 171.75, High: 173.76, Low: 168.27, Close: 169.38, Volume: 73711200},
	{Date: "2024-04-17", Open: 169.61, High: 170.65, Low: 168.00, Close: 168.00, Volume: 50901200},
	{Date: "2024-04-18", Open: 168.03, High: 168.64, Low: 166.55, Close: 167.04, Volume: 43122900},
	{Date: "2024-04-19", Open: 166.21, High: 166.40, Low: 164.08, Close: 165.00, Volume: 67772100},
}

// DashboardHandler serves the server-rendered dashboard page.
type DashboardHandler struct {
	ctrl  *dashboard.Controller
	debug bool
}

func NewDashboardHandler(ctrl *dashboard.Controller, debug bool) *DashboardHandler {
	return &DashboardHandler{ctrl: ctrl, debug: debug}
}

type dashboardPage struct {
	View    dashboard.ViewState
	Periods []models.Period
	Sources []sourceChoice
}

// loadView runs the controller for the query of c, plus an optional diagnostic.
func (h *DashboardHandler) loadView(c *gin.Context) (dashboard.ViewState, bool) {
	q := models.NewQueryParams(c.Query("symbol"), c.Query("period"), c.Query("source"))
	if _, err := models.ParsePeriod(string(q.Period)); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid period", err)
		return dashboard.ViewState{}, false
	}

	ctx := c.Request.Context()
	view := h.ctrl.Load(ctx, dashboard.NewViewState(), q)
	switch c.Query("diag") {
	case "yahoo":
		view = h.ctrl.TestYahoo(ctx, view)
	case "direct":
		view = h.ctrl.CheckDirectAccess(ctx, view)
	}
	return view, true
}

// Page renders GET / and GET /dashboard.
func (h *DashboardHandler) Page(c *gin.Context) {
	view, ok := h.loadView(c)
	if !ok {
		return
	}
	c.Render(http.StatusOK, render.HTML{
		Template: pages,
		Name:     "dashboard.html",
		Data:     dashboardPage{View: view, Periods: periodChoices, Sources: sourceChoices},
	})
}

// View godoc
// @Summary      Dashboard view state
// @Description  Runs the dashboard controller and returns the resulting view state as JSON.
// @Tags         dashboard
// @Produce      json
// @Param        symbol  query     string  false  "Ticker symbol" default(AAPL)
// @Param        period  query     string  false  "Range" default(1mo)
// @Param        source  query     string  false  "live, static or demo" default(live)
// @Param        diag    query     string  false  "yahoo or direct"
// @Success      200     {object}  dashboard.ViewState
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/dashboard-view [get]
func (h *DashboardHandler) View(c *gin.Context) {
	view, ok := h.loadView(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

type testPage struct {
	Title   string
	Figures []*dashboard.Figure
}

// PlotlyTest renders a fixed figure; debug mode only.
func (h *DashboardHandler) PlotlyTest(c *gin.Context) {
	if !h.debug {
		c.String(http.StatusNotFound, debugOnlyMessage)
		return
	}
	c.Render(http.StatusOK, render.HTML{
		Template: pages,
		Name:     "plotly_test.html",
		Data:     testPage{Title: "Standalone Plotly Test", Figures: []*dashboard.Figure{dashboard.SampleFigure()}},
	})
}

// SimpleTest renders the dashboard charts from a built-in series; debug mode only.
func (h *DashboardHandler) SimpleTest(c *gin.Context) {
	if !h.debug {
		c.String(http.StatusNotFound, debugOnlyMessage)
		return
	}
	view := dashboard.NewViewState()
	view = dashboard.Render(view, sampleSeries)

	var figs []*dashboard.Figure
	for _, r := range []dashboard.Region{view.StockChart, view.TrendChart} {
		if r.Figure != nil {
			figs = append(figs, r.Figure)
		}
	}
	c.Render(http.StatusOK, render.HTML{
		Template: pages,
		Name:     "plotly_test.html",
		Data:     testPage{Title: "Simple Chart Test", Figures: figs},
	})
}
