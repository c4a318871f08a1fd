package dashboard

import (
	"fmt"
	"math"

	"github.com/guttosm/stockdash/internal/domain/models"
)

// Palettes for real and simulated series.
const (
	ColorIncreasingDemo = "#6ba583"
	ColorIncreasingReal = "#26a69a"
	ColorDecreasingDemo = "#d75442"
	ColorDecreasingReal = "#ef5350"
	ColorTrendDemo      = "#ff7f0e"
	ColorTrendReal      = "#17BECF"
)

// Figure is a Plotly figure, serialised as-is for Plotly.newPlot.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type       string     `json:"type"`
	Mode       string     `json:"mode,omitempty"`
	X          []string   `json:"x"`
	Y          []float64  `json:"y,omitempty"`
	Open       []float64  `json:"open,omitempty"`
	High       []float64  `json:"high,omitempty"`
	Low        []float64  `json:"low,omitempty"`
	Close      []float64  `json:"close,omitempty"`
	XAxis      string     `json:"xaxis,omitempty"`
	YAxis      string     `json:"yaxis,omitempty"`
	Increasing *Direction `json:"increasing,omitempty"`
	Decreasing *Direction `json:"decreasing,omitempty"`
	Line       *Line      `json:"line,omitempty"`
	Marker     *Marker    `json:"marker,omitempty"`
}

type Direction struct {
	Line Line `json:"line"`
}

type Line struct {
	Color string `json:"color"`
	Width int    `json:"width,omitempty"`
}

type Marker struct {
	Color string `json:"color"`
	Size  int    `json:"size,omitempty"`
}

type Layout struct {
	Title string `json:"title"`
	XAxis Axis   `json:"xaxis"`
	YAxis Axis   `json:"yaxis"`
}

type Axis struct {
	Title       string       `json:"title"`
	RangeSlider *RangeSlider `json:"rangeslider,omitempty"`
}

type RangeSlider struct {
	Visible bool `json:"visible"`
}

// demoFlag reads the demo marker from the first bar. known is false when the
// backend did not send one.
func demoFlag(bars models.PriceSeries) (demo, known bool) {
	if len(bars) == 0 || bars[0].IsDemo == nil {
		return false, false
	}
	return *bars[0].IsDemo, true
}

func titleSuffix(demo, known bool) string {
	switch {
	case !known:
		return ""
	case demo:
		return " (DEMO DATA)"
	default:
		return " (REAL DATA)"
	}
}

func pick(demo bool, demoColor, realColor string) string {
	if demo {
		return demoColor
	}
	return realColor
}

// CandlestickFigure builds the OHLC chart for symbol.
func CandlestickFigure(bars models.PriceSeries, symbol string) (*Figure, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("empty series")
	}
	demo, known := demoFlag(bars)

	n := len(bars)
	t := Trace{
		Type:  "candlestick",
		X:     make([]string, n),
		Open:  make([]float64, n),
		High:  make([]float64, n),
		Low:   make([]float64, n),
		Close: make([]float64, n),
		XAxis: "x",
		YAxis: "y",
		Increasing: &Direction{Line: Line{Color: pick(demo, ColorIncreasingDemo, ColorIncreasingReal)}},
		Decreasing: &Direction{Line: Line{Color: pick(demo, ColorDecreasingDemo, ColorDecreasingReal)}},
	}
	for i, b := range bars {
		if err := finite(b.Date, b.Open, b.High, b.Low, b.Close); err != nil {
			return nil, err
		}
		t.X[i], t.Open[i], t.High[i], t.Low[i], t.Close[i] = b.Date, b.Open, b.High, b.Low, b.Close
	}

	return &Figure{
		Data: []Trace{t},
		Layout: Layout{
			Title: symbol + " Stock Price" + titleSuffix(demo, known),
			XAxis: Axis{Title: "Date", RangeSlider: &RangeSlider{Visible: false}},
			YAxis: Axis{Title: "Price"},
		},
	}, nil
}

// TrendFigure builds the closing-price line chart.
func TrendFigure(bars models.PriceSeries) (*Figure, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("empty series")
	}
	demo, known := demoFlag(bars)

	t := Trace{
		Type: "scatter",
		Mode: "lines",
		X:    make([]string, len(bars)),
		Y:    make([]float64, len(bars)),
		Line: &Line{Color: pick(demo, ColorTrendDemo, ColorTrendReal), Width: 2},
	}
	for i, b := range bars {
		if err := finite(b.Date, b.Close); err != nil {
			return nil, err
		}
		t.X[i], t.Y[i] = b.Date, b.Close
	}

	return &Figure{
		Data: []Trace{t},
		Layout: Layout{
			Title: "Closing Price Trend" + titleSuffix(demo, known),
			XAxis: Axis{Title: "Date"},
			YAxis: Axis{Title: "Price"},
		},
	}, nil
}

// SampleFigure is the fixed figure of the chart smoke-test page.
func SampleFigure() *Figure {
	return &Figure{
		Data: []Trace{{
			Type:   "scatter",
			Mode:   "lines+markers",
			X:      []string{"1", "2", "3", "4", "5"},
			Y:      []float64{10, 15, 13, 17, 20},
			Marker: &Marker{Color: "red", Size: 8},
			Line:   &Line{Color: "blue", Width: 2},
		}},
		Layout: Layout{
			Title: "Standalone Plotly Test",
			XAxis: Axis{Title: "X Axis"},
			YAxis: Axis{Title: "Y Axis"},
		},
	}
}

// finite rejects values that cannot be plotted or encoded as JSON.
func finite(date string, vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value %v on %s", v, date)
		}
	}
	return nil
}
