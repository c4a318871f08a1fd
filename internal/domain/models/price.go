package models

import "time"

// DateLayout is the calendar date format used on the wire ("2024-03-24").
const DateLayout = "2006-01-02"

// PriceBar represents one daily OHLCV observation for a symbol.
//
// JSON field names are capitalised to match the stock-data API contract:
//
//	{"Date":"2024-03-24","Open":171.32,"High":173.32,"Low":170.93,"Close":172.62,"Volume":58557100,"IsDemo":false}
//
// IsDemo is optional on the wire. A nil value means the flag was absent,
// which readers treat the same as false for colouring but not for titles.
//
// swagger:model PriceBar
type PriceBar struct {
	Date   string  `json:"Date" yaml:"date" example:"2024-03-24"`
	Open   float64 `json:"Open" yaml:"open" example:"171.32"`
	High   float64 `json:"High" yaml:"high" example:"173.32"`
	Low    float64 `json:"Low" yaml:"low" example:"170.93"`
	Close  float64 `json:"Close" yaml:"close" example:"172.62"`
	Volume int64   `json:"Volume" yaml:"volume" example:"58557100"`
	IsDemo *bool   `json:"IsDemo,omitempty" yaml:"-" example:"false"`
}

// Demo reports whether the bar is flagged as synthetic data.
func (b PriceBar) Demo() bool {
	return b.IsDemo != nil && *b.IsDemo
}

// Time parses Date. The zero time is returned for malformed dates.
func (b PriceBar) Time() time.Time {
	t, err := time.Parse(DateLayout, b.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Flag returns a pointer to v, for filling IsDemo.
func Flag(v bool) *bool {
	return &v
}

// PriceSeries is an ordered (ascending by Date) sequence of bars for one
// symbol/period query. An empty series means "no data available".
type PriceSeries []PriceBar

// Latest returns the most recent bar and false when the series is empty.
func (s PriceSeries) Latest() (PriceBar, bool) {
	if len(s) == 0 {
		return PriceBar{}, false
	}
	return s[len(s)-1], true
}

// WithDemoFlag returns a copy of the series with IsDemo set on every bar.
func (s PriceSeries) WithDemoFlag(demo bool) PriceSeries {
	out := make(PriceSeries, len(s))
	for i, b := range s {
		b.IsDemo = Flag(demo)
		out[i] = b
	}
	return out
}
