package dashboard

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/guttosm/stockdash/internal/domain/models"
)

var volumePrinter = message.NewPrinter(language.English)

// FormatMetrics renders the metric panel from the most recent bar.
func FormatMetrics(bars models.PriceSeries) (Metrics, error) {
	last, ok := bars.Latest()
	if !ok {
		return Metrics{}, fmt.Errorf("empty series")
	}

	var (
		m   Metrics
		err error
	)
	if m.Open, err = formatPrice(last.Open); err != nil {
		return Metrics{}, fmt.Errorf("open: %w", err)
	}
	if m.Close, err = formatPrice(last.Close); err != nil {
		return Metrics{}, fmt.Errorf("close: %w", err)
	}
	if m.High, err = formatPrice(last.High); err != nil {
		return Metrics{}, fmt.Errorf("high: %w", err)
	}
	if m.Low, err = formatPrice(last.Low); err != nil {
		return Metrics{}, fmt.Errorf("low: %w", err)
	}
	if last.Volume < 0 {
		return Metrics{}, fmt.Errorf("volume: negative value %d", last.Volume)
	}
	m.Volume = volumePrinter.Sprintf("%d", last.Volume)
	return m, nil
}

// formatPrice renders v as "$" followed by two decimals. Rounding works on the
// exact binary value, so 1.005 (stored just below the tie) prints as $1.00.
func formatPrice(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("non-finite value %v", v)
	}
	return "$" + decimal.NewFromFloatWithExponent(v, -2).StringFixed(2), nil
}
