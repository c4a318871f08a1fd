package marketdata

import (
	"time"

	"github.com/guttosm/stockdash/internal/domain/models"
)

// periodDays maps a period to the calendar span used for demo data.
// Anything not listed spans 30 days.
var periodDays = map[models.Period]int{
	models.Period1mo: 30,
	models.Period3mo: 90,
	models.Period6mo: 180,
	models.Period1y:  365,
}

// PeriodDays returns the number of calendar days covered by p for demo data.
func PeriodDays(p models.Period) int {
	if d, ok := periodDays[p]; ok {
		return d
	}
	return 30
}

// BusinessDays returns every Monday-Friday date in [from, to], oldest first.
// Times are truncated to the date in their own location.
func BusinessDays(from, to time.Time) []time.Time {
	var out []time.Time
	d := truncateToDate(from)
	end := truncateToDate(to)
	for !d.After(end) {
		if isBusinessDay(d) {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return out
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func isBusinessDay(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
