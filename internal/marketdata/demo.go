package marketdata

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/guttosm/stockdash/internal/domain/models"
)

// DemoGenerator produces random-walk series flagged as demo data.
//
// Each business day moves the price by up to ±3%; the next day opens at the
// previous close. The random source is injected so tests can seed it.
type DemoGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewDemoGenerator returns a generator seeded with seed.
func NewDemoGenerator(seed int64) *DemoGenerator {
	return NewDemoGeneratorWithClock(seed, time.Now)
}

// NewDemoGeneratorWithClock is NewDemoGenerator with an explicit clock.
func NewDemoGeneratorWithClock(seed int64, now func() time.Time) *DemoGenerator {
	return &DemoGenerator{rng: rand.New(rand.NewSource(seed)), now: now}
}

// Generate builds a demo series for the given period ending today.
func (g *DemoGenerator) Generate(period models.Period) models.PriceSeries {
	g.mu.Lock()
	defer g.mu.Unlock()

	end := g.now()
	start := end.AddDate(0, 0, -PeriodDays(period))
	days := BusinessDays(start, end)

	price := g.uniform(50, 500)
	out := make(models.PriceSeries, 0, len(days))
	for _, d := range days {
		change := price * g.uniform(-0.03, 0.03)
		open := price
		closePx := price + change
		high := math.Max(open, closePx) * g.uniform(1.001, 1.02)
		low := math.Min(open, closePx) * g.uniform(0.98, 0.999)
		volume := int64(g.uniform(1_000_000, 10_000_000))

		out = append(out, models.PriceBar{
			Date:   d.Format(models.DateLayout),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: volume,
			IsDemo: models.Flag(true),
		})
		price = closePx
	}
	return out
}

func (g *DemoGenerator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rng.Float64()
}
