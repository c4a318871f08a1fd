package dashboard

import (
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"
)

const marketStatusOpen = "Open"

// SummaryGenerator fills the market summary panel with a simulated
// "today's change" between -2% and +2%.
type SummaryGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewSummaryGenerator(seed int64, now func() time.Time) *SummaryGenerator {
	if now == nil {
		now = time.Now
	}
	return &SummaryGenerator{rng: rand.New(rand.NewSource(seed)), now: now}
}

func (g *SummaryGenerator) Generate(symbol string) MarketSummary {
	g.mu.Lock()
	change := math.Round((g.rng.Float64()*4-2)*100) / 100
	g.mu.Unlock()

	s := MarketSummary{
		Symbol:        symbol,
		ChangePercent: change,
		Class:         "text-success",
		Icon:          "↑",
		Status:        marketStatusOpen,
		LastUpdated:   g.now().Format("15:04:05"),
	}
	if change < 0 {
		s.Class, s.Icon = "text-danger", "↓"
	}
	s.Display = s.Icon + " " + strconv.FormatFloat(math.Abs(change), 'f', -1, 64) + "%"
	return s
}
