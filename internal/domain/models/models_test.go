package models

import (
	"testing"
	"time"
)

func TestParseDataSource(t *testing.T) {
	cases := map[string]DataSource{
		"live":    SourceLive,
		"static":  SourceStatic,
		" DEMO ":  SourceDemo,
		"":        SourceLive,
		"unknown": SourceLive,
	}
	for in, want := range cases {
		if got := ParseDataSource(in); got != want {
			t.Fatalf("ParseDataSource(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{in: "", want: Period1mo},
		{in: "3MO", want: Period3mo},
		{in: "ytd", want: PeriodYTD},
		{in: "2w", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParsePeriod(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParsePeriod(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParsePeriod(%q)=%q,%v want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestNewQueryParams_Defaults(t *testing.T) {
	q := NewQueryParams("  ", "", "")
	if q.Symbol != "AAPL" || q.Period != Period1mo || q.Source != SourceLive {
		t.Fatalf("unexpected defaults: %+v", q)
	}
	q = NewQueryParams(" msft", "6mo", "static")
	if q.Symbol != "MSFT" || q.Period != Period6mo || q.Source != SourceStatic {
		t.Fatalf("unexpected params: %+v", q)
	}
}

func TestPriceSeries_LatestAndFlags(t *testing.T) {
	var empty PriceSeries
	if _, ok := empty.Latest(); ok {
		t.Fatalf("empty series has no latest bar")
	}

	s := PriceSeries{{Date: "2024-03-24", Close: 1}, {Date: "2024-03-25", Close: 2}}
	last, ok := s.Latest()
	if !ok || last.Close != 2 {
		t.Fatalf("latest = %+v", last)
	}

	flagged := s.WithDemoFlag(true)
	if s[0].IsDemo != nil {
		t.Fatalf("WithDemoFlag must not mutate the input")
	}
	for _, b := range flagged {
		if !b.Demo() {
			t.Fatalf("bar %s not flagged", b.Date)
		}
	}
	if (PriceBar{}).Demo() {
		t.Fatalf("absent flag is not demo")
	}
}

func TestPriceBar_Time(t *testing.T) {
	b := PriceBar{Date: "2024-04-01"}
	if !b.Time().Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time %v", b.Time())
	}
	if !(PriceBar{Date: "bad"}).Time().IsZero() {
		t.Fatalf("malformed date should give zero time")
	}
}
