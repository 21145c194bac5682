package market

import (
	"strings"
	"time"
)

type Period struct {
	Name string
	// Weekly bars instead of daily
	Weekly bool
	// bars produced by the synthetic generator
	SyntheticBars int

	years, months int
}

var (
	Period1M = Period{Name: "1mo", SyntheticBars: 30, months: 1}
	Period3M = Period{Name: "3mo", SyntheticBars: 90, months: 3}
	Period6M = Period{Name: "6mo", SyntheticBars: 180, months: 6}
	Period1Y = Period{Name: "1y", SyntheticBars: 365, years: 1}
	Period5Y = Period{Name: "5y", Weekly: true, SyntheticBars: 260, years: 5}

	DefaultPeriod = Period6M

	periods = map[string]Period{
		Period1M.Name: Period1M,
		Period3M.Name: Period3M,
		Period6M.Name: Period6M,
		Period1Y.Name: Period1Y,
		Period5Y.Name: Period5Y,
	}
)

// ParsePeriod resolves a period name, unknown or empty names fall back to def
func ParsePeriod(name string, def Period) Period {
	if p, ok := periods[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p
	}
	return def
}

// Start is the first instant covered by the period when it ends at end
func (p Period) Start(end time.Time) time.Time {
	return end.AddDate(-p.years, -p.months, 0)
}

// Step is the spacing between consecutive synthetic bars
func (p Period) Step() time.Duration {
	if p.Weekly {
		return 7 * 24 * time.Hour
	}
	return 24 * time.Hour
}
