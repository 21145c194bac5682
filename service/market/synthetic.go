package market

import (
	"hash/fnv"
	"strconv"
	"time"

	ex "stockanalyzer/data/extensions"
	m "stockanalyzer/service/models"
)

const (
	aaplBasePrice    = 150.0
	defaultBasePrice = 100.0
	baseVolume       = 1_000_000
	volumeSpread     = 5_000_000
)

// SyntheticSeries builds a deterministic price series for symbol. Prices depend
// only on (symbol, bar index), dates end on the UTC day of end.
func SyntheticSeries(symbol string, period Period, end time.Time) []m.PriceBar {
	symbol = ex.NormalizeSymbol(symbol)
	n := period.SyntheticBars

	price := defaultBasePrice
	if symbol == "AAPL" {
		price = aaplBasePrice
	}

	last := end.UTC().Truncate(24 * time.Hour)
	bars := make([]m.PriceBar, n)

	for i := range n {
		seed := symbol + strconv.Itoa(i)
		date := last.Add(-time.Duration(n-1-i) * period.Step())

		price *= 1 + jitter(seed)
		open := price * (1 + jitter(seed+"open"))
		high := max(open, price) * (1 + spread(seed+"high"))
		low := min(open, price) * (1 - spread(seed+"low"))

		bars[i] = m.PriceBar{
			Date:      ex.FmtShort(date),
			Timestamp: date.Unix(),
			Open:      ex.Round(open, 2),
			High:      ex.Round(high, 2),
			Low:       ex.Round(low, 2),
			Close:     ex.Round(price, 2),
			Volume:    int64(baseVolume + hash(seed)%volumeSpread),
		}
	}

	return bars
}

func hash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// jitter is a relative move in [-0.05, 0.049]
func jitter(seed string) float64 {
	return (float64(hash(seed)%100) - 50) / 1000
}

// spread is a relative widening in [0, 0.099]
func spread(seed string) float64 {
	return float64(hash(seed)%100) / 1000
}
