package market

import (
	"time"

	ex "stockanalyzer/data/extensions"
	m "stockanalyzer/service/models"
)

type staticQuote struct {
	name          string
	price         float64
	change        float64
	changePercent float64
}

// served when the provider can not answer, never cached
var staticQuotes = map[string]staticQuote{
	"AAPL":  {"Apple Inc.", 182.63, 1.25, 0.69},
	"TSLA":  {"Tesla Inc.", 234.50, -2.35, -0.99},
	"GOOGL": {"Alphabet Inc.", 138.21, 0.85, 0.62},
	"MSFT":  {"Microsoft Corp.", 378.85, 2.15, 0.57},
	"AMZN":  {"Amazon.com Inc.", 154.55, -0.45, -0.29},
	"META":  {"Meta Platforms Inc.", 351.95, 3.25, 0.93},
	"NFLX":  {"Netflix Inc.", 492.19, -1.25, -0.25},
	"NVDA":  {"NVIDIA Corp.", 481.68, 8.35, 1.76},
}

// DefaultQuoteSymbols is the symbol list of the bulk quote endpoint
var DefaultQuoteSymbols = []string{"AAPL", "TSLA", "GOOGL", "MSFT", "AMZN", "META", "NFLX", "NVDA"}

// StaticQuote returns the built in quote for well known symbols
func StaticQuote(symbol string, now time.Time) (*m.Quote, bool) {
	symbol = ex.NormalizeSymbol(symbol)
	sq, ok := staticQuotes[symbol]
	if !ok {
		return nil, false
	}

	return &m.Quote{
		Symbol:        symbol,
		Name:          sq.name,
		Price:         sq.price,
		PreviousClose: ex.Round(sq.price-sq.change, 2),
		Change:        sq.change,
		ChangePercent: sq.changePercent,
		DayHigh:       ex.Round(sq.price*1.02, 2),
		DayLow:        ex.Round(sq.price*0.98, 2),
		Volume:        5_000_000,
		MarketCap:     1_000_000_000_000,
		Exchange:      "NASDAQ",
		Sector:        "Technology",
		LastUpdated:   ex.FmtLong(now.UTC()),
		IsRealTime:    false,
	}, true
}
