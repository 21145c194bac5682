package market

import (
	"context"
	"log/slog"
	"time"

	ex "stockanalyzer/data/extensions"
	"stockanalyzer/service/indicators"
	m "stockanalyzer/service/models"
)

type HistoryGenerator struct {
	provider Provider
	now      func() time.Time
}

func NewHistoryGenerator(provider Provider) *HistoryGenerator {
	return &HistoryGenerator{provider: provider, now: time.Now}
}

// Bars returns provider bars for the period, or the synthetic series when the
// provider is unavailable or empty. The boolean reports the synthetic case.
func (g *HistoryGenerator) Bars(ctx context.Context, symbol string, period Period) ([]m.PriceBar, bool) {
	symbol = ex.NormalizeSymbol(symbol)

	bars, err := g.provider.FetchHistory(ctx, symbol, period)
	if err == nil && len(bars) > 0 {
		return bars, false
	}

	slog.Info("history unavailable from provider, generating synthetic series", "symbol", symbol, "period", period.Name, "error", err)
	return SyntheticSeries(symbol, period, g.now()), true
}

func (g *HistoryGenerator) History(ctx context.Context, symbol string, period Period) m.History[m.HistoryBar] {
	bars, synthetic := g.Bars(ctx, symbol, period)
	return m.History[m.HistoryBar]{
		Symbol:    ex.NormalizeSymbol(symbol),
		Period:    period.Name,
		Synthetic: synthetic,
		Bars:      withMovingAverages(bars),
	}
}

// Detailed adds rsi and macd series computed over the whole close series
func (g *HistoryGenerator) Detailed(ctx context.Context, symbol string, period Period) m.History[m.DetailedHistoryBar] {
	bars, synthetic := g.Bars(ctx, symbol, period)
	withMA := withMovingAverages(bars)

	closes := closesOf(bars)
	rsi := indicators.RSISeries(closes, indicators.RSIPeriod)
	macd := indicators.MACD(closes, indicators.MACDFast, indicators.MACDSlow, indicators.MACDSignal)

	detailed := make([]m.DetailedHistoryBar, len(bars))
	for i := range bars {
		detailed[i] = m.DetailedHistoryBar{
			HistoryBar:    withMA[i],
			RSI:           ex.Round(rsi[i], 2),
			MACD:          ex.Round(macd.MACD[i], 4),
			MACDSignal:    ex.Round(macd.Signal[i], 4),
			MACDHistogram: ex.Round(macd.Histogram[i], 4),
		}
	}

	return m.History[m.DetailedHistoryBar]{
		Symbol:    ex.NormalizeSymbol(symbol),
		Period:    period.Name,
		Synthetic: synthetic,
		Bars:      detailed,
	}
}

func (g *HistoryGenerator) OHLC(ctx context.Context, symbol string, period Period) m.History[m.PriceBar] {
	bars, synthetic := g.Bars(ctx, symbol, period)
	return m.History[m.PriceBar]{
		Symbol:    ex.NormalizeSymbol(symbol),
		Period:    period.Name,
		Synthetic: synthetic,
		Bars:      bars,
	}
}

func withMovingAverages(bars []m.PriceBar) []m.HistoryBar {
	closes := closesOf(bars)
	sma20 := indicators.RollingSMA(closes, indicators.ShortWindow)
	sma50 := indicators.RollingSMA(closes, indicators.LongWindow)

	res := make([]m.HistoryBar, len(bars))
	for i, bar := range bars {
		res[i] = m.HistoryBar{
			PriceBar: bar,
			SMA20:    ex.Round(sma20[i], 2),
			SMA50:    ex.Round(sma50[i], 2),
		}
	}
	return res
}

func closesOf(bars []m.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
