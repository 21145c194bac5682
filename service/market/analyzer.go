package market

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	ex "stockanalyzer/data/extensions"
	"stockanalyzer/service/indicators"
	"stockanalyzer/service/metrics"
	m "stockanalyzer/service/models"
)

// DefaultAnalysisSymbols is the symbol list of the bulk analysis endpoint
var DefaultAnalysisSymbols = []string{"AAPL", "TSLA", "GOOGL"}

// Analyzer runs the indicator engine over six months of provider history
type Analyzer struct {
	provider Provider
	workers  int
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewAnalyzer(provider Provider, workers int, mt *metrics.Metrics) *Analyzer {
	return &Analyzer{
		provider: provider,
		workers:  ex.Max(workers, 1),
		metrics:  mt,
		now:      time.Now,
	}
}

// Analyze never fails, missing history yields the fallback recommendation
func (a *Analyzer) Analyze(ctx context.Context, symbol string) m.Recommendation {
	symbol = ex.NormalizeSymbol(symbol)
	asOf := a.now().UTC()

	var rec m.Recommendation
	bars, err := a.provider.FetchHistory(ctx, symbol, Period6M)
	if err != nil || len(bars) == 0 {
		slog.Info("no history for analysis, using fallback", "symbol", symbol, "error", err)
		rec = indicators.Fallback(symbol, asOf)
	} else {
		rec = indicators.Evaluate(symbol, closesOf(bars), asOf)
	}

	a.metrics.ObserveAnalysis(rec.Recommendation)
	return rec
}

// AnalyzeBulk analyses every symbol on a bounded worker pool, results keep input order
func (a *Analyzer) AnalyzeBulk(ctx context.Context, symbols []string) []m.Recommendation {
	results := make([]m.Recommendation, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, symbol := range symbols {
		g.Go(func() error {
			results[i] = a.Analyze(gctx, symbol)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
