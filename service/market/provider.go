package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ex "stockanalyzer/data/extensions"
	dm "stockanalyzer/data/models"
	av "stockanalyzer/service/api/alpha_vantage"
	"stockanalyzer/service/metrics"
	m "stockanalyzer/service/models"
)

var (
	// ErrNoData means the provider has nothing for the symbol
	ErrNoData = errors.New("no market data for symbol")
	// ErrUnavailable means the provider could not be reached or refused to answer
	ErrUnavailable = errors.New("market data provider unavailable")
)

// Provider is the upstream quote and history source. Implementations return
// errors wrapping ErrNoData or ErrUnavailable.
type Provider interface {
	FetchQuote(ctx context.Context, symbol string) (*m.Quote, error)
	FetchHistory(ctx context.Context, symbol string, period Period) ([]m.PriceBar, error)
}

type alphaVantageApi interface {
	GetGlobalQuote(ctx context.Context, ticker string) (*dm.GlobalQuote, error)
	GetCompanyOverview(ctx context.Context, ticker string) (*dm.CompanyOverview, error)
	GetTimeSeries(ctx context.Context, ts av.TimeSeries, ticker string, size av.OutputSize) (*dm.TimeSeriesResult, error)
}

type AlphaVantageProvider struct {
	client  alphaVantageApi
	metrics *metrics.Metrics
	now     func() time.Time
	// outputsize=full on daily series needs a premium key
	fullHistory bool
}

func NewAlphaVantageProvider(client *av.AlphaVantageClient, fullHistory bool, mt *metrics.Metrics) *AlphaVantageProvider {
	return &AlphaVantageProvider{client: client, metrics: mt, now: time.Now, fullHistory: fullHistory}
}

// FetchQuote combines the global quote with the company overview. A failing
// overview only costs the descriptive fields.
func (p *AlphaVantageProvider) FetchQuote(ctx context.Context, symbol string) (*m.Quote, error) {
	gq, err := p.client.GetGlobalQuote(ctx, symbol)
	p.observe("GLOBAL_QUOTE", err)
	if err != nil {
		return nil, classify(symbol, err)
	}

	quote := &m.Quote{
		Symbol:        symbol,
		Name:          symbol,
		Price:         ex.Round(gq.Price, 2),
		PreviousClose: ex.Round(gq.PreviousClose, 2),
		Change:        ex.Round(gq.Change, 2),
		ChangePercent: ex.Round(gq.ChangePercent, 2),
		DayHigh:       ex.Round(gq.High, 2),
		DayLow:        ex.Round(gq.Low, 2),
		Volume:        int64(gq.Volume),
		Exchange:      "N/A",
		Sector:        "N/A",
		LastUpdated:   ex.FmtLong(p.now().UTC()),
		IsRealTime:    true,
	}

	overview, err := p.client.GetCompanyOverview(ctx, symbol)
	p.observe("OVERVIEW", err)
	if err != nil {
		slog.Debug("company overview unavailable", "symbol", symbol, "error", err)
		return quote, nil
	}

	if overview.Name != "" {
		quote.Name = overview.Name
	}
	if overview.Exchange != "" {
		quote.Exchange = overview.Exchange
	}
	if overview.Sector != "" {
		quote.Sector = overview.Sector
	}
	quote.MarketCap = overview.MarketCapitalization.Float64

	return quote, nil
}

// FetchHistory returns ascending bars covering the period, daily except for 5y.
// Without full history a daily series holds the latest 100 sessions, so 6mo and
// 1y come back shorter than the period.
func (p *AlphaVantageProvider) FetchHistory(ctx context.Context, symbol string, period Period) ([]m.PriceBar, error) {
	ts, size := av.TimeSeriesDaily, av.OutputSizeCompact
	switch {
	case period.Weekly:
		ts, size = av.TimeSeriesWeekly, ""
	case p.fullHistory && (period.Name == Period6M.Name || period.Name == Period1Y.Name):
		size = av.OutputSizeFull
	}

	res, err := p.client.GetTimeSeries(ctx, ts, symbol, size)
	p.observe(ts.Function(), err)
	if err != nil {
		return nil, classify(symbol, err)
	}

	start := period.Start(p.now())
	bars := make([]m.PriceBar, 0, len(res.TimeSeries))
	for _, d := range res.TimeSeries {
		if d.Timestamp.Before(start) {
			continue
		}
		bars = append(bars, m.PriceBar{
			Date:      ex.FmtShort(d.Timestamp),
			Timestamp: d.Timestamp.Unix(),
			Open:      ex.Round(d.Open, 2),
			High:      ex.Round(d.High, 2),
			Low:       ex.Round(d.Low, 2),
			Close:     ex.Round(d.Close, 2),
			Volume:    int64(d.Volume),
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s has no bars in %s", ErrNoData, symbol, period.Name)
	}
	return bars, nil
}

func (p *AlphaVantageProvider) observe(endpoint string, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, av.ErrNoData):
		outcome = "no_data"
	case errors.Is(err, av.ErrThrottled):
		outcome = "throttled"
	case err != nil:
		outcome = "error"
	}
	p.metrics.ObserveProviderCall(endpoint, outcome)
}

func classify(symbol string, err error) error {
	if errors.Is(err, av.ErrNoData) {
		return fmt.Errorf("%w: %s: %w", ErrNoData, symbol, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, symbol, err)
}
