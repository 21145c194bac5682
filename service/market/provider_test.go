package market

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ex "stockanalyzer/data/extensions"
	dm "stockanalyzer/data/models"
	av "stockanalyzer/service/api/alpha_vantage"
)

type fakeAlphaVantage struct {
	quote      *dm.GlobalQuote
	quoteErr   error
	overview   *dm.CompanyOverview
	overErr    error
	series     *dm.TimeSeriesResult
	seriesErr  error
	lastSeries av.TimeSeries
	lastSize   av.OutputSize
}

func (f *fakeAlphaVantage) GetGlobalQuote(context.Context, string) (*dm.GlobalQuote, error) {
	return f.quote, f.quoteErr
}

func (f *fakeAlphaVantage) GetCompanyOverview(context.Context, string) (*dm.CompanyOverview, error) {
	return f.overview, f.overErr
}

func (f *fakeAlphaVantage) GetTimeSeries(_ context.Context, ts av.TimeSeries, _ string, size av.OutputSize) (*dm.TimeSeriesResult, error) {
	f.lastSeries, f.lastSize = ts, size
	return f.series, f.seriesErr
}

func newTestProvider(api alphaVantageApi) *AlphaVantageProvider {
	return &AlphaVantageProvider{client: api, now: func() time.Time { return ex.FixedTestTime }}
}

func TestAlphaVantageProvider_QuoteWithoutOverview(t *testing.T) {
	api := &fakeAlphaVantage{
		quote: &dm.GlobalQuote{
			Symbol: "IBM", Price: 231.456, PreviousClose: 230, Change: 1.456,
			ChangePercent: 0.633, High: 232.1, Low: 229.9, Volume: 3_400_000,
		},
		overErr: errors.New("boom"),
	}

	q, err := newTestProvider(api).FetchQuote(context.Background(), "IBM")
	require.NoError(t, err)

	ex.AssertAreEqual(t, "name", "IBM", q.Name)
	ex.AssertAreEqual(t, "price", 231.46, q.Price)
	ex.AssertAreEqual(t, "exchange", "N/A", q.Exchange)
	ex.AssertAreEqual(t, "volume", int64(3_400_000), q.Volume)
	assert.True(t, q.IsRealTime)
}

func TestAlphaVantageProvider_QuoteWithOverview(t *testing.T) {
	api := &fakeAlphaVantage{
		quote:    &dm.GlobalQuote{Symbol: "IBM", Price: 231},
		overview: &dm.CompanyOverview{Name: "International Business Machines", Exchange: "NYSE", MarketCapitalization: null.FloatFrom(2.1e11)},
	}

	q, err := newTestProvider(api).FetchQuote(context.Background(), "IBM")
	require.NoError(t, err)

	ex.AssertAreEqual(t, "name", "International Business Machines", q.Name)
	ex.AssertAreEqual(t, "exchange", "NYSE", q.Exchange)
	ex.AssertAreEqual(t, "sector", "N/A", q.Sector)
	ex.AssertAreEqual(t, "market cap", 2.1e11, q.MarketCap)
}

func TestAlphaVantageProvider_ErrorsAreClassified(t *testing.T) {
	noData := newTestProvider(&fakeAlphaVantage{quoteErr: fmt.Errorf("%w: invalid call", av.ErrNoData)})
	_, err := noData.FetchQuote(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrNoData)
	assert.ErrorIs(t, err, av.ErrNoData)

	throttled := newTestProvider(&fakeAlphaVantage{seriesErr: av.ErrThrottled})
	_, err = throttled.FetchHistory(context.Background(), "AAPL", Period1Y)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrNoData)
}

func TestAlphaVantageProvider_HistoryTrimmedToPeriod(t *testing.T) {
	series := &dm.TimeSeriesResult{}
	for _, day := range []string{"2025-07-30", "2025-07-31", "2025-09-15", "2025-10-31"} {
		ts, err := time.Parse(time.DateOnly, day)
		require.NoError(t, err)
		series.TimeSeries = append(series.TimeSeries, &dm.TimeSeriesData{
			Timestamp:       ts,
			TimeSeriesOHLCV: dm.TimeSeriesOHLCV{Open: 10.004, High: 11, Low: 9, Close: 10.555, Volume: 100},
		})
	}
	api := &fakeAlphaVantage{series: series}

	bars, err := newTestProvider(api).FetchHistory(context.Background(), "AAPL", Period3M)
	require.NoError(t, err)

	ex.AssertAreEqual(t, "series", av.TimeSeriesDaily, api.lastSeries)
	ex.AssertAreEqual(t, "size", av.OutputSizeCompact, api.lastSize)
	require.Len(t, bars, 2)
	ex.AssertAreEqual(t, "first kept", "2025-09-15", bars[0].Date)
	ex.AssertAreEqual(t, "open", 10.0, bars[0].Open)

	_, err = newTestProvider(api).FetchHistory(context.Background(), "AAPL", Period5Y)
	require.NoError(t, err)
	ex.AssertAreEqual(t, "weekly", av.TimeSeriesWeekly, api.lastSeries)
}

func TestAlphaVantageProvider_DailyOutputSize(t *testing.T) {
	series := &dm.TimeSeriesResult{TimeSeries: []*dm.TimeSeriesData{{
		Timestamp:       ex.FixedTestTime.Add(-24 * time.Hour),
		TimeSeriesOHLCV: dm.TimeSeriesOHLCV{Open: 1, High: 1, Low: 1, Close: 1, Volume: 1},
	}}}

	for _, period := range []Period{Period1M, Period3M, Period6M, Period1Y} {
		api := &fakeAlphaVantage{series: series}
		_, err := newTestProvider(api).FetchHistory(context.Background(), "AAPL", period)
		require.NoError(t, err)
		ex.AssertAreEqual(t, period.Name+" size", av.OutputSizeCompact, api.lastSize)
	}

	for period, want := range map[Period]av.OutputSize{
		Period3M: av.OutputSizeCompact,
		Period6M: av.OutputSizeFull,
		Period1Y: av.OutputSizeFull,
	} {
		api := &fakeAlphaVantage{series: series}
		p := newTestProvider(api)
		p.fullHistory = true
		_, err := p.FetchHistory(context.Background(), "AAPL", period)
		require.NoError(t, err)
		ex.AssertAreEqual(t, period.Name+" full history size", want, api.lastSize)
	}
}

func TestAlphaVantageProvider_EmptyPeriodIsNoData(t *testing.T) {
	old, _ := time.Parse(time.DateOnly, "2020-01-02")
	api := &fakeAlphaVantage{series: &dm.TimeSeriesResult{TimeSeries: []*dm.TimeSeriesData{{Timestamp: old}}}}

	_, err := newTestProvider(api).FetchHistory(context.Background(), "AAPL", Period1M)
	assert.ErrorIs(t, err, ErrNoData)
}
