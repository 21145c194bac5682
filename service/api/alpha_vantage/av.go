package alpha_vantage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	m "stockanalyzer/data/models"
	c "stockanalyzer/service/api"
)

// public
const (
	HostDefault = "www.alphavantage.co"
)

// private
const (
	defaultDataType = "json"

	// api request elements
	query      = "query"
	symbol     = "symbol"
	function   = "function"
	outputSize = "outputsize"
)

var (
	// ErrNoData is returned when the provider knows nothing about the symbol
	ErrNoData = errors.New("alpha vantage returned no data")
	// ErrThrottled is returned when the provider answers with a usage note instead of data
	ErrThrottled = errors.New("alpha vantage request throttled")
)

type AlphaVantageClient struct {
	*c.Client
}

func GetClient(apiKey string, timeout, minInterval time.Duration) *AlphaVantageClient {
	return &AlphaVantageClient{
		c.ClientFactory(HostDefault, apiKey, timeout, minInterval),
	}
}

// https://www.alphavantage.co/documentation/#latestprice
func (avc *AlphaVantageClient) GetGlobalQuote(ctx context.Context, ticker string) (*m.GlobalQuote, error) {
	raw, err := avc.request(ctx, map[string]string{
		function: "GLOBAL_QUOTE",
		symbol:   ticker,
	})
	if err != nil {
		return nil, err
	}

	return parseGlobalQuote(raw)
}

// https://www.alphavantage.co/documentation/#company-overview
func (avc *AlphaVantageClient) GetCompanyOverview(ctx context.Context, ticker string) (*m.CompanyOverview, error) {
	raw, err := avc.request(ctx, map[string]string{
		function: "OVERVIEW",
		symbol:   ticker,
	})
	if err != nil {
		return nil, err
	}

	return parseCompanyOverview(raw)
}

// GetTimeSeries returns the bars of the requested frequency, ascending by timestamp.
// https://www.alphavantage.co/documentation/#daily
func (avc *AlphaVantageClient) GetTimeSeries(ctx context.Context, ts TimeSeries, ticker string, size OutputSize) (*m.TimeSeriesResult, error) {
	raw, err := avc.request(ctx, map[string]string{
		function:   ts.Function(),
		symbol:     ticker,
		outputSize: string(size),
	})
	if err != nil {
		return nil, err
	}

	metaData, timeZone, err := parseMetaData(raw)
	if err != nil {
		return nil, err
	}

	timeSeriesData, err := parseTimeSeriesDataResult(raw, ts.TimeSeriesKey(), timeZone)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(timeSeriesData, func(a, b *m.TimeSeriesData) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	return &m.TimeSeriesResult{
		Metadata:   metaData,
		TimeSeries: timeSeriesData,
	}, nil
}

func (avc *AlphaVantageClient) request(ctx context.Context, params map[string]string) (rawResponse, error) {
	if avc == nil || avc.Client == nil {
		panic("alpha vantage client has not been set.")
	}

	response, err := avc.Client.Connection.Request(ctx, avc.buildRequestPath(params))
	if err != nil {
		return nil, fmt.Errorf("alpha vantage %s request failed: %w", params[function], err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alpha vantage %s returned status %d", params[function], response.StatusCode)
	}

	raw, err := parseRawJson(response.Body)
	if err != nil {
		return nil, err
	}

	return raw, checkForProviderMessage(raw)
}

func (avc *AlphaVantageClient) buildRequestPath(params map[string]string) *url.URL {
	// build our URL
	endpoint := &url.URL{}
	endpoint.Path = query

	// base parameters
	query := endpoint.Query()
	query.Set("apikey", avc.Client.ApiKey)
	query.Set("datatype", defaultDataType)

	// additional parameters
	for key, value := range params {
		if value != "" {
			query.Set(key, value)
		}
	}

	endpoint.RawQuery = query.Encode()

	return endpoint
}

// checkForProviderMessage maps the provider's in band error bodies to sentinel errors
func checkForProviderMessage(raw rawResponse) error {
	if msg, ok := raw.stringValue("Error Message"); ok {
		return fmt.Errorf("%w: %s", ErrNoData, msg)
	}
	for _, key := range []string{"Note", "Information"} {
		if msg, ok := raw.stringValue(key); ok {
			return fmt.Errorf("%w: %s", ErrThrottled, strings.TrimSpace(msg))
		}
	}
	return nil
}
