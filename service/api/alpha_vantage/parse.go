package alpha_vantage

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	e "stockanalyzer/data/extensions"
	m "stockanalyzer/data/models"
)

var (
	timeSeriesDateFormats = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
	}

	ohlcvResultKeys = map[string]string{
		"Open":   ". Open",
		"High":   ". High",
		"Low":    ". Low",
		"Close":  ". Close",
		"Volume": ". Volume",
	}
)

type rawResponse map[string]json.RawMessage

func (raw rawResponse) stringValue(key string) (string, bool) {
	v, ok := raw[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, s != ""
}

func parseRawJson(reader io.Reader) (raw rawResponse, err error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	// converting to a <string, raw message> map
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	return
}

func parseGlobalQuote(raw rawResponse) (*m.GlobalQuote, error) {
	var values map[string]string
	if err := json.Unmarshal(raw["Global Quote"], &values); err != nil || len(values) == 0 {
		return nil, ErrNoData
	}

	field := func(suffix string) string {
		key, err := e.FilterSingle(slices.Collect(maps.Keys(values)), func(s string) bool {
			return strings.HasSuffix(strings.ToLower(s), suffix)
		})
		if err != nil {
			return ""
		}
		return values[key]
	}

	res := m.GlobalQuote{
		Symbol:        field(". symbol"),
		Open:          parseFloat(field(". open")),
		High:          parseFloat(field(". high")),
		Low:           parseFloat(field(". low")),
		Price:         parseFloat(field(". price")),
		Volume:        parseFloat(field(". volume")),
		PreviousClose: parseFloat(field(". previous close")),
		Change:        parseFloat(field(". change")),
		ChangePercent: parseFloat(strings.TrimSuffix(field(". change percent"), "%")),
	}

	if day, err := parseDate(field(". latest trading day"), time.UTC); err == nil {
		res.LatestTradingDay = null.TimeFrom(day)
	}

	if res.Price <= 0 {
		return nil, fmt.Errorf("%w: quote for %s has no price", ErrNoData, res.Symbol)
	}

	return &res, nil
}

func parseCompanyOverview(raw rawResponse) (*m.CompanyOverview, error) {
	name, ok := raw.stringValue("Name")
	if !ok {
		return nil, ErrNoData
	}

	symbol, _ := raw.stringValue("Symbol")
	exchange, _ := raw.stringValue("Exchange")
	sector, _ := raw.stringValue("Sector")
	currency, _ := raw.stringValue("Currency")
	marketCap, _ := raw.stringValue("MarketCapitalization")

	return &m.CompanyOverview{
		Symbol:               symbol,
		Name:                 name,
		Exchange:             exchange,
		Sector:               sector,
		Currency:             null.NewString(currency, currency != ""),
		MarketCapitalization: parseNullFloat(marketCap),
	}, nil
}

func parseMetaData(raw rawResponse) (*m.TimeSeriesMetadata, *time.Location, error) {
	var metadataElements map[string]string
	if err := json.Unmarshal(raw["Meta Data"], &metadataElements); err != nil {
		return nil, nil, fmt.Errorf("%w: error unmarshaling meta data: %w", ErrNoData, err)
	}

	metaDataKeys := slices.Collect(maps.Keys(metadataElements))
	find := func(suffix string) (string, error) {
		return e.FilterSingle(metaDataKeys, func(s string) bool { return strings.HasSuffix(s, suffix) })
	}

	// parse symbol
	symbolKey, err := find(". Symbol")
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting symbol for meta data")
	}

	// parse time zone
	timeZoneKey, err := find(". Time Zone")
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting time zone for meta data")
	}

	timeZone, err := getTimeZone(metadataElements[timeZoneKey])
	if err != nil {
		return nil, nil, fmt.Errorf("error converting time zone key %s, to time.Location: %w", metadataElements[timeZoneKey], err)
	}

	// parse last refreshed
	lastRefreshedKey, err := find(". Last Refreshed")
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting last refreshed date")
	}

	lastRefreshed, err := parseDate(metadataElements[lastRefreshedKey], timeZone)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing last refreshed date")
	}

	res := m.TimeSeriesMetadata{
		Symbol:        metadataElements[symbolKey],
		LastRefreshed: lastRefreshed,
		TimeZone:      metadataElements[timeZoneKey],
	}

	// optional elements, weekly responses carry no output size
	if key, err := find(". Information"); err == nil {
		res.Information = null.StringFrom(metadataElements[key])
	}
	if key, err := find(". Output Size"); err == nil {
		res.OutputSize = null.StringFrom(metadataElements[key])
	}

	return &res, timeZone, nil
}

func parseTimeSeriesDataResult(raw rawResponse, key string, location *time.Location) ([]*m.TimeSeriesData, error) {
	var timeSeriesElements map[string]map[string]string
	if err := json.Unmarshal(raw[key], &timeSeriesElements); err != nil {
		return nil, fmt.Errorf("%w: error unmarshaling time series: %w", ErrNoData, err)
	}
	if len(timeSeriesElements) == 0 {
		return nil, ErrNoData
	}

	// populate the lookups
	var firstValue map[string]string
	for _, v := range timeSeriesElements {
		firstValue = v
		break
	}

	ohlcvLookup, err := getLookupKey(ohlcvResultKeys, firstValue)
	if err != nil {
		return nil, err
	}

	timeSeries := make([]*m.TimeSeriesData, 0, len(timeSeriesElements))
	for timeSeriesKey, timeSeriesValue := range timeSeriesElements {
		// get timestamp
		timestamp, err := parseDate(timeSeriesKey, location)
		if err != nil {
			return nil, fmt.Errorf("error converting TIMESTAMP from string to time.Time: %w", err)
		}

		// get OHLCV
		ohlcv, err := parseOHLCV(timeSeriesValue, ohlcvLookup)
		if err != nil {
			return nil, fmt.Errorf("error parsing OHLCV: %w", err)
		}

		timeSeries = append(timeSeries, &m.TimeSeriesData{
			Timestamp:       timestamp,
			TimeSeriesOHLCV: ohlcv,
		})
	}

	return timeSeries, nil
}

func parseOHLCV(value, lookup map[string]string) (res m.TimeSeriesOHLCV, err error) {
	v := reflect.ValueOf(&res).Elem()
	for jsonKey, structAttribute := range lookup {
		field := v.FieldByName(structAttribute)
		if !field.IsValid() {
			return res, fmt.Errorf("field %s does not exist", structAttribute)
		}
		if !field.CanSet() {
			return res, fmt.Errorf("field %s cannot be set", structAttribute)
		}

		field.SetFloat(parseFloat(value[jsonKey]))
	}
	return
}

func getLookupKey(expectedKeys, values map[string]string) (map[string]string, error) {
	res := make(map[string]string)
	responseValueHeaders := slices.Collect(maps.Keys(values))

	for key, value := range expectedKeys {
		f := func(s string) bool {
			return strings.HasSuffix(strings.ToLower(s), strings.ToLower(value))
		}
		if jsonKey, err := e.FilterSingle(responseValueHeaders, f); err == nil {
			res[jsonKey] = key
		}
	}

	if len(res) == 0 {
		return nil, fmt.Errorf("error generating key value map from av response object. Available headers: %v", responseValueHeaders)
	}

	return res, nil
}

func getTimeZone(location string) (*time.Location, error) {
	var loc string
	switch strings.ToUpper(location) {
	case "US/EASTERN":
		loc = "America/New_York"
	default:
		slog.Warn("default time zone hit, location not recognized", "location", location)
		return time.UTC, nil
	}

	res, err := time.LoadLocation(loc)
	if err != nil {
		return nil, fmt.Errorf("error parsing time zone %s in time.LoadLocation", loc)
	}

	return res, nil
}

func parseDate(dateString string, location *time.Location) (time.Time, error) {
	for _, format := range timeSeriesDateFormats {
		t, err := time.ParseInLocation(format, dateString, location)
		if err != nil {
			continue
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("error converting date %s to time.Time", dateString)
}

func parseFloat(val string) float64 {
	if val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return 0
}

// parseNullFloat treats empty strings and the provider's "None" as missing
func parseNullFloat(val string) null.Float {
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return null.FloatFrom(f)
	}
	return null.Float{}
}
