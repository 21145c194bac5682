package models

import (
	"time"

	"github.com/guregu/null/v6"
)

type TimeSeriesResult struct {
	Metadata   *TimeSeriesMetadata
	TimeSeries []*TimeSeriesData
}

// daily and weekly responses number their metadata keys differently, so only the
// suffix of each key is relied on when parsing
type TimeSeriesMetadata struct {
	Information   null.String
	Symbol        string
	LastRefreshed time.Time
	OutputSize    null.String
	TimeZone      string
}

type TimeSeriesOHLCV struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

type TimeSeriesData struct {
	Timestamp time.Time
	TimeSeriesOHLCV
}

type GlobalQuote struct {
	Symbol           string
	Open             float64
	High             float64
	Low              float64
	Price            float64
	Volume           float64
	LatestTradingDay null.Time
	PreviousClose    float64
	Change           float64
	ChangePercent    float64
}

type CompanyOverview struct {
	Symbol               string
	Name                 string
	Exchange             string
	Sector               string
	Currency             null.String
	MarketCapitalization null.Float
}
