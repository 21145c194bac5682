package models

type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previous_close"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	DayHigh       float64 `json:"day_high"`
	DayLow        float64 `json:"day_low"`
	Volume        int64   `json:"volume"`
	MarketCap     float64 `json:"market_cap"`
	Exchange      string  `json:"exchange"`
	Sector        string  `json:"sector"`
	LastUpdated   string  `json:"last_updated"`
	IsRealTime    bool    `json:"is_real_time"`
}

type LivePrice struct {
	Symbol      string  `json:"symbol"`
	Price       float64 `json:"price"`
	LastUpdated string  `json:"last_updated"`
}

// PriceBar is one session of a price series, ascending by date
type PriceBar struct {
	Date      string  `json:"date"`
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

type HistoryBar struct {
	PriceBar
	SMA20 float64 `json:"sma_20"`
	SMA50 float64 `json:"sma_50"`
}

type DetailedHistoryBar struct {
	HistoryBar
	RSI           float64 `json:"rsi"`
	MACD          float64 `json:"macd"`
	MACDSignal    float64 `json:"macd_signal"`
	MACDHistogram float64 `json:"macd_histogram"`
}

type History[T any] struct {
	Symbol    string `json:"symbol"`
	Period    string `json:"period"`
	Synthetic bool   `json:"synthetic"`
	Bars      []T    `json:"data"`
}
