package models

type IndicatorSnapshot struct {
	MA20       float64 `json:"ma20"`
	MA50       float64 `json:"ma50"`
	RSI        float64 `json:"rsi"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
}

type PriceChanges struct {
	OneDay  float64 `json:"1d"`
	OneWeek float64 `json:"1w"`
}

type Recommendation struct {
	Symbol         string            `json:"symbol"`
	Recommendation string            `json:"recommendation"`
	Confidence     string            `json:"confidence"`
	Score          float64           `json:"score"`
	CurrentPrice   float64           `json:"current_price"`
	Indicators     IndicatorSnapshot `json:"indicators"`
	PriceChanges   PriceChanges      `json:"price_changes"`
	Reasoning      []string          `json:"reasoning"`
	LastUpdated    string            `json:"last_updated"`
}
