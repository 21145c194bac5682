package models

// HoldingRequest is shared by create and partial update, nil fields are absent
type HoldingRequest struct {
	Symbol       *string  `json:"symbol"`
	Name         *string  `json:"name"`
	Quantity     *float64 `json:"quantity"`
	AveragePrice *float64 `json:"average_price"`
	PurchaseDate *string  `json:"purchase_date"`
	Notes        *string  `json:"notes"`
}

type Holding struct {
	Id              string  `json:"_id"`
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	Quantity        float64 `json:"quantity"`
	AveragePrice    float64 `json:"average_price"`
	CurrentPrice    float64 `json:"current_price"`
	TotalInvestment float64 `json:"total_investment"`
	CurrentValue    float64 `json:"current_value"`
	PL              float64 `json:"pl"`
	PLPercentage    float64 `json:"pl_percentage"`
	DailyChange     float64 `json:"daily_change"`
	PurchaseDate    string  `json:"purchase_date,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	CreatedAt       string  `json:"created_at,omitempty"`
}

type Portfolio struct {
	TotalInvestment   float64   `json:"total_investment"`
	CurrentValue      float64   `json:"current_value"`
	TotalPL           float64   `json:"total_pl"`
	TotalPLPercentage float64   `json:"total_pl_percentage"`
	TotalHoldings     int       `json:"total_holdings"`
	Holdings          []Holding `json:"holdings"`
	LastUpdated       string    `json:"last_updated"`
}

// HoldingRecord is a holding as stored, without valuation
type HoldingRecord struct {
	Id              string  `json:"_id"`
	UserId          string  `json:"user_id"`
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	Quantity        float64 `json:"quantity"`
	AveragePrice    float64 `json:"average_price"`
	TotalInvestment float64 `json:"total_investment"`
	PurchaseDate    string  `json:"purchase_date,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

type Performer struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	AveragePrice float64 `json:"average_price"`
}

type PortfolioPerformance struct {
	TotalInvestment       float64    `json:"total_investment"`
	CurrentValue          float64    `json:"current_value"`
	TotalPL               float64    `json:"total_pl"`
	TotalPLPercentage     float64    `json:"total_pl_percentage"`
	DailyChange           float64    `json:"daily_change"`
	DailyChangePercentage float64    `json:"daily_change_percentage"`
	BestPerformer         *Performer `json:"best_performer"`
	WorstPerformer        *Performer `json:"worst_performer"`
	TotalHoldings         int        `json:"total_holdings"`
}
