package models

import "encoding/json"

type ProfileStats struct {
	WatchlistCount int64 `json:"watchlistCount"`
	PortfolioCount int64 `json:"portfolioCount"`
	AlertsCount    int64 `json:"alertsCount"`
}

type Profile struct {
	Id        string       `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	Phone     string       `json:"phone"`
	Bio       string       `json:"bio"`
	Plan      string       `json:"plan"`
	JoinDate  string       `json:"joinDate"`
	Stats     ProfileStats `json:"stats"`
}

type ProfileUpdateRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Bio       *string `json:"bio"`
}

type Preferences struct {
	EmailNotifications bool   `json:"emailNotifications"`
	PriceAlerts        bool   `json:"priceAlerts"`
	AnalysisReports    bool   `json:"analysisReports"`
	Newsletter         bool   `json:"newsletter"`
	Theme              string `json:"theme"`
	DefaultTimeframe   string `json:"defaultTimeframe"`
	AlertThreshold     int    `json:"alertThreshold"`
	AutoRefresh        bool   `json:"autoRefresh"`
	RefreshInterval    int    `json:"refreshInterval"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		EmailNotifications: true,
		PriceAlerts:        true,
		AnalysisReports:    false,
		Newsletter:         false,
		Theme:              "light",
		DefaultTimeframe:   "1D",
		AlertThreshold:     5,
		AutoRefresh:        true,
		RefreshInterval:    30,
	}
}

// PreferencesRequest keeps each preference raw so invalid values can be skipped one by one
type PreferencesRequest struct {
	Preferences map[string]json.RawMessage `json:"preferences"`
}
