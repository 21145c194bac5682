package models

type Notification struct {
	Id        string  `json:"_id"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	Type      string  `json:"type"`
	Read      bool    `json:"read"`
	CreatedAt string  `json:"created_at"`
	ReadAt    *string `json:"read_at"`
}

type ReadAllResult struct {
	Updated int64 `json:"updated"`
}

type AlertRequest struct {
	Symbol      string   `json:"symbol"`
	TargetPrice *float64 `json:"target_price"`
	AlertType   string   `json:"alert_type"`
}

type Alert struct {
	Id          string  `json:"_id"`
	Symbol      string  `json:"symbol"`
	TargetPrice float64 `json:"target_price"`
	AlertType   string  `json:"alert_type"`
	Active      bool    `json:"active"`
	CreatedAt   string  `json:"created_at"`
}

type AlertCreated struct {
	AlertId string `json:"alert_id"`
}
