package models

import (
	"time"

	"github.com/guregu/null/v6"
)

const (
	AlertTypeAbove = "above"
	AlertTypeBelow = "below"
)

type Alert struct {
	Id          string    `db:"id"`
	UserId      string    `db:"user_id"`
	Symbol      string    `db:"symbol"`
	TargetPrice float64   `db:"target_price"`
	AlertType   string    `db:"alert_type"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	TriggeredAt null.Time `db:"triggered_at"`
}

// IsTriggeredBy reports whether price crosses the alert's target in its direction
func (a *Alert) IsTriggeredBy(price float64) bool {
	switch a.AlertType {
	case AlertTypeBelow:
		return price <= a.TargetPrice
	default:
		return price >= a.TargetPrice
	}
}
