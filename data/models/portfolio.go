package models

import (
	"time"

	"github.com/guregu/null/v6"
)

type Holding struct {
	Id              string    `db:"id"`
	UserId          string    `db:"user_id"`
	Symbol          string    `db:"symbol"`
	Name            string    `db:"name"`
	Quantity        float64   `db:"quantity"`
	AveragePrice    float64   `db:"average_price"`
	TotalInvestment float64   `db:"total_investment"`
	PurchaseDate    null.Time `db:"purchase_date"`
	Notes           string    `db:"notes"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}
