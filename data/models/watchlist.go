package models

import "time"

type WatchlistItem struct {
	UserId  string    `db:"user_id"`
	Symbol  string    `db:"symbol"`
	Name    string    `db:"name"`
	AddedAt time.Time `db:"added_at"`
}
