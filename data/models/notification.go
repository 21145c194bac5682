package models

import (
	"time"

	"github.com/guregu/null/v6"
)

const (
	NotificationTypeInfo  = "info"
	NotificationTypeAlert = "alert"
)

type Notification struct {
	Id        string    `db:"id"`
	UserId    string    `db:"user_id"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	Type      string    `db:"type"`
	Read      bool      `db:"read"`
	CreatedAt time.Time `db:"created_at"`
	ReadAt    null.Time `db:"read_at"`
}
