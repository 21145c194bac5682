package queries

import (
	"embed"
	"fmt"
)

//go:embed create/*.sql delete/*.sql insert/*.sql select/*.sql update/*.sql
var Files embed.FS

// ^^^ the go:embed directive is used to embed the files in the queries package
// meaning on compile time it will convert the files to binary data and embed it in the queries package

type CreateQueries struct {
	Tables string
}

type DeleteQueries struct {
	Alert         string
	Holding       string
	WatchlistItem string
}

type InsertQueries struct {
	Alert         string
	Holding       string
	Notification  string
	User          string
	WatchlistItem string
}

type SelectQueries struct {
	ActiveAlertCount        string
	ActiveAlerts            string
	AlertsByUser            string
	HoldingById             string
	HoldingCount            string
	HoldingsByUser          string
	NotificationsByUser     string
	UnreadNotificationCount string
	UserByEmail             string
	UserById                string
	UserByUsername          string
	WatchlistByUser         string
	WatchlistCount          string
	WatchlistItem           string
}

type UpdateQueries struct {
	AlertTriggered       string
	AllNotificationsRead string
	Holding              string
	NotificationRead     string
	UserPreferences      string
	UserProfile          string
}

type QueryHelperStruct struct {
	Create CreateQueries
	Delete DeleteQueries
	Insert InsertQueries
	Select SelectQueries
	Update UpdateQueries
}

var QueryHelper = QueryHelperStruct{
	Create: CreateQueries{
		Tables: "create/tables.sql",
	},
	Delete: DeleteQueries{
		Alert:         "delete/alert.sql",
		Holding:       "delete/holding.sql",
		WatchlistItem: "delete/watchlist_item.sql",
	},
	Insert: InsertQueries{
		Alert:         "insert/alert.sql",
		Holding:       "insert/holding.sql",
		Notification:  "insert/notification.sql",
		User:          "insert/user.sql",
		WatchlistItem: "insert/watchlist_item.sql",
	},
	Select: SelectQueries{
		ActiveAlertCount:        "select/active_alert_count.sql",
		ActiveAlerts:            "select/active_alerts.sql",
		AlertsByUser:            "select/alerts_by_user.sql",
		HoldingById:             "select/holding_by_id.sql",
		HoldingCount:            "select/holding_count.sql",
		HoldingsByUser:          "select/holdings_by_user.sql",
		NotificationsByUser:     "select/notifications_by_user.sql",
		UnreadNotificationCount: "select/unread_notification_count.sql",
		UserByEmail:             "select/user_by_email.sql",
		UserById:                "select/user_by_id.sql",
		UserByUsername:          "select/user_by_username.sql",
		WatchlistByUser:         "select/watchlist_by_user.sql",
		WatchlistCount:          "select/watchlist_count.sql",
		WatchlistItem:           "select/watchlist_item.sql",
	},
	Update: UpdateQueries{
		AlertTriggered:       "update/alert_triggered.sql",
		AllNotificationsRead: "update/all_notifications_read.sql",
		Holding:              "update/holding.sql",
		NotificationRead:     "update/notification_read.sql",
		UserPreferences:      "update/user_preferences.sql",
		UserProfile:          "update/user_profile.sql",
	},
}

func Get(path string) string {
	content, err := Files.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("error reading query file: %w", err))
	}

	return string(content)
}
