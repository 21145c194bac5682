package core

import (
	"context"
	"log/slog"
	"time"

	dm "stockanalyzer/data/models"
	"stockanalyzer/data/repos"
	"stockanalyzer/service/market"
	"stockanalyzer/service/metrics"
)

type UserStore interface {
	InsertUser(ctx context.Context, user *dm.User) error
	GetUserById(ctx context.Context, id string) (*dm.User, error)
	GetUserByEmail(ctx context.Context, email string) (*dm.User, error)
	GetUserByUsername(ctx context.Context, username string) (*dm.User, error)
	UpdateUserProfile(ctx context.Context, id string, update dm.ProfileUpdate) error
	UpdateUserPreferences(ctx context.Context, id string, preferences map[string]any) error
}

type WatchlistStore interface {
	GetWatchlist(ctx context.Context, userId string) ([]*dm.WatchlistItem, error)
	IsInWatchlist(ctx context.Context, userId, symbol string) (bool, error)
	InsertWatchlistItem(ctx context.Context, item *dm.WatchlistItem) error
	DeleteWatchlistItem(ctx context.Context, userId, symbol string) (bool, error)
	CountWatchlist(ctx context.Context, userId string) (int64, error)
}

type PortfolioStore interface {
	GetHoldings(ctx context.Context, userId string) ([]*dm.Holding, error)
	GetHolding(ctx context.Context, userId, id string) (*dm.Holding, error)
	InsertHolding(ctx context.Context, h *dm.Holding) error
	UpdateHolding(ctx context.Context, h *dm.Holding) error
	DeleteHolding(ctx context.Context, userId, id string) (bool, error)
	CountHoldings(ctx context.Context, userId string) (int64, error)
}

type NotificationStore interface {
	GetNotifications(ctx context.Context, userId string, unreadOnly bool) ([]*dm.Notification, error)
	CountUnreadNotifications(ctx context.Context, userId string) (int64, error)
	InsertNotification(ctx context.Context, n *dm.Notification) error
	MarkNotificationRead(ctx context.Context, userId, id string, at time.Time) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userId string, at time.Time) (int64, error)
}

type AlertStore interface {
	GetAlerts(ctx context.Context, userId string) ([]*dm.Alert, error)
	GetActiveAlerts(ctx context.Context) ([]*dm.Alert, error)
	CountActiveAlerts(ctx context.Context, userId string) (int64, error)
	InsertAlert(ctx context.Context, a *dm.Alert) error
	MarkAlertTriggered(ctx context.Context, id string, at time.Time) (bool, error)
	DeleteAlert(ctx context.Context, userId, id string) (bool, error)
}

// Store is everything the service persists, *repos.Postgres implements it
type Store interface {
	UserStore
	WatchlistStore
	PortfolioStore
	NotificationStore
	AlertStore
	Ping(ctx context.Context) error
}

var _ Store = (*repos.Postgres)(nil)

// ServiceContext holds the long lived collaborators shared by every request.
// It is built once in main and never mutated afterwards.
type ServiceContext struct {
	Store    Store
	Quotes   *market.QuoteCache
	History  *market.HistoryGenerator
	Analyzer *market.Analyzer
	Tokens   *TokenIssuer
	Metrics  *metrics.Metrics
	Logger   *slog.Logger

	now func() time.Time
}

func (sc *ServiceContext) clock() time.Time {
	if sc.now != nil {
		return sc.now().UTC()
	}
	return time.Now().UTC()
}

func (sc *ServiceContext) logger() *slog.Logger {
	if sc.Logger != nil {
		return sc.Logger
	}
	return slog.Default()
}
