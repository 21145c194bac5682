package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	m "stockanalyzer/data/models"
	q "stockanalyzer/data/queries"
)

// GetNotifications returns the user's notifications newest first
func (pg *Postgres) GetNotifications(ctx context.Context, userId string, unreadOnly bool) ([]*m.Notification, error) {
	args := pgx.NamedArgs{"user_id": userId, "unread_only": unreadOnly}
	res, err := Query[m.Notification](ctx, pg, q.Get(q.QueryHelper.Select.NotificationsByUser), args)
	if err != nil {
		return nil, fmt.Errorf("unable to query notifications for user %s: %w", userId, err)
	}
	return res, nil
}

func (pg *Postgres) CountUnreadNotifications(ctx context.Context, userId string) (int64, error) {
	return count(ctx, pg, q.Get(q.QueryHelper.Select.UnreadNotificationCount), pgx.NamedArgs{"user_id": userId})
}

func (pg *Postgres) InsertNotification(ctx context.Context, n *m.Notification) error {
	args := pgx.NamedArgs{
		"id":         n.Id,
		"user_id":    n.UserId,
		"title":      n.Title,
		"message":    n.Message,
		"type":       n.Type,
		"created_at": n.CreatedAt,
	}

	if _, err := execute(ctx, pg, q.Get(q.QueryHelper.Insert.Notification), args); err != nil {
		return fmt.Errorf("error inserting notification for user %s: %w", n.UserId, err)
	}
	return nil
}

// MarkNotificationRead reports false when the notification is unknown or already read
func (pg *Postgres) MarkNotificationRead(ctx context.Context, userId, id string, at time.Time) (bool, error) {
	args := pgx.NamedArgs{"id": id, "user_id": userId, "read_at": at}
	n, err := execute(ctx, pg, q.Get(q.QueryHelper.Update.NotificationRead), args)
	if err != nil {
		return false, fmt.Errorf("error marking notification %s read: %w", id, err)
	}
	return n > 0, nil
}

func (pg *Postgres) MarkAllNotificationsRead(ctx context.Context, userId string, at time.Time) (int64, error) {
	args := pgx.NamedArgs{"user_id": userId, "read_at": at}
	n, err := execute(ctx, pg, q.Get(q.QueryHelper.Update.AllNotificationsRead), args)
	if err != nil {
		return 0, fmt.Errorf("error marking notifications read for user %s: %w", userId, err)
	}
	return n, nil
}
