package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	m "stockanalyzer/data/models"
	q "stockanalyzer/data/queries"
)

func (pg *Postgres) GetAlerts(ctx context.Context, userId string) ([]*m.Alert, error) {
	res, err := Query[m.Alert](ctx, pg, q.Get(q.QueryHelper.Select.AlertsByUser), pgx.NamedArgs{"user_id": userId})
	if err != nil {
		return nil, fmt.Errorf("unable to query alerts for user %s: %w", userId, err)
	}
	return res, nil
}

// GetActiveAlerts returns every active alert across users, grouped by symbol
func (pg *Postgres) GetActiveAlerts(ctx context.Context) ([]*m.Alert, error) {
	res, err := Query[m.Alert](ctx, pg, q.Get(q.QueryHelper.Select.ActiveAlerts), pgx.NamedArgs{})
	if err != nil {
		return nil, fmt.Errorf("unable to query active alerts: %w", err)
	}
	return res, nil
}

func (pg *Postgres) CountActiveAlerts(ctx context.Context, userId string) (int64, error) {
	return count(ctx, pg, q.Get(q.QueryHelper.Select.ActiveAlertCount), pgx.NamedArgs{"user_id": userId})
}

func (pg *Postgres) InsertAlert(ctx context.Context, a *m.Alert) error {
	args := pgx.NamedArgs{
		"id":           a.Id,
		"user_id":      a.UserId,
		"symbol":       a.Symbol,
		"target_price": a.TargetPrice,
		"alert_type":   a.AlertType,
		"created_at":   a.CreatedAt,
	}

	if _, err := execute(ctx, pg, q.Get(q.QueryHelper.Insert.Alert), args); err != nil {
		return fmt.Errorf("error inserting alert for %s: %w", a.Symbol, err)
	}
	return nil
}

// MarkAlertTriggered deactivates the alert, false when it was already inactive
func (pg *Postgres) MarkAlertTriggered(ctx context.Context, id string, at time.Time) (bool, error) {
	args := pgx.NamedArgs{"id": id, "triggered_at": at}
	n, err := execute(ctx, pg, q.Get(q.QueryHelper.Update.AlertTriggered), args)
	if err != nil {
		return false, fmt.Errorf("error marking alert %s triggered: %w", id, err)
	}
	return n > 0, nil
}

func (pg *Postgres) DeleteAlert(ctx context.Context, userId, id string) (bool, error) {
	args := pgx.NamedArgs{"id": id, "user_id": userId}
	n, err := execute(ctx, pg, q.Get(q.QueryHelper.Delete.Alert), args)
	if err != nil {
		return false, fmt.Errorf("error deleting alert %s: %w", id, err)
	}
	return n > 0, nil
}
