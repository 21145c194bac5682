package core

import (
	"context"
	"fmt"
	"strings"

	ex "stockanalyzer/data/extensions"
	dm "stockanalyzer/data/models"
	m "stockanalyzer/service/models"
)

func (sc *ServiceContext) Notifications(ctx context.Context, userId string, unreadOnly bool) ([]m.Notification, error) {
	items, err := sc.Store.GetNotifications(ctx, userId, unreadOnly)
	if err != nil {
		return nil, err
	}

	res := make([]m.Notification, 0, len(items))
	for _, n := range items {
		res = append(res, toNotification(n))
	}
	return res, nil
}

func (sc *ServiceContext) UnreadNotificationCount(ctx context.Context, userId string) (int64, error) {
	return sc.Store.CountUnreadNotifications(ctx, userId)
}

func (sc *ServiceContext) MarkNotificationRead(ctx context.Context, userId, id string) error {
	if !ex.IsObjectID(id) {
		return badRequest("Invalid notification id")
	}

	marked, err := sc.Store.MarkNotificationRead(ctx, userId, id, sc.clock())
	if err != nil {
		return err
	}
	if !marked {
		return badRequest("Failed to mark notification as read")
	}
	return nil
}

func (sc *ServiceContext) MarkAllNotificationsRead(ctx context.Context, userId string) (*m.ReadAllResult, error) {
	n, err := sc.Store.MarkAllNotificationsRead(ctx, userId, sc.clock())
	if err != nil {
		return nil, err
	}
	return &m.ReadAllResult{Updated: n}, nil
}

// notify stores an unread notification for the user
func (sc *ServiceContext) notify(ctx context.Context, userId, title, message, kind string) (*dm.Notification, error) {
	n := &dm.Notification{
		Id:        ex.NewObjectID(),
		UserId:    userId,
		Title:     title,
		Message:   message,
		Type:      kind,
		CreatedAt: sc.clock(),
	}
	if err := sc.Store.InsertNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (sc *ServiceContext) Alerts(ctx context.Context, userId string) ([]m.Alert, error) {
	alerts, err := sc.Store.GetAlerts(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := make([]m.Alert, 0, len(alerts))
	for _, a := range alerts {
		res = append(res, m.Alert{
			Id:          a.Id,
			Symbol:      a.Symbol,
			TargetPrice: a.TargetPrice,
			AlertType:   a.AlertType,
			Active:      a.Active,
			CreatedAt:   ex.FmtLong(a.CreatedAt),
		})
	}
	return res, nil
}

// CreateAlert stores the alert together with a notification announcing it
func (sc *ServiceContext) CreateAlert(ctx context.Context, userId string, req m.AlertRequest) (*m.AlertCreated, error) {
	symbol := ex.NormalizeSymbol(req.Symbol)
	if symbol == "" || req.TargetPrice == nil {
		return nil, badRequest("Symbol and target_price are required")
	}
	if *req.TargetPrice <= 0 {
		return nil, badRequest("target_price must be a positive number")
	}

	alertType := strings.ToLower(strings.TrimSpace(req.AlertType))
	switch alertType {
	case "":
		alertType = dm.AlertTypeAbove
	case dm.AlertTypeAbove, dm.AlertTypeBelow:
	default:
		return nil, badRequest("alert_type must be above or below")
	}

	alert := &dm.Alert{
		Id:          ex.NewObjectID(),
		UserId:      userId,
		Symbol:      symbol,
		TargetPrice: *req.TargetPrice,
		AlertType:   alertType,
		Active:      true,
		CreatedAt:   sc.clock(),
	}
	if err := sc.Store.InsertAlert(ctx, alert); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Price Alert Created for %s", symbol)
	message := fmt.Sprintf("Alert when price goes %s $%.2f", alertType, alert.TargetPrice)
	if _, err := sc.notify(ctx, userId, title, message, dm.NotificationTypeAlert); err != nil {
		return nil, err
	}

	return &m.AlertCreated{AlertId: alert.Id}, nil
}

func (sc *ServiceContext) DeleteAlert(ctx context.Context, userId, id string) error {
	if !ex.IsObjectID(id) {
		return badRequest("Invalid alert id")
	}

	deleted, err := sc.Store.DeleteAlert(ctx, userId, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("Alert not found")
	}
	return nil
}

func toNotification(n *dm.Notification) m.Notification {
	res := m.Notification{
		Id:        n.Id,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Read:      n.Read,
		CreatedAt: ex.FmtLong(n.CreatedAt),
	}
	if n.ReadAt.Valid {
		readAt := ex.FmtLong(n.ReadAt.Time)
		res.ReadAt = &readAt
	}
	return res
}
