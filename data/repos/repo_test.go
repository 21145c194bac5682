package repos

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	ex "stockanalyzer/data/extensions"
	m "stockanalyzer/data/models"
)

func Test_Base_CanGetConnectionAndPing(t *testing.T) {
	ctx := context.Background()
	pg := getConnection(t, ctx)

	if err := pg.Ping(ctx); err != nil {
		t.Errorf("error pinging postgres database: %s", err)
	}
}

func Test_UserRepo_CanInsertAndGet(t *testing.T) {
	ctx := context.Background()
	pg := getConnection(t, ctx)
	user := insertTestUser(t, ctx, pg)

	res, err := pg.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("error getting user by email: %s", err)
	}
	ex.AssertAreEqual(t, "id", user.Id, res.Id)
	ex.AssertAreEqual(t, "username", user.Username, res.Username)
	ex.AssertAreEqual(t, "plan", "Premium", res.Plan)

	if err := pg.InsertUser(ctx, user); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate error inserting the same user twice, got %v", err)
	}

	bio := "long time investor"
	if err := pg.UpdateUserProfile(ctx, user.Id, m.ProfileUpdate{Bio: &bio}); err != nil {
		t.Fatalf("error updating profile: %s", err)
	}

	res, err = pg.GetUserById(ctx, user.Id)
	if err != nil {
		t.Fatalf("error getting user by id: %s", err)
	}
	ex.AssertAreEqual(t, "bio", bio, res.Bio)
	ex.AssertAreEqual(t, "email unchanged", user.Email, res.Email)

	if _, err := pg.GetUserById(ctx, ex.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}

func Test_WatchlistRepo_CanInsertCheckAndDelete(t *testing.T) {
	ctx := context.Background()
	pg := getConnection(t, ctx)
	user := insertTestUser(t, ctx, pg)

	item := &m.WatchlistItem{UserId: user.Id, Symbol: "AAPL", Name: "Apple Inc.", AddedAt: time.Now().UTC()}
	if err := pg.InsertWatchlistItem(ctx, item); err != nil {
		t.Fatalf("error inserting watchlist item: %s", err)
	}
	if err := pg.InsertWatchlistItem(ctx, item); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	exists, err := pg.IsInWatchlist(ctx, user.Id, "AAPL")
	if err != nil {
		t.Fatalf("error checking watchlist: %s", err)
	}
	ex.AssertAreEqual(t, "in watchlist", true, exists)

	n, err := pg.CountWatchlist(ctx, user.Id)
	if err != nil {
		t.Fatalf("error counting watchlist: %s", err)
	}
	ex.AssertAreEqual(t, "count", int64(1), n)

	deleted, err := pg.DeleteWatchlistItem(ctx, user.Id, "AAPL")
	if err != nil {
		t.Fatalf("error deleting watchlist item: %s", err)
	}
	ex.AssertAreEqual(t, "deleted", true, deleted)
}

func Test_PortfolioRepo_CanInsertUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	pg := getConnection(t, ctx)
	user := insertTestUser(t, ctx, pg)

	now := time.Now().UTC().Truncate(time.Second)
	holding := &m.Holding{
		Id:              ex.NewObjectID(),
		UserId:          user.Id,
		Symbol:          "MSFT",
		Name:            "Microsoft Corp.",
		Quantity:        10,
		AveragePrice:    300,
		TotalInvestment: 3000,
		PurchaseDate:    null.TimeFrom(now),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := pg.InsertHolding(ctx, holding); err != nil {
		t.Fatalf("error inserting holding: %s", err)
	}

	holding.Quantity = 20
	holding.TotalInvestment = 6000
	if err := pg.UpdateHolding(ctx, holding); err != nil {
		t.Fatalf("error updating holding: %s", err)
	}

	res, err := pg.GetHolding(ctx, user.Id, holding.Id)
	if err != nil {
		t.Fatalf("error getting holding: %s", err)
	}
	ex.AssertAreEqual(t, "quantity", 20.0, res.Quantity)
	ex.AssertAreEqual(t, "total investment", 6000.0, res.TotalInvestment)
	ex.AssertAreEqual(t, "purchase date set", true, res.PurchaseDate.Valid)

	deleted, err := pg.DeleteHolding(ctx, user.Id, holding.Id)
	if err != nil {
		t.Fatalf("error deleting holding: %s", err)
	}
	ex.AssertAreEqual(t, "deleted", true, deleted)
}

func Test_NotificationRepo_OrdersNewestFirstAndMarksRead(t *testing.T) {
	ctx := context.Background()
	pg := getConnection(t, ctx)
	user := insertTestUser(t, ctx, pg)

	base := time.Now().UTC().Truncate(time.Second)
	for i, title := range []string{"older", "newer"} {
		n := &m.Notification{
			Id:        ex.NewObjectID(),
			UserId:    user.Id,
			Title:     title,
			Message:   title,
			Type:      m.NotificationTypeInfo,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := pg.InsertNotification(ctx, n); err != nil {
			t.Fatalf("error inserting notification: %s", err)
		}
	}

	res, err := pg.GetNotifications(ctx, user.Id, false)
	if err != nil {
		t.Fatalf("error getting notifications: %s", err)
	}
	ex.AssertAreEqual(t, "count", 2, len(res))
	ex.AssertAreEqual(t, "newest first", "newer", res[0].Title)

	marked, err := pg.MarkNotificationRead(ctx, user.Id, res[0].Id, time.Now())
	if err != nil {
		t.Fatalf("error marking notification read: %s", err)
	}
	ex.AssertAreEqual(t, "marked", true, marked)

	unread, err := pg.CountUnreadNotifications(ctx, user.Id)
	if err != nil {
		t.Fatalf("error counting unread: %s", err)
	}
	ex.AssertAreEqual(t, "unread", int64(1), unread)

	updated, err := pg.MarkAllNotificationsRead(ctx, user.Id, time.Now())
	if err != nil {
		t.Fatalf("error marking all read: %s", err)
	}
	ex.AssertAreEqual(t, "updated", int64(1), updated)
}

func Test_AlertRepo_TriggerDeactivates(t *testing.T) {
	ctx := context.Background()
	pg := getConnection(t, ctx)
	user := insertTestUser(t, ctx, pg)

	alert := &m.Alert{
		Id:          ex.NewObjectID(),
		UserId:      user.Id,
		Symbol:      "NVDA",
		TargetPrice: 500,
		AlertType:   m.AlertTypeAbove,
		CreatedAt:   time.Now().UTC(),
	}
	if err := pg.InsertAlert(ctx, alert); err != nil {
		t.Fatalf("error inserting alert: %s", err)
	}

	active, err := pg.CountActiveAlerts(ctx, user.Id)
	if err != nil {
		t.Fatalf("error counting alerts: %s", err)
	}
	ex.AssertAreEqual(t, "active", int64(1), active)

	triggered, err := pg.MarkAlertTriggered(ctx, alert.Id, time.Now())
	if err != nil {
		t.Fatalf("error triggering alert: %s", err)
	}
	ex.AssertAreEqual(t, "triggered", true, triggered)

	again, err := pg.MarkAlertTriggered(ctx, alert.Id, time.Now())
	if err != nil {
		t.Fatalf("error triggering alert twice: %s", err)
	}
	ex.AssertAreEqual(t, "triggered twice", false, again)
}

func getConnection(t *testing.T, ctx context.Context) *Postgres {
	t.Helper()
	_ = godotenv.Load("../../.env")

	connectionString := os.Getenv("DATABASE_URL")
	if connectionString == "" {
		t.Skip("DATABASE_URL not set, skipping database tests")
	}

	res, err := GetPostgresConnection(ctx, connectionString)
	if err != nil {
		t.Fatalf("error getting postgres connection: %s", err)
	}
	t.Cleanup(res.Close)

	if err := res.Migrate(ctx); err != nil {
		t.Fatalf("error migrating database: %s", err)
	}

	return res
}

// insertTestUser creates a throwaway user, removed (with everything it owns) on cleanup
func insertTestUser(t *testing.T, ctx context.Context, pg *Postgres) *m.User {
	t.Helper()

	id := ex.NewObjectID()
	user := &m.User{
		Id:           id,
		Username:     "_test_" + id,
		Email:        "_test_" + id + "@example.com",
		PasswordHash: "not-a-hash",
		Plan:         "Premium",
		CreatedAt:    time.Now().UTC(),
	}

	if err := pg.InsertUser(ctx, user); err != nil {
		t.Fatalf("error inserting test user: %s", err)
	}

	t.Cleanup(func() {
		if _, err := pg.db.Exec(context.Background(), "DELETE FROM users WHERE id = @id", pgx.NamedArgs{"id": id}); err != nil {
			t.Errorf("cleanup users failed: %s", err)
		}
	})

	return user
}
