package core

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/guregu/null/v6"

	dm "stockanalyzer/data/models"
	"stockanalyzer/data/repos"
	"stockanalyzer/service/market"
	m "stockanalyzer/service/models"
)

// memStore is an in memory Store with the uniqueness rules of the postgres schema
type memStore struct {
	mu            sync.Mutex
	users         map[string]dm.User
	watchlist     []dm.WatchlistItem
	holdings      []dm.Holding
	notifications []dm.Notification
	alerts        []dm.Alert
	pingErr       error
}

var _ Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{users: map[string]dm.User{}}
}

func (s *memStore) Ping(context.Context) error {
	return s.pingErr
}

func (s *memStore) InsertUser(_ context.Context, user *dm.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repos.ErrDuplicate
		}
	}
	s.users[user.Id] = *user
	return nil
}

func (s *memStore) findUser(match func(dm.User) bool) (*dm.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repos.ErrNotFound
}

func (s *memStore) GetUserById(_ context.Context, id string) (*dm.User, error) {
	return s.findUser(func(u dm.User) bool { return u.Id == id })
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*dm.User, error) {
	return s.findUser(func(u dm.User) bool { return u.Email == email })
}

func (s *memStore) GetUserByUsername(_ context.Context, username string) (*dm.User, error) {
	return s.findUser(func(u dm.User) bool { return u.Username == username })
}

func (s *memStore) UpdateUserProfile(_ context.Context, id string, update dm.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repos.ErrNotFound
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&u.FirstName, update.FirstName)
	set(&u.LastName, update.LastName)
	set(&u.Username, update.Username)
	set(&u.Email, update.Email)
	set(&u.Phone, update.Phone)
	set(&u.Bio, update.Bio)
	for otherId, other := range s.users {
		if otherId != id && (other.Email == u.Email || other.Username == u.Username) {
			return repos.ErrDuplicate
		}
	}
	s.users[id] = u
	return nil
}

func (s *memStore) UpdateUserPreferences(_ context.Context, id string, preferences map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repos.ErrNotFound
	}
	u.Preferences = preferences
	s.users[id] = u
	return nil
}

func (s *memStore) GetWatchlist(_ context.Context, userId string) ([]*dm.WatchlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*dm.WatchlistItem
	for _, item := range s.watchlist {
		if item.UserId == userId {
			res = append(res, &item)
		}
	}
	return res, nil
}

func (s *memStore) IsInWatchlist(_ context.Context, userId, symbol string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.watchlist, func(i dm.WatchlistItem) bool {
		return i.UserId == userId && i.Symbol == symbol
	}), nil
}

func (s *memStore) InsertWatchlistItem(ctx context.Context, item *dm.WatchlistItem) error {
	if in, _ := s.IsInWatchlist(ctx, item.UserId, item.Symbol); in {
		return repos.ErrDuplicate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchlist = append(s.watchlist, *item)
	return nil
}

func (s *memStore) DeleteWatchlistItem(_ context.Context, userId, symbol string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.watchlist)
	s.watchlist = slices.DeleteFunc(s.watchlist, func(i dm.WatchlistItem) bool {
		return i.UserId == userId && i.Symbol == symbol
	})
	return len(s.watchlist) < n, nil
}

func (s *memStore) CountWatchlist(ctx context.Context, userId string) (int64, error) {
	items, _ := s.GetWatchlist(ctx, userId)
	return int64(len(items)), nil
}

func (s *memStore) GetHoldings(_ context.Context, userId string) ([]*dm.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*dm.Holding
	for _, h := range s.holdings {
		if h.UserId == userId {
			res = append(res, &h)
		}
	}
	return res, nil
}

func (s *memStore) GetHolding(_ context.Context, userId, id string) (*dm.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.holdings {
		if h.UserId == userId && h.Id == id {
			return &h, nil
		}
	}
	return nil, repos.ErrNotFound
}

func (s *memStore) InsertHolding(_ context.Context, h *dm.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.holdings {
		if other.UserId == h.UserId && other.Symbol == h.Symbol {
			return repos.ErrDuplicate
		}
	}
	s.holdings = append(s.holdings, *h)
	return nil
}

func (s *memStore) UpdateHolding(_ context.Context, h *dm.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, other := range s.holdings {
		if other.UserId == h.UserId && other.Id == h.Id {
			s.holdings[i] = *h
			return nil
		}
	}
	return repos.ErrNotFound
}

func (s *memStore) DeleteHolding(_ context.Context, userId, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.holdings)
	s.holdings = slices.DeleteFunc(s.holdings, func(h dm.Holding) bool {
		return h.UserId == userId && h.Id == id
	})
	return len(s.holdings) < n, nil
}

func (s *memStore) CountHoldings(ctx context.Context, userId string) (int64, error) {
	items, _ := s.GetHoldings(ctx, userId)
	return int64(len(items)), nil
}

// newest first, like the created_at DESC ordering of the query
func (s *memStore) GetNotifications(_ context.Context, userId string, unreadOnly bool) ([]*dm.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*dm.Notification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserId == userId && (!unreadOnly || !n.Read) {
			res = append(res, &n)
		}
	}
	return res, nil
}

func (s *memStore) CountUnreadNotifications(ctx context.Context, userId string) (int64, error) {
	items, _ := s.GetNotifications(ctx, userId, true)
	return int64(len(items)), nil
}

func (s *memStore) InsertNotification(_ context.Context, n *dm.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, *n)
	return nil
}

func (s *memStore) MarkNotificationRead(_ context.Context, userId, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notifications {
		if n.UserId == userId && n.Id == id && !n.Read {
			s.notifications[i].Read = true
			s.notifications[i].ReadAt = null.TimeFrom(at)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) MarkAllNotificationsRead(_ context.Context, userId string, at time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var updated int64
	for i, n := range s.notifications {
		if n.UserId == userId && !n.Read {
			s.notifications[i].Read = true
			s.notifications[i].ReadAt = null.TimeFrom(at)
			updated++
		}
	}
	return updated, nil
}

func (s *memStore) GetAlerts(_ context.Context, userId string) ([]*dm.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*dm.Alert
	for _, a := range s.alerts {
		if a.UserId == userId && a.Active {
			res = append(res, &a)
		}
	}
	return res, nil
}

func (s *memStore) GetActiveAlerts(_ context.Context) ([]*dm.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []*dm.Alert
	for _, a := range s.alerts {
		if a.Active {
			res = append(res, &a)
		}
	}
	return res, nil
}

func (s *memStore) CountActiveAlerts(ctx context.Context, userId string) (int64, error) {
	items, _ := s.GetAlerts(ctx, userId)
	return int64(len(items)), nil
}

func (s *memStore) InsertAlert(_ context.Context, a *dm.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, *a)
	return nil
}

func (s *memStore) MarkAlertTriggered(_ context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.alerts {
		if a.Id == id && a.Active {
			s.alerts[i].Active = false
			s.alerts[i].TriggeredAt = null.TimeFrom(at)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) DeleteAlert(_ context.Context, userId, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.alerts)
	s.alerts = slices.DeleteFunc(s.alerts, func(a dm.Alert) bool {
		return a.UserId == userId && a.Id == id
	})
	return len(s.alerts) < n, nil
}

// stubProvider answers quotes from a fixed table and has no history at all
type stubProvider struct {
	mu     sync.Mutex
	quotes map[string]m.Quote
	bars   map[string][]m.PriceBar
}

func (p *stubProvider) FetchQuote(_ context.Context, symbol string) (*m.Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	q, ok := p.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", market.ErrUnavailable, symbol)
	}
	return &q, nil
}

func (p *stubProvider) FetchHistory(_ context.Context, symbol string, _ market.Period) ([]m.PriceBar, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	bars, ok := p.bars[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", market.ErrUnavailable, symbol)
	}
	return bars, nil
}
