package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	ex "stockanalyzer/data/extensions"
	dm "stockanalyzer/data/models"
	"stockanalyzer/data/repos"
	m "stockanalyzer/service/models"
)

const maxBioLength = 500

var (
	themes           = []string{"light", "dark", "auto"}
	timeframes       = []string{"1D", "1W", "1M", "3M", "1Y"}
	refreshIntervals = []int{15, 30, 60, 300}
)

func (sc *ServiceContext) Profile(ctx context.Context, userId string) (*m.Profile, error) {
	user, err := sc.user(ctx, userId)
	if err != nil {
		return nil, err
	}
	return sc.profile(ctx, user)
}

func (sc *ServiceContext) profile(ctx context.Context, user *dm.User) (*m.Profile, error) {
	var stats m.ProfileStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.WatchlistCount, err = sc.Store.CountWatchlist(gctx, user.Id)
		return err
	})
	g.Go(func() (err error) {
		stats.PortfolioCount, err = sc.Store.CountHoldings(gctx, user.Id)
		return err
	})
	g.Go(func() (err error) {
		stats.AlertsCount, err = sc.Store.CountActiveAlerts(gctx, user.Id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error counting profile stats: %w", err)
	}

	return &m.Profile{
		Id:        user.Id,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Bio:       user.Bio,
		Plan:      user.Plan,
		JoinDate:  ex.FmtLong(user.CreatedAt),
		Stats:     stats,
	}, nil
}

// UpdateProfile changes the present fields. Email is lower cased, bio is cut
// to 500 characters and username or email must stay unique.
func (sc *ServiceContext) UpdateProfile(ctx context.Context, userId string, req m.ProfileUpdateRequest) (*m.Profile, error) {
	user, err := sc.user(ctx, userId)
	if err != nil {
		return nil, err
	}

	update := dm.ProfileUpdate{
		FirstName: trimmed(req.FirstName),
		LastName:  trimmed(req.LastName),
		Phone:     trimmed(req.Phone),
	}

	if username := trimmed(req.Username); username != nil && *username != "" {
		if *username != user.Username {
			if taken, err := exists(sc.Store.GetUserByUsername(ctx, *username)); err != nil {
				return nil, err
			} else if taken {
				return nil, badRequest("Username already taken")
			}
		}
		update.Username = username
	}

	if email := trimmed(req.Email); email != nil && *email != "" {
		lowered := strings.ToLower(*email)
		if lowered != user.Email {
			if taken, err := exists(sc.Store.GetUserByEmail(ctx, lowered)); err != nil {
				return nil, err
			} else if taken {
				return nil, badRequest("Email already taken")
			}
		}
		update.Email = &lowered
	}

	if bio := trimmed(req.Bio); bio != nil {
		if r := []rune(*bio); len(r) > maxBioLength {
			cut := string(r[:maxBioLength])
			bio = &cut
		}
		update.Bio = bio
	}

	if update.IsEmpty() {
		return nil, badRequest("No valid fields to update")
	}

	if err := sc.Store.UpdateUserProfile(ctx, userId, update); err != nil {
		switch {
		case errors.Is(err, repos.ErrDuplicate):
			return nil, badRequest("Username or email already taken")
		case errors.Is(err, repos.ErrNotFound):
			return nil, notFound("User not found")
		}
		return nil, err
	}

	return sc.Profile(ctx, userId)
}

func (sc *ServiceContext) Preferences(ctx context.Context, userId string) (*m.Preferences, error) {
	user, err := sc.user(ctx, userId)
	if err != nil {
		return nil, err
	}
	prefs := mergePreferences(user.Preferences)
	return &prefs, nil
}

// UpdatePreferences applies every valid value of the request and skips the
// rest. The message tells whether anything changed.
func (sc *ServiceContext) UpdatePreferences(ctx context.Context, userId string, req m.PreferencesRequest) (*m.Preferences, string, error) {
	if len(req.Preferences) == 0 {
		return nil, "", badRequest("No preferences data provided")
	}

	user, err := sc.user(ctx, userId)
	if err != nil {
		return nil, "", err
	}

	current := mergePreferences(user.Preferences)
	updated := applyPreferences(current, req.Preferences)
	if updated == current {
		return &current, "Preferences are already up to date", nil
	}

	stored, err := preferencesMap(updated)
	if err != nil {
		return nil, "", err
	}
	if err := sc.Store.UpdateUserPreferences(ctx, userId, stored); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, "", notFound("User not found")
		}
		return nil, "", err
	}

	return &updated, "Preferences updated successfully", nil
}

// mergePreferences lays the stored values over the defaults, stored values of
// the wrong type are ignored
func mergePreferences(stored map[string]any) m.Preferences {
	prefs := m.DefaultPreferences()
	if len(stored) == 0 {
		return prefs
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return prefs
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return prefs
	}
	return applyPreferences(prefs, values)
}

func applyPreferences(prefs m.Preferences, values map[string]json.RawMessage) m.Preferences {
	setBool(values, "emailNotifications", &prefs.EmailNotifications)
	setBool(values, "priceAlerts", &prefs.PriceAlerts)
	setBool(values, "analysisReports", &prefs.AnalysisReports)
	setBool(values, "newsletter", &prefs.Newsletter)
	setBool(values, "autoRefresh", &prefs.AutoRefresh)

	if v, ok := stringValue(values, "theme"); ok && slices.Contains(themes, v) {
		prefs.Theme = v
	}
	if v, ok := stringValue(values, "defaultTimeframe"); ok && slices.Contains(timeframes, v) {
		prefs.DefaultTimeframe = v
	}
	if v, ok := intValue(values, "alertThreshold"); ok && v >= 1 && v <= 20 {
		prefs.AlertThreshold = v
	}
	if v, ok := intValue(values, "refreshInterval"); ok && slices.Contains(refreshIntervals, v) {
		prefs.RefreshInterval = v
	}
	return prefs
}

func setBool(values map[string]json.RawMessage, key string, dst *bool) {
	raw, ok := values[key]
	if !ok {
		return
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err == nil {
		*dst = v
	}
}

func stringValue(values map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := values[key]
	if !ok {
		return "", false
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	return v, true
}

// intValue accepts numbers and numeric strings, fractions are truncated
func intValue(values map[string]json.RawMessage, key string) (int, bool) {
	raw, ok := values[key]
	if !ok {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return int(f), true
}

func preferencesMap(prefs m.Preferences) (map[string]any, error) {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("error encoding preferences: %w", err)
	}
	var res map[string]any
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("error decoding preferences: %w", err)
	}
	return res, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
