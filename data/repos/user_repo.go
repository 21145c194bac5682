package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	m "stockanalyzer/data/models"
	q "stockanalyzer/data/queries"
)

func (pg *Postgres) InsertUser(ctx context.Context, user *m.User) error {
	preferences := user.Preferences
	if preferences == nil {
		preferences = map[string]any{}
	}

	args := pgx.NamedArgs{
		"id":            user.Id,
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"plan":          user.Plan,
		"preferences":   preferences,
		"created_at":    user.CreatedAt,
	}

	if _, err := execute(ctx, pg, q.Get(q.QueryHelper.Insert.User), args); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return err
		}
		return fmt.Errorf("error inserting user %s: %w", user.Username, err)
	}
	return nil
}

func (pg *Postgres) GetUserById(ctx context.Context, id string) (*m.User, error) {
	return QuerySingle[m.User](ctx, pg, q.Get(q.QueryHelper.Select.UserById), pgx.NamedArgs{"id": id})
}

func (pg *Postgres) GetUserByEmail(ctx context.Context, email string) (*m.User, error) {
	return QuerySingle[m.User](ctx, pg, q.Get(q.QueryHelper.Select.UserByEmail), pgx.NamedArgs{"email": email})
}

func (pg *Postgres) GetUserByUsername(ctx context.Context, username string) (*m.User, error) {
	return QuerySingle[m.User](ctx, pg, q.Get(q.QueryHelper.Select.UserByUsername), pgx.NamedArgs{"username": username})
}

func (pg *Postgres) UpdateUserProfile(ctx context.Context, id string, update m.ProfileUpdate) error {
	args := pgx.NamedArgs{
		"id":         id,
		"first_name": update.FirstName,
		"last_name":  update.LastName,
		"username":   update.Username,
		"email":      update.Email,
		"phone":      update.Phone,
		"bio":        update.Bio,
	}

	n, err := execute(ctx, pg, q.Get(q.QueryHelper.Update.UserProfile), args)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return err
		}
		return fmt.Errorf("error updating profile for user %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (pg *Postgres) UpdateUserPreferences(ctx context.Context, id string, preferences map[string]any) error {
	args := pgx.NamedArgs{"id": id, "preferences": preferences}

	n, err := execute(ctx, pg, q.Get(q.QueryHelper.Update.UserPreferences), args)
	if err != nil {
		return fmt.Errorf("error updating preferences for user %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
