package repos

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	m "stockanalyzer/data/models"
	q "stockanalyzer/data/queries"
)

func (pg *Postgres) GetWatchlist(ctx context.Context, userId string) ([]*m.WatchlistItem, error) {
	res, err := Query[m.WatchlistItem](ctx, pg, q.Get(q.QueryHelper.Select.WatchlistByUser), pgx.NamedArgs{"user_id": userId})
	if err != nil {
		return nil, fmt.Errorf("unable to query watchlist for user %s: %w", userId, err)
	}
	return res, nil
}

func (pg *Postgres) IsInWatchlist(ctx context.Context, userId, symbol string) (bool, error) {
	args := pgx.NamedArgs{"user_id": userId, "symbol": symbol}
	res, err := Query[m.WatchlistItem](ctx, pg, q.Get(q.QueryHelper.Select.WatchlistItem), args)
	if err != nil {
		return false, fmt.Errorf("unable to check watchlist for %s: %w", symbol, err)
	}
	return len(res) > 0, nil
}

// InsertWatchlistItem returns ErrDuplicate when the symbol is already tracked by the user
func (pg *Postgres) InsertWatchlistItem(ctx context.Context, item *m.WatchlistItem) error {
	args := pgx.NamedArgs{
		"user_id":  item.UserId,
		"symbol":   item.Symbol,
		"name":     item.Name,
		"added_at": item.AddedAt,
	}

	n, err := execute(ctx, pg, q.Get(q.QueryHelper.Insert.WatchlistItem), args)
	if err != nil {
		return fmt.Errorf("error inserting watchlist item %s: %w", item.Symbol, err)
	}
	if n == 0 {
		return ErrDuplicate
	}
	return nil
}

func (pg *Postgres) DeleteWatchlistItem(ctx context.Context, userId, symbol string) (bool, error) {
	args := pgx.NamedArgs{"user_id": userId, "symbol": symbol}
	n, err := execute(ctx, pg, q.Get(q.QueryHelper.Delete.WatchlistItem), args)
	if err != nil {
		return false, fmt.Errorf("error deleting watchlist item %s: %w", symbol, err)
	}
	return n > 0, nil
}

func (pg *Postgres) CountWatchlist(ctx context.Context, userId string) (int64, error) {
	return count(ctx, pg, q.Get(q.QueryHelper.Select.WatchlistCount), pgx.NamedArgs{"user_id": userId})
}
