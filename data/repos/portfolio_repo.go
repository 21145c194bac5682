package repos

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	m "stockanalyzer/data/models"
	q "stockanalyzer/data/queries"
)

func (pg *Postgres) GetHoldings(ctx context.Context, userId string) ([]*m.Holding, error) {
	res, err := Query[m.Holding](ctx, pg, q.Get(q.QueryHelper.Select.HoldingsByUser), pgx.NamedArgs{"user_id": userId})
	if err != nil {
		return nil, fmt.Errorf("unable to query holdings for user %s: %w", userId, err)
	}
	return res, nil
}

func (pg *Postgres) GetHolding(ctx context.Context, userId, id string) (*m.Holding, error) {
	args := pgx.NamedArgs{"id": id, "user_id": userId}
	return QuerySingle[m.Holding](ctx, pg, q.Get(q.QueryHelper.Select.HoldingById), args)
}

// InsertHolding returns ErrDuplicate when the user already holds the symbol
func (pg *Postgres) InsertHolding(ctx context.Context, h *m.Holding) error {
	args := holdingArgs(h)
	args["created_at"] = h.CreatedAt

	n, err := execute(ctx, pg, q.Get(q.QueryHelper.Insert.Holding), args)
	if err != nil {
		return fmt.Errorf("error inserting holding %s: %w", h.Symbol, err)
	}
	if n == 0 {
		return ErrDuplicate
	}
	return nil
}

func (pg *Postgres) UpdateHolding(ctx context.Context, h *m.Holding) error {
	n, err := execute(ctx, pg, q.Get(q.QueryHelper.Update.Holding), holdingArgs(h))
	if err != nil {
		return fmt.Errorf("error updating holding %s: %w", h.Id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (pg *Postgres) DeleteHolding(ctx context.Context, userId, id string) (bool, error) {
	args := pgx.NamedArgs{"id": id, "user_id": userId}
	n, err := execute(ctx, pg, q.Get(q.QueryHelper.Delete.Holding), args)
	if err != nil {
		return false, fmt.Errorf("error deleting holding %s: %w", id, err)
	}
	return n > 0, nil
}

func (pg *Postgres) CountHoldings(ctx context.Context, userId string) (int64, error) {
	return count(ctx, pg, q.Get(q.QueryHelper.Select.HoldingCount), pgx.NamedArgs{"user_id": userId})
}

func holdingArgs(h *m.Holding) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":               h.Id,
		"user_id":          h.UserId,
		"symbol":           h.Symbol,
		"name":             h.Name,
		"quantity":         h.Quantity,
		"average_price":    h.AveragePrice,
		"total_investment": h.TotalInvestment,
		"purchase_date":    h.PurchaseDate,
		"notes":            h.Notes,
		"updated_at":       h.UpdatedAt,
	}
}
