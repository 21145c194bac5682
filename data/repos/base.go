package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	q "stockanalyzer/data/queries"
)

const uniqueViolation = "23505"

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type Postgres struct {
	db *pgxpool.Pool
}

func GetPostgresConnection(ctx context.Context, connectionString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, fmt.Errorf("error parsing pgx connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("error making new pgx pool: %w", err)
	}

	return &Postgres{pool}, nil
}

func (pg *Postgres) Ping(ctx context.Context) error {
	return pg.db.Ping(ctx)
}

func (pg *Postgres) Close() {
	pg.db.Close()
}

// Migrate creates any missing tables and indexes, safe to run on every start
func (pg *Postgres) Migrate(ctx context.Context) error {
	if _, err := pg.db.Exec(ctx, q.Get(q.QueryHelper.Create.Tables)); err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}
	return nil
}

func Query[T any](ctx context.Context, pg *Postgres, query string, args pgx.NamedArgs) ([]*T, error) {
	rows, err := pg.db.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("unable to query: %w", err)
	}
	defer rows.Close()

	res, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("error occured while collecting rows in query: %w", err)
	}

	result := make([]*T, len(res))
	for i := range res {
		result[i] = &res[i]
	}

	return result, nil
}

// QuerySingle returns ErrNotFound when no row matches
func QuerySingle[T any](ctx context.Context, pg *Postgres, query string, args pgx.NamedArgs) (*T, error) {
	res, err := Query[T](ctx, pg, query, args)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, ErrNotFound
	}
	if len(res) > 1 {
		return nil, fmt.Errorf("multiple results found")
	}

	return res[0], nil
}

func execute(ctx context.Context, pg *Postgres, query string, args pgx.NamedArgs) (int64, error) {
	tag, err := pg.db.Exec(ctx, query, args)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func count(ctx context.Context, pg *Postgres, query string, args pgx.NamedArgs) (int64, error) {
	var n int64
	if err := pg.db.QueryRow(ctx, query, args).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
