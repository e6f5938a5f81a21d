package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolation = "23505"

// Store implements app.Store on a pgx pool. The schema lives in the migrations package.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pool against url.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	return pgxpool.Connect(ctx, url)
}

// notFound maps pgx.ErrNoRows to the given sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return err
}

// uniqueConflict maps a unique violation on constraint to the given sentinel.
func uniqueConflict(err error, constraint string, sentinel error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint {
		return sentinel
	}
	return err
}

// mustAffect turns a zero-row update or delete into the not-found sentinel.
func mustAffect(tag pgconn.CommandTag, err, sentinel error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sentinel
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}
