package prefs

import (
	"context"
	"errors"
	"fmt"

	"repairbot/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements Store with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo creates a new preferences repository.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Store.
var _ Store = (*Repo)(nil)

// GetTZ returns the timezone identifier for a sender handle.
func (r *Repo) GetTZ(ctx context.Context, handle string) (string, error) {
	query := `SELECT tz FROM user_prefs WHERE handle = $1`

	var tz string
	err := r.pool.QueryRow(ctx, query, handle).Scan(&tz)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound("no preference for sender")
		}
		return "", fmt.Errorf("get timezone preference: %w", err)
	}

	return tz, nil
}

// UpsertTZ sets the timezone identifier for a sender handle.
func (r *Repo) UpsertTZ(ctx context.Context, handle, tz string) error {
	query := `
		INSERT INTO user_prefs (handle, tz)
		VALUES ($1, $2)
		ON CONFLICT (handle) DO UPDATE SET tz = EXCLUDED.tz`

	if _, err := r.pool.Exec(ctx, query, handle, tz); err != nil {
		return fmt.Errorf("upsert timezone preference: %w", err)
	}

	return nil
}
