package technicians

import (
	"context"
	"errors"
	"fmt"
	"time"

	"repairbot/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const technicianNotFoundMessage = "technician not found"

// Repo implements Store with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo creates a new technicians repository.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Store.
var _ Store = (*Repo)(nil)

const technicianColumns = `id, name, handle, active, created_at`

func scanTechnician(row pgx.Row) (Technician, error) {
	var t Technician
	err := row.Scan(&t.ID, &t.Name, &t.Handle, &t.Active, &t.CreatedAt)
	return t, err
}

// FindByName matches a technician by case-insensitive exact name.
func (r *Repo) FindByName(ctx context.Context, name string) (Technician, error) {
	query := `
		SELECT ` + technicianColumns + `
		FROM technicians
		WHERE LOWER(name) = LOWER($1)`

	t, err := scanTechnician(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Technician{}, apperr.NotFound(technicianNotFoundMessage)
		}
		return Technician{}, fmt.Errorf("find technician by name: %w", err)
	}

	return t, nil
}

// FindByHandle matches a technician by exact contact handle.
func (r *Repo) FindByHandle(ctx context.Context, handle string) (Technician, error) {
	query := `
		SELECT ` + technicianColumns + `
		FROM technicians
		WHERE handle = $1`

	t, err := scanTechnician(r.pool.QueryRow(ctx, query, handle))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Technician{}, apperr.NotFound(technicianNotFoundMessage)
		}
		return Technician{}, fmt.Errorf("find technician by handle: %w", err)
	}

	return t, nil
}

// Create inserts a technician with the given handle.
func (r *Repo) Create(ctx context.Context, name, handle string) (Technician, error) {
	query := `
		INSERT INTO technicians (name, handle, active)
		VALUES ($1, $2, true)
		RETURNING ` + technicianColumns

	t, err := scanTechnician(r.pool.QueryRow(ctx, query, name, handle))
	if err != nil {
		return Technician{}, fmt.Errorf("create technician: %w", err)
	}

	return t, nil
}

// OldestPlaceholder returns the oldest unresolved placeholder created after
// the cutoff. Oldest-first keeps resolution deterministic when several
// placeholders are outstanding.
func (r *Repo) OldestPlaceholder(ctx context.Context, createdAfter time.Time) (Technician, error) {
	query := `
		SELECT ` + technicianColumns + `
		FROM technicians
		WHERE handle LIKE $1 AND created_at > $2
		ORDER BY id ASC
		LIMIT 1`

	t, err := scanTechnician(r.pool.QueryRow(ctx, query, placeholderPrefix+"%", createdAfter))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Technician{}, apperr.NotFound(technicianNotFoundMessage)
		}
		return Technician{}, fmt.Errorf("oldest placeholder: %w", err)
	}

	return t, nil
}

// UpdateHandle rebinds a technician's contact handle.
func (r *Repo) UpdateHandle(ctx context.Context, id int64, handle string) error {
	query := `UPDATE technicians SET handle = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, handle)
	if err != nil {
		return fmt.Errorf("update technician handle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(technicianNotFoundMessage)
	}

	return nil
}
