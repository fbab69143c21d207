package catalog

import (
	"context"
	"errors"
	"fmt"

	"repairbot/platform/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const priceNotFoundMessage = "no price set for model"

// Repo implements Store with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo creates a new catalog repository.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Store.
var _ Store = (*Repo)(nil)

// GetPrice retrieves the price entry for a canonical model key.
func (r *Repo) GetPrice(ctx context.Context, model string) (Price, error) {
	query := `
		SELECT id, model, unit_price, accessory_adder
		FROM prices
		WHERE model = $1`

	var p Price
	err := r.pool.QueryRow(ctx, query, model).Scan(&p.ID, &p.Model, &p.UnitPrice, &p.AccessoryAdder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Price{}, apperr.NotFound(priceNotFoundMessage)
		}
		return Price{}, fmt.Errorf("get price: %w", err)
	}

	return p, nil
}

// SetPrice upserts the price entry for a canonical model key.
func (r *Repo) SetPrice(ctx context.Context, model string, unit, adder float64) (Price, error) {
	query := `
		INSERT INTO prices (model, unit_price, accessory_adder)
		VALUES ($1, $2, $3)
		ON CONFLICT (model) DO UPDATE
		SET unit_price = EXCLUDED.unit_price, accessory_adder = EXCLUDED.accessory_adder
		RETURNING id, model, unit_price, accessory_adder`

	var p Price
	err := r.pool.QueryRow(ctx, query, model, unit, adder).Scan(&p.ID, &p.Model, &p.UnitPrice, &p.AccessoryAdder)
	if err != nil {
		return Price{}, fmt.Errorf("set price: %w", err)
	}

	return p, nil
}
