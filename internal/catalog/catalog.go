// Package catalog provides the pricing catalog and device-model normalization.
// Prices are keyed by canonical model; free-text input resolves through the
// alias table in Normalize before any catalog lookup.
package catalog

import "context"

// Price is a catalog entry for one canonical device model.
type Price struct {
	ID             int64
	Model          string
	UnitPrice      float64
	AccessoryAdder float64
}

// Totals is the pricing breakdown for a job.
type Totals struct {
	UnitWithAdder float64
	Labor         float64
	Grand         float64
	Priced        bool
}

// Store is the persistence interface for catalog entries.
type Store interface {
	// GetPrice returns the entry for a canonical model key.
	// Returns apperr.NotFound when the model has no price set.
	GetPrice(ctx context.Context, model string) (Price, error)

	// SetPrice upserts the entry for a canonical model key.
	SetPrice(ctx context.Context, model string, unit, adder float64) (Price, error)
}

// ComputeTotal calculates the pricing breakdown for qty units. A nil price
// means the model is unpriced: the unit contributes zero and Totals.Priced
// is false so callers can surface it. The accessory adder applies only when
// requested and priced. qty <= 0 is not validated here and yields a
// degenerate total.
func ComputeTotal(p *Price, qty int, includeAccessory bool, laborRatePerUnit float64) Totals {
	var unit, adder float64
	if p != nil {
		unit = p.UnitPrice
		if includeAccessory {
			adder = p.AccessoryAdder
		}
	}

	unitWithAdder := unit + adder
	labor := float64(qty) * laborRatePerUnit

	return Totals{
		UnitWithAdder: unitWithAdder,
		Labor:         labor,
		Grand:         float64(qty)*unitWithAdder + labor,
		Priced:        p != nil,
	}
}
