package catalog

import (
	"context"

	"repairbot/platform/apperr"
)

// LookupTotal resolves the catalog entry for a model and computes the
// pricing breakdown. An unpriced model is not an error: the breakdown is
// computed with a zero unit and Totals.Priced set false. Intake completion
// and /total share this path so both always show the same grand total.
func LookupTotal(ctx context.Context, store Store, model string, qty int, includeAccessory bool, laborRate float64) (Totals, error) {
	var entry *Price

	if model != "" {
		p, err := store.GetPrice(ctx, model)
		switch {
		case err == nil:
			entry = &p
		case apperr.Is(err, apperr.KindNotFound):
			// unpriced model, totals still computable
		default:
			return Totals{}, err
		}
	}

	return ComputeTotal(entry, qty, includeAccessory, laborRate), nil
}
