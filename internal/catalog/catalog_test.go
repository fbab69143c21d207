package catalog

import (
	"context"
	"testing"

	"repairbot/platform/apperr"
)

func TestNormalizeResolvesAliases(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"14 pro max", "14promax"},
		{"14promax", "14promax"},
		{"  14   PRO   MAX  ", "14promax"},
		{"14 Pro", "14pro"},
		{"13 pro max", "13promax"},
		{"16 pro max", "16promax"},
	}

	for _, tc := range cases {
		got, ok := Normalize(tc.in)
		if !ok {
			t.Fatalf("Normalize(%q): expected a match", tc.in)
		}
		if got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeRejectsUnknownInput(t *testing.T) {
	for _, in := range []string{"galaxy s24", "", "   ", "14 pro ultra"} {
		if model, ok := Normalize(in); ok {
			t.Fatalf("Normalize(%q) unexpectedly resolved to %q", in, model)
		}
	}
}

func TestComputeTotalWithAccessory(t *testing.T) {
	p := &Price{Model: "14promax", UnitPrice: 150, AccessoryAdder: 10}

	totals := ComputeTotal(p, 3, true, 50)

	if totals.UnitWithAdder != 160 {
		t.Fatalf("expected unit with adder 160, got %v", totals.UnitWithAdder)
	}
	if totals.Labor != 150 {
		t.Fatalf("expected labor 150, got %v", totals.Labor)
	}
	if totals.Grand != 630 {
		t.Fatalf("expected grand total 630, got %v", totals.Grand)
	}
	if !totals.Priced {
		t.Fatalf("expected totals to be marked priced")
	}
}

func TestComputeTotalWithoutAccessory(t *testing.T) {
	p := &Price{Model: "14promax", UnitPrice: 150, AccessoryAdder: 10}

	totals := ComputeTotal(p, 2, false, 50)

	if totals.UnitWithAdder != 150 {
		t.Fatalf("expected unit with adder 150, got %v", totals.UnitWithAdder)
	}
	if totals.Grand != 400 {
		t.Fatalf("expected grand total 400, got %v", totals.Grand)
	}
}

func TestComputeTotalUnpricedModel(t *testing.T) {
	totals := ComputeTotal(nil, 2, true, 50)

	if totals.Priced {
		t.Fatalf("expected totals to be marked unpriced")
	}
	if totals.UnitWithAdder != 0 {
		t.Fatalf("expected zero unit, got %v", totals.UnitWithAdder)
	}
	if totals.Grand != 100 {
		t.Fatalf("expected grand total 100 (labor only), got %v", totals.Grand)
	}
}

type fakePriceStore struct {
	prices map[string]Price
}

func (f *fakePriceStore) GetPrice(_ context.Context, model string) (Price, error) {
	p, ok := f.prices[model]
	if !ok {
		return Price{}, apperr.NotFound("no price for model")
	}
	return p, nil
}

func (f *fakePriceStore) SetPrice(_ context.Context, model string, unit, adder float64) (Price, error) {
	p := Price{Model: model, UnitPrice: unit, AccessoryAdder: adder}
	f.prices[model] = p
	return p, nil
}

func TestLookupTotalTreatsUnpricedAsZero(t *testing.T) {
	store := &fakePriceStore{prices: map[string]Price{}}

	totals, err := LookupTotal(context.Background(), store, "14promax", 3, true, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.Priced {
		t.Fatalf("expected unpriced totals")
	}
	if totals.Grand != 150 {
		t.Fatalf("expected grand total 150, got %v", totals.Grand)
	}
}

func TestLookupTotalAfterSetPriceThroughAlias(t *testing.T) {
	store := &fakePriceStore{prices: map[string]Price{}}

	model, ok := Normalize("14 pro max")
	if !ok {
		t.Fatalf("expected alias to resolve")
	}
	if _, err := store.SetPrice(context.Background(), model, 150, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	again, ok := Normalize("14promax")
	if !ok || again != model {
		t.Fatalf("expected %q and %q to share a canonical key", "14 pro max", "14promax")
	}

	totals, err := LookupTotal(context.Background(), store, again, 3, true, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.Grand != 630 {
		t.Fatalf("expected grand total 630, got %v", totals.Grand)
	}
}
