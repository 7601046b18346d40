package supplier

import (
	"testing"

	"chemscout/internal/product"
)

func TestScoreExactAndNear(t *testing.T) {
	if s := Score("sodium chloride", "Sodium Chloride"); s != 100 {
		t.Errorf("case-insensitive exact match scored %v, want 100", s)
	}
	if s := Score("sodium chloride", "Sodium Chloride ACS Reagent Grade"); s < 80 {
		t.Errorf("superset title scored %v, want >= 80", s)
	}
	if s := Score("toluene", "Brake Cleaner Aerosol"); s >= 40 {
		t.Errorf("unrelated title scored %v, want < 40", s)
	}
}

func TestScoreTokenOrder(t *testing.T) {
	a := Score("acid hydrochloric", "Hydrochloric Acid 37%")
	b := Score("hydrochloric acid", "Hydrochloric Acid 37%")
	if a < 75 || b < 75 {
		t.Errorf("token order hurt scores too much: %v vs %v", a, b)
	}
}

func TestFilterRelevantCutoffAndOrder(t *testing.T) {
	mk := func(title string) *product.Builder {
		return product.NewBuilder("s").SetBasicInfo(title, "https://x", "s")
	}

	builders := []*product.Builder{
		mk("Motor Oil 5W30"),
		mk("Acetone Technical Grade"),
		mk("Acetone ACS 99.5%"),
		mk("Garden Hose"),
	}

	kept := FilterRelevant("acetone", builders, 40)
	if len(kept) != 2 {
		t.Fatalf("kept %d candidates, want 2", len(kept))
	}
	for _, b := range kept {
		if b.Relevance() < 40 {
			t.Errorf("kept candidate below cutoff: %v", b.Relevance())
		}
	}
	if kept[0].Relevance() < kept[1].Relevance() {
		t.Errorf("not sorted descending by relevance")
	}
}

func TestFilterRelevantStableTies(t *testing.T) {
	mk := func(title string) *product.Builder {
		return product.NewBuilder("s").SetBasicInfo(title, "https://x", "s")
	}
	// Identical titles tie exactly; upstream order must be preserved.
	b1 := mk("Ethanol 95%")
	b2 := mk("Ethanol 95%")
	kept := FilterRelevant("ethanol", []*product.Builder{b1, b2}, 40)
	if len(kept) != 2 || kept[0] != b1 || kept[1] != b2 {
		t.Errorf("tie order not stable")
	}
}
