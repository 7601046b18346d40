package product

import (
	"errors"
	"testing"

	"chemscout/internal/models"
)

func TestBuildRequiresBasicInfo(t *testing.T) {
	b := NewBuilder("labstock")
	b.AddVariant(models.Variant{Price: 12.5, Quantity: 500, UOM: "g"})

	if _, err := b.Build(); !errors.Is(err, ErrIncompleteProduct) {
		t.Fatalf("Build() without title/url error = %v, want ErrIncompleteProduct", err)
	}

	b.SetBasicInfo("Sodium Chloride ACS", "https://labstock.example/nacl", "")
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if p.Title != "Sodium Chloride ACS" || p.Supplier != "labstock" {
		t.Errorf("unexpected product identity: %+v", p)
	}
}

func TestBuildRequiresResolvableVariant(t *testing.T) {
	b := NewBuilder("labstock").
		SetBasicInfo("Acetone", "https://labstock.example/acetone", "labstock")

	if _, err := b.Build(); !errors.Is(err, ErrIncompleteProduct) {
		t.Fatalf("Build() without variants error = %v, want ErrIncompleteProduct", err)
	}

	// A variant missing quantity is still unresolvable.
	b.AddVariant(models.Variant{ID: "v1", Price: 9.99})
	if _, err := b.Build(); !errors.Is(err, ErrIncompleteProduct) {
		t.Fatalf("Build() with price-only variant error = %v, want ErrIncompleteProduct", err)
	}

	b.AddVariant(models.Variant{ID: "v2", Price: 9.99, Quantity: 1, UOM: "L"})
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if len(p.Variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(p.Variants))
	}
	if p.Price != 9.99 || p.Quantity != 1 || p.UOM != "L" {
		t.Errorf("top-level commercial fields not promoted: %+v", p)
	}
}

func TestBuildSynthesizesDefaultVariant(t *testing.T) {
	p, err := NewBuilder("labstock").
		SetBasicInfo("Ethanol 96%", "https://labstock.example/etoh", "labstock").
		SetPricing(19.5, "EUR", "€").
		SetQuantity(1000, "ml").
		Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if len(p.Variants) != 1 {
		t.Fatalf("got %d variants, want 1 synthesized", len(p.Variants))
	}
	v := p.Variants[0]
	if v.Price != 19.5 || v.Quantity != 1000 || v.UOM != "mL" || v.CurrencyCode != "EUR" {
		t.Errorf("synthesized variant = %+v", v)
	}
}

func TestMergeVariantByKey(t *testing.T) {
	// Wix-style split payload: price list and quantity list share a
	// selection id and must deep-merge, not overwrite.
	b := NewBuilder("chemwix").
		SetBasicInfo("Potassium Iodide", "https://chemwix.example/ki", "chemwix")

	b.MergeVariant("opt-1", models.Variant{Price: 14, CurrencyCode: "USD"})
	b.MergeVariant("opt-2", models.Variant{Price: 55, CurrencyCode: "USD"})
	b.MergeVariant("opt-1", models.Variant{Quantity: 100, UOM: "grams", SKU: "KI-100"})
	b.MergeVariant("opt-2", models.Variant{Quantity: 500, UOM: "grams"})

	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if len(p.Variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(p.Variants))
	}

	first := p.Variants[0]
	if first.ID != "opt-1" || first.Price != 14 || first.Quantity != 100 || first.UOM != "g" || first.SKU != "KI-100" {
		t.Errorf("merged variant = %+v", first)
	}

	// Merging must not clobber fields the first record owned.
	b2 := NewBuilder("chemwix").SetBasicInfo("X", "https://x", "chemwix")
	b2.MergeVariant("k", models.Variant{Price: 10, Quantity: 5, UOM: "g"})
	b2.MergeVariant("k", models.Variant{Price: 99, Quantity: 77})
	p2, err := b2.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if p2.Variants[0].Price != 10 || p2.Variants[0].Quantity != 5 {
		t.Errorf("merge overwrote authoritative fields: %+v", p2.Variants[0])
	}
}

func TestVariantOrderPreserved(t *testing.T) {
	b := NewBuilder("s").SetBasicInfo("T", "https://u", "s")
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		b.AddVariant(models.Variant{ID: id, Price: 1, Quantity: 1, UOM: "g"})
	}
	p, err := b.Build()
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	for i, id := range ids {
		if p.Variants[i].ID != id {
			t.Fatalf("variant order changed: %+v", p.Variants)
		}
	}
}

func TestSetCASRejectsBadChecksum(t *testing.T) {
	b := NewBuilder("s").SetCAS("7732-18-4")
	if b.p.CAS != "" {
		t.Errorf("invalid CAS stored: %q", b.p.CAS)
	}
	b.SetCAS("7732-18-5")
	if b.p.CAS != "7732-18-5" {
		t.Errorf("valid CAS not stored: %q", b.p.CAS)
	}
}

func TestSetQuantityString(t *testing.T) {
	b := NewBuilder("s")
	b.SetQuantityString("1,234.56 g")
	if b.p.Quantity != 1234.56 || b.p.UOM != "g" {
		t.Errorf("got %v %q", b.p.Quantity, b.p.UOM)
	}
	b.SetQuantityString("garbage") // ignored
	if b.p.Quantity != 1234.56 {
		t.Errorf("unparseable quantity clobbered prior value")
	}
}
