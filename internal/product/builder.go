package product

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"chemscout/internal/models"
	"chemscout/internal/parse"
)

// ErrIncompleteProduct is returned by Build when the accumulated data
// does not amount to a displayable product.
var ErrIncompleteProduct = errors.New("incomplete product")

// Builder accumulates partial, inconsistent upstream fields into a
// normalized Product. Setters are chainable and tolerant: a setter fed
// garbage leaves the builder unchanged rather than failing, and the
// final Build call decides whether enough survived.
//
// A Builder is not safe for concurrent use; each raw upstream record
// gets its own.
type Builder struct {
	p        models.Product
	variants map[string]*models.Variant // keyed by option id for deep-merge
	order    []string                   // insertion order of variant keys
	score    float64
}

// NewBuilder creates an empty builder for the given supplier.
func NewBuilder(supplier string) *Builder {
	return &Builder{
		p:        models.Product{Supplier: supplier, UUID: uuid.NewString()},
		variants: make(map[string]*models.Variant),
	}
}

func (b *Builder) SetBasicInfo(title, url, supplier string) *Builder {
	if title != "" {
		b.p.Title = title
	}
	if url != "" {
		b.p.URL = url
	}
	if supplier != "" {
		b.p.Supplier = supplier
	}
	return b
}

func (b *Builder) SetDescription(desc string) *Builder {
	if desc != "" {
		b.p.Description = desc
	}
	return b
}

func (b *Builder) SetID(id string) *Builder {
	if id != "" {
		b.p.ID = id
	}
	return b
}

func (b *Builder) SetSKU(sku string) *Builder {
	if sku != "" {
		b.p.SKU = sku
	}
	return b
}

func (b *Builder) SetVendor(vendor string) *Builder {
	if vendor != "" {
		b.p.Vendor = vendor
	}
	return b
}

// SetCAS records a CAS registry number, dropping values that fail the
// checksum instead of storing junk scraped off a detail page.
func (b *Builder) SetCAS(cas string) *Builder {
	if parse.ValidCAS(cas) {
		b.p.CAS = cas
	}
	return b
}

func (b *Builder) SetPricing(price float64, currencyCode, currencySymbol string) *Builder {
	if price > 0 {
		b.p.Price = price
	}
	if currencyCode != "" {
		b.p.CurrencyCode = currencyCode
	}
	if currencySymbol != "" {
		b.p.CurrencySymbol = currencySymbol
	}
	return b
}

// SetQuantity records the top-level quantity, normalizing the unit via
// the alias table when it is recognized.
func (b *Builder) SetQuantity(qty float64, uom string) *Builder {
	if qty > 0 {
		b.p.Quantity = qty
	}
	if uom != "" {
		if canon, ok := parse.NormalizeUOM(uom); ok {
			uom = canon
		}
		b.p.UOM = uom
	}
	return b
}

// SetQuantityString parses a raw "500 g" style string. Unparseable
// input is ignored.
func (b *Builder) SetQuantityString(raw string) *Builder {
	q, err := parse.ParseQuantity(raw)
	if err != nil {
		return b
	}
	return b.SetQuantity(q.Amount, q.UOM)
}

func (b *Builder) SetSupplierCountry(country string) *Builder {
	if country != "" {
		b.p.Country = country
	}
	return b
}

func (b *Builder) SetSupplierShipping(shipping string) *Builder {
	if shipping != "" {
		b.p.Shipping = shipping
	}
	return b
}

// SetRelevance stores the fuzzy-match score used for sorting.
func (b *Builder) SetRelevance(score float64) *Builder {
	b.score = score
	return b
}

// Relevance returns the fuzzy-match score recorded by SetRelevance.
func (b *Builder) Relevance() float64 { return b.score }

// Title returns the accumulated title, for relevance filtering before
// the product is built.
func (b *Builder) Title() string { return b.p.Title }

// Supplier returns the supplier name the builder was created for.
func (b *Builder) Supplier() string { return b.p.Supplier }

// URL returns the accumulated product URL.
func (b *Builder) URL() string { return b.p.URL }

// AddVariant appends a variant option. Variants without an ID are kept
// under a synthetic key so they never collide.
func (b *Builder) AddVariant(v models.Variant) *Builder {
	key := v.ID
	if key == "" {
		key = fmt.Sprintf("_anon%d", len(b.order))
	}
	return b.MergeVariant(key, v)
}

func (b *Builder) AddVariants(vs []models.Variant) *Builder {
	for _, v := range vs {
		b.AddVariant(v)
	}
	return b
}

// MergeVariant deep-merges a partial variant record under the given
// option key. Upstream payloads (Wix in particular) split price data
// and quantity data into separate lists sharing a selection id; each
// partial record is authoritative for disjoint fields only, so zero
// fields are filled in and non-zero fields are never overwritten.
func (b *Builder) MergeVariant(key string, v models.Variant) *Builder {
	if v.UOM != "" {
		if canon, ok := parse.NormalizeUOM(v.UOM); ok {
			v.UOM = canon
		}
	}

	existing, ok := b.variants[key]
	if !ok {
		if v.ID == "" {
			v.ID = key
		}
		copied := v
		b.variants[key] = &copied
		b.order = append(b.order, key)
		return b
	}

	if existing.SKU == "" {
		existing.SKU = v.SKU
	}
	if existing.Title == "" {
		existing.Title = v.Title
	}
	if existing.Price == 0 {
		existing.Price = v.Price
	}
	if existing.CurrencyCode == "" {
		existing.CurrencyCode = v.CurrencyCode
	}
	if existing.CurrencySymbol == "" {
		existing.CurrencySymbol = v.CurrencySymbol
	}
	if existing.Quantity == 0 {
		existing.Quantity = v.Quantity
	}
	if existing.UOM == "" {
		existing.UOM = v.UOM
	}
	return b
}

// Build finalizes the product. It fails with ErrIncompleteProduct
// unless a title, URL, supplier name and at least one variant with a
// resolvable price and quantity are present. A builder that only
// carries top-level pricing synthesizes its default variant from it.
func (b *Builder) Build() (*models.Product, error) {
	p := b.p

	for _, key := range b.order {
		v := *b.variants[key]
		if v.CurrencyCode == "" {
			v.CurrencyCode = p.CurrencyCode
		}
		if v.CurrencySymbol == "" {
			v.CurrencySymbol = p.CurrencySymbol
		}
		p.Variants = append(p.Variants, v)
	}

	if len(p.Variants) == 0 && p.Price > 0 && p.Quantity > 0 {
		p.Variants = []models.Variant{{
			ID:             p.ID,
			SKU:            p.SKU,
			Price:          p.Price,
			CurrencyCode:   p.CurrencyCode,
			CurrencySymbol: p.CurrencySymbol,
			Quantity:       p.Quantity,
			UOM:            p.UOM,
		}}
	}

	switch {
	case p.Title == "":
		return nil, fmt.Errorf("%w: missing title", ErrIncompleteProduct)
	case p.URL == "":
		return nil, fmt.Errorf("%w: missing url", ErrIncompleteProduct)
	case p.Supplier == "":
		return nil, fmt.Errorf("%w: missing supplier", ErrIncompleteProduct)
	}

	resolvable := false
	for _, v := range p.Variants {
		if v.Resolvable() {
			resolvable = true
			break
		}
	}
	if !resolvable {
		return nil, fmt.Errorf("%w: no variant with resolvable price and quantity", ErrIncompleteProduct)
	}

	// Promote the first resolvable variant into the top-level
	// commercial fields when they are unset.
	if p.Price == 0 || p.Quantity == 0 {
		for _, v := range p.Variants {
			if v.Resolvable() {
				if p.Price == 0 {
					p.Price = v.Price
				}
				if p.Quantity == 0 {
					p.Quantity = v.Quantity
					p.UOM = v.UOM
				}
				if p.CurrencyCode == "" {
					p.CurrencyCode = v.CurrencyCode
				}
				if p.CurrencySymbol == "" {
					p.CurrencySymbol = v.CurrencySymbol
				}
				break
			}
		}
	}

	p.Relevance = b.score
	p.FetchedAt = time.Now()
	return &p, nil
}
