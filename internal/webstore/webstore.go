// Package webstore drives bespoke HTML storefronts that expose no
// stable JSON API. It fetches the search page, pulls Product objects
// out of JSON-LD script tags, and falls back to a headless browser
// when the page is rendered client-side.
package webstore

import (
	"context"
	"fmt"
	"net/url"

	"chemscout/internal/cache"
	"chemscout/internal/httputil"
	"chemscout/internal/product"
	"chemscout/internal/supplier"
)

func init() {
	supplier.Register("webstore", func(def supplier.Definition, deps supplier.Deps) supplier.Strategy {
		return &Strategy{def: def, deps: deps, headless: newHeadlessFetcher()}
	})
}

type Strategy struct {
	def      supplier.Definition
	deps     supplier.Deps
	headless *headlessFetcher
}

func (s *Strategy) Name() string { return s.def.Name }

func (s *Strategy) QueryProducts(ctx context.Context, query string, limit int) ([]*product.Builder, error) {
	if limit <= 0 {
		limit = 20
	}

	records, err := s.searchRecords(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	builders := make([]*product.Builder, 0, len(records))
	for _, rec := range records {
		b, ok := s.builderFromRecord(rec)
		if ok {
			builders = append(builders, b)
		}
	}

	kept := supplier.FilterRelevant(query, builders, s.deps.FuzzyCutoff)
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept, nil
}

func (s *Strategy) searchRecords(ctx context.Context, query string, limit int) ([]ldProduct, error) {
	cacheKey := supplier.QueryCacheKey(s.def.Name, query, limit)
	var cached []ldProduct
	if _, ok := s.deps.QueryCache.GetJSON(ctx, cacheKey, &cached); ok {
		return cached, nil
	}

	if err := s.deps.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	searchURL := fmt.Sprintf("%s/search?q=%s", s.def.BaseURL, url.QueryEscape(query))
	resp, err := s.deps.Decorator.Do(ctx, httputil.Request{
		URL:    searchURL,
		Header: httputil.BrowserHeaders(),
	})
	if err != nil {
		return nil, err
	}
	if resp.Kind != httputil.KindText {
		return nil, fmt.Errorf("%w: expected html page, got %s", supplier.ErrResponseShape, resp.Kind)
	}

	records, err := extractJSONLD(resp.Text())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", supplier.ErrResponseShape, err)
	}

	// Client-side rendered pages carry no JSON-LD in their static
	// HTML; rendering them is slow, so it is strictly a fallback.
	if len(records) == 0 {
		records, err = s.headless.fetchProducts(ctx, searchURL)
		if err != nil {
			return nil, err
		}
	}

	_ = s.deps.QueryCache.PutJSON(ctx, cacheKey, records, cache.Metadata{
		Query:       query,
		Supplier:    s.def.Name,
		ResultCount: len(records),
	})
	return records, nil
}

// GetProductData enriches a builder from its detail page when the
// search card carried no offer data.
func (s *Strategy) GetProductData(ctx context.Context, b *product.Builder) error {
	pageURL := b.URL()
	if pageURL == "" {
		return nil
	}

	req := httputil.Request{URL: pageURL, Header: httputil.BrowserHeaders()}
	cacheKey := s.def.Name + "|" + s.deps.Decorator.Hash(req)

	var records []ldProduct
	if _, ok := s.deps.DetailCache.GetJSON(ctx, cacheKey, &records); !ok {
		if err := s.deps.Limiter.Wait(ctx); err != nil {
			return err
		}
		resp, err := s.deps.Decorator.Do(ctx, req)
		if err != nil {
			return err
		}
		records, err = extractJSONLD(resp.Text())
		if err != nil {
			return fmt.Errorf("%w: %v", supplier.ErrResponseShape, err)
		}
		_ = s.deps.DetailCache.PutJSON(ctx, cacheKey, records, cache.Metadata{Supplier: s.def.Name})
	}

	for _, rec := range records {
		s.applyRecord(b, rec)
	}
	return nil
}

func (s *Strategy) builderFromRecord(rec ldProduct) (*product.Builder, bool) {
	if rec.Name == "" {
		return nil, false
	}
	b := product.NewBuilder(s.def.Name).
		SetBasicInfo(rec.Name, s.absURL(rec.URL), s.def.Name).
		SetSupplierCountry(s.def.Country).
		SetSupplierShipping(s.def.Shipping)
	s.applyRecord(b, rec)
	return b, true
}

// applyRecord copies whatever a JSON-LD record carries onto the
// builder. Records from detail pages are usually richer than the
// search cards.
func (s *Strategy) applyRecord(b *product.Builder, rec ldProduct) {
	b.SetDescription(rec.Description).SetSKU(rec.SKU)
	if rec.Brand != nil {
		b.SetVendor(rec.Brand.Name)
	}
	b.SetCAS(rec.CAS())
	if q, err := rec.PackSize(); err == nil {
		b.SetQuantity(q.Amount, q.UOM)
	}
	for _, offer := range rec.AllOffers() {
		price, err := offer.PriceValue()
		if err != nil {
			continue
		}
		code := offer.PriceCurrency
		if code == "" {
			code = s.def.CurrencyCode
		}
		b.SetPricing(price, code, s.def.CurrencySymbol)
	}
}

func (s *Strategy) absURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.IsAbs() {
		return raw
	}
	base, err := url.Parse(s.def.BaseURL)
	if err != nil {
		return raw
	}
	return base.ResolveReference(u).String()
}
