// Package shopify drives Shopify-hosted chemical storefronts through
// the public suggest and product JSON endpoints.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"chemscout/internal/cache"
	"chemscout/internal/httputil"
	"chemscout/internal/models"
	"chemscout/internal/parse"
	"chemscout/internal/product"
	"chemscout/internal/supplier"
)

func init() {
	supplier.Register("shopify", func(def supplier.Definition, deps supplier.Deps) supplier.Strategy {
		return &Strategy{def: def, deps: deps}
	})
}

type Strategy struct {
	def  supplier.Definition
	deps supplier.Deps
}

func (s *Strategy) Name() string { return s.def.Name }

// suggestResponse is the shape of /search/suggest.json.
type suggestResponse struct {
	Resources struct {
		Results struct {
			Products []suggestProduct `json:"products"`
		} `json:"results"`
	} `json:"resources"`
}

type suggestProduct struct {
	ID     json.Number `json:"id"`
	Title  string      `json:"title"`
	Handle string      `json:"handle"`
	URL    string      `json:"url"`
	Price  string      `json:"price"`
	Vendor string      `json:"vendor"`
	Body   string      `json:"body"`
}

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
		if rec.Title == "" || rec.Handle == "" {
			continue
		}
		b := product.NewBuilder(s.def.Name).
			SetBasicInfo(rec.Title, s.absURL(rec.URL, rec.Handle), s.def.Name).
			SetID(rec.ID.String()).
			SetVendor(rec.Vendor).
			SetDescription(rec.Body).
			SetSupplierCountry(s.def.Country).
			SetSupplierShipping(s.def.Shipping)
		if price, err2 := parsePrice(rec.Price); err2 == nil {
			b.SetPricing(price, s.def.CurrencyCode, s.def.CurrencySymbol)
		}
		builders = append(builders, b)
	}

	kept := supplier.FilterRelevant(query, builders, s.deps.FuzzyCutoff)
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept, nil
}

func (s *Strategy) searchRecords(ctx context.Context, query string, limit int) ([]suggestProduct, error) {
	cacheKey := supplier.QueryCacheKey(s.def.Name, query, limit)
	var cached []suggestProduct
	if _, ok := s.deps.QueryCache.GetJSON(ctx, cacheKey, &cached); ok {
		return cached, nil
	}

	if err := s.deps.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	searchURL := fmt.Sprintf("%s/search/suggest.json?q=%s&resources[type]=product&resources[limit]=%d",
		s.def.BaseURL, url.QueryEscape(query), limit)
	resp, err := s.deps.Decorator.Do(ctx, httputil.Request{
		URL:    searchURL,
		Header: httputil.JSONHeaders(s.def.BaseURL),
	})
	if err != nil {
		return nil, err
	}

	var parsed suggestResponse
	if err := resp.DecodeJSON(&parsed); err != nil {
		return nil, fmt.Errorf("%w: shopify suggest: %v", supplier.ErrResponseShape, err)
	}

	records := parsed.Resources.Results.Products
	_ = s.deps.QueryCache.PutJSON(ctx, cacheKey, records, cache.Metadata{
		Query:       query,
		Supplier:    s.def.Name,
		ResultCount: len(records),
	})
	return records, nil
}

// productJS is the shape of /products/{handle}.js; prices are in
// minor units.
type productJS struct {
	ID          json.Number `json:"id"`
	Description string      `json:"description"`
	Vendor      string      `json:"vendor"`
	Variants    []struct {
		ID    json.Number `json:"id"`
		Title string      `json:"title"`
		SKU   string      `json:"sku"`
		Price json.Number `json:"price"`
		Grams float64     `json:"grams"`
	} `json:"variants"`
}

// GetProductData enriches a builder with the variant list from the
// product detail endpoint. It is a no-op when the builder has no URL.
func (s *Strategy) GetProductData(ctx context.Context, b *product.Builder) error {
	pu := b.URL()
	if pu == "" {
		return nil
	}
	detailURL := strings.TrimSuffix(pu, "/") + ".js"

	req := httputil.Request{URL: detailURL, Header: httputil.JSONHeaders(s.def.BaseURL)}
	cacheKey := s.def.Name + "|" + s.deps.Decorator.Hash(req)

	var detail productJS
	if _, ok := s.deps.DetailCache.GetJSON(ctx, cacheKey, &detail); !ok {
		if err := s.deps.Limiter.Wait(ctx); err != nil {
			return err
		}
		resp, err := s.deps.Decorator.Do(ctx, req)
		if err != nil {
			return err
		}
		if err := resp.DecodeJSON(&detail); err != nil {
			return fmt.Errorf("%w: shopify product.js: %v", supplier.ErrResponseShape, err)
		}
		_ = s.deps.DetailCache.PutJSON(ctx, cacheKey, detail, cache.Metadata{Supplier: s.def.Name})
	}

	b.SetDescription(stripTags(detail.Description)).SetVendor(detail.Vendor)
	for _, v := range detail.Variants {
		minor, err := v.Price.Float64()
		if err != nil {
			continue
		}
		variant := models.Variant{
			ID:             v.ID.String(),
			SKU:            v.SKU,
			Title:          v.Title,
			Price:          minor / 100,
			CurrencyCode:   s.def.CurrencyCode,
			CurrencySymbol: s.def.CurrencySymbol,
		}
		if q, err := parse.ParseQuantity(v.Title); err == nil {
			variant.Quantity = q.Amount
			variant.UOM = q.UOM
		} else if v.Grams > 0 {
			variant.Quantity = v.Grams
			variant.UOM = "g"
		}
		b.AddVariant(variant)
	}
	return nil
}

func (s *Strategy) absURL(raw, handle string) string {
	if raw == "" {
		return s.def.BaseURL + "/products/" + handle
	}
	if strings.HasPrefix(raw, "http") {
		return raw
	}
	return s.def.BaseURL + raw
}

// parsePrice handles "12.50", "$12.50" and locale-formatted variants.
func parsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if raw == "" {
		return 0, fmt.Errorf("empty price")
	}
	return parse.ParseNumber(raw)
}

func stripTags(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
