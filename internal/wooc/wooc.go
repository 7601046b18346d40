// Package wooc drives WooCommerce storefronts through the public
// Store API (/wp-json/wc/store/v1).
package wooc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"chemscout/internal/cache"
	"chemscout/internal/httputil"
	"chemscout/internal/models"
	"chemscout/internal/parse"
	"chemscout/internal/product"
	"chemscout/internal/supplier"
)

func init() {
	supplier.Register("woocommerce", func(def supplier.Definition, deps supplier.Deps) supplier.Strategy {
		return &Strategy{def: def, deps: deps}
	})
}

type Strategy struct {
	def  supplier.Definition
	deps supplier.Deps
}

func (s *Strategy) Name() string { return s.def.Name }

// storeProduct is one item from the Store API product list. Prices
// come as minor-unit strings with the unit size alongside.
type storeProduct struct {
	ID          json.Number `json:"id"`
	Name        string      `json:"name"`
	Permalink   string      `json:"permalink"`
	SKU         string      `json:"sku"`
	Description string      `json:"short_description"`
	Prices      struct {
		Price             string `json:"price"`
		CurrencyCode      string `json:"currency_code"`
		CurrencySymbol    string `json:"currency_symbol"`
		CurrencyMinorUnit int    `json:"currency_minor_unit"`
	} `json:"prices"`
	Attributes []struct {
		Name  string `json:"name"`
		Terms []struct {
			Name string `json:"name"`
		} `json:"terms"`
	} `json:"attributes"`
	Variations []struct {
		ID         json.Number `json:"id"`
		Attributes []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"attributes"`
	} `json:"variations"`
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
		if rec.Name == "" || rec.Permalink == "" {
			continue
		}
		b := product.NewBuilder(s.def.Name).
			SetBasicInfo(rec.Name, rec.Permalink, s.def.Name).
			SetID(rec.ID.String()).
			SetSKU(rec.SKU).
			SetDescription(rec.Description).
			SetSupplierCountry(s.def.Country).
			SetSupplierShipping(s.def.Shipping)

		price, ok := minorUnitPrice(rec.Prices.Price, rec.Prices.CurrencyMinorUnit)
		if ok {
			b.SetPricing(price, rec.Prices.CurrencyCode, rec.Prices.CurrencySymbol)
		}

		// Package size is usually an attribute term ("500 g", "1 kg").
		for _, attr := range rec.Attributes {
			for _, term := range attr.Terms {
				if q, err := parse.ParseQuantity(term.Name); err == nil && q.UOM != "" {
					b.AddVariant(models.Variant{
						Title:          term.Name,
						Price:          price,
						CurrencyCode:   rec.Prices.CurrencyCode,
						CurrencySymbol: rec.Prices.CurrencySymbol,
						Quantity:       q.Amount,
						UOM:            q.UOM,
					})
				}
			}
		}
		if q, err := parse.ParseQuantity(rec.Name); err == nil && q.UOM != "" {
			b.SetQuantity(q.Amount, q.UOM)
		}

		builders = append(builders, b)
	}

	kept := supplier.FilterRelevant(query, builders, s.deps.FuzzyCutoff)
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept, nil
}

func (s *Strategy) searchRecords(ctx context.Context, query string, limit int) ([]storeProduct, error) {
	cacheKey := supplier.QueryCacheKey(s.def.Name, query, limit)
	var cached []storeProduct
	if _, ok := s.deps.QueryCache.GetJSON(ctx, cacheKey, &cached); ok {
		return cached, nil
	}

	if err := s.deps.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	searchURL := fmt.Sprintf("%s/wp-json/wc/store/v1/products?search=%s&per_page=%d",
		s.def.BaseURL, url.QueryEscape(query), limit)
	resp, err := s.deps.Decorator.Do(ctx, httputil.Request{
		URL:    searchURL,
		Header: httputil.JSONHeaders(s.def.BaseURL),
	})
	if err != nil {
		return nil, err
	}

	var records []storeProduct
	if err := resp.DecodeJSON(&records); err != nil {
		return nil, fmt.Errorf("%w: woocommerce store api: %v", supplier.ErrResponseShape, err)
	}

	_ = s.deps.QueryCache.PutJSON(ctx, cacheKey, records, cache.Metadata{
		Query:       query,
		Supplier:    s.def.Name,
		ResultCount: len(records),
	})
	return records, nil
}

// GetProductData is a no-op for WooCommerce: the Store API list
// response already carries everything the builder needs.
func (s *Strategy) GetProductData(ctx context.Context, b *product.Builder) error {
	return nil
}

func minorUnitPrice(raw string, minorUnit int) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	for i := 0; i < minorUnit; i++ {
		n /= 10
	}
	return n, true
}
