// Package wix drives Wix-hosted storefronts through the catalog
// reader API. Wix splits variant data across parallel lists (price
// options and quantity options keyed by a shared selection id), which
// is why builders deep-merge variants by key instead of overwriting.
package wix

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chemscout/internal/cache"
	"chemscout/internal/httputil"
	"chemscout/internal/models"
	"chemscout/internal/parse"
	"chemscout/internal/product"
	"chemscout/internal/supplier"
)

func init() {
	supplier.Register("wix", func(def supplier.Definition, deps supplier.Deps) supplier.Strategy {
		return &Strategy{def: def, deps: deps}
	})
}

type Strategy struct {
	def  supplier.Definition
	deps supplier.Deps
}

func (s *Strategy) Name() string { return s.def.Name }

type catalogResponse struct {
	Catalog struct {
		Category struct {
			ProductsWithMetaData struct {
				List []catalogProduct `json:"list"`
			} `json:"productsWithMetaData"`
		} `json:"category"`
	} `json:"catalog"`
}

type catalogProduct struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	URLPart     string  `json:"urlPart"`
	Description string  `json:"description"`
	SKU         string  `json:"sku"`
	Price       float64 `json:"price"`
	Options     []struct {
		Title      string `json:"title"`
		Selections []struct {
			ID          json.Number `json:"id"`
			Value       string      `json:"value"`
			Description string      `json:"description"`
		} `json:"selections"`
	} `json:"options"`
	ProductItems []struct {
		OptionsSelections []json.Number `json:"optionsSelections"`
		Price             float64       `json:"price"`
		SKU               string        `json:"sku"`
	} `json:"productItems"`
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
		if rec.Name == "" || rec.URLPart == "" {
			continue
		}
		b := product.NewBuilder(s.def.Name).
			SetBasicInfo(rec.Name, s.def.BaseURL+"/product-page/"+rec.URLPart, s.def.Name).
			SetID(rec.ID).
			SetSKU(rec.SKU).
			SetDescription(rec.Description).
			SetPricing(rec.Price, s.def.CurrencyCode, s.def.CurrencySymbol).
			SetSupplierCountry(s.def.Country).
			SetSupplierShipping(s.def.Shipping)

		s.mergeVariants(b, rec)
		builders = append(builders, b)
	}

	kept := supplier.FilterRelevant(query, builders, s.deps.FuzzyCutoff)
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept, nil
}

// mergeVariants folds the two halves of the Wix payload into variants.
// productItems carry prices keyed by selection id; option selections
// carry the package-size strings for the same ids. Each half is
// authoritative for its own fields only.
func (s *Strategy) mergeVariants(b *product.Builder, rec catalogProduct) {
	for _, item := range rec.ProductItems {
		if len(item.OptionsSelections) == 0 {
			continue
		}
		key := item.OptionsSelections[0].String()
		b.MergeVariant(key, models.Variant{
			SKU:            item.SKU,
			Price:          item.Price,
			CurrencyCode:   s.def.CurrencyCode,
			CurrencySymbol: s.def.CurrencySymbol,
		})
	}
	for _, opt := range rec.Options {
		for _, sel := range opt.Selections {
			v := models.Variant{Title: sel.Value}
			if q, err := parse.ParseQuantity(sel.Value); err == nil {
				v.Quantity = q.Amount
				v.UOM = q.UOM
			} else if q, err := parse.ParseQuantity(sel.Description); err == nil {
				v.Quantity = q.Amount
				v.UOM = q.UOM
			}
			b.MergeVariant(sel.ID.String(), v)
		}
	}
}

func (s *Strategy) searchRecords(ctx context.Context, query string, limit int) ([]catalogProduct, error) {
	cacheKey := supplier.QueryCacheKey(s.def.Name, query, limit)
	var cached []catalogProduct
	if _, ok := s.deps.QueryCache.GetJSON(ctx, cacheKey, &cached); ok {
		return cached, nil
	}

	if err := s.deps.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"query": fmt.Sprintf(
			`query{catalog{category{productsWithMetaData(limit:%d,filters:{term:{field:"name",op:CONTAINS,values:[%q]}}){list{id name urlPart description sku price options{title selections{id value description}} productItems{optionsSelections price sku}}}}}}`,
			limit, strings.ReplaceAll(query, `"`, "")),
	})
	if err != nil {
		return nil, fmt.Errorf("encode catalog query: %w", err)
	}

	resp, err := s.deps.Decorator.Do(ctx, httputil.Request{
		Method: "POST",
		URL:    s.def.BaseURL + "/_api/catalog-reader-server/graphql",
		Header: httputil.JSONHeaders(s.def.BaseURL),
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Data catalogResponse `json:"data"`
	}
	if err := resp.DecodeJSON(&parsed); err != nil {
		return nil, fmt.Errorf("%w: wix catalog: %v", supplier.ErrResponseShape, err)
	}

	records := parsed.Data.Catalog.Category.ProductsWithMetaData.List
	_ = s.deps.QueryCache.PutJSON(ctx, cacheKey, records, cache.Metadata{
		Query:       query,
		Supplier:    s.def.Name,
		ResultCount: len(records),
	})
	return records, nil
}

// GetProductData is a no-op: the catalog query already returns both
// halves of the variant data.
func (s *Strategy) GetProductData(ctx context.Context, b *product.Builder) error {
	return nil
}
