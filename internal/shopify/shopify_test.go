package shopify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"chemscout/internal/cache"
	"chemscout/internal/httputil"
	"chemscout/internal/supplier"
)

const suggestPayload = `{
  "resources": {
    "results": {
      "products": [
        {"id": 101, "title": "Sodium Borohydride 98%", "handle": "sodium-borohydride", "url": "/products/sodium-borohydride", "price": "24.50", "vendor": "SynthLab"},
        {"id": 102, "title": "Glassware Drying Rack", "handle": "drying-rack", "url": "/products/drying-rack", "price": "89.00", "vendor": "SynthLab"}
      ]
    }
  }
}`

const productJSPayload = `{
  "id": 101,
  "description": "<p>White crystalline powder.</p>",
  "vendor": "SynthLab",
  "variants": [
    {"id": 1011, "title": "25 g", "sku": "SB-25", "price": 2450, "grams": 25},
    {"id": 1012, "title": "100 g", "sku": "SB-100", "price": 7900, "grams": 100},
    {"id": 1013, "title": "Default Title", "sku": "SB-X", "price": 500, "grams": 10}
  ]
}`

func newTestStrategy(t *testing.T, handler http.Handler) (*Strategy, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	deps := supplier.Deps{
		Client:      srv.Client(),
		Decorator:   httputil.NewDecorator(srv.Client(), 0),
		QueryCache:  cache.New("queries", 10, cache.NewMemoryStore()),
		DetailCache: cache.New("details", 10, cache.NewMemoryStore()),
		Limiter:     rate.NewLimiter(rate.Inf, 1),
		FuzzyCutoff: supplier.DefaultFuzzyCutoff,
	}
	def := supplier.Definition{
		Name: "synthlab", Family: "shopify", BaseURL: srv.URL,
		CurrencyCode: "USD", CurrencySymbol: "$", Country: "US", Shipping: "worldwide",
	}
	return &Strategy{def: def, deps: deps}, srv
}

func TestQueryProductsFiltersIrrelevant(t *testing.T) {
	var hits atomic.Int64
	s, _ := newTestStrategy(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/suggest.json", r.URL.Path)
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(suggestPayload))
	}))

	builders, err := s.QueryProducts(context.Background(), "sodium borohydride", 10)
	require.NoError(t, err)
	// The drying rack scores below the cutoff and is filtered out.
	require.Len(t, builders, 1)
	require.Equal(t, "Sodium Borohydride 98%", builders[0].Title())
	require.Greater(t, builders[0].Relevance(), float64(supplier.DefaultFuzzyCutoff))

	// Second identical query is served from the query cache.
	_, err = s.QueryProducts(context.Background(), "sodium borohydride", 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), hits.Load())
}

func TestGetProductDataAddsVariants(t *testing.T) {
	var detailHits atomic.Int64
	s, _ := newTestStrategy(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search/suggest.json":
			w.Write([]byte(suggestPayload))
		case "/products/sodium-borohydride.js":
			detailHits.Add(1)
			w.Write([]byte(productJSPayload))
		default:
			http.NotFound(w, r)
		}
	}))

	builders, err := s.QueryProducts(context.Background(), "sodium borohydride", 10)
	require.NoError(t, err)
	require.Len(t, builders, 1)

	b := builders[0]
	require.NoError(t, s.GetProductData(context.Background(), b))

	p, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, "White crystalline powder.", p.Description)
	require.Len(t, p.Variants, 3)

	// Minor-unit prices and the "25 g" title quantity.
	require.Equal(t, 24.50, p.Variants[0].Price)
	require.Equal(t, 25.0, p.Variants[0].Quantity)
	require.Equal(t, "g", p.Variants[0].UOM)

	// Variant without a parseable size falls back to grams.
	require.Equal(t, 10.0, p.Variants[2].Quantity)
	require.Equal(t, "g", p.Variants[2].UOM)

	// Enriching again hits the detail cache, not the server.
	require.NoError(t, s.GetProductData(context.Background(), b))
	require.Equal(t, int64(1), detailHits.Load())
}

func TestQueryProductsBadPayload(t *testing.T) {
	s, _ := newTestStrategy(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"resources": "nope"}`))
	}))

	_, err := s.QueryProducts(context.Background(), "acetone", 10)
	require.ErrorIs(t, err, supplier.ErrResponseShape)
}
