package supplier

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"chemscout/internal/cache"
	"chemscout/internal/httputil"
	"chemscout/internal/product"
)

// Strategy is the per-supplier plugin contract. One instance serves
// one storefront.
//
// A strategy that cannot parse an upstream response must log and
// return zero builders rather than fail the aggregate search; only the
// aggregator decides what a supplier-level error means.
type Strategy interface {
	// Name returns the supplier name the strategy was built for.
	Name() string

	// QueryProducts issues the search request(s), applies fuzzy
	// relevance filtering, and returns at most limit builders sorted
	// by relevance.
	QueryProducts(ctx context.Context, query string, limit int) ([]*product.Builder, error)

	// GetProductData enriches a builder with detail-page data. It is
	// idempotent and may be a no-op when search results are already
	// complete.
	GetProductData(ctx context.Context, b *product.Builder) error
}

// Definition describes one concrete storefront: which family strategy
// drives it and the static facts the builders inherit.
type Definition struct {
	Name           string `json:"name"`
	Family         string `json:"family"`
	BaseURL        string `json:"base_url"`
	CurrencyCode   string `json:"currency_code"`
	CurrencySymbol string `json:"currency_symbol"`
	Country        string `json:"country"`
	Shipping       string `json:"shipping"`
}

// Deps carries the shared collaborators every family constructor
// receives. Caches are shared mutable state across concurrently
// running strategies; their own locking serializes mutation.
type Deps struct {
	Client      *http.Client
	Decorator   *httputil.Decorator
	QueryCache  *cache.Cache
	DetailCache *cache.Cache
	Limiter     *rate.Limiter
	FuzzyCutoff float64
}

// Catalog is the built-in set of storefronts chemscout knows how to
// query. Names are what users pass to --suppliers.
var Catalog = []Definition{
	{Name: "synthlab", Family: "shopify", BaseURL: "https://shop.synthlab-supply.com", CurrencyCode: "USD", CurrencySymbol: "$", Country: "US", Shipping: "worldwide"},
	{Name: "reagentor", Family: "shopify", BaseURL: "https://reagentor.eu", CurrencyCode: "EUR", CurrencySymbol: "€", Country: "DE", Shipping: "eu"},
	{Name: "labderve", Family: "woocommerce", BaseURL: "https://labderve.com", CurrencyCode: "USD", CurrencySymbol: "$", Country: "US", Shipping: "domestic"},
	{Name: "chemcraft", Family: "woocommerce", BaseURL: "https://chemcraft.store", CurrencyCode: "GBP", CurrencySymbol: "£", Country: "UK", Shipping: "worldwide"},
	{Name: "pureware", Family: "wix", BaseURL: "https://www.pureware-chem.com", CurrencyCode: "USD", CurrencySymbol: "$", Country: "US", Shipping: "domestic"},
	{Name: "hexatrade", Family: "webstore", BaseURL: "https://hexatrade.example.pl", CurrencyCode: "EUR", CurrencySymbol: "€", Country: "PL", Shipping: "eu"},
}

// Lookup finds a catalog definition by supplier name.
func Lookup(name string) (Definition, bool) {
	for _, def := range Catalog {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// QueryCacheKey is the query-cache key for one supplier's search.
func QueryCacheKey(name, query string, limit int) string {
	return fmt.Sprintf("%s|%s|%d", name, strings.ToLower(strings.TrimSpace(query)), limit)
}
