// Package aggregate drives one search across every enabled supplier
// concurrently and multiplexes their results into a single stream.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"chemscout/internal/httputil"
	"chemscout/internal/models"
	"chemscout/internal/product"
	"chemscout/internal/supplier"
)

// defaultMaxConcurrent caps simultaneously querying suppliers so a
// large catalog cannot open an unbounded number of connections.
const defaultMaxConcurrent = 8

// Factory owns one strategy per enabled supplier and runs searches
// against all of them.
type Factory struct {
	strategies    []supplier.Strategy
	maxConcurrent int
	log           *slog.Logger
}

// New builds a factory for the given supplier names; an empty list
// enables the whole catalog. Unknown names are an error so typos in
// --suppliers fail loudly instead of silently searching nothing.
func New(enabled []string, deps supplier.Deps, maxConcurrent int, log *slog.Logger) (*Factory, error) {
	defs := supplier.Catalog
	if len(enabled) > 0 {
		defs = make([]supplier.Definition, 0, len(enabled))
		for _, name := range enabled {
			def, ok := supplier.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("unknown supplier %q", name)
			}
			defs = append(defs, def)
		}
	}

	strategies := make([]supplier.Strategy, 0, len(defs))
	for _, def := range defs {
		st, err := supplier.New(def, deps)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, st)
	}
	return NewFromStrategies(strategies, maxConcurrent, log), nil
}

// NewFromStrategies builds a factory over explicit strategies. Tests
// use it to inject fakes.
func NewFromStrategies(strategies []supplier.Strategy, maxConcurrent int, log *slog.Logger) *Factory {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	if log == nil {
		log = slog.Default()
	}
	return &Factory{strategies: strategies, maxConcurrent: maxConcurrent, log: log}
}

// Subset returns a factory limited to the named suppliers, sharing
// this factory's strategies and settings.
func (f *Factory) Subset(names []string) (*Factory, error) {
	if len(names) == 0 {
		return f, nil
	}
	subset := make([]supplier.Strategy, 0, len(names))
	for _, name := range names {
		found := false
		for _, st := range f.strategies {
			if st.Name() == name {
				subset = append(subset, st)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown supplier %q", name)
		}
	}
	return &Factory{strategies: subset, maxConcurrent: f.maxConcurrent, log: f.log}, nil
}

// Suppliers returns the names of the suppliers this factory queries.
func (f *Factory) Suppliers() []string {
	names := make([]string, len(f.strategies))
	for i, st := range f.strategies {
		names[i] = st.Name()
	}
	return names
}

// Search fans the query out to every supplier concurrently and
// returns a channel of builders in arrival order: whichever supplier
// answers first is forwarded first, with each supplier's own
// relevance ordering preserved within its run.
//
// The channel closes when every supplier has finished or ctx is
// canceled. Cancellation is a normal terminal state: in-flight
// requests are aborted and the stream ends cleanly, never with an
// error. A supplier that fails (bad payload, HTTP error, network
// fault) is logged and contributes zero results; it cannot end the
// stream early.
//
// Builders on the channel are not guaranteed to Build; the consumer
// drops the incomplete ones (see Collect).
func (f *Factory) Search(ctx context.Context, query string, limit int) <-chan *product.Builder {
	out := make(chan *product.Builder)
	sem := semaphore.NewWeighted(int64(f.maxConcurrent))

	var wg sync.WaitGroup
	for _, st := range f.strategies {
		wg.Add(1)
		go func(st supplier.Strategy) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)
			f.runSupplier(ctx, st, query, limit, out)
		}(st)
	}

	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// runSupplier is the per-supplier producer. All failure handling for
// one supplier lives here; nothing escapes to the aggregate stream.
func (f *Factory) runSupplier(ctx context.Context, st supplier.Strategy, query string, limit int, out chan<- *product.Builder) {
	supplier.Progress(ctx, "querying %s...", st.Name())

	builders, err := st.QueryProducts(ctx, query, limit)
	if err != nil {
		if httputil.IsCancellation(err) {
			return
		}
		f.log.Warn("supplier query failed",
			"supplier", st.Name(), "query", query, "error", err)
		return
	}

	sent := 0
	for _, b := range builders {
		if err := st.GetProductData(ctx, b); err != nil {
			if httputil.IsCancellation(err) {
				return
			}
			// The builder may still be complete from search data
			// alone; let Build decide.
			f.log.Debug("detail fetch failed",
				"supplier", st.Name(), "url", b.URL(), "error", err)
		}

		select {
		case out <- b:
			sent++
		case <-ctx.Done():
			return
		}
	}
	supplier.Progress(ctx, "%s: %d results", st.Name(), sent)
}

// Collect consumes a full search, builds every streamed builder, and
// returns the valid products. Builders missing required fields are
// dropped and do not count toward the result set.
func (f *Factory) Collect(ctx context.Context, query string, limit int) []*models.Product {
	var products []*models.Product
	for b := range f.Search(ctx, query, limit) {
		p, err := b.Build()
		if err != nil {
			if !errors.Is(err, product.ErrIncompleteProduct) {
				f.log.Warn("builder failed", "supplier", b.Supplier(), "error", err)
			}
			continue
		}
		products = append(products, p)
	}
	return products
}

// Detail runs a single supplier's detail fetch for a known product
// URL, returning the built product.
func (f *Factory) Detail(ctx context.Context, supplierName, url string) (*models.Product, error) {
	for _, st := range f.strategies {
		if st.Name() != supplierName {
			continue
		}
		b := product.NewBuilder(supplierName).SetBasicInfo("", url, supplierName)
		if err := st.GetProductData(ctx, b); err != nil {
			return nil, fmt.Errorf("detail fetch from %s: %w", supplierName, err)
		}
		p, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("detail from %s: %w", supplierName, err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("supplier %q not enabled", supplierName)
}
