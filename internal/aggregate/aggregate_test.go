package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chemscout/internal/product"
	"chemscout/internal/supplier"
)

// fakeStrategy answers a query after a fixed delay with canned
// titles, or fails with err.
type fakeStrategy struct {
	name   string
	delay  time.Duration
	titles []string
	err    error
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) QueryProducts(ctx context.Context, query string, limit int) ([]*product.Builder, error) {
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	builders := make([]*product.Builder, 0, len(f.titles))
	for i, title := range f.titles {
		b := product.NewBuilder(f.name).
			SetBasicInfo(title, fmt.Sprintf("https://%s.example/p/%d", f.name, i), f.name).
			SetPricing(19.99, "USD", "$").
			SetQuantity(500, "g")
		builders = append(builders, b)
	}
	return builders, nil
}

func (f *fakeStrategy) GetProductData(ctx context.Context, b *product.Builder) error {
	return nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestSearchRunsSuppliersConcurrently(t *testing.T) {
	f := NewFromStrategies([]supplier.Strategy{
		&fakeStrategy{name: "slow", delay: 200 * time.Millisecond, titles: []string{"acetone"}},
		&fakeStrategy{name: "mid", delay: 100 * time.Millisecond, titles: []string{"acetone"}},
		&fakeStrategy{name: "fast", delay: 50 * time.Millisecond, titles: []string{"acetone"}},
	}, 8, discard)

	start := time.Now()
	products := f.Collect(context.Background(), "acetone", 10)
	elapsed := time.Since(start)

	require.Len(t, products, 3)
	// Sequential execution would take at least 350ms.
	require.Less(t, elapsed, 320*time.Millisecond, "suppliers ran sequentially")
}

func TestSearchArrivalOrder(t *testing.T) {
	f := NewFromStrategies([]supplier.Strategy{
		&fakeStrategy{name: "slow", delay: 150 * time.Millisecond, titles: []string{"s1", "s2"}},
		&fakeStrategy{name: "fast", delay: 10 * time.Millisecond, titles: []string{"f1", "f2"}},
	}, 8, discard)

	var order []string
	for b := range f.Search(context.Background(), "q", 10) {
		order = append(order, b.Supplier())
	}
	require.Equal(t, []string{"fast", "fast", "slow", "slow"}, order)
}

func TestSearchFaultIsolation(t *testing.T) {
	f := NewFromStrategies([]supplier.Strategy{
		&fakeStrategy{name: "broken", delay: 5 * time.Millisecond, err: errors.New("upstream 500")},
		&fakeStrategy{name: "healthy", delay: 20 * time.Millisecond, titles: []string{"toluene", "xylene"}},
	}, 8, discard)

	products := f.Collect(context.Background(), "toluene", 10)
	require.Len(t, products, 2)
	for _, p := range products {
		require.Equal(t, "healthy", p.Supplier)
	}
}

func TestSearchCancellationClosesStream(t *testing.T) {
	f := NewFromStrategies([]supplier.Strategy{
		&fakeStrategy{name: "a", delay: 5 * time.Second, titles: []string{"never"}},
		&fakeStrategy{name: "b", delay: 5 * time.Second, titles: []string{"never"}},
	}, 8, discard)

	ctx, cancel := context.WithCancel(context.Background())
	ch := f.Search(ctx, "q", 10)

	time.AfterFunc(10*time.Millisecond, cancel)

	start := time.Now()
	var got int
	for range ch {
		got++
	}
	require.Zero(t, got)
	require.Less(t, time.Since(start), time.Second, "stream did not close promptly on cancel")
}

func TestCollectDropsIncompleteBuilders(t *testing.T) {
	incomplete := &fakeStrategy{name: "sparse", delay: time.Millisecond}
	f := NewFromStrategies([]supplier.Strategy{incomplete}, 8, discard)

	// QueryProducts with no titles yields no builders at all; add one
	// strategy whose builders lack a resolvable variant instead.
	empty := f.Collect(context.Background(), "q", 10)
	require.Empty(t, empty)

	f2 := NewFromStrategies([]supplier.Strategy{&bareStrategy{}}, 8, discard)
	require.Empty(t, f2.Collect(context.Background(), "q", 10))
}

// bareStrategy emits builders with a title but no price or quantity,
// which must never surface as products.
type bareStrategy struct{}

func (bareStrategy) Name() string { return "bare" }

func (bareStrategy) QueryProducts(ctx context.Context, query string, limit int) ([]*product.Builder, error) {
	b := product.NewBuilder("bare").SetBasicInfo("thing", "https://bare.example/p/1", "bare")
	return []*product.Builder{b}, nil
}

func (bareStrategy) GetProductData(ctx context.Context, b *product.Builder) error { return nil }

func TestDetailUnknownSupplier(t *testing.T) {
	f := NewFromStrategies([]supplier.Strategy{&bareStrategy{}}, 8, discard)
	_, err := f.Detail(context.Background(), "nope", "https://x.example")
	require.Error(t, err)
}

func TestNewRejectsUnknownSupplier(t *testing.T) {
	_, err := New([]string{"no-such-shop"}, supplier.Deps{}, 4, discard)
	require.Error(t, err)
}
