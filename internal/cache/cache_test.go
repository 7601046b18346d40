package cache

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCachePutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New("query", 10, NewMemoryStore())

	meta := Metadata{Query: "toluene", Supplier: "labstock", ResultCount: 2}
	require.NoError(t, c.PutJSON(ctx, "k1", []string{"a", "b"}, meta))

	var got []string
	m, ok := c.GetJSON(ctx, "k1", &got)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, got)
	require.Equal(t, "toluene", m.Query)
	require.Equal(t, FormatVersion, m.Version)
	require.False(t, m.CachedAt.IsZero())
}

func TestCacheVersionMismatchIsMiss(t *testing.T) {
	ctx := context.Background()
	c := New("query", 10, nil)

	c.Put(ctx, "k", json.RawMessage(`{}`), Metadata{})
	// Forge an entry written by an older format version.
	c.mu.Lock()
	e, _ := c.lru.Peek("k")
	e.Meta.Version = FormatVersion - 1
	c.lru.Put("k", e)
	c.mu.Unlock()

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatalf("entry with stale format version served as a hit")
	}
}

func TestCacheMaxAgeIsMiss(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	clock := func() time.Time { return now }
	c := New("query", 10, nil, WithClock(clock))

	c.Put(ctx, "k", json.RawMessage(`{}`), Metadata{})
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatalf("fresh entry missed")
	}

	now = now.Add(DefaultMaxAge + time.Minute)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatalf("entry older than max age served as a hit")
	}
	if c.Len(ctx) != 0 {
		t.Fatalf("stale entry not dropped")
	}
}

func TestCacheCapacityEviction(t *testing.T) {
	ctx := context.Background()
	c := New("query", 3, nil)

	for _, k := range []string{"a", "b", "c", "d"} {
		c.Put(ctx, k, json.RawMessage(`1`), Metadata{})
	}
	require.Equal(t, 3, c.Len(ctx))
	_, ok := c.Get(ctx, "a")
	require.False(t, ok, "least recently used entry survived over-capacity put")
}

func TestCachePersistenceAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first := New("detail", 10, store)
	require.NoError(t, first.PutJSON(ctx, "k", map[string]int{"n": 7}, Metadata{Supplier: "labstock"}))

	second := New("detail", 10, store)
	var got map[string]int
	m, ok := second.GetJSON(ctx, "k", &got)
	require.True(t, ok, "persisted state not rehydrated")
	require.Equal(t, 7, got["n"])
	require.Equal(t, "labstock", m.Supplier)
}

func TestCacheCorruptPersistedStateFallsBackEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, map[string][]byte{"cache:query": []byte("{not json")}))

	c := New("query", 10, store)
	if _, ok := c.Get(ctx, "anything"); ok {
		t.Fatalf("corrupt state produced a hit")
	}
	// The cache must stay usable after the cold start.
	c.Put(ctx, "k", json.RawMessage(`1`), Metadata{})
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatalf("cache unusable after corrupt load")
	}
}

func TestCacheFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.json")

	c := New("query", 10, NewFileStore(path))
	require.NoError(t, c.PutJSON(ctx, "k", "hello", Metadata{}))

	c2 := New("query", 10, NewFileStore(path))
	var got string
	_, ok := c2.GetJSON(ctx, "k", &got)
	require.True(t, ok)
	require.Equal(t, "hello", got)
}

func TestCacheConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	c := New("query", 200, NewMemoryStore())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n))
			c.Put(ctx, key, json.RawMessage(`1`), Metadata{})
		}(i)
	}
	wg.Wait()

	require.Equal(t, 20, c.Len(ctx), "concurrent puts lost updates")
}
