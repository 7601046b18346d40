package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// FormatVersion is bumped whenever the persisted entry layout changes.
// Entries written by another version are treated as misses.
const FormatVersion = 2

// DefaultCapacity bounds each cache instance.
const DefaultCapacity = 100

// DefaultMaxAge is the staleness window. Staleness controls validity;
// LRU eviction controls capacity. The two are orthogonal.
const DefaultMaxAge = 24 * time.Hour

// Metadata describes a cached entry.
type Metadata struct {
	CachedAt    time.Time `json:"cached_at"`
	Version     int       `json:"version"`
	Query       string    `json:"query,omitempty"`
	Supplier    string    `json:"supplier,omitempty"`
	ResultCount int       `json:"result_count,omitempty"`
}

// Entry is a cached payload plus its metadata.
type Entry struct {
	Data json.RawMessage `json:"data"`
	Meta Metadata        `json:"metadata"`
}

type persistedEntry struct {
	Key   string `json:"key"`
	Entry Entry  `json:"entry"`
}

// persistedState is the single document written to the backing store,
// entries ordered most- to least-recently-used so recency survives a
// restart.
type persistedState struct {
	Version int              `json:"version"`
	Entries []persistedEntry `json:"entries"`
}

// Cache is a bounded, persisted accelerator: an LRU index whose state
// is mirrored into a Store after every mutation. It is best-effort,
// never a source of truth. All mutating operations are serialized by
// an internal mutex so concurrent read-modify-write cycles against the
// backing store cannot lose updates.
type Cache struct {
	name   string
	store  Store
	maxAge time.Duration
	log    *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	lru    *LRU[string, Entry]
	loaded bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxAge overrides the staleness window.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) { c.maxAge = d }
}

// WithClock injects a clock, for staleness tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// New creates a named cache of the given capacity over store. State is
// hydrated lazily on first use; corrupt or absent persisted state
// falls back silently to an empty cache.
func New(name string, capacity int, store Store, opts ...Option) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{
		name:   name,
		store:  store,
		maxAge: DefaultMaxAge,
		log:    slog.Default(),
		now:    time.Now,
		lru:    NewLRU[string, Entry](capacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) storageKey() string { return "cache:" + c.name }

// ensureLoaded hydrates the LRU from the persisted store once.
// Callers hold c.mu.
func (c *Cache) ensureLoaded(ctx context.Context) {
	if c.loaded {
		return
	}
	c.loaded = true

	if c.store == nil {
		return
	}
	got, err := c.store.Get(ctx, []string{c.storageKey()})
	if err != nil {
		c.log.Warn("cache load failed, starting cold", "cache", c.name, "error", err)
		return
	}
	raw, ok := got[c.storageKey()]
	if !ok {
		return
	}

	var state persistedState
	if err := json.Unmarshal(raw, &state); err != nil {
		c.log.Warn("persisted cache corrupt, starting cold", "cache", c.name, "error", err)
		return
	}
	if state.Version != FormatVersion {
		c.log.Debug("persisted cache from another format version, starting cold",
			"cache", c.name, "version", state.Version)
		return
	}

	// Insert in reverse so the first persisted entry ends up MRU.
	for i := len(state.Entries) - 1; i >= 0; i-- {
		pe := state.Entries[i]
		c.lru.Put(pe.Key, pe.Entry)
	}
}

// persist mirrors the LRU into the store. Callers hold c.mu.
func (c *Cache) persist(ctx context.Context) {
	if c.store == nil {
		return
	}
	state := persistedState{Version: FormatVersion}
	for _, key := range c.lru.Keys() {
		entry, _ := c.lru.Peek(key)
		state.Entries = append(state.Entries, persistedEntry{Key: key, Entry: entry})
	}
	raw, err := json.Marshal(state)
	if err != nil {
		c.log.Warn("cache state encode failed", "cache", c.name, "error", err)
		return
	}
	if err := c.store.Set(ctx, map[string][]byte{c.storageKey(): raw}); err != nil {
		c.log.Warn("cache persist failed", "cache", c.name, "error", err)
	}
}

func (c *Cache) stale(e Entry) bool {
	if e.Meta.Version != FormatVersion {
		return true
	}
	return c.now().Sub(e.Meta.CachedAt) > c.maxAge
}

// Get returns the entry for key. Entries failing the version or
// max-age check are treated as absent and dropped, forcing a re-fetch.
func (c *Cache) Get(ctx context.Context, key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	e, ok := c.lru.Get(key)
	if !ok {
		return Entry{}, false
	}
	if c.stale(e) {
		c.lru.Remove(key)
		c.persist(ctx)
		return Entry{}, false
	}
	return e, true
}

// GetJSON unmarshals the cached payload for key into v.
func (c *Cache) GetJSON(ctx context.Context, key string, v any) (Metadata, bool) {
	e, ok := c.Get(ctx, key)
	if !ok {
		return Metadata{}, false
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		c.log.Warn("cached payload corrupt, dropping", "cache", c.name, "key", key, "error", err)
		c.mu.Lock()
		c.lru.Remove(key)
		c.persist(ctx)
		c.mu.Unlock()
		return Metadata{}, false
	}
	return e.Meta, true
}

// Put inserts or updates key, evicting the least-recently-used entry
// beyond capacity, and mirrors the new state into the backing store.
func (c *Cache) Put(ctx context.Context, key string, data json.RawMessage, meta Metadata) {
	meta.CachedAt = c.now()
	meta.Version = FormatVersion

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)
	c.lru.Put(key, Entry{Data: data, Meta: meta})
	c.persist(ctx)
}

// PutJSON marshals v and stores it under key.
func (c *Cache) PutJSON(ctx context.Context, key string, v any, meta Metadata) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache payload: %w", err)
	}
	c.Put(ctx, key, data, meta)
	return nil
}

// Len returns the number of live entries.
func (c *Cache) Len(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)
	return c.lru.Len()
}

// Clear empties the cache and the persisted mirror.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = true
	capHint := c.lru.capacity
	c.lru = NewLRU[string, Entry](capHint)
	if c.store != nil {
		if err := c.store.Remove(ctx, []string{c.storageKey()}); err != nil {
			c.log.Warn("cache clear failed", "cache", c.name, "error", err)
		}
	}
}
