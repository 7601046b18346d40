package cache

// node is a doubly-linked list entry. head is most-recently-used,
// tail least-recently-used.
type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

// LRU is a bounded map with least-recently-used eviction. Every access
// (Get or Put) relinks the touched node to the head. Not safe for
// concurrent use; the owning Cache serializes access.
type LRU[K comparable, V any] struct {
	capacity int
	index    map[K]*node[K, V]
	head     *node[K, V]
	tail     *node[K, V]
}

// NewLRU creates an LRU with the given capacity. Capacity below 1 is
// clamped to 1.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU[K, V]{
		capacity: capacity,
		index:    make(map[K]*node[K, V], capacity),
	}
}

// Get returns the value for key, promoting it to most-recently-used.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	n, ok := l.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	l.moveToHead(n)
	return n.value, true
}

// Peek returns the value without touching recency.
func (l *LRU[K, V]) Peek(key K) (V, bool) {
	n, ok := l.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Put inserts or updates key, promoting it to most-recently-used, and
// evicts the least-recently-used entry when over capacity. It returns
// the evicted key, if any.
func (l *LRU[K, V]) Put(key K, value V) (K, bool) {
	var evicted K
	if n, ok := l.index[key]; ok {
		n.value = value
		l.moveToHead(n)
		return evicted, false
	}

	n := &node[K, V]{key: key, value: value}
	l.index[key] = n
	l.pushHead(n)

	if len(l.index) > l.capacity {
		lru := l.tail
		l.unlink(lru)
		delete(l.index, lru.key)
		return lru.key, true
	}
	return evicted, false
}

// Remove deletes key if present.
func (l *LRU[K, V]) Remove(key K) bool {
	n, ok := l.index[key]
	if !ok {
		return false
	}
	l.unlink(n)
	delete(l.index, key)
	return true
}

// Len returns the number of entries.
func (l *LRU[K, V]) Len() int { return len(l.index) }

// Keys returns all keys from most- to least-recently-used.
func (l *LRU[K, V]) Keys() []K {
	keys := make([]K, 0, len(l.index))
	for n := l.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

func (l *LRU[K, V]) pushHead(n *node[K, V]) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
}

func (l *LRU[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

func (l *LRU[K, V]) moveToHead(n *node[K, V]) {
	if l.head == n {
		return
	}
	l.unlink(n)
	l.pushHead(n)
}
