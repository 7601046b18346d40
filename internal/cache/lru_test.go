package cache

import "testing"

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	l := NewLRU[string, int](3)
	l.Put("a", 1)
	l.Put("b", 2)
	l.Put("c", 3)

	evictedKey, evicted := l.Put("d", 4)
	if !evicted || evictedKey != "a" {
		t.Fatalf("Put(d) evicted %q/%v, want a/true", evictedKey, evicted)
	}
	if _, ok := l.Get("a"); ok {
		t.Errorf("evicted key still present")
	}
	if l.Len() != 3 {
		t.Errorf("Len() = %d, want 3", l.Len())
	}
}

func TestLRUGetPromotes(t *testing.T) {
	l := NewLRU[string, int](3)
	l.Put("a", 1)
	l.Put("b", 2)
	l.Put("c", 3)

	// Touch "a" so "b" becomes least recently used.
	if v, ok := l.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %v, %v", v, ok)
	}

	evictedKey, evicted := l.Put("d", 4)
	if !evicted || evictedKey != "b" {
		t.Fatalf("Put(d) evicted %q, want b", evictedKey)
	}
	if _, ok := l.Get("a"); !ok {
		t.Errorf("promoted key was evicted")
	}
}

func TestLRUPutUpdatesAndPromotes(t *testing.T) {
	l := NewLRU[string, int](2)
	l.Put("a", 1)
	l.Put("b", 2)
	l.Put("a", 10)

	if evictedKey, evicted := l.Put("c", 3); !evicted || evictedKey != "b" {
		t.Fatalf("expected b evicted, got %q/%v", evictedKey, evicted)
	}
	if v, _ := l.Get("a"); v != 10 {
		t.Errorf("update lost: Get(a) = %v", v)
	}
}

func TestLRUKeysOrder(t *testing.T) {
	l := NewLRU[string, int](3)
	l.Put("a", 1)
	l.Put("b", 2)
	l.Put("c", 3)
	l.Get("a")

	got := l.Keys()
	want := []string{"a", "c", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}
}

func TestLRURemove(t *testing.T) {
	l := NewLRU[string, int](2)
	l.Put("a", 1)
	if !l.Remove("a") {
		t.Fatalf("Remove(a) = false")
	}
	if l.Remove("a") {
		t.Fatalf("double Remove(a) = true")
	}
	if l.Len() != 0 {
		t.Fatalf("Len() = %d after remove", l.Len())
	}
	// List pointers must survive remove of head/tail.
	l.Put("b", 2)
	l.Put("c", 3)
	l.Remove("b")
	l.Put("d", 4)
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
}
