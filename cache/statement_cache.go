package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultSize = 512

// StatementCache is a bounded LRU of prepared statement values keyed by
// fingerprint.
type StatementCache[V any] struct {
	cache *lru.Cache[uint64, V]
	mu    sync.Mutex
}

// NewStatementCache creates a cache holding up to size entries. A size of
// zero or less falls back to DefaultSize. onEvict, when not nil, is called for
// every entry that leaves the cache.
func NewStatementCache[V any](size int, onEvict func(key uint64, value V)) *StatementCache[V] {
	if size <= 0 {
		size = DefaultSize
	}

	var cache *lru.Cache[uint64, V]
	if onEvict != nil {
		cache, _ = lru.NewWithEvict(size, onEvict)
	} else {
		cache, _ = lru.New[uint64, V](size)
	}

	return &StatementCache[V]{
		cache: cache,
	}
}

func (s *StatementCache[V]) Get(key uint64) (V, bool) {
	return s.cache.Get(key)
}

func (s *StatementCache[V]) Set(key uint64, value V) {
	s.cache.Add(key, value)
}

// GetOrPrepare returns the cached value for key, calling prepare at most once
// per missing key. Errors from prepare are not cached.
func (s *StatementCache[V]) GetOrPrepare(key uint64, prepare func() (V, error)) (V, error) {
	// Fast path: lru is safe for concurrent readers
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring the lock
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}

	v, err := prepare()
	if err != nil {
		var zero V
		return zero, err
	}

	s.cache.Add(key, v)
	return v, nil
}

func (s *StatementCache[V]) Len() int {
	return s.cache.Len()
}

// Purge drops every entry, running the eviction callback for each.
func (s *StatementCache[V]) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge()
}
