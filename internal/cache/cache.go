package cache

import (
	"container/list"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/imgview/imgview/internal/memsize"
)

// ErrKeyNotFound is returned by Get when the key is absent and no default
// factory is configured.
var ErrKeyNotFound = errors.New("cache: key not found")

// Cache is a mapping with access-order tracking and an approximate-memory
// eviction budget. Entries are promoted to the most-recently-used position on
// every insert and hit; when the estimated total size exceeds the budget the
// least-recently-used entries are evicted, except that the sole remaining
// entry is never evicted. Size-based rather than count-based eviction suits
// values whose footprints vary by orders of magnitude, like a 2-frame icon
// next to a 500-frame gif.
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	maxSize   int64
	order     *list.List // front = LRU, back = MRU
	items     map[K]*list.Element
	estimator *memsize.Estimator
	factory   func() V
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// New creates a cache with the given byte budget. factory, when non-nil, is
// used by Get to construct and insert a value for a missing key.
func New[K comparable, V any](maxSize int64, factory func() V) *Cache[K, V] {
	return &Cache[K, V]{
		maxSize:   maxSize,
		order:     list.New(),
		items:     make(map[K]*list.Element),
		estimator: memsize.New(),
		factory:   factory,
	}
}

// Set inserts or overwrites the value for key, moves it to the MRU position
// and culls. Unrelated entries may be evicted as a side effect.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
	c.cull()
}

// Get returns the value for key, promoting it to the MRU position. A hit can
// evict other entries, since promoting re-runs the cull. On a miss the
// default factory is consulted; without one, ErrKeyNotFound is returned.
func (c *Cache[K, V]) Get(key K) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToBack(elem)
		c.cull()
		return elem.Value.(*entry[K, V]).value, nil
	}

	if c.factory == nil {
		var zero V
		return zero, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}

	value := c.factory()
	c.set(key, value)
	c.cull()
	return value, nil
}

// Update bulk-merges entries, then culls once.
func (c *Cache[K, V]) Update(m map[K]V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, value := range m {
		c.set(key, value)
	}
	c.cull()
}

// Clear drops all entries unconditionally.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[K]*list.Element)
}

// Len returns the number of entries currently held.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Contains reports whether key is present without promoting it.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// EstimatedSize returns the current approximate total footprint in bytes.
func (c *Cache[K, V]) EstimatedSize() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalSize()
}

// set inserts or overwrites without culling. Caller holds the lock.
func (c *Cache[K, V]) set(key K, value V) {
	if elem, ok := c.items[key]; ok {
		elem.Value.(*entry[K, V]).value = value
		c.order.MoveToBack(elem)
		return
	}
	c.items[key] = c.order.PushBack(&entry[K, V]{key: key, value: value})
}

// cull evicts LRU entries while the estimated total exceeds the budget and
// more than one entry remains. Entries are re-estimated on every pass because
// cached values grow while their load pipelines run. Caller holds the lock.
func (c *Cache[K, V]) cull() {
	for c.order.Len() > 1 && c.totalSize() > c.maxSize {
		oldest := c.order.Front()
		ent := oldest.Value.(*entry[K, V])
		c.order.Remove(oldest)
		delete(c.items, ent.key)
		logrus.WithFields(logrus.Fields{
			"key":     fmt.Sprintf("%v", ent.key),
			"entries": c.order.Len(),
		}).Debug("cache: evicted LRU entry")
	}
}

// totalSize estimates the footprint of all entries. Caller holds the lock.
func (c *Cache[K, V]) totalSize() int64 {
	var total int64
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		total += c.estimator.Estimate(elem.Value.(*entry[K, V]).value)
	}
	return total
}
