package services

import "sync"

// boundedCache is a concurrency-safe map with oldest-first eviction
// once it exceeds its size bound. Insertion order approximates age;
// overwriting a key refreshes its position.
type boundedCache[V any] struct {
	mu      sync.Mutex
	entries map[string]V
	order   []string
	max     int
}

// newBoundedCache creates a cache holding at most max entries.
func newBoundedCache[V any](max int) *boundedCache[V] {
	return &boundedCache[V]{
		entries: make(map[string]V),
		max:     max,
	}
}

// get returns the cached value for key, if present.
func (c *boundedCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// put stores a value, evicting the oldest entry when full.
func (c *boundedCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		for i, k := range c.order {
			if k == key {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
	c.entries[key] = value
	c.order = append(c.order, key)
	for len(c.order) > c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// clear drops all entries.
func (c *boundedCache[V]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]V)
	c.order = nil
}

// size returns the number of cached entries.
func (c *boundedCache[V]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
