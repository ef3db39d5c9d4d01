package utils

import (
	"os"
	"sync"
	"time"
)

// stamp identifies the state of a file when a value derived from it was
// stored.
type stamp struct {
	modTime time.Time
	size    int64
}

func stampOf(path string) (stamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}, err
	}
	return stamp{modTime: info.ModTime(), size: info.Size()}, nil
}

type cacheEntry[V any] struct {
	value V
	stamp stamp
}

// Cache holds values derived from files, keyed by path. An entry is valid
// while its file keeps the modification time and size it had when stored.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[V]
}

// NewCache creates an empty cache
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]cacheEntry[V])}
}

// Peek returns the value stored for path without looking at the file.
func (c *Cache[V]) Peek(path string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path]
	return e.value, ok
}

// Get returns the value stored for path if the file is unchanged. A stale
// entry is evicted.
func (c *Cache[V]) Get(path string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false
	}

	if current, err := stampOf(path); err == nil && current.modTime.Equal(e.stamp.modTime) && current.size == e.stamp.size {
		return e.value, true
	}

	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
	var zero V
	return zero, false
}

// Put stores value for path, stamped with the file's current state. When
// the file cannot be stat'ed the entry is still stored, unstamped, and the
// error returned: Peek sees it, Get treats it as stale.
func (c *Cache[V]) Put(path string, value V) error {
	s, err := stampOf(path)
	c.mu.Lock()
	c.entries[path] = cacheEntry[V]{value: value, stamp: s}
	c.mu.Unlock()
	return err
}

// Len returns the number of entries, stale ones included.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
