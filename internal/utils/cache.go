package utils

import (
	"os"
	"sync"
	"time"
)

// cacheItem remembers the file state a cached value was derived from
type cacheItem[T any] struct {
	value   T
	modTime time.Time
	size    int64
}

// FileCache maps file paths to values derived from their contents. An entry
// is dropped as soon as the file's modification time or size changes.
type FileCache[V any] struct {
	items map[string]*cacheItem[V]
	mutex sync.RWMutex
}

// NewFileCache creates an empty cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{items: make(map[string]*cacheItem[V])}
}

// Get returns the value cached for path if the file is unchanged
func (c *FileCache[V]) Get(path string) (V, bool) {
	var zero V

	c.mutex.RLock()
	item, exists := c.items[path]
	c.mutex.RUnlock()
	if !exists {
		return zero, false
	}

	stat, err := os.Stat(path)
	if err == nil && stat.ModTime().Equal(item.modTime) && stat.Size() == item.size {
		return item.value, true
	}

	c.Delete(path)
	return zero, false
}

// Set caches value for path together with the file's current state
func (c *FileCache[V]) Set(path string, value V) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items[path] = &cacheItem[V]{value: value, modTime: stat.ModTime(), size: stat.Size()}
	return nil
}

// Delete removes path from the cache
func (c *FileCache[V]) Delete(path string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, path)
}

// Size returns the number of cached entries
func (c *FileCache[V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}
