package fetch

import (
	"sync"
	"time"
)

// cacheEntry holds fetched document bytes keyed by exact URL.
type cacheEntry struct {
	key       string
	bytes     []byte
	fetchedAt time.Time

	prev, next *cacheEntry
}

// lruCache is a thread-safe LRU cache over fetched documents. Capacity is a
// document count; the least recently used entry is evicted on overflow.
type lruCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*cacheEntry
	head     *cacheEntry // most recently used
	tail     *cacheEntry // least recently used
	hits     int64
	misses   int64
}

func newLRUCache(capacity int) *lruCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	c := &lruCache{
		capacity: capacity,
		items:    make(map[string]*cacheEntry),
		head:     &cacheEntry{},
		tail:     &cacheEntry{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

func (c *lruCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.items[key]; ok {
		c.moveToFront(node)
		c.hits++
		return node.bytes, true
	}
	c.misses++
	return nil, false
}

func (c *lruCache) put(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.items[key]; ok {
		node.bytes = data
		node.fetchedAt = time.Now()
		c.moveToFront(node)
		return
	}

	node := &cacheEntry{key: key, bytes: data, fetchedAt: time.Now()}
	c.addToFront(node)
	c.items[key] = node

	if len(c.items) > c.capacity {
		c.evictLRU()
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *lruCache) moveToFront(node *cacheEntry) {
	c.unlink(node)
	c.addToFront(node)
}

func (c *lruCache) addToFront(node *cacheEntry) {
	node.prev = c.head
	node.next = c.head.next
	c.head.next.prev = node
	c.head.next = node
}

func (c *lruCache) unlink(node *cacheEntry) {
	node.prev.next = node.next
	node.next.prev = node.prev
}

func (c *lruCache) evictLRU() {
	lru := c.tail.prev
	if lru == c.head {
		return
	}
	c.unlink(lru)
	delete(c.items, lru.key)
}
