// internal/cache/lru.go
//
// Bounded LRU used by the view engine.  Keys are "component/template" lookup
// strings and values are parsed *template.Template sets, so the working set
// is small (a few entries per page type) and an eviction just forces a
// re-parse on the next render.
package cache

import "container/list"

// LRU evicts the least-recently-used entry once capacity is exceeded.  Keys
// must be comparable.  Not safe for concurrent use; the view engine guards
// it with its own mutex.
type LRU struct {
	cap   int
	order *list.List
	index map[any]*list.Element
}

type entry struct {
	key any
	val any
}

// New returns an empty LRU holding at most capacity entries.  Panics on
// capacity < 1.
func New(capacity int) *LRU {
	if capacity < 1 {
		panic("cache: capacity must be at least 1")
	}
	return &LRU{
		cap:   capacity,
		order: list.New(),
		index: make(map[any]*list.Element, capacity),
	}
}

// Get returns the cached value and marks it most recently used.
func (c *LRU) Get(key any) (val any, ok bool) {
	ele, hit := c.index[key]
	if !hit {
		return nil, false
	}
	c.order.MoveToFront(ele)
	return ele.Value.(entry).val, true
}

// Add inserts or replaces the value for key, evicting the oldest entry when
// the cache is full.
func (c *LRU) Add(key, val any) {
	if ele, hit := c.index[key]; hit {
		ele.Value = entry{key, val}
		c.order.MoveToFront(ele)
		return
	}
	c.index[key] = c.order.PushFront(entry{key, val})
	if c.order.Len() > c.cap {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.index, oldest.Value.(entry).key)
	}
}

// Len reports the number of cached entries.
func (c *LRU) Len() int { return c.order.Len() }
