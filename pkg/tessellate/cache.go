package tessellate

import (
	"sync"

	"github.com/chazu/lignin-csg/pkg/kernel"
	"github.com/chazu/lignin-csg/pkg/scene"
)

// cacheKey identifies a solid by the kernel that built it and the content
// hash of the node subtree it came from. Two nodes with equal hashes
// describe the same world-space geometry.
type cacheKey struct {
	kernel string
	hash   scene.ContentHash
}

// Cache memoises built solids across tessellation runs, so re-evaluating
// a script only rebuilds the subtrees that changed. A Cache is safe for
// concurrent use. Kernel solids are immutable, so cached values are shared
// without copying.
type Cache struct {
	mu     sync.Mutex
	solids map[cacheKey]kernel.Solid
	hits   int
	misses int
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{solids: make(map[cacheKey]kernel.Solid)}
}

// Stats returns the number of lookups that hit and missed since the last
// Reset.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Len returns the number of cached solids.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.solids)
}

// Reset drops every cached solid and zeroes the counters.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.solids = make(map[cacheKey]kernel.Solid)
	c.hits, c.misses = 0, 0
}

// get is a no-op on a nil cache.
func (c *Cache) get(key cacheKey) (kernel.Solid, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.solids[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return s, ok
}

func (c *Cache) put(key cacheKey, s kernel.Solid) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.solids[key] = s
}
