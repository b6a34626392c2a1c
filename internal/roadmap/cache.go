package roadmap

import (
	"sync"
	"time"

	"github.com/EasterCompany/dex-sprint-service/types"
)

// Cache holds the last decoded roadmap keyed by the source file's
// modification time.
type Cache struct {
	mu      sync.RWMutex
	modTime time.Time
	value   *types.Roadmap
}

// Get returns the cached roadmap when it was decoded from a file with
// the same modification time.
func (c *Cache) Get(modTime time.Time) (*types.Roadmap, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.value == nil || !c.modTime.Equal(modTime) {
		return nil, false
	}
	return c.value, true
}

func (c *Cache) Put(modTime time.Time, value *types.Roadmap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modTime = modTime
	c.value = value
}

// Invalidate forces the next Get to miss.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = nil
	c.modTime = time.Time{}
}
