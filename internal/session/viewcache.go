// Package session holds per-visitor state: the view cache that keeps the map
// from being rebuilt on every page refresh, and the store that scopes those
// caches to browser sessions.
package session

import (
	"sync"

	"github.com/couchcryptid/nyc-parking-dashboard/internal/render"
)

// Builder produces an artifact on a cache miss.
type Builder func() (render.Artifact, error)

// ViewCache holds built artifacts for one session under named slots.
// Slots are never evicted; the cache lives exactly as long as its session.
type ViewCache struct {
	mu    sync.Mutex
	slots map[string]render.Artifact
}

// NewViewCache returns an empty cache.
func NewViewCache() *ViewCache {
	return &ViewCache{slots: make(map[string]render.Artifact)}
}

// GetOrBuild returns the artifact stored under key, invoking build only when
// the slot is empty. The boolean reports a cache hit. A failed build leaves
// the slot empty. The lock is held across build so overlapping requests on
// one session still build at most once.
func (c *ViewCache) GetOrBuild(key string, build Builder) (render.Artifact, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if a, ok := c.slots[key]; ok {
		return a, true, nil
	}

	a, err := build()
	if err != nil {
		return nil, false, err
	}
	c.slots[key] = a
	return a, false, nil
}

// Len returns the number of populated slots.
func (c *ViewCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slots)
}
